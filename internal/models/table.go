package models

import "time"

// Table: restoran masası. Silme işlemi deaktive eder, fiziksel silme yok
// (eski siparişler ve rezervasyonlar masaya referans tutar).
type Table struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"size:100;not null" json:"name"`
	Capacity int    `gorm:"not null" json:"capacity"`
	QRURL    string `gorm:"size:255" json:"qr_url"`
	IsActive bool   `gorm:"not null;default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

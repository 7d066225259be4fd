package models

import "time"

type ReservationStatus string

const (
	ReservationStatusConfirmed ReservationStatus = "confirmed"
	ReservationStatusSeated    ReservationStatus = "seated"
	ReservationStatusCancelled ReservationStatus = "cancelled"
	ReservationStatusCompleted ReservationStatus = "completed"
)

func (s ReservationStatus) Valid() bool {
	switch s {
	case ReservationStatusConfirmed, ReservationStatusSeated,
		ReservationStatusCancelled, ReservationStatusCompleted:
		return true
	}
	return false
}

// Occupies: bu durumdaki bir rezervasyon masayı işgal ediyor sayılır ve
// çakışma kontrolüne girer.
func (s ReservationStatus) Occupies() bool {
	return s == ReservationStatusConfirmed || s == ReservationStatusSeated
}

// OccupyingStatuses: çakışma sorgularında kullanılan durum kümesi.
var OccupyingStatuses = []ReservationStatus{
	ReservationStatusConfirmed,
	ReservationStatusSeated,
}

type Reservation struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	TableID uint   `gorm:"index;not null" json:"table_id"`
	Table   *Table `json:"table,omitempty"`

	// Rezervasyonu açan personel.
	UserID uint  `gorm:"index;not null" json:"user_id"`
	User   *User `json:"user,omitempty"`

	CustomerName  string `gorm:"size:100;not null" json:"customer_name"`
	CustomerPhone string `gorm:"size:50;not null" json:"customer_phone"`
	GuestCount    int    `gorm:"not null" json:"guest_count"`

	// [ReservedFrom, ReservedTo) yarı açık aralık; uç uca değen
	// rezervasyonlar çakışmaz.
	ReservedFrom time.Time `gorm:"index;not null" json:"reserved_from"`
	ReservedTo   time.Time `gorm:"not null" json:"reserved_to"`

	Status ReservationStatus `gorm:"size:20;not null;default:confirmed;index" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

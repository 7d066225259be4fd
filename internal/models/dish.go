package models

import "time"

type DishCategory struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:100;not null;unique" json:"name"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Dishes []Dish `gorm:"foreignKey:CategoryID" json:"dishes,omitempty"`
}

type Dish struct {
	ID         uint          `gorm:"primaryKey" json:"id"`
	CategoryID uint          `gorm:"index;not null" json:"category_id"`
	Category   *DishCategory `json:"category,omitempty"`

	Name          string  `gorm:"size:100;not null" json:"name"`
	Ingredients   string  `gorm:"type:text" json:"ingredients"`
	Allergens     string  `gorm:"type:text" json:"allergens"`
	NutritionInfo string  `gorm:"type:text" json:"nutrition_info"`
	Price         float64 `gorm:"type:decimal(10,2);not null" json:"price"`
	ImgURL        string  `gorm:"size:255" json:"img_url"`

	IsActive  bool `gorm:"not null;default:true" json:"is_active"`
	IsStopped bool `gorm:"not null;default:false" json:"is_stopped"` // mutfakta geçici olarak stopta

	CookingTimeMin int `gorm:"not null;default:15" json:"cooking_time_min"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

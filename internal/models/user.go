package models

import "time"

type UserRole string

const (
	RoleSuperAdmin UserRole = "super_admin"
	RoleAdmin      UserRole = "admin"
	RoleWaiter     UserRole = "waiter"
	RoleChef       UserRole = "chef"
	RoleTrainee    UserRole = "trainee"
)

func (r UserRole) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleWaiter, RoleChef, RoleTrainee:
		return true
	}
	return false
}

type User struct {
	ID           uint     `gorm:"primaryKey" json:"id"`
	Email        string   `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string   `gorm:"size:255;not null" json:"-"`
	FirstName    string   `gorm:"size:100;not null" json:"first_name"`
	LastName     string   `gorm:"size:100;not null" json:"last_name"`
	Role         UserRole `gorm:"size:20;not null;default:trainee" json:"role"`
	IsActive     bool     `gorm:"not null;default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

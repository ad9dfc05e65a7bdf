package models

import (
	"time"

	"github.com/google/uuid"
)

// User is a storefront account. Passwords are stored bcrypt-hashed and never
// serialized.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"not null" json:"-"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Addresses []Address `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"addresses,omitempty"`
}

// AccountAgeDays returns the whole days elapsed since the account was
// created, as seen at the given instant.
func (u *User) AccountAgeDays(now time.Time) int {
	age := now.Sub(u.CreatedAt)
	if age < 0 {
		return 0
	}
	return int(age.Hours() / 24)
}

// Address is a saved delivery address on a user profile.
type Address struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	Type        string    `gorm:"type:varchar(20);not null" json:"type"`
	AddressLine string    `gorm:"not null" json:"address_line"`
	City        string    `json:"city"`
	Pincode     string    `json:"pincode"`
	IsDefault   bool      `json:"is_default"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// FullLine renders the address the way the risk checks and order records
// consume it: street first, comma separated.
func (a *Address) FullLine() string {
	line := a.AddressLine
	if a.City != "" {
		line += ", " + a.City
	}
	if a.Pincode != "" {
		line += ", " + a.Pincode
	}
	return line
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Phone    string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UpdateProfileRequest struct {
	Name  *string `json:"name" binding:"omitempty,min=1"`
	Phone *string `json:"phone"`
}

type AddressRequest struct {
	Type        string `json:"type" binding:"required,oneof=home work other"`
	AddressLine string `json:"address_line" binding:"required"`
	City        string `json:"city"`
	Pincode     string `json:"pincode"`
	IsDefault   bool   `json:"is_default"`
}

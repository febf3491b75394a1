package models

import "time"

// User represents an account that owns contacts.
type User struct {
	ID           string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Username     string    `json:"username" gorm:"type:varchar(100)" validate:"required,min=3,max=100"`
	Email        string    `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Password     string    `json:"-" gorm:"type:varchar(255)" validate:"required,min=6"`
	Avatar       *string   `json:"avatar" gorm:"type:varchar(255)"`
	Confirmed    bool      `json:"confirmed" gorm:"default:false"`
	RefreshToken *string   `json:"-" gorm:"type:varchar(512)"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"-"`
}

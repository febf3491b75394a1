package models

import "time"

// Contact represents a single address-book entry. Email and phone are unique
// across all users; every contact belongs to exactly one owner.
type Contact struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name        string    `json:"name" gorm:"type:varchar(50)" validate:"required,max=50"`
	Surname     string    `json:"surname" gorm:"type:varchar(50)" validate:"required,max=50"`
	Email       string    `json:"email" gorm:"uniqueIndex;type:varchar(100)" validate:"required,email,max=100"`
	Phone       string    `json:"phone" gorm:"uniqueIndex;type:varchar(15)" validate:"required,max=15"`
	Birthday    Date      `json:"birthday" validate:"required"`
	Description *string   `json:"description" gorm:"type:varchar(150)" validate:"omitempty,max=150"`
	UserID      string    `json:"user_id" gorm:"index;type:varchar(36)"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"-"`
}

package repositories

import "contactbook/internal/models"

// UserRepository defines the interface for user data access. Lookups that
// find nothing return (nil, nil), never an error.
type UserRepository interface {
	GetByEmail(email string) (*models.User, error)
	Create(user *models.User) error
	UpdateRefreshToken(user *models.User, token *string) error
	ConfirmEmail(email string) error
	UpdateAvatar(email, url string) (*models.User, error)
}

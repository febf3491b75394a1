package repositories

import (
	"errors"
	"fmt"

	"contactbook/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// GetByEmail retrieves a user by email, or nil if no such user exists.
func (r *GORMUserRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by email %s: %w", email, err)
	}
	return &user, nil
}

// Create inserts a new user. A duplicate email yields ErrDuplicate.
func (r *GORMUserRepository) Create(user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if err := r.db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// UpdateRefreshToken persists the rotating refresh token; nil clears it.
func (r *GORMUserRepository) UpdateRefreshToken(user *models.User, token *string) error {
	user.RefreshToken = token
	if err := r.db.Model(user).Update("refresh_token", token).Error; err != nil {
		return fmt.Errorf("failed to update refresh token for user %s: %w", user.ID, err)
	}
	return nil
}

// ConfirmEmail marks the user's email as confirmed.
func (r *GORMUserRepository) ConfirmEmail(email string) error {
	res := r.db.Model(&models.User{}).Where("email = ?", email).Update("confirmed", true)
	if res.Error != nil {
		return fmt.Errorf("failed to confirm email %s: %w", email, res.Error)
	}
	return nil
}

// UpdateAvatar sets the user's avatar URL and returns the updated user, or
// nil if no such user exists.
func (r *GORMUserRepository) UpdateAvatar(email, url string) (*models.User, error) {
	user, err := r.GetByEmail(email)
	if err != nil || user == nil {
		return nil, err
	}
	user.Avatar = &url
	if err := r.db.Model(user).Update("avatar", url).Error; err != nil {
		return nil, fmt.Errorf("failed to update avatar for %s: %w", email, err)
	}
	return user, nil
}

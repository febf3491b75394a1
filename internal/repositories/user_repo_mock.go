package repositories

import (
	"sync"

	"contactbook/internal/models"

	"github.com/google/uuid"
)

// MockUserRepository is an in-memory implementation of UserRepository.
type MockUserRepository struct {
	users map[string]models.User // keyed by email
	mu    sync.RWMutex
}

// NewMockUserRepository creates a new instance of MockUserRepository.
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users: make(map[string]models.User),
	}
}

// GetByEmail returns the user with the given email, or nil.
func (r *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[email]
	if !ok {
		return nil, nil
	}
	return &user, nil
}

// Create adds a new user, rejecting a duplicate email.
func (r *MockUserRepository) Create(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.Email]; ok {
		return ErrDuplicate
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	r.users[user.Email] = *user
	return nil
}

// UpdateRefreshToken stores the rotating refresh token; nil clears it.
func (r *MockUserRepository) UpdateRefreshToken(user *models.User, token *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user.RefreshToken = token
	stored, ok := r.users[user.Email]
	if ok {
		stored.RefreshToken = token
		r.users[user.Email] = stored
	}
	return nil
}

// ConfirmEmail marks the user as confirmed.
func (r *MockUserRepository) ConfirmEmail(email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[email]
	if ok {
		user.Confirmed = true
		r.users[email] = user
	}
	return nil
}

// UpdateAvatar sets the avatar URL and returns the updated user, or nil.
func (r *MockUserRepository) UpdateAvatar(email, url string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[email]
	if !ok {
		return nil, nil
	}
	user.Avatar = &url
	r.users[email] = user
	return &user, nil
}

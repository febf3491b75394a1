package repositories

import (
	"strings"
	"sync"
	"time"

	"contactbook/internal/models"

	"github.com/google/uuid"
)

// MockContactRepository is an in-memory implementation of ContactRepository.
// It enforces the same global email/phone uniqueness as the database schema.
type MockContactRepository struct {
	contacts map[string]models.Contact
	mu       sync.RWMutex
}

// NewMockContactRepository creates a new instance of MockContactRepository.
func NewMockContactRepository() *MockContactRepository {
	return &MockContactRepository{
		contacts: make(map[string]models.Contact),
	}
}

// GetAll returns a page of the user's contacts.
func (r *MockContactRepository) GetAll(userID string, skip, limit int) ([]models.Contact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	owned := r.ownedLocked(userID)
	if skip >= len(owned) {
		return []models.Contact{}, nil
	}
	end := skip + limit
	if end > len(owned) {
		end = len(owned)
	}
	return owned[skip:end], nil
}

// GetByID returns the contact if it exists and is owned by the user.
func (r *MockContactRepository) GetByID(id, userID string) (*models.Contact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	contact, ok := r.contacts[id]
	if !ok || contact.UserID != userID {
		return nil, nil
	}
	return &contact, nil
}

// SearchByName returns the user's contacts whose name contains the substring.
func (r *MockContactRepository) SearchByName(name, userID string) ([]models.Contact, error) {
	return r.search(userID, func(c models.Contact) bool { return strings.Contains(c.Name, name) })
}

// SearchBySurname returns the user's contacts whose surname contains the substring.
func (r *MockContactRepository) SearchBySurname(surname, userID string) ([]models.Contact, error) {
	return r.search(userID, func(c models.Contact) bool { return strings.Contains(c.Surname, surname) })
}

// SearchByEmail returns the user's contacts whose email contains the substring.
func (r *MockContactRepository) SearchByEmail(email, userID string) ([]models.Contact, error) {
	return r.search(userID, func(c models.Contact) bool { return strings.Contains(c.Email, email) })
}

// GetUpcomingBirthdays returns the user's contacts with a birthday in the next
// 7 calendar days starting at from.
func (r *MockContactRepository) GetUpcomingBirthdays(userID string, from time.Time) ([]models.Contact, error) {
	window := upcomingWindow(from)
	return r.search(userID, func(c models.Contact) bool { return birthdayInWindow(&c, window) })
}

// Create adds a new contact, rejecting duplicate email or phone.
func (r *MockContactRepository) Create(contact *models.Contact) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.conflictsLocked(contact.Email, contact.Phone, "") {
		return ErrDuplicate
	}
	if contact.ID == "" {
		contact.ID = uuid.New().String()
	}
	r.contacts[contact.ID] = *contact
	return nil
}

// Update overwrites all fields of an owned contact, or returns nil if absent.
func (r *MockContactRepository) Update(id, userID string, fields *models.Contact) (*models.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	contact, ok := r.contacts[id]
	if !ok || contact.UserID != userID {
		return nil, nil
	}
	if r.conflictsLocked(fields.Email, fields.Phone, id) {
		return nil, ErrDuplicate
	}

	contact.Name = fields.Name
	contact.Surname = fields.Surname
	contact.Email = fields.Email
	contact.Phone = fields.Phone
	contact.Birthday = fields.Birthday
	contact.Description = fields.Description
	r.contacts[id] = contact
	return &contact, nil
}

// Delete removes an owned contact, or returns nil if absent.
func (r *MockContactRepository) Delete(id, userID string) (*models.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	contact, ok := r.contacts[id]
	if !ok || contact.UserID != userID {
		return nil, nil
	}
	delete(r.contacts, id)
	return &contact, nil
}

func (r *MockContactRepository) search(userID string, match func(models.Contact) bool) ([]models.Contact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]models.Contact, 0)
	for _, contact := range r.ownedLocked(userID) {
		if match(contact) {
			matched = append(matched, contact)
		}
	}
	return matched, nil
}

func (r *MockContactRepository) ownedLocked(userID string) []models.Contact {
	owned := make([]models.Contact, 0)
	for _, contact := range r.contacts {
		if contact.UserID == userID {
			owned = append(owned, contact)
		}
	}
	return owned
}

// conflictsLocked reports whether email or phone is already taken by a
// different contact, regardless of owner.
func (r *MockContactRepository) conflictsLocked(email, phone, excludeID string) bool {
	for id, contact := range r.contacts {
		if id == excludeID {
			continue
		}
		if contact.Email == email || contact.Phone == phone {
			return true
		}
	}
	return false
}

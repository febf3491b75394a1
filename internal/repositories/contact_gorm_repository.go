package repositories

import (
	"errors"
	"fmt"
	"time"

	"contactbook/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMContactRepository is a GORM implementation of ContactRepository.
type GORMContactRepository struct {
	db *gorm.DB
}

// NewGORMContactRepository creates a new instance of GORMContactRepository.
func NewGORMContactRepository(db *gorm.DB) *GORMContactRepository {
	return &GORMContactRepository{
		db: db,
	}
}

// GetAll retrieves a page of the user's contacts in store-default order.
func (r *GORMContactRepository) GetAll(userID string, skip, limit int) ([]models.Contact, error) {
	var contacts []models.Contact
	if err := r.db.Where("user_id = ?", userID).Offset(skip).Limit(limit).Find(&contacts).Error; err != nil {
		return nil, fmt.Errorf("failed to get contacts: %w", err)
	}
	return contacts, nil
}

// GetByID retrieves a single contact owned by the user, or nil if it does not
// exist or belongs to someone else.
func (r *GORMContactRepository) GetByID(id, userID string) (*models.Contact, error) {
	var contact models.Contact
	if err := r.db.First(&contact, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get contact by ID %s: %w", id, err)
	}
	return &contact, nil
}

// SearchByName returns the user's contacts whose name contains the substring.
func (r *GORMContactRepository) SearchByName(name, userID string) ([]models.Contact, error) {
	return r.searchByField("name", name, userID)
}

// SearchBySurname returns the user's contacts whose surname contains the substring.
func (r *GORMContactRepository) SearchBySurname(surname, userID string) ([]models.Contact, error) {
	return r.searchByField("surname", surname, userID)
}

// SearchByEmail returns the user's contacts whose email contains the substring.
func (r *GORMContactRepository) SearchByEmail(email, userID string) ([]models.Contact, error) {
	return r.searchByField("email", email, userID)
}

func (r *GORMContactRepository) searchByField(field, substring, userID string) ([]models.Contact, error) {
	var contacts []models.Contact
	query := fmt.Sprintf("%s LIKE ? AND user_id = ?", field)
	if err := r.db.Where(query, "%"+substring+"%", userID).Find(&contacts).Error; err != nil {
		return nil, fmt.Errorf("failed to search contacts by %s: %w", field, err)
	}
	return contacts, nil
}

// GetUpcomingBirthdays returns the user's contacts whose birthday falls within
// the 7 calendar days starting at from, inclusive and year-agnostic. The
// (month, day) match is done in Go so it behaves the same on Postgres and on
// the sqlite test database.
func (r *GORMContactRepository) GetUpcomingBirthdays(userID string, from time.Time) ([]models.Contact, error) {
	var contacts []models.Contact
	if err := r.db.Where("user_id = ?", userID).Find(&contacts).Error; err != nil {
		return nil, fmt.Errorf("failed to get contacts for birthday lookup: %w", err)
	}

	window := upcomingWindow(from)
	matched := make([]models.Contact, 0)
	for _, contact := range contacts {
		if birthdayInWindow(&contact, window) {
			matched = append(matched, contact)
		}
	}
	return matched, nil
}

// Create inserts a new contact. A duplicate email or phone anywhere in the
// system yields ErrDuplicate.
func (r *GORMContactRepository) Create(contact *models.Contact) error {
	if contact.ID == "" {
		contact.ID = uuid.New().String()
	}
	if err := r.db.Create(contact).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create contact: %w", err)
	}
	return nil
}

// Update overwrites all contact fields if the contact exists and is owned by
// the user; otherwise it is a no-op returning nil.
func (r *GORMContactRepository) Update(id, userID string, fields *models.Contact) (*models.Contact, error) {
	contact, err := r.GetByID(id, userID)
	if err != nil || contact == nil {
		return nil, err
	}

	contact.Name = fields.Name
	contact.Surname = fields.Surname
	contact.Email = fields.Email
	contact.Phone = fields.Phone
	contact.Birthday = fields.Birthday
	contact.Description = fields.Description

	if err := r.db.Save(contact).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("failed to update contact %s: %w", id, err)
	}
	return contact, nil
}

// Delete removes the contact if owned by the user; otherwise it is a no-op
// returning nil.
func (r *GORMContactRepository) Delete(id, userID string) (*models.Contact, error) {
	contact, err := r.GetByID(id, userID)
	if err != nil || contact == nil {
		return nil, err
	}
	if err := r.db.Delete(&models.Contact{}, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to delete contact %s: %w", id, err)
	}
	return contact, nil
}

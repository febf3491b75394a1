package services

import (
	"time"

	"contactbook/internal/models"
	"contactbook/internal/repositories"
)

// ContactService handles business logic related to contacts. Every operation
// is performed on behalf of an owner, whose ID scopes all repository calls.
type ContactService struct {
	repo repositories.ContactRepository
}

// NewContactService creates a new ContactService.
func NewContactService(repo repositories.ContactRepository) *ContactService {
	return &ContactService{
		repo: repo,
	}
}

// ListContacts retrieves a page of the owner's contacts.
func (s *ContactService) ListContacts(owner *models.User, skip, limit int) ([]models.Contact, error) {
	return s.repo.GetAll(owner.ID, skip, limit)
}

// GetContact retrieves a single owned contact, or nil if absent.
func (s *ContactService) GetContact(owner *models.User, id string) (*models.Contact, error) {
	return s.repo.GetByID(id, owner.ID)
}

// SearchByName finds the owner's contacts whose name contains the substring.
func (s *ContactService) SearchByName(owner *models.User, name string) ([]models.Contact, error) {
	return s.repo.SearchByName(name, owner.ID)
}

// SearchBySurname finds the owner's contacts whose surname contains the substring.
func (s *ContactService) SearchBySurname(owner *models.User, surname string) ([]models.Contact, error) {
	return s.repo.SearchBySurname(surname, owner.ID)
}

// SearchByEmail finds the owner's contacts whose email contains the substring.
func (s *ContactService) SearchByEmail(owner *models.User, email string) ([]models.Contact, error) {
	return s.repo.SearchByEmail(email, owner.ID)
}

// UpcomingBirthdays returns the owner's contacts whose birthday falls within
// the next 7 calendar days including today, year-agnostic.
func (s *ContactService) UpcomingBirthdays(owner *models.User) ([]models.Contact, error) {
	return s.repo.GetUpcomingBirthdays(owner.ID, time.Now())
}

// CreateContact inserts a new contact for the owner.
func (s *ContactService) CreateContact(owner *models.User, contact *models.Contact) error {
	contact.UserID = owner.ID
	return s.repo.Create(contact)
}

// UpdateContact overwrites all fields of an owned contact, or returns nil if
// the contact is absent or foreign.
func (s *ContactService) UpdateContact(owner *models.User, id string, fields *models.Contact) (*models.Contact, error) {
	return s.repo.Update(id, owner.ID, fields)
}

// DeleteContact removes an owned contact, or returns nil if absent or foreign.
func (s *ContactService) DeleteContact(owner *models.User, id string) (*models.Contact, error) {
	return s.repo.Delete(id, owner.ID)
}

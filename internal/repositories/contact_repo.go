package repositories

import (
	"time"

	"contactbook/internal/models"
)

// ContactRepository defines the interface for contact data access. Every
// operation is scoped by the owning user's ID: a contact that exists but
// belongs to someone else behaves exactly like one that does not exist.
// Lookups that find nothing return (nil, nil), never an error.
type ContactRepository interface {
	GetAll(userID string, skip, limit int) ([]models.Contact, error)
	GetByID(id, userID string) (*models.Contact, error)
	SearchByName(name, userID string) ([]models.Contact, error)
	SearchBySurname(surname, userID string) ([]models.Contact, error)
	SearchByEmail(email, userID string) ([]models.Contact, error)
	GetUpcomingBirthdays(userID string, from time.Time) ([]models.Contact, error)
	Create(contact *models.Contact) error
	Update(id, userID string, fields *models.Contact) (*models.Contact, error)
	Delete(id, userID string) (*models.Contact, error)
}

// monthDay identifies a calendar day independent of the year.
type monthDay struct {
	month time.Month
	day   int
}

// upcomingWindow returns the (month, day) pairs covered by the 7 calendar
// days starting at from, inclusive. Matching on structured pairs instead of
// concatenated day+month strings avoids collisions like (5 Jan) vs (15 Jan).
func upcomingWindow(from time.Time) map[monthDay]bool {
	window := make(map[monthDay]bool, 7)
	for i := 0; i < 7; i++ {
		day := from.AddDate(0, 0, i)
		window[monthDay{month: day.Month(), day: day.Day()}] = true
	}
	return window
}

// birthdayInWindow reports whether the contact's birthday falls on one of the
// window's (month, day) pairs, year-agnostic.
func birthdayInWindow(contact *models.Contact, window map[monthDay]bool) bool {
	return window[monthDay{month: contact.Birthday.Month(), day: contact.Birthday.Day()}]
}

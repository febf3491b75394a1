package repositories_test

import (
	"testing"
	"time"

	"contactbook/internal/models"
	"contactbook/internal/repositories"

	"github.com/stretchr/testify/assert"
)

func TestMockContactRepository_UpcomingBirthdaysWindow(t *testing.T) {
	repo := repositories.NewMockContactRepository()
	ownerID := "user-a"
	today := time.Date(2026, time.December, 29, 10, 0, 0, 0, time.UTC)

	add := func(email, phone string, birthday models.Date) {
		assert.NoError(t, repo.Create(testContact(ownerID, email, phone, birthday)))
	}

	// Dec 29 .. Jan 4 window, birth years irrelevant.
	add("today@example.com", "+380970000001", models.NewDate(1990, time.December, 29))
	add("lastday@example.com", "+380970000002", models.NewDate(1975, time.January, 4))
	add("newyear@example.com", "+380970000003", models.NewDate(2001, time.January, 1))
	add("outside@example.com", "+380970000004", models.NewDate(1990, time.January, 5))
	add("past@example.com", "+380970000005", models.NewDate(1990, time.December, 28))

	matched, err := repo.GetUpcomingBirthdays(ownerID, today)
	assert.NoError(t, err)

	emails := make([]string, 0, len(matched))
	for _, c := range matched {
		emails = append(emails, c.Email)
	}
	assert.ElementsMatch(t, []string{"today@example.com", "lastday@example.com", "newyear@example.com"}, emails)
}

func TestMockContactRepository_BirthdayPairsDoNotCollide(t *testing.T) {
	repo := repositories.NewMockContactRepository()
	ownerID := "user-a"

	// Jan 5 and Jan 15 collide when day and month are compared as
	// concatenated strings; the tuple match must keep them apart.
	assert.NoError(t, repo.Create(testContact(ownerID, "jan5@example.com", "+380970000001", models.NewDate(1990, time.January, 5))))
	assert.NoError(t, repo.Create(testContact(ownerID, "jan15@example.com", "+380970000002", models.NewDate(1990, time.January, 15))))

	// Window starting Jan 13 covers Jan 15 but not Jan 5.
	matched, err := repo.GetUpcomingBirthdays(ownerID, time.Date(2026, time.January, 13, 0, 0, 0, 0, time.UTC))
	assert.NoError(t, err)
	assert.Len(t, matched, 1)
	assert.Equal(t, "jan15@example.com", matched[0].Email)
}

func TestMockContactRepository_MatchesGORMSemantics(t *testing.T) {
	repo := repositories.NewMockContactRepository()

	contact := testContact("user-a", "mock@example.com", "+380971111111", models.NewDate(1990, time.May, 15))
	assert.NoError(t, repo.Create(contact))
	assert.NotEmpty(t, contact.ID)

	// Duplicate email conflicts regardless of owner.
	dup := testContact("user-b", "mock@example.com", "+380972222222", models.NewDate(1991, time.June, 1))
	assert.ErrorIs(t, repo.Create(dup), repositories.ErrDuplicate)

	// Foreign reads and writes behave like a missing record.
	got, err := repo.GetByID(contact.ID, "user-b")
	assert.NoError(t, err)
	assert.Nil(t, got)

	deleted, err := repo.Delete(contact.ID, "user-b")
	assert.NoError(t, err)
	assert.Nil(t, deleted)
}

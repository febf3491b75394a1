package repositories_test

import (
	"fmt"
	"testing"
	"time"

	"contactbook/internal/models"
	"contactbook/internal/repositories"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupDB opens a fresh in-memory sqlite database with the schema migrated.
// The database is named after the test so parallel tests do not share state.
func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(&models.User{}, &models.Contact{}))
	return db
}

func testContact(userID, email, phone string, birthday models.Date) *models.Contact {
	return &models.Contact{
		Name:     "Test",
		Surname:  "Contact",
		Email:    email,
		Phone:    phone,
		Birthday: birthday,
		UserID:   userID,
	}
}

func TestGORMContactRepository_CreateGetDelete(t *testing.T) {
	repo := repositories.NewGORMContactRepository(setupDB(t))

	contact := testContact("user-a", "test@example.com", "+380971234567", models.NewDate(1990, time.May, 15))
	assert.NoError(t, repo.Create(contact))
	assert.NotEmpty(t, contact.ID)

	got, err := repo.GetByID(contact.ID, "user-a")
	assert.NoError(t, err)
	assert.NotNil(t, got)
	assert.Equal(t, "Test", got.Name)
	assert.Equal(t, "Contact", got.Surname)
	assert.Equal(t, "test@example.com", got.Email)
	assert.Equal(t, "+380971234567", got.Phone)
	assert.Equal(t, "1990-05-15", got.Birthday.Format("2006-01-02"))

	deleted, err := repo.Delete(contact.ID, "user-a")
	assert.NoError(t, err)
	assert.NotNil(t, deleted)

	got, err = repo.GetByID(contact.ID, "user-a")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestGORMContactRepository_UniqueEmailAndPhone(t *testing.T) {
	repo := repositories.NewGORMContactRepository(setupDB(t))

	first := testContact("user-a", "dup@example.com", "+380971111111", models.NewDate(1990, time.May, 15))
	assert.NoError(t, repo.Create(first))

	// Same email, different owner: conflict is global.
	sameEmail := testContact("user-b", "dup@example.com", "+380972222222", models.NewDate(1991, time.June, 1))
	assert.ErrorIs(t, repo.Create(sameEmail), repositories.ErrDuplicate)

	// Same phone: also a conflict.
	samePhone := testContact("user-b", "other@example.com", "+380971111111", models.NewDate(1991, time.June, 1))
	assert.ErrorIs(t, repo.Create(samePhone), repositories.ErrDuplicate)
}

func TestGORMContactRepository_OwnerScoping(t *testing.T) {
	repo := repositories.NewGORMContactRepository(setupDB(t))

	contact := testContact("user-a", "owned@example.com", "+380971111111", models.NewDate(1990, time.May, 15))
	assert.NoError(t, repo.Create(contact))

	got, err := repo.GetByID(contact.ID, "user-b")
	assert.NoError(t, err)
	assert.Nil(t, got)

	updated, err := repo.Update(contact.ID, "user-b", testContact("user-b", "stolen@example.com", "+380972222222", contact.Birthday))
	assert.NoError(t, err)
	assert.Nil(t, updated)

	deleted, err := repo.Delete(contact.ID, "user-b")
	assert.NoError(t, err)
	assert.Nil(t, deleted)

	list, err := repo.GetAll("user-b", 0, 100)
	assert.NoError(t, err)
	assert.Empty(t, list)

	// The rightful owner still has the untouched record.
	got, err = repo.GetByID(contact.ID, "user-a")
	assert.NoError(t, err)
	assert.NotNil(t, got)
	assert.Equal(t, "owned@example.com", got.Email)
}

func TestGORMContactRepository_Pagination(t *testing.T) {
	repo := repositories.NewGORMContactRepository(setupDB(t))

	phones := []string{"+380970000001", "+380970000002", "+380970000003"}
	emails := []string{"p1@example.com", "p2@example.com", "p3@example.com"}
	for i := range phones {
		assert.NoError(t, repo.Create(testContact("user-a", emails[i], phones[i], models.NewDate(1990, time.May, 15))))
	}

	page, err := repo.GetAll("user-a", 0, 2)
	assert.NoError(t, err)
	assert.Len(t, page, 2)

	rest, err := repo.GetAll("user-a", 2, 2)
	assert.NoError(t, err)
	assert.Len(t, rest, 1)
}

func TestGORMContactRepository_Search(t *testing.T) {
	repo := repositories.NewGORMContactRepository(setupDB(t))

	anna := testContact("user-a", "anna@example.com", "+380971111111", models.NewDate(1990, time.May, 15))
	anna.Name = "Anna"
	anna.Surname = "Koval"
	assert.NoError(t, repo.Create(anna))

	joanna := testContact("user-a", "joanna@other.org", "+380972222222", models.NewDate(1985, time.March, 3))
	joanna.Name = "Joanna"
	joanna.Surname = "Shevchenko"
	assert.NoError(t, repo.Create(joanna))

	byName, err := repo.SearchByName("anna", "user-a")
	assert.NoError(t, err)
	assert.Len(t, byName, 2)

	bySurname, err := repo.SearchBySurname("Shevchenko", "user-a")
	assert.NoError(t, err)
	assert.Len(t, bySurname, 1)

	byEmail, err := repo.SearchByEmail("other.org", "user-a")
	assert.NoError(t, err)
	assert.Len(t, byEmail, 1)
	assert.Equal(t, "Joanna", byEmail[0].Name)

	none, err := repo.SearchByName("Zenobia", "user-a")
	assert.NoError(t, err)
	assert.Empty(t, none)
}

func TestGORMContactRepository_Update(t *testing.T) {
	repo := repositories.NewGORMContactRepository(setupDB(t))

	contact := testContact("user-a", "before@example.com", "+380971111111", models.NewDate(1990, time.May, 15))
	assert.NoError(t, repo.Create(contact))

	fields := testContact("user-a", "after@example.com", "+380972222222", models.NewDate(1991, time.June, 1))
	fields.Name = "Renamed"

	updated, err := repo.Update(contact.ID, "user-a", fields)
	assert.NoError(t, err)
	assert.NotNil(t, updated)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, "after@example.com", updated.Email)
	assert.Equal(t, "1991-06-01", updated.Birthday.Format("2006-01-02"))

	// Updating onto another contact's email is a conflict.
	other := testContact("user-a", "taken@example.com", "+380973333333", models.NewDate(1992, time.July, 2))
	assert.NoError(t, repo.Create(other))

	fields.Email = "taken@example.com"
	_, err = repo.Update(contact.ID, "user-a", fields)
	assert.ErrorIs(t, err, repositories.ErrDuplicate)
}

func TestGORMContactRepository_UpcomingBirthdays(t *testing.T) {
	repo := repositories.NewGORMContactRepository(setupDB(t))
	today := time.Date(2026, time.August, 23, 12, 0, 0, 0, time.UTC)

	inWindow := testContact("user-a", "soon@example.com", "+380971111111", models.NewDate(1990, time.August, 29))
	assert.NoError(t, repo.Create(inWindow))

	outOfWindow := testContact("user-a", "later@example.com", "+380972222222", models.NewDate(1990, time.August, 30))
	assert.NoError(t, repo.Create(outOfWindow))

	foreign := testContact("user-b", "foreign@example.com", "+380973333333", models.NewDate(1990, time.August, 25))
	assert.NoError(t, repo.Create(foreign))

	matched, err := repo.GetUpcomingBirthdays("user-a", today)
	assert.NoError(t, err)
	assert.Len(t, matched, 1)
	assert.Equal(t, "soon@example.com", matched[0].Email)
}

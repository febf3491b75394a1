package repositories_test

import (
	"testing"

	"contactbook/internal/models"
	"contactbook/internal/repositories"

	"github.com/stretchr/testify/assert"
)

func TestGORMUserRepository_CreateAndGetByEmail(t *testing.T) {
	repo := repositories.NewGORMUserRepository(setupDB(t))

	user := &models.User{Username: "tester", Email: "tester@example.com", Password: "hash"}
	assert.NoError(t, repo.Create(user))
	assert.NotEmpty(t, user.ID)

	got, err := repo.GetByEmail("tester@example.com")
	assert.NoError(t, err)
	assert.NotNil(t, got)
	assert.Equal(t, user.ID, got.ID)
	assert.False(t, got.Confirmed)
	assert.Nil(t, got.Avatar)

	absent, err := repo.GetByEmail("nobody@example.com")
	assert.NoError(t, err)
	assert.Nil(t, absent)

	// Email is unique.
	dup := &models.User{Username: "other", Email: "tester@example.com", Password: "hash"}
	assert.ErrorIs(t, repo.Create(dup), repositories.ErrDuplicate)
}

func TestGORMUserRepository_ConfirmEmail(t *testing.T) {
	repo := repositories.NewGORMUserRepository(setupDB(t))

	user := &models.User{Username: "confirmer", Email: "confirm@example.com", Password: "hash"}
	assert.NoError(t, repo.Create(user))
	assert.NoError(t, repo.ConfirmEmail("confirm@example.com"))

	got, err := repo.GetByEmail("confirm@example.com")
	assert.NoError(t, err)
	assert.True(t, got.Confirmed)
}

func TestGORMUserRepository_UpdateRefreshToken(t *testing.T) {
	repo := repositories.NewGORMUserRepository(setupDB(t))

	user := &models.User{Username: "rotator", Email: "rotate@example.com", Password: "hash"}
	assert.NoError(t, repo.Create(user))

	token := "refresh-token-value"
	assert.NoError(t, repo.UpdateRefreshToken(user, &token))

	got, err := repo.GetByEmail("rotate@example.com")
	assert.NoError(t, err)
	assert.NotNil(t, got.RefreshToken)
	assert.Equal(t, token, *got.RefreshToken)

	// nil clears the stored token.
	assert.NoError(t, repo.UpdateRefreshToken(user, nil))
	got, err = repo.GetByEmail("rotate@example.com")
	assert.NoError(t, err)
	assert.Nil(t, got.RefreshToken)
}

func TestGORMUserRepository_UpdateAvatar(t *testing.T) {
	repo := repositories.NewGORMUserRepository(setupDB(t))

	user := &models.User{Username: "pictured", Email: "avatar@example.com", Password: "hash"}
	assert.NoError(t, repo.Create(user))

	updated, err := repo.UpdateAvatar("avatar@example.com", "https://cdn.example.com/a.png")
	assert.NoError(t, err)
	assert.NotNil(t, updated)
	assert.Equal(t, "https://cdn.example.com/a.png", *updated.Avatar)

	absent, err := repo.UpdateAvatar("nobody@example.com", "https://cdn.example.com/b.png")
	assert.NoError(t, err)
	assert.Nil(t, absent)
}

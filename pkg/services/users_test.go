package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ada-inc/ada-engine/pkg/apperrors"
)

func TestUserStore_RegisterAndAuthenticate(t *testing.T) {
	store := NewUserStore(zap.NewNop())

	user, err := store.Register("Ana@Example.com", "Ana", "s3cret-pass")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "ana@example.com", user.Email, "emails are normalized")

	got, err := store.Authenticate("ana@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
}

func TestUserStore_DuplicateEmail(t *testing.T) {
	store := NewUserStore(zap.NewNop())

	_, err := store.Register("ana@example.com", "Ana", "s3cret-pass")
	require.NoError(t, err)

	_, err = store.Register("ANA@example.com ", "Other", "different")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUserExists)
}

func TestUserStore_WrongPassword(t *testing.T) {
	store := NewUserStore(zap.NewNop())

	_, err := store.Register("ana@example.com", "Ana", "s3cret-pass")
	require.NoError(t, err)

	_, err = store.Authenticate("ana@example.com", "wrong")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestUserStore_UnknownEmail(t *testing.T) {
	store := NewUserStore(zap.NewNop())

	_, err := store.Authenticate("nobody@example.com", "whatever")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestUserStore_EmptyCredentialsRejected(t *testing.T) {
	store := NewUserStore(zap.NewNop())

	_, err := store.Register("", "Ana", "pass")
	require.Error(t, err)

	_, err = store.Register("ana@example.com", "Ana", "")
	require.Error(t, err)
}

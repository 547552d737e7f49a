package service

import (
	"strings"
	"testing"

	"github.com/blogicum/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_RegisterAndAuthenticate(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewUserService(gdb)

	user, err := svc.Register(RegistrationInput{Username: "anna", Password: "long-password", PasswordConfirm: "long-password"})
	require.NoError(t, err)
	assert.NotEqual(t, "long-password", user.Password)

	_, err = svc.Register(RegistrationInput{Username: "anna", Password: "long-password", PasswordConfirm: "long-password"})
	assert.ErrorIs(t, err, ErrUsernameTaken)

	logged, err := svc.Authenticate("anna", "long-password")
	require.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)
	require.NotNil(t, logged.LastLogin)

	_, err = svc.Authenticate("anna", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate("nobody", "long-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUserService_RegisterValidation(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewUserService(gdb)

	tests := []struct {
		name  string
		input RegistrationInput
		want  error
	}{
		{name: "empty username", input: RegistrationInput{Password: "long-password", PasswordConfirm: "long-password"}, want: ErrUsernameInvalid},
		{name: "spaces in username", input: RegistrationInput{Username: "a b", Password: "long-password", PasswordConfirm: "long-password"}, want: ErrUsernameInvalid},
		{name: "short password", input: RegistrationInput{Username: "bob", Password: "short", PasswordConfirm: "short"}, want: ErrPasswordTooShort},
		{name: "mismatch", input: RegistrationInput{Username: "bob", Password: "long-password", PasswordConfirm: "other-password"}, want: ErrPasswordMismatch},
		{name: "long username", input: RegistrationInput{Username: strings.Repeat("a", 151), Password: "long-password", PasswordConfirm: "long-password"}, want: ErrUsernameInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(tt.input)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestUserService_UpdateProfile(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewUserService(gdb)
	user := createUser(t, gdb, "editor")

	updated, err := svc.UpdateProfile(user.ID, ProfileInput{FirstName: " Ivan ", LastName: "Petrov", Email: "ivan@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "Ivan", updated.FirstName)
	assert.Equal(t, "Ivan Petrov", updated.FullName())
	assert.Equal(t, "ivan@example.com", updated.Email)

	_, err = svc.UpdateProfile(user.ID, ProfileInput{Email: "not-an-email"})
	assert.ErrorIs(t, err, ErrEmailInvalid)

	_, err = svc.UpdateProfile(user.ID, ProfileInput{Email: "Mallory <m@example.com>"})
	assert.ErrorIs(t, err, ErrEmailInvalid)

	_, err = svc.UpdateProfile(user.ID, ProfileInput{FirstName: strings.Repeat("И", 151)})
	assert.ErrorIs(t, err, ErrNameTooLong)

	stored, err := svc.Get(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "ivan@example.com", stored.Email)

	_, err = svc.UpdateProfile(9999, ProfileInput{})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserService_RegisterNormalizesUsername(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewUserService(gdb)

	user, err := svc.Register(RegistrationInput{Username: "ａｎｎａ", Password: "long-password", PasswordConfirm: "long-password"})
	require.NoError(t, err)
	assert.Equal(t, "anna", user.Username)

	_, err = svc.Register(RegistrationInput{Username: "anna", Password: "long-password", PasswordConfirm: "long-password"})
	assert.ErrorIs(t, err, ErrUsernameTaken)

	found, err := svc.GetByUsername("ａｎｎａ")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	cyrillic, err := svc.Register(RegistrationInput{Username: "Мария", Password: "long-password", PasswordConfirm: "long-password"})
	require.NoError(t, err)
	assert.Equal(t, "Мария", cyrillic.Username)
}

func TestUserService_InsertMapsUniqueViolation(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewUserService(gdb)
	createUser(t, gdb, "racer")

	err := svc.insert(&db.User{Username: "racer", Password: "hashed"})
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestUserService_ChangePassword(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewUserService(gdb)

	user, err := svc.Register(RegistrationInput{Username: "changer", Password: "old-password", PasswordConfirm: "old-password"})
	require.NoError(t, err)

	tests := []struct {
		name  string
		input PasswordChangeInput
		want  error
	}{
		{name: "wrong current", input: PasswordChangeInput{OldPassword: "nope", NewPassword: "new-password", NewPasswordConfirm: "new-password"}, want: ErrOldPasswordIncorrect},
		{name: "short", input: PasswordChangeInput{OldPassword: "old-password", NewPassword: "short", NewPasswordConfirm: "short"}, want: ErrPasswordTooShort},
		{name: "mismatch", input: PasswordChangeInput{OldPassword: "old-password", NewPassword: "new-password", NewPasswordConfirm: "other-password"}, want: ErrPasswordMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, svc.ChangePassword(user.ID, tt.input), tt.want)
		})
	}

	_, err = svc.Authenticate("changer", "old-password")
	require.NoError(t, err, "failed changes must keep the old password")

	require.NoError(t, svc.ChangePassword(user.ID, PasswordChangeInput{
		OldPassword:        "old-password",
		NewPassword:        "new-password",
		NewPasswordConfirm: "new-password",
	}))

	_, err = svc.Authenticate("changer", "old-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Authenticate("changer", "new-password")
	assert.NoError(t, err)

	assert.ErrorIs(t, svc.ChangePassword(9999, PasswordChangeInput{}), ErrUserNotFound)
}

package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/blogicum/internal/db"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrUsernameTaken        = errors.New("username already taken")
	ErrUsernameInvalid      = errors.New("username is invalid")
	ErrPasswordTooShort     = errors.New("password is too short")
	ErrPasswordMismatch     = errors.New("passwords do not match")
	ErrInvalidCredentials   = errors.New("invalid username or password")
	ErrEmailInvalid         = errors.New("email is invalid")
	ErrNameTooLong          = errors.New("name is too long")
	ErrOldPasswordIncorrect = errors.New("current password is incorrect")
)

var (
	registrationErrors = map[string]error{
		"Username":        ErrUsernameInvalid,
		"Password":        ErrPasswordTooShort,
		"PasswordConfirm": ErrPasswordMismatch,
	}
	profileErrors = map[string]error{
		"FirstName": ErrNameTooLong,
		"LastName":  ErrNameTooLong,
		"Email":     ErrEmailInvalid,
	}
	passwordChangeErrors = map[string]error{
		"NewPassword":        ErrPasswordTooShort,
		"NewPasswordConfirm": ErrPasswordMismatch,
	}
)

// normalizeUsername 使用 NFKC 归一化，避免视觉相同的用户名重复注册
func normalizeUsername(username string) string {
	return norm.NFKC.String(strings.TrimSpace(username))
}

// UserService handles registration, authentication, password and profile edits.
type UserService struct {
	db *gorm.DB
}

// RegistrationInput represents the registration form.
type RegistrationInput struct {
	Username        string `validate:"required,max=150,username"`
	Password        string `validate:"min=8"`
	PasswordConfirm string `validate:"eqfield=Password"`
}

// ProfileInput represents the editable profile fields.
type ProfileInput struct {
	FirstName string `validate:"max=150"`
	LastName  string `validate:"max=150"`
	Email     string `validate:"omitempty,email,max=254"`
}

// PasswordChangeInput represents the password change form.
type PasswordChangeInput struct {
	OldPassword        string
	NewPassword        string `validate:"min=8"`
	NewPasswordConfirm string `validate:"eqfield=NewPassword"`
}

// NewUserService creates a UserService instance.
func NewUserService(gdb *gorm.DB) *UserService {
	return &UserService{db: gdb}
}

// Get fetches a user by primary key.
func (s *UserService) Get(id uint) (*db.User, error) {
	var user db.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &user, nil
}

// GetByUsername fetches a user by username.
func (s *UserService) GetByUsername(username string) (*db.User, error) {
	var user db.User
	if err := s.db.Where("username = ?", normalizeUsername(username)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &user, nil
}

// Register validates the form and stores a user with a bcrypt hashed password.
func (s *UserService) Register(input RegistrationInput) (*db.User, error) {
	input.Username = normalizeUsername(input.Username)
	if err := validateInput(&input, registrationErrors); err != nil {
		return nil, err
	}

	if _, err := s.GetByUsername(input.Username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	hashed, err := hashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := db.User{Username: input.Username, Password: hashed}
	if err := s.insert(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

// insert 创建用户；并发注册触发唯一索引时返回 ErrUsernameTaken
func (s *UserService) insert(user *db.User) error {
	if err := s.db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrUsernameTaken
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

// Authenticate checks credentials and records the login time.
func (s *UserService) Authenticate(username, password string) (*db.User, error) {
	user, err := s.GetByUsername(username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := time.Now().UTC()
	if err := s.db.Model(user).Update("last_login", now).Error; err != nil {
		return nil, fmt.Errorf("record login: %w", err)
	}
	user.LastLogin = &now
	return user, nil
}

// UpdateProfile saves the editable fields of a user.
func (s *UserService) UpdateProfile(id uint, input ProfileInput) (*db.User, error) {
	user, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	input.FirstName = strings.TrimSpace(input.FirstName)
	input.LastName = strings.TrimSpace(input.LastName)
	input.Email = strings.TrimSpace(input.Email)
	if err := validateInput(&input, profileErrors); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"first_name": input.FirstName,
		"last_name":  input.LastName,
		"email":      input.Email,
	}
	if err := s.db.Model(user).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return s.Get(id)
}

// ChangePassword replaces the password after checking the current one.
func (s *UserService) ChangePassword(id uint, input PasswordChangeInput) error {
	user, err := s.Get(id)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.OldPassword)); err != nil {
		return ErrOldPasswordIncorrect
	}
	if err := validateInput(&input, passwordChangeErrors); err != nil {
		return err
	}

	hashed, err := hashPassword(input.NewPassword)
	if err != nil {
		return err
	}
	if err := s.db.Model(user).Update("password", hashed).Error; err != nil {
		return fmt.Errorf("change password: %w", err)
	}
	return nil
}

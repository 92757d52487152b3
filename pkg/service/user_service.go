package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/dishaapp/disha/pkg/db"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
)

// UserService handles account registration and login.
type UserService struct {
	db *gorm.DB
}

func NewUserService(gdb *gorm.DB) *UserService {
	return &UserService{db: gdb}
}

func (s *UserService) Register(email, password string) (*db.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, ErrInvalidCredentials
	}
	if len(password) < 8 {
		return nil, ErrWeakPassword
	}

	var existing db.User
	if err := s.db.First(&existing, "email = ?", email).Error; err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	// the first account bootstraps the admin role
	var count int64
	if err := s.db.Model(&db.User{}).Count(&count).Error; err != nil {
		return nil, err
	}

	user := &db.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		IsAdmin:      count == 0,
		CreatedAt:    time.Now(),
	}
	if err := s.db.Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func (s *UserService) Login(email, password string) (*db.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var user db.User
	if err := s.db.First(&user, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

func (s *UserService) Get(id string) (*db.User, error) {
	var user db.User
	if err := s.db.First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// IsAdmin reports whether the account exists and holds the admin role.
func (s *UserService) IsAdmin(id string) bool {
	user, err := s.Get(id)
	return err == nil && user.IsAdmin
}

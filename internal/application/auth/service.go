package auth

import (
	"context"
	"errors"
	"strings"

	"farmconnect-backend/internal/application/profiles"
	"farmconnect-backend/internal/domain"
	"farmconnect-backend/internal/metrics"
	"farmconnect-backend/internal/pkg/constants"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const bcryptCost = 10

// SignupInput is the signup request body.
type SignupInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,password"`
	FullName string `json:"full_name" validate:"required,fullname,max=120"`
	Role     string `json:"role" validate:"required,role"`
}

// SessionUserShape is the object stored in session and returned by /me.
type SessionUserShape struct {
	UserID   string `json:"user_id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// UserFinder abstracts login so handlers can be tested without a database.
type UserFinder interface {
	FindByEmailAndPassword(ctx context.Context, email, password string) (*domain.Profile, error)
}

// Registrar abstracts signup.
type Registrar interface {
	Signup(ctx context.Context, in SignupInput) (*domain.Profile, error)
}

// Service implements UserFinder and Registrar on GORM and bcrypt.
type Service struct {
	DB *gorm.DB
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Signup creates a profile with a bcrypt password hash. Role is fixed here
// and cannot be changed later.
func (s *Service) Signup(ctx context.Context, in SignupInput) (*domain.Profile, error) {
	if !constants.IsValidRole(in.Role) {
		return nil, ErrInvalidRole
	}
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, ErrEmailPasswordRequired
	}

	var count int64
	if err := s.DB.WithContext(ctx).Model(&domain.Profile{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return nil, err
	}
	p := &domain.Profile{
		Email:        email,
		PasswordHash: string(hash),
		FullName:     profiles.NormalizeFullName(in.FullName),
		Role:         in.Role,
	}
	if err := s.DB.WithContext(ctx).Create(p).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	metrics.Signups.WithLabelValues(p.Role).Inc()
	return p, nil
}

func (s *Service) FindByEmailAndPassword(ctx context.Context, email, password string) (*domain.Profile, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrEmailPasswordRequired
	}
	var p domain.Profile
	if err := s.DB.WithContext(ctx).Where("email = ?", email).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidEmail
		}
		return nil, err
	}
	if p.PasswordHash == "" {
		return nil, ErrInvalidEmail
	}
	if err := bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(password)); err != nil {
		return nil, ErrIncorrectPassword
	}
	return &p, nil
}

// VerifyUser validates the session user and returns the shape for /me.
func VerifyUser(sessionUser interface{}) (*SessionUserShape, error) {
	m, ok := sessionUser.(map[string]interface{})
	if !ok {
		return nil, ErrNotAuthenticated
	}
	userID, _ := m["user_id"].(string)
	if userID == "" {
		return nil, ErrNotAuthenticated
	}
	return &SessionUserShape{
		UserID:   userID,
		FullName: str(m["full_name"]),
		Email:    str(m["email"]),
		Role:     str(m["role"]),
	}, nil
}

func str(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

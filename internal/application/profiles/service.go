package profiles

import (
	"context"
	"errors"
	"strings"

	"farmconnect-backend/internal/domain"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"
)

var (
	ErrProfileNotFound = errors.New("Profile not found")
	ErrNothingToUpdate = errors.New("No fields to update")
	ErrInvalidFullName = errors.New("Full name may only contain letters, spaces, hyphens and apostrophes")
)

type Service struct {
	DB *gorm.DB
}

// UpdateInput carries optional profile fields; nil means unchanged and an
// empty phone or avatar clears it.
type UpdateInput struct {
	FullName  *string `json:"full_name" validate:"omitempty,fullname,max=120"`
	Phone     *string `json:"phone" validate:"omitempty,max=20"`
	AvatarURL *string `json:"avatar_url" validate:"omitempty,url"`
}

// NormalizeFullName collapses runs of whitespace and title-cases each word.
func NormalizeFullName(name string) string {
	return cases.Title(language.Und).String(strings.ToLower(strings.Join(strings.Fields(name), " ")))
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	var p domain.Profile
	if err := s.DB.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*domain.Profile, error) {
	upd := map[string]interface{}{}
	if in.FullName != nil {
		name := NormalizeFullName(*in.FullName)
		if name == "" {
			return nil, ErrInvalidFullName
		}
		upd["full_name"] = name
	}
	if in.Phone != nil {
		upd["phone"] = nullable(*in.Phone)
	}
	if in.AvatarURL != nil {
		upd["avatar_url"] = nullable(*in.AvatarURL)
	}
	if len(upd) == 0 {
		return nil, ErrNothingToUpdate
	}

	res := s.DB.WithContext(ctx).Model(&domain.Profile{}).Where("id = ?", id).Updates(upd)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrProfileNotFound
	}
	return s.Get(ctx, id)
}

func nullable(s string) interface{} {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return s
}

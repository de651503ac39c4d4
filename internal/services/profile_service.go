package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"gmart/internal/domain"
	"gmart/internal/validate"
)

type ProfileService struct {
	Profiles ProfileStore
}

func NewProfileService(p ProfileStore) *ProfileService { return &ProfileService{Profiles: p} }

// Load returns the user's profile, creating an empty one on first visit.
func (s *ProfileService) Load(ctx context.Context, user *domain.User) (domain.Profile, error) {
	if user == nil {
		return domain.Profile{}, ErrNotAuthenticated
	}
	p, err := s.Profiles.ByUser(ctx, user.ID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.Profile{}, err
	}
	return s.Profiles.Create(ctx, domain.Profile{
		ID:       uuid.NewString(),
		UserID:   user.ID,
		FullName: user.Name,
		Email:    user.Email,
	})
}

type ProfileInput struct {
	FullName string
	Email    string
	Phone    string
	Address  string
}

// Save validates and stores the profile form. Blank fields are allowed.
func (s *ProfileService) Save(ctx context.Context, user *domain.User, in ProfileInput) (domain.Profile, error) {
	if user == nil {
		return domain.Profile{}, ErrNotAuthenticated
	}
	p, err := s.Load(ctx, user)
	if err != nil {
		return domain.Profile{}, err
	}

	p.FullName = strings.TrimSpace(in.FullName)
	if len([]rune(p.FullName)) > 80 {
		return domain.Profile{}, invalid("full_name", "Name is too long")
	}
	p.Email = strings.TrimSpace(in.Email)
	if p.Email != "" {
		if _, ok := validate.Email(p.Email); !ok {
			return domain.Profile{}, invalid("email", "Enter a valid email address")
		}
	}
	p.Phone = strings.TrimSpace(in.Phone)
	if p.Phone != "" {
		if _, ok := validate.Phone(p.Phone); !ok {
			return domain.Profile{}, invalid("phone", "Enter a valid phone number")
		}
	}
	p.Address = strings.TrimSpace(in.Address)
	if len([]rune(p.Address)) > 300 {
		return domain.Profile{}, invalid("address", "Address is too long")
	}

	if err := s.Profiles.Update(ctx, p); err != nil {
		return domain.Profile{}, err
	}
	return p, nil
}

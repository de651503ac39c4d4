package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"gmart/internal/domain"
	"gmart/internal/validate"
)

// UserStore is the local account and session table.
type UserStore interface {
	ByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, u domain.User) error
	BindSession(ctx context.Context, sid, userID string) error
	SessionUser(ctx context.Context, sid string) (*domain.User, error)
	UnbindSession(ctx context.Context, sid string) error
}

// AuthService authenticates against the local users table and keeps
// sessions in the sessions table.
type AuthService struct {
	Users UserStore
	Cost  int
}

func NewAuthService(users UserStore) *AuthService {
	return &AuthService{Users: users, Cost: bcrypt.DefaultCost}
}

func (s *AuthService) SignIn(ctx context.Context, email, password string) (Session, error) {
	u, err := s.Users.ByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return Session{}, ErrBadCreds
		}
		return Session{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return Session{}, ErrBadCreds
	}
	return s.bind(ctx, u)
}

func (s *AuthService) SignUp(ctx context.Context, name, email, password string) (Session, error) {
	name, ok := validate.Name(name)
	if !ok {
		return Session{}, invalid("name", "Name is required")
	}
	email, ok = validate.Email(email)
	if !ok {
		return Session{}, invalid("email", "Enter a valid email address")
	}
	if !validate.Password(password) {
		return Session{}, invalid("password", "Password must be 8-64 characters with upper and lower case letters, a digit and a symbol")
	}

	_, err := s.Users.ByEmail(ctx, email)
	switch {
	case err == nil:
		return Session{}, ErrEmailTaken
	case !errors.Is(err, domain.ErrNotFound):
		return Session{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.Cost)
	if err != nil {
		return Session{}, err
	}
	u := domain.User{ID: uuid.NewString(), Email: email, Name: name, Hash: string(hash), Role: domain.RoleUser}
	if err := s.Users.Create(ctx, u); err != nil {
		return Session{}, err
	}
	return s.bind(ctx, &u)
}

// CurrentUser resolves a session token. An unknown token is not an error.
func (s *AuthService) CurrentUser(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, nil
	}
	u, err := s.Users.SessionUser(ctx, token)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	return u, err
}

func (s *AuthService) SignOut(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.Users.UnbindSession(ctx, token)
}

func (s *AuthService) bind(ctx context.Context, u *domain.User) (Session, error) {
	sid := uuid.NewString()
	if err := s.Users.BindSession(ctx, sid, u.ID); err != nil {
		return Session{}, err
	}
	return Session{Token: sid, User: u}, nil
}

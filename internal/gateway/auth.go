package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/golang-jwt/jwt/v4"

	"gmart/internal/domain"
	"gmart/internal/services"
	"gmart/internal/validate"
)

var _ services.Authenticator = (*Auth)(nil)

// Auth signs users in against /auth/v1 and verifies the access tokens it
// hands out locally with the shared HS256 secret.
type Auth struct {
	c      *Client
	secret []byte
}

func NewAuth(c *Client, jwtSecret string) *Auth {
	return &Auth{c: c, secret: []byte(jwtSecret)}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	User        struct {
		ID           string `json:"id"`
		Email        string `json:"email"`
		UserMetadata struct {
			Name string `json:"name"`
		} `json:"user_metadata"`
		AppMetadata struct {
			Role string `json:"role"`
		} `json:"app_metadata"`
	} `json:"user"`
}

func (t tokenResponse) session() services.Session {
	return services.Session{
		Token: t.AccessToken,
		User: &domain.User{
			ID:    t.User.ID,
			Email: t.User.Email,
			Name:  t.User.UserMetadata.Name,
			Role:  role(t.User.AppMetadata.Role),
		},
	}
}

func role(s string) string {
	if strings.EqualFold(s, domain.RoleAdmin) {
		return domain.RoleAdmin
	}
	return domain.RoleUser
}

func (a *Auth) SignIn(ctx context.Context, email, password string) (services.Session, error) {
	q := url.Values{"grant_type": {"password"}}
	resp, err := a.c.Do(ctx, http.MethodPost, "/auth/v1/token", q, nil, map[string]string{
		"email":    strings.TrimSpace(email),
		"password": password,
	})
	if err != nil {
		return services.Session{}, err
	}
	var t tokenResponse
	if err := decodeJSON(resp, &t); err != nil {
		var gerr *Error
		if errors.As(err, &gerr) && (gerr.Status == http.StatusBadRequest || gerr.Status == http.StatusUnauthorized) {
			return services.Session{}, services.ErrBadCreds
		}
		return services.Session{}, err
	}
	return t.session(), nil
}

func (a *Auth) SignUp(ctx context.Context, name, email, password string) (services.Session, error) {
	name, ok := validate.Name(name)
	if !ok {
		return services.Session{}, &services.FieldError{Field: "name", Message: "Name is required"}
	}
	email, ok = validate.Email(email)
	if !ok {
		return services.Session{}, &services.FieldError{Field: "email", Message: "Enter a valid email address"}
	}
	resp, err := a.c.Do(ctx, http.MethodPost, "/auth/v1/signup", nil, nil, map[string]any{
		"email":    email,
		"password": password,
		"data":     map[string]string{"name": name},
	})
	if err != nil {
		return services.Session{}, err
	}
	var t tokenResponse
	if err := decodeJSON(resp, &t); err != nil {
		var gerr *Error
		if errors.As(err, &gerr) && gerr.Status == http.StatusUnprocessableEntity {
			return services.Session{}, services.ErrEmailTaken
		}
		return services.Session{}, err
	}
	if t.AccessToken == "" {
		return services.Session{}, fmt.Errorf("signup: no session issued for %s", email)
	}
	return t.session(), nil
}

// CurrentUser verifies the access token. Expired or forged tokens mean
// "signed out", not an error.
func (a *Auth) CurrentUser(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, nil
	}
	claims, err := a.parse(token)
	if err != nil {
		return nil, nil
	}
	u := &domain.User{Role: domain.RoleUser}
	u.ID, _ = claims["sub"].(string)
	u.Email, _ = claims["email"].(string)
	if md, ok := claims["user_metadata"].(map[string]any); ok {
		u.Name, _ = md["name"].(string)
	}
	if md, ok := claims["app_metadata"].(map[string]any); ok {
		r, _ := md["role"].(string)
		u.Role = role(r)
	}
	if u.ID == "" {
		return nil, nil
	}
	return u, nil
}

func (a *Auth) parse(token string) (jwt.MapClaims, error) {
	if len(a.secret) == 0 {
		return nil, fmt.Errorf("jwt secret not configured")
	}
	t, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil || t == nil || !t.Valid {
		return nil, fmt.Errorf("invalid or expired token")
	}
	claims, ok := t.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}

func (a *Auth) SignOut(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	resp, err := a.c.Do(services.WithSessionToken(ctx, token), http.MethodPost, "/auth/v1/logout", nil, nil, nil)
	if err != nil {
		return err
	}
	return decodeJSON(resp, nil)
}

package services

import (
	"context"

	"gmart/internal/domain"
)

// The stores below are the data gateway as seen by the services. Both the
// embedded sqlite repositories (internal/repos) and the hosted REST gateway
// (internal/gateway) implement them. Lookups of a missing row return
// domain.ErrNotFound.

type CategoryStore interface {
	ListCategories(ctx context.Context, limit int) ([]domain.Category, error)
	GetCategory(ctx context.Context, id string) (domain.Category, error)
}

type ProductStore interface {
	ListProducts(ctx context.Context, categoryID string) ([]domain.Product, error)
	Featured(ctx context.Context, minRating float64, limit int) ([]domain.Product, error)
	GetProduct(ctx context.Context, id string) (domain.Product, error)
	SetStock(ctx context.Context, id string, stock int) error
}

type CartStore interface {
	Lines(ctx context.Context, userID string) ([]domain.CartLine, error)
	FindLine(ctx context.Context, userID, productID string) (domain.CartLine, error)
	InsertLine(ctx context.Context, l domain.CartLine) error
	UpdateQuantity(ctx context.Context, userID, lineID string, qty int) error
	DeleteLine(ctx context.Context, userID, lineID string) error
	Clear(ctx context.Context, userID string) error
}

type OrderStore interface {
	// PlaceOrder persists the order and its items as one unit: either both
	// are stored or neither is.
	PlaceOrder(ctx context.Context, o domain.Order, items []domain.OrderItem) error
	GetOrder(ctx context.Context, userID, orderID string) (domain.Order, []domain.OrderItem, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	ListLatest(ctx context.Context, limit int) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id, status string) error
}

type ReviewStore interface {
	Upsert(ctx context.Context, rv domain.Review) error
	ListByProduct(ctx context.Context, productID string) ([]domain.Review, error)
}

type ProfileStore interface {
	ByUser(ctx context.Context, userID string) (domain.Profile, error)
	Create(ctx context.Context, p domain.Profile) (domain.Profile, error)
	Update(ctx context.Context, p domain.Profile) error
}

// Session is what a successful sign-in hands back: the opaque token stored
// in the sid cookie and the identity it stands for.
type Session struct {
	Token string
	User  *domain.User
}

// Authenticator is the session/identity provider.
type Authenticator interface {
	SignIn(ctx context.Context, email, password string) (Session, error)
	SignUp(ctx context.Context, name, email, password string) (Session, error)
	CurrentUser(ctx context.Context, token string) (*domain.User, error)
	SignOut(ctx context.Context, token string) error
}

type tokenKey struct{}

// WithSessionToken attaches the caller's session token to ctx so stores that
// act on behalf of the user (the hosted gateway) can forward it.
func WithSessionToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

func SessionToken(ctx context.Context) string {
	t, _ := ctx.Value(tokenKey{}).(string)
	return t
}

// Stores is one complete data gateway backend.
type Stores struct {
	Categories CategoryStore
	Products   ProductStore
	Carts      CartStore
	Orders     OrderStore
	Reviews    ReviewStore
	Profiles   ProfileStore
	Auth       Authenticator
}

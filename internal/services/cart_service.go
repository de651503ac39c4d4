package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"gmart/internal/domain"
)

type CartService struct {
	Carts CartStore
	Prods ProductStore
}

func NewCartService(carts CartStore, prods ProductStore) *CartService {
	return &CartService{Carts: carts, Prods: prods}
}

// Cart is a snapshot of a user's line items with derived totals.
type Cart struct {
	Lines []domain.CartLine `json:"lines"`
	Total decimal.Decimal   `json:"total"`
	Count int               `json:"count"`
}

func (c Cart) Empty() bool { return len(c.Lines) == 0 }

func (c Cart) Line(id string) (domain.CartLine, bool) {
	for _, l := range c.Lines {
		if l.ID == id {
			return l, true
		}
	}
	return domain.CartLine{}, false
}

// NewCart derives Total and Count from lines.
func NewCart(lines []domain.CartLine) Cart {
	c := Cart{Lines: lines, Total: decimal.Zero}
	for _, l := range lines {
		c.Total = c.Total.Add(l.Subtotal())
		c.Count += l.Quantity
	}
	return c
}

// Mutation is the outcome of a cart write. Prior is the snapshot taken
// before the write; on failure Current equals Prior so the caller can
// restore what it showed.
type Mutation struct {
	Prior   Cart
	Current Cart
}

// ClampQty bounds a requested quantity to [1, stock]. With no stock the
// result is 1; callers reject sold-out products before writing.
func ClampQty(qty, stock int) int {
	if qty > stock {
		qty = stock
	}
	if qty < 1 {
		qty = 1
	}
	return qty
}

func (s *CartService) View(ctx context.Context, user *domain.User) (Cart, error) {
	if user == nil {
		return Cart{}, ErrNotAuthenticated
	}
	lines, err := s.Carts.Lines(ctx, user.ID)
	if err != nil {
		return Cart{}, err
	}
	return NewCart(lines), nil
}

// Add creates the product's line or increments it, keeping the result
// within the product's stock.
func (s *CartService) Add(ctx context.Context, user *domain.User, productID string, qty int) (Mutation, error) {
	if user == nil {
		return Mutation{}, ErrNotAuthenticated
	}
	prior, err := s.View(ctx, user)
	if err != nil {
		return Mutation{}, err
	}
	m := Mutation{Prior: prior, Current: prior}

	p, err := s.Prods.GetProduct(ctx, productID)
	if err != nil {
		return m, err
	}
	if !p.InStock() {
		return m, ErrOutOfStock
	}
	if qty < 1 {
		qty = 1
	}

	existing, err := s.Carts.FindLine(ctx, user.ID, productID)
	switch {
	case err == nil:
		err = s.Carts.UpdateQuantity(ctx, user.ID, existing.ID, ClampQty(existing.Quantity+qty, p.Stock))
	case errors.Is(err, domain.ErrNotFound):
		err = s.Carts.InsertLine(ctx, domain.CartLine{
			ID:        uuid.NewString(),
			UserID:    user.ID,
			ProductID: productID,
			Quantity:  ClampQty(qty, p.Stock),
		})
	}
	if err != nil {
		return m, err
	}
	return s.refetch(ctx, user, m)
}

// SetQuantity sets a line's quantity, clamped to [1, stock]. A line whose
// product has sold out cannot be changed, only removed.
func (s *CartService) SetQuantity(ctx context.Context, user *domain.User, lineID string, qty int) (Mutation, error) {
	if user == nil {
		return Mutation{}, ErrNotAuthenticated
	}
	prior, err := s.View(ctx, user)
	if err != nil {
		return Mutation{}, err
	}
	m := Mutation{Prior: prior, Current: prior}

	line, ok := prior.Line(lineID)
	if !ok {
		return m, domain.ErrNotFound
	}
	if line.Stock < 1 {
		return m, ErrOutOfStock
	}
	if err := s.Carts.UpdateQuantity(ctx, user.ID, lineID, ClampQty(qty, line.Stock)); err != nil {
		return m, err
	}
	return s.refetch(ctx, user, m)
}

// Step moves a line's quantity by delta (the +/- controls).
func (s *CartService) Step(ctx context.Context, user *domain.User, lineID string, delta int) (Mutation, error) {
	if user == nil {
		return Mutation{}, ErrNotAuthenticated
	}
	prior, err := s.View(ctx, user)
	if err != nil {
		return Mutation{}, err
	}
	line, ok := prior.Line(lineID)
	if !ok {
		return Mutation{Prior: prior, Current: prior}, domain.ErrNotFound
	}
	return s.SetQuantity(ctx, user, lineID, line.Quantity+delta)
}

func (s *CartService) Remove(ctx context.Context, user *domain.User, lineID string) (Mutation, error) {
	if user == nil {
		return Mutation{}, ErrNotAuthenticated
	}
	prior, err := s.View(ctx, user)
	if err != nil {
		return Mutation{}, err
	}
	m := Mutation{Prior: prior, Current: prior}
	if err := s.Carts.DeleteLine(ctx, user.ID, lineID); err != nil {
		return m, err
	}
	return s.refetch(ctx, user, m)
}

// Clear empties the user's cart.
func (s *CartService) Clear(ctx context.Context, user *domain.User) error {
	if user == nil {
		return ErrNotAuthenticated
	}
	return s.Carts.Clear(ctx, user.ID)
}

// Count is the number of units in the cart, for the header badge.
func (s *CartService) Count(ctx context.Context, user *domain.User) int {
	c, err := s.View(ctx, user)
	if err != nil {
		return 0
	}
	return c.Count
}

func (s *CartService) refetch(ctx context.Context, user *domain.User, m Mutation) (Mutation, error) {
	cur, err := s.View(ctx, user)
	if err != nil {
		// The write went through; only the snapshot is stale.
		return m, err
	}
	m.Current = cur
	return m, nil
}

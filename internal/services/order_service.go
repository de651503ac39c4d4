package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"gmart/internal/domain"
	"gmart/internal/validate"
)

type PaymentMethod string

const (
	PaymentCard   PaymentMethod = "card"
	PaymentCOD    PaymentMethod = "cod"
	PaymentPayPal PaymentMethod = "paypal"
)

// PaymentMethods lists the accepted methods in display order.
var PaymentMethods = []PaymentMethod{PaymentCard, PaymentCOD, PaymentPayPal}

func (m PaymentMethod) Valid() bool {
	for _, v := range PaymentMethods {
		if m == v {
			return true
		}
	}
	return false
}

func (m PaymentMethod) Label() string {
	switch m {
	case PaymentCard:
		return "Credit/Debit Card"
	case PaymentCOD:
		return "Cash on Delivery"
	case PaymentPayPal:
		return "PayPal"
	}
	return string(m)
}

// Delivery is the checkout form.
type Delivery struct {
	FullName string
	Email    string
	Phone    string
	Address  string
	City     string
	ZIP      string
	Payment  PaymentMethod
}

// Validate trims every field and checks that all are present and well formed.
func (d *Delivery) Validate() error {
	var ok bool
	if d.FullName, ok = validate.Name(d.FullName); !ok {
		return invalid("full_name", "Full name is required")
	}
	if d.Email, ok = validate.Email(d.Email); !ok {
		return invalid("email", "Enter a valid email address")
	}
	if d.Phone, ok = validate.Phone(d.Phone); !ok {
		return invalid("phone", "Enter a valid phone number")
	}
	if d.Address, ok = validate.Text(d.Address, 300); !ok {
		return invalid("address", "Address is required")
	}
	if d.City, ok = validate.Text(d.City, 80); !ok {
		return invalid("city", "City is required")
	}
	if d.ZIP, ok = validate.ZIP(d.ZIP); !ok {
		return invalid("zip", "Enter a valid ZIP code")
	}
	if !d.Payment.Valid() {
		return invalid("payment_method", "Choose a payment method")
	}
	return nil
}

// AddressLine renders the delivery address the way it is stored on the order.
func (d Delivery) AddressLine() string {
	return strings.Join([]string{d.Address, d.City, d.ZIP}, ", ")
}

type OrderService struct {
	Carts  CartStore
	Orders OrderStore
	Now    func() time.Time
}

func NewOrderService(carts CartStore, orders OrderStore) *OrderService {
	return &OrderService{Carts: carts, Orders: orders, Now: func() time.Time { return time.Now().UTC() }}
}

// PlaceResult reports the created order and whether the cart was emptied
// afterwards. A failed clear does not undo the order.
type PlaceResult struct {
	Order       domain.Order
	Items       []domain.OrderItem
	CartCleared bool
	ClearErr    error
}

// Place turns the user's cart into an order. Prices are taken from the
// products at this moment, never from the client.
func (s *OrderService) Place(ctx context.Context, user *domain.User, d Delivery) (PlaceResult, error) {
	if user == nil {
		return PlaceResult{}, ErrNotAuthenticated
	}
	lines, err := s.Carts.Lines(ctx, user.ID)
	if err != nil {
		return PlaceResult{}, err
	}
	cart := NewCart(lines)
	if cart.Empty() {
		return PlaceResult{}, ErrEmptyCart
	}
	if err := d.Validate(); err != nil {
		return PlaceResult{}, err
	}

	o := domain.Order{
		ID:              uuid.NewString(),
		UserID:          user.ID,
		TotalAmount:     cart.Total,
		Status:          domain.OrderStatusPending,
		PaymentMethod:   string(d.Payment),
		PaymentStatus:   domain.PaymentStatusPending,
		DeliveryAddress: d.AddressLine(),
		CustomerName:    d.FullName,
		CustomerEmail:   d.Email,
		CustomerPhone:   d.Phone,
		CreatedAt:       s.Now(),
	}
	items := make([]domain.OrderItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, domain.OrderItem{
			ID:        uuid.NewString(),
			OrderID:   o.ID,
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			Price:     l.Price,
			Name:      l.Name,
			ImageURL:  l.ImageURL,
		})
	}

	if err := s.Orders.PlaceOrder(ctx, o, items); err != nil {
		return PlaceResult{}, err
	}

	res := PlaceResult{Order: o, Items: items, CartCleared: true}
	if err := s.Carts.Clear(ctx, user.ID); err != nil {
		res.CartCleared = false
		res.ClearErr = err
	}
	return res, nil
}

// Get returns one of the user's orders; other users' orders are not found.
func (s *OrderService) Get(ctx context.Context, user *domain.User, orderID string) (domain.Order, []domain.OrderItem, error) {
	if user == nil {
		return domain.Order{}, nil, ErrNotAuthenticated
	}
	return s.Orders.GetOrder(ctx, user.ID, orderID)
}

func (s *OrderService) History(ctx context.Context, user *domain.User) ([]domain.Order, error) {
	if user == nil {
		return nil, ErrNotAuthenticated
	}
	return s.Orders.ListByUser(ctx, user.ID)
}

// Latest lists the most recent orders of all users for the back office.
func (s *OrderService) Latest(ctx context.Context, limit int) ([]domain.Order, error) {
	return s.Orders.ListLatest(ctx, limit)
}

func (s *OrderService) SetStatus(ctx context.Context, orderID, status string) error {
	status = strings.TrimSpace(status)
	if status == "" || len(status) > 32 {
		return invalid("status", "Status is required")
	}
	return s.Orders.UpdateStatus(ctx, orderID, status)
}

package repos

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gmart/internal/domain"
)

func sampleOrder() (domain.Order, []domain.OrderItem) {
	o := domain.Order{
		ID: "o-1", UserID: "u-alice", TotalAmount: decimal.RequireFromString("9.00"),
		Status: domain.OrderStatusPending, PaymentMethod: "card", PaymentStatus: domain.PaymentStatusPending,
		DeliveryAddress: "1 Main St, Springfield, 12345", CreatedAt: time.Now().UTC(),
	}
	items := []domain.OrderItem{
		{ID: "i-1", OrderID: "o-1", ProductID: "milk-001", Quantity: 2, Price: decimal.RequireFromString("4.50")},
	}
	return o, items
}

func TestPlaceOrderRollsBackWhenItemInsertFails(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewOrderRepo(sqlx.NewDb(db, "sqlmock"))
	o, items := sampleOrder()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO orders").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO order_items").WillReturnError(errors.New("constraint failed"))
	mock.ExpectRollback()

	err = repo.PlaceOrder(context.Background(), o, items)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert order item milk-001")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlaceOrderCommits(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewOrderRepo(sqlx.NewDb(db, "sqlmock"))
	o, items := sampleOrder()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO orders").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO order_items").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.PlaceOrder(context.Background(), o, items))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlaceOrderLeavesNoOrderOnFailure(t *testing.T) {
	db, err := OpenDB(":memory:")
	require.NoError(t, err)
	defer db.Close()

	repo := NewOrderRepo(db)
	o, items := sampleOrder()
	items = append(items, domain.OrderItem{ID: "i-2", OrderID: o.ID, ProductID: "no-such-product", Quantity: 1, Price: decimal.NewFromInt(1)})

	require.Error(t, repo.PlaceOrder(context.Background(), o, items))

	var n int
	require.NoError(t, db.Get(&n, `SELECT COUNT(*) FROM orders`))
	assert.Zero(t, n)
	require.NoError(t, db.Get(&n, `SELECT COUNT(*) FROM order_items`))
	assert.Zero(t, n)
}

func TestGetOrderOtherUser(t *testing.T) {
	db, err := OpenDB(":memory:")
	require.NoError(t, err)
	defer db.Close()

	repo := NewOrderRepo(db)
	o, items := sampleOrder()
	require.NoError(t, repo.PlaceOrder(context.Background(), o, items))

	_, _, err = repo.GetOrder(context.Background(), "u-bob", o.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	got, gotItems, err := repo.GetOrder(context.Background(), "u-alice", o.ID)
	require.NoError(t, err)
	assert.True(t, got.TotalAmount.Equal(o.TotalAmount))
	assert.Len(t, gotItems, 1)
}

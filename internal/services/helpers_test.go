package services_test

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"gmart/internal/domain"
	"gmart/internal/repos"
)

// Seeded fixtures, see repos.OpenDB.
var (
	alice = &domain.User{ID: "u-alice", Email: "alice@gmart.test", Name: "Alice", Role: domain.RoleUser}
	bob   = &domain.User{ID: "u-bob", Email: "bob@gmart.test", Name: "Bob", Role: domain.RoleUser}
)

func openDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// spyCart records whether any cart store method was reached.
type spyCart struct{ calls int }

func (s *spyCart) Lines(context.Context, string) ([]domain.CartLine, error) {
	s.calls++
	return nil, nil
}
func (s *spyCart) FindLine(context.Context, string, string) (domain.CartLine, error) {
	s.calls++
	return domain.CartLine{}, domain.ErrNotFound
}
func (s *spyCart) InsertLine(context.Context, domain.CartLine) error { s.calls++; return nil }
func (s *spyCart) UpdateQuantity(context.Context, string, string, int) error {
	s.calls++
	return nil
}
func (s *spyCart) DeleteLine(context.Context, string, string) error { s.calls++; return nil }
func (s *spyCart) Clear(context.Context, string) error             { s.calls++; return nil }

package repos

import (
	"context"

	"github.com/jmoiron/sqlx"

	"gmart/internal/domain"
)

type ProfileRepo struct{ db *sqlx.DB }

func NewProfileRepo(db *sqlx.DB) *ProfileRepo { return &ProfileRepo{db: db} }

func (r *ProfileRepo) ByUser(ctx context.Context, userID string) (domain.Profile, error) {
	var p domain.Profile
	err := r.db.GetContext(ctx, &p, `
		SELECT id, user_id, COALESCE(full_name,'') AS full_name, COALESCE(email,'') AS email,
		       COALESCE(phone,'') AS phone, COALESCE(address,'') AS address
		FROM profiles
		WHERE user_id = ?
	`, userID)
	return p, notFound(err)
}

func (r *ProfileRepo) Create(ctx context.Context, p domain.Profile) (domain.Profile, error) {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO profiles(id, user_id, full_name, email, phone, address)
		VALUES(?, ?, ?, ?, ?, ?)
	`, p.ID, p.UserID, p.FullName, p.Email, p.Phone, p.Address)
	if err != nil {
		return domain.Profile{}, err
	}
	return p, nil
}

func (r *ProfileRepo) Update(ctx context.Context, p domain.Profile) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE profiles SET full_name = ?, email = ?, phone = ?, address = ?
		WHERE user_id = ?
	`, p.FullName, p.Email, p.Phone, p.Address, p.UserID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

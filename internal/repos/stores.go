package repos

import (
	"github.com/jmoiron/sqlx"

	"gmart/internal/services"
)

// NewStores wires every sqlite repository, with local bcrypt/session auth.
func NewStores(db *sqlx.DB) services.Stores {
	return services.Stores{
		Categories: NewCategoryRepo(db),
		Products:   NewProductRepo(db),
		Carts:      NewCartRepo(db),
		Orders:     NewOrderRepo(db),
		Reviews:    NewReviewRepo(db),
		Profiles:   NewProfileRepo(db),
		Auth:       services.NewAuthService(NewUserRepo(db)),
	}
}

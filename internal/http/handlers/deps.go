package handlers

import (
	"gmart/internal/cache"
	"gmart/internal/config"
	"gmart/internal/services"
)

type Deps struct {
	Auth services.Authenticator
	Cart *services.CartService

	CatalogHandler   *CatalogHandler
	ProductHandler   *ProductHandler
	InventoryHandler *InventoryHandler
	CartHandler      *CartHandler
	OrderHandler     *OrderHandler
	AuthHandler      *AuthHandler
	ProfileHandler   *ProfileHandler
	AdminHandler     *AdminHandler
}

// NewDeps builds the services over one backend and hands each handler the
// services it needs.
func NewDeps(st services.Stores, c cache.Cache, cfg config.Config) *Deps {
	catalogSvc := services.NewCatalogService(st.Categories, st.Products, c, cfg.CacheTTL)
	cartSvc := services.NewCartService(st.Carts, st.Products)
	orderSvc := services.NewOrderService(st.Carts, st.Orders)
	reviewSvc := services.NewReviewService(st.Reviews, st.Products)
	profileSvc := services.NewProfileService(st.Profiles)

	return &Deps{
		Auth: st.Auth,
		Cart: cartSvc,

		CatalogHandler:   &CatalogHandler{Catalog: catalogSvc},
		ProductHandler:   &ProductHandler{Catalog: catalogSvc, Reviews: reviewSvc},
		InventoryHandler: &InventoryHandler{Catalog: catalogSvc},
		CartHandler:      &CartHandler{Cart: cartSvc},
		OrderHandler:     &OrderHandler{Cart: cartSvc, Order: orderSvc, Profile: profileSvc},
		AuthHandler:      &AuthHandler{Auth: st.Auth, SecureCookie: cfg.CookieSecure},
		ProfileHandler:   &ProfileHandler{Profile: profileSvc},
		AdminHandler:     &AdminHandler{Order: orderSvc, Catalog: catalogSvc},
	}
}

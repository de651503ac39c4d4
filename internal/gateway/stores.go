package gateway

import "gmart/internal/services"

// NewStores wires every table client against one gateway.
func NewStores(c *Client, jwtSecret string) services.Stores {
	return services.Stores{
		Categories: NewCategories(c),
		Products:   NewProducts(c),
		Carts:      NewCarts(c),
		Orders:     NewOrders(c),
		Reviews:    NewReviews(c),
		Profiles:   NewProfiles(c),
		Auth:       NewAuth(c, jwtSecret),
	}
}

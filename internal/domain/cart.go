package domain

import "time"

// CartItem is one line of the shopping cart. At most one entry per product id
// lives in a cart; repeat adds merge into the existing entry.
type CartItem struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Price    float64   `json:"price"`
	Image    string    `json:"image"`
	Quantity int       `json:"quantity"`
	AddedAt  time.Time `json:"addedAt"`
}

// WishlistItem is a saved product. Wishlists carry no quantity.
type WishlistItem struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Price   float64   `json:"price"`
	Image   string    `json:"image"`
	AddedAt time.Time `json:"addedAt"`
}

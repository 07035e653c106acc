package models

import "time"

// ProductKind distinguishes shippable merchandise from digital items such as
// streamed recordings or e-tickets.
type ProductKind string

const (
	KindPhysical ProductKind = "physical"
	KindDigital  ProductKind = "digital"
)

type CartItem struct {
	ProductID string      `json:"product_id"`
	Name      string      `json:"name"`
	UnitPrice float64     `json:"unit_price"`
	Quantity  int         `json:"quantity"`
	Size      string      `json:"size,omitempty"`
	Color     string      `json:"color,omitempty"`
	ImageURL  string      `json:"image_url,omitempty"`
	Kind      ProductKind `json:"kind"`
}

type Cart struct {
	ClientID  string     `json:"client_id"`
	Items     []CartItem `json:"items"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Subtotal sums unit price times quantity over the given items. It is always
// computed from the items, never stored.
func Subtotal(items []CartItem) float64 {
	var total float64
	for _, item := range items {
		total += item.UnitPrice * float64(item.Quantity)
	}
	return total
}

type CheckoutEvent struct {
	Event     string     `json:"event"` // e.g. "checkout.requested"
	ClientID  string     `json:"client_id"`
	UserID    string     `json:"user_id,omitempty"`
	Items     []CartItem `json:"items"`
	Subtotal  float64    `json:"subtotal"`
	Timestamp time.Time  `json:"timestamp"`
}

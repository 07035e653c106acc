package cart

import (
	"context"

	"storefront-bff/models"
)

// Store persists one cart per client. Load returns (nil, nil) when no cart
// exists; an error return means the stored data is unreadable.
type Store interface {
	Load(ctx context.Context, clientID string) ([]models.CartItem, error)
	Save(ctx context.Context, clientID string, items []models.CartItem) error
	Delete(ctx context.Context, clientID string) error
}

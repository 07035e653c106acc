package cart

import (
	"context"
	"errors"
	"fmt"

	"storefront-bff/models"
)

// ErrItemNotFound is returned when a quantity update targets a product that
// is not in the cart.
var ErrItemNotFound = errors.New("item not in cart")

// Manager owns the cart for a single client. Line items are identified by
// product ID: adding a product already in the cart merges quantities and
// last-writes the variant attributes (size, color, image). Every mutation is
// persisted before it returns, so a reload observes it.
type Manager struct {
	store    Store
	clientID string
	items    []models.CartItem
}

func NewManager(store Store, clientID string) *Manager {
	return &Manager{store: store, clientID: clientID}
}

// Initialize rehydrates the cart from the store. Unreadable persisted state
// is discarded and the cart starts empty.
func (m *Manager) Initialize(ctx context.Context) {
	items, err := m.store.Load(ctx, m.clientID)
	if err != nil {
		_ = m.store.Delete(ctx, m.clientID)
		return
	}
	m.items = items
}

// AddItem inserts a line item, merging with an existing line for the same
// product.
func (m *Manager) AddItem(ctx context.Context, item models.CartItem) error {
	if item.ProductID == "" {
		return fmt.Errorf("missing product id")
	}
	if item.Quantity < 1 {
		return fmt.Errorf("quantity must be at least 1")
	}

	merged := false
	for i, existing := range m.items {
		if existing.ProductID == item.ProductID {
			item.Quantity += existing.Quantity
			m.items[i] = item
			merged = true
			break
		}
	}
	if !merged {
		m.items = append(m.items, item)
	}

	return m.persist(ctx)
}

// UpdateQuantity sets the quantity for a product. A quantity of zero or less
// removes the line item; removal of an absent item is a no-op.
func (m *Manager) UpdateQuantity(ctx context.Context, productID string, quantity int) error {
	if quantity <= 0 {
		return m.RemoveItem(ctx, productID)
	}

	for i, item := range m.items {
		if item.ProductID == productID {
			m.items[i].Quantity = quantity
			return m.persist(ctx)
		}
	}
	return ErrItemNotFound
}

// RemoveItem deletes the line item for a product unconditionally.
func (m *Manager) RemoveItem(ctx context.Context, productID string) error {
	kept := m.items[:0]
	for _, item := range m.items {
		if item.ProductID != productID {
			kept = append(kept, item)
		}
	}
	m.items = kept
	return m.persist(ctx)
}

// Clear removes all line items. Called after a successful checkout.
func (m *Manager) Clear(ctx context.Context) error {
	m.items = nil
	return m.store.Delete(ctx, m.clientID)
}

// Items returns a copy of the current line items.
func (m *Manager) Items() []models.CartItem {
	out := make([]models.CartItem, len(m.items))
	copy(out, m.items)
	return out
}

// Subtotal is recomputed from the line items on every call.
func (m *Manager) Subtotal() float64 {
	return models.Subtotal(m.items)
}

func (m *Manager) persist(ctx context.Context) error {
	if err := m.store.Save(ctx, m.clientID, m.items); err != nil {
		return fmt.Errorf("failed to persist cart: %w", err)
	}
	return nil
}

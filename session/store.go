package session

import (
	"context"

	"storefront-bff/models"
)

// Record is the persisted shape of a session: the opaque credential token
// plus the principal it was issued for.
type Record struct {
	Token string           `json:"token"`
	User  models.Principal `json:"user"`
}

// Store persists one session record per client. Load returns (nil, nil) when
// no record exists; an error return means the stored data is unreadable.
type Store interface {
	Load(ctx context.Context, clientID string) (*Record, error)
	Save(ctx context.Context, clientID string, rec *Record) error
	Delete(ctx context.Context, clientID string) error
}

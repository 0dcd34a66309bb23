// Package contact is the record store for contacts: the full all-owners
// collection, read and rewritten as a whole.
package contact

import (
	"context"

	types "github.com/yungbote/contactbook-backend/internal/domain"
)

// UpdateFunc receives the full collection and returns its replacement.
// Returning an error aborts the update and nothing is written.
type UpdateFunc func(rows []*types.Contact) ([]*types.Contact, error)

type Reader interface {
	ReadAll(ctx context.Context) ([]*types.Contact, error)
}

type Store interface {
	Reader
	// WriteAll replaces the whole collection with rows, in order.
	WriteAll(ctx context.Context, rows []*types.Contact) error
	// EnsureInitialized creates an empty store if none exists. Idempotent.
	EnsureInitialized(ctx context.Context) error
	// Update runs one read-modify-write cycle under the store's writer lock.
	Update(ctx context.Context, fn UpdateFunc) error
}

func cloneAll(rows []*types.Contact) []*types.Contact {
	out := make([]*types.Contact, 0, len(rows))
	for _, r := range rows {
		if r != nil {
			out = append(out, r.Clone())
		}
	}
	return out
}

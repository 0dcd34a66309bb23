package contact

import (
	"context"
	"sync"

	types "github.com/yungbote/contactbook-backend/internal/domain"
)

// MemoryStore keeps the collection in process memory.
type MemoryStore struct {
	mu   sync.Mutex
	rows []*types.Contact
}

func NewMemoryStore(seed ...*types.Contact) *MemoryStore {
	return &MemoryStore{rows: cloneAll(seed)}
}

func (s *MemoryStore) EnsureInitialized(ctx context.Context) error {
	return ctx.Err()
}

func (s *MemoryStore) ReadAll(ctx context.Context) ([]*types.Contact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneAll(s.rows), nil
}

func (s *MemoryStore) WriteAll(ctx context.Context, rows []*types.Contact) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = cloneAll(rows)
	return nil
}

func (s *MemoryStore) Update(ctx context.Context, fn UpdateFunc) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := fn(cloneAll(s.rows))
	if err != nil {
		return err
	}
	s.rows = cloneAll(next)
	return nil
}

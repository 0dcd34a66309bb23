package app

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/yungbote/contactbook-backend/internal/data/repos"
	types "github.com/yungbote/contactbook-backend/internal/domain"
	"github.com/yungbote/contactbook-backend/internal/observability"
)

type instrumentedContactStore struct {
	backend string
	inner   repos.ContactStore
	metrics *observability.Metrics
}

func instrumentContactStore(backend string, inner repos.ContactStore, metrics *observability.Metrics) repos.ContactStore {
	if inner == nil {
		return nil
	}
	return &instrumentedContactStore{backend: backend, inner: inner, metrics: metrics}
}

func (s *instrumentedContactStore) ReadAll(ctx context.Context) ([]*types.Contact, error) {
	var out []*types.Contact
	err := s.observe(ctx, "read_all", func(ctx context.Context) error {
		var err error
		out, err = s.inner.ReadAll(ctx)
		return err
	})
	return out, err
}

func (s *instrumentedContactStore) WriteAll(ctx context.Context, rows []*types.Contact) error {
	return s.observe(ctx, "write_all", func(ctx context.Context) error {
		return s.inner.WriteAll(ctx, rows)
	})
}

func (s *instrumentedContactStore) EnsureInitialized(ctx context.Context) error {
	return s.observe(ctx, "ensure_initialized", s.inner.EnsureInitialized)
}

func (s *instrumentedContactStore) Update(ctx context.Context, fn repos.ContactUpdateFunc) error {
	return s.observe(ctx, "update", func(ctx context.Context) error {
		return s.inner.Update(ctx, fn)
	})
}

func (s *instrumentedContactStore) observe(ctx context.Context, op string, call func(context.Context) error) error {
	ctx, span := observability.StartSpan(ctx, "store."+op, attribute.String("store.backend", s.backend))
	start := time.Now()
	err := call(ctx)
	s.metrics.ObserveStore(s.backend, op, err, time.Since(start))
	observability.EndSpan(span, err)
	return err
}

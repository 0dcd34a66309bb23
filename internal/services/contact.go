package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/yungbote/contactbook-backend/internal/data/repos"
	"github.com/yungbote/contactbook-backend/internal/data/repos/contact"
	types "github.com/yungbote/contactbook-backend/internal/domain"
	"github.com/yungbote/contactbook-backend/internal/observability"
	"github.com/yungbote/contactbook-backend/internal/platform/ctxutil"
	"github.com/yungbote/contactbook-backend/internal/platform/logger"
	"github.com/yungbote/contactbook-backend/internal/validation"
)

// ContactService scopes every operation to the caller found in ctx.
type ContactService interface {
	// List returns the caller's contacts sorted by name, narrowed by query
	// when it is not blank.
	List(ctx context.Context, query string) ([]*types.Contact, error)
	Get(ctx context.Context, id string) (*types.Contact, error)
	Add(ctx context.Context, in validation.ContactInput) (*types.Contact, error)
	Edit(ctx context.Context, id string, in validation.ContactInput) (*types.Contact, error)
	Delete(ctx context.Context, id string) error
}

type contactService struct {
	log     *logger.Logger
	store   repos.ContactStore
	metrics *observability.Metrics
	newID   func() string
}

func NewContactService(log *logger.Logger, store repos.ContactStore, metrics *observability.Metrics) ContactService {
	return &contactService{
		log:     log.With("service", "ContactService"),
		store:   store,
		metrics: metrics,
		newID:   uuid.NewString,
	}
}

func callerOf(ctx context.Context) (string, error) {
	owner := ctxutil.Owner(ctx)
	if owner == "" {
		return "", types.ErrUnauthorized
	}
	return owner, nil
}

func (cs *contactService) List(ctx context.Context, query string) ([]*types.Contact, error) {
	owner, err := callerOf(ctx)
	if err != nil {
		return nil, err
	}
	ctx, span := observability.StartSpan(ctx, "contacts.list", attribute.Bool("query", query != ""))
	out, err := contact.Search(ctx, cs.store, owner, query)
	observability.EndSpan(span, err)
	return out, err
}

func (cs *contactService) Get(ctx context.Context, id string) (*types.Contact, error) {
	owner, err := callerOf(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := cs.store.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	c := contact.FindByID(rows, owner, id)
	if c == nil {
		return nil, fmt.Errorf("contact %s: %w", id, types.ErrNotFound)
	}
	return c, nil
}

func (cs *contactService) Add(ctx context.Context, in validation.ContactInput) (*types.Contact, error) {
	owner, err := callerOf(ctx)
	if err != nil {
		return nil, err
	}
	in = in.Normalize()
	if err := validation.ValidateContact(in); err != nil {
		cs.metrics.IncContactOp("add", "invalid")
		return nil, err
	}

	ctx, span := observability.StartSpan(ctx, "contacts.add")
	var created *types.Contact
	err = cs.store.Update(ctx, func(rows []*types.Contact) ([]*types.Contact, error) {
		if validation.FindDuplicate(contact.ForOwner(rows, owner), in.Name, in.Phone, in.Email) {
			return nil, types.NewValidationError(validation.ReasonDuplicate)
		}
		created = &types.Contact{
			ID:        cs.newID(),
			Owner:     owner,
			Name:      in.Name,
			Phone:     in.Phone,
			Email:     in.Email,
			CreatedAt: types.Now(),
		}
		return append(rows, created), nil
	})
	observability.EndSpan(span, err)
	if err != nil {
		cs.metrics.IncContactOp("add", outcomeOf(err))
		return nil, err
	}
	cs.metrics.IncContactOp("add", "ok")
	return created.Clone(), nil
}

func (cs *contactService) Edit(ctx context.Context, id string, in validation.ContactInput) (*types.Contact, error) {
	owner, err := callerOf(ctx)
	if err != nil {
		return nil, err
	}
	in = in.Normalize()
	if err := validation.ValidateContact(in); err != nil {
		cs.metrics.IncContactOp("edit", "invalid")
		return nil, err
	}

	ctx, span := observability.StartSpan(ctx, "contacts.edit")
	var updated *types.Contact
	err = cs.store.Update(ctx, func(rows []*types.Contact) ([]*types.Contact, error) {
		target := contact.FindByID(rows, owner, id)
		if target == nil {
			return nil, fmt.Errorf("contact %s: %w", id, types.ErrNotFound)
		}
		others := make([]*types.Contact, 0, len(rows))
		for _, r := range contact.ForOwner(rows, owner) {
			if r != target {
				others = append(others, r)
			}
		}
		if validation.FindDuplicate(others, in.Name, in.Phone, in.Email) {
			return nil, types.NewValidationError(validation.ReasonDuplicate)
		}
		target.Name = in.Name
		target.Phone = in.Phone
		target.Email = in.Email
		updated = target.Clone()
		return rows, nil
	})
	observability.EndSpan(span, err)
	if err != nil {
		cs.metrics.IncContactOp("edit", outcomeOf(err))
		return nil, err
	}
	cs.metrics.IncContactOp("edit", "ok")
	return updated, nil
}

func (cs *contactService) Delete(ctx context.Context, id string) error {
	owner, err := callerOf(ctx)
	if err != nil {
		return err
	}
	ctx, span := observability.StartSpan(ctx, "contacts.delete")
	err = cs.store.Update(ctx, func(rows []*types.Contact) ([]*types.Contact, error) {
		out := make([]*types.Contact, 0, len(rows))
		for _, r := range rows {
			if r.ID == id && r.Owner == owner {
				continue
			}
			out = append(out, r)
		}
		if len(out) == len(rows) {
			return nil, fmt.Errorf("contact %s: %w", id, types.ErrNotFound)
		}
		return out, nil
	})
	observability.EndSpan(span, err)
	if err != nil {
		cs.metrics.IncContactOp("delete", outcomeOf(err))
		return err
	}
	cs.metrics.IncContactOp("delete", "ok")
	return nil
}

func outcomeOf(err error) string {
	var vErr *types.ValidationError
	switch {
	case errors.As(err, &vErr) && vErr.Reason == validation.ReasonDuplicate:
		return "duplicate"
	case errors.Is(err, types.ErrValidation):
		return "invalid"
	case errors.Is(err, types.ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}

package contact

import (
	"context"
	"sort"
	"strings"

	types "github.com/yungbote/contactbook-backend/internal/domain"
	"github.com/yungbote/contactbook-backend/internal/normalization"
)

// ForOwner keeps rows whose owner equals owner exactly and sorts them by
// lower-cased name. Equal names keep their store order.
func ForOwner(rows []*types.Contact, owner string) []*types.Contact {
	out := make([]*types.Contact, 0, len(rows))
	for _, r := range rows {
		if r != nil && r.Owner == owner {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}

func ListForOwner(ctx context.Context, store Reader, owner string) ([]*types.Contact, error) {
	rows, err := store.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	return ForOwner(rows, owner), nil
}

// Search narrows ListForOwner to rows with a field value containing query,
// ignoring case. A blank query returns the whole list.
func Search(ctx context.Context, store Reader, owner, query string) ([]*types.Contact, error) {
	rows, err := ListForOwner(ctx, store, owner)
	if err != nil {
		return nil, err
	}
	q := normalization.ParseInputString(query)
	if q == "" {
		return rows, nil
	}
	out := make([]*types.Contact, 0, len(rows))
	for _, r := range rows {
		if Matches(r, q) {
			out = append(out, r)
		}
	}
	return out, nil
}

// Matches reports whether the lower-cased query q occurs in any field value.
// Fields are checked one at a time so a match never spans two fields.
func Matches(c *types.Contact, q string) bool {
	for _, v := range []string{c.ID, c.Owner, c.Name, c.Phone, c.Email, types.CreatedAtText(c)} {
		if strings.Contains(strings.ToLower(v), q) {
			return true
		}
	}
	return false
}

// FindByID returns the owner's row with id, or nil.
func FindByID(rows []*types.Contact, owner, id string) *types.Contact {
	for _, r := range rows {
		if r != nil && r.ID == id && r.Owner == owner {
			return r
		}
	}
	return nil
}

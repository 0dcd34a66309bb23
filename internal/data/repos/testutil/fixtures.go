package testutil

import (
	"time"

	"github.com/google/uuid"

	types "github.com/yungbote/contactbook-backend/internal/domain"
)

var baseTime = time.Date(2024, 3, 9, 14, 7, 55, 120000000, time.UTC)

// Contact builds a row with a fresh id and a deterministic timestamp offset
// by n seconds.
func Contact(owner, name, phone, email string, n int) *types.Contact {
	return &types.Contact{
		ID:        uuid.New().String(),
		Owner:     owner,
		Name:      name,
		Phone:     phone,
		Email:     email,
		CreatedAt: baseTime.Add(time.Duration(n) * time.Second),
	}
}

// Mixed is a small multi-owner collection with colliding names across owners
// and equal names within one owner.
func Mixed() []*types.Contact {
	return []*types.Contact{
		Contact("bob", "zed", "5550000001", "", 0),
		Contact("alice", "Ann", "5550000002", "ann@alice.io", 1),
		Contact("bob", "ann", "5550000003", "ann@bob.io", 2),
		Contact("bob", "Carl", "", "carl@bob.io", 3),
		Contact("bob", "ANN", "5550000004", "", 4),
		Contact("alice", "bob", "", "", 5),
	}
}

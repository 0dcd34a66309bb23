package contact

import "time"

// Contact is one row of the contact store. ID, Owner and CreatedAt are fixed at
// creation; only Name, Phone and Email change afterwards.
type Contact struct {
	ID        string    `json:"id"`
	Owner     string    `json:"owner"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	// StoredCreatedAt is the created_at text as read from a file. Rewrites
	// emit it unchanged; it is empty for rows created in this process.
	StoredCreatedAt string `json:"-"`
}

// Clone returns a detached copy.
func (c *Contact) Clone() *Contact {
	if c == nil {
		return nil
	}
	cp := *c
	return &cp
}

// Columns is the persisted field order.
var Columns = []string{"id", "owner", "name", "phone", "email", "created_at"}

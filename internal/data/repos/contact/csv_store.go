package contact

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/yungbote/contactbook-backend/internal/data/csvfile"
	types "github.com/yungbote/contactbook-backend/internal/domain"
	"github.com/yungbote/contactbook-backend/internal/platform/logger"
)

const FileName = "contacts.csv"

// CSVStore persists the collection as a header-first CSV file. Writers are
// serialized within the process; other processes sharing the file are not
// coordinated.
type CSVStore struct {
	path string
	log  *logger.Logger
	mu   sync.Mutex
}

func NewCSVStore(dataDir string, baseLog *logger.Logger) *CSVStore {
	return &CSVStore{
		path: filepath.Join(dataDir, FileName),
		log:  baseLog.With("repo", "ContactCSVStore"),
	}
}

func (s *CSVStore) Path() string { return s.path }

func (s *CSVStore) EnsureInitialized(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	created, err := csvfile.EnsureFile(s.path, types.ContactColumns)
	if err != nil {
		return err
	}
	if created {
		s.log.Info("Created contact store", "path", s.path)
	}
	return nil
}

func (s *CSVStore) ReadAll(ctx context.Context) ([]*types.Contact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readLocked()
}

func (s *CSVStore) WriteAll(ctx context.Context, rows []*types.Contact) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeLocked(rows)
}

func (s *CSVStore) Update(ctx context.Context, fn UpdateFunc) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, err := s.readLocked()
	if err != nil {
		return err
	}
	next, err := fn(rows)
	if err != nil {
		return err
	}
	return s.writeLocked(next)
}

func (s *CSVStore) readLocked() ([]*types.Contact, error) {
	tbl, err := csvfile.Read(s.path, types.ContactColumns)
	if err != nil {
		return nil, err
	}
	out := make([]*types.Contact, 0, len(tbl.Records))
	for i, rec := range tbl.Records {
		rawCreatedAt := tbl.Get(rec, "created_at")
		createdAt, err := types.ParseTimestamp(rawCreatedAt)
		if err != nil {
			return nil, fmt.Errorf("%w: %s line %d: %v", types.ErrIO, FileName, tbl.Lines[i], err)
		}
		out = append(out, &types.Contact{
			ID:              tbl.Get(rec, "id"),
			Owner:           tbl.Get(rec, "owner"),
			Name:            tbl.Get(rec, "name"),
			Phone:           tbl.Get(rec, "phone"),
			Email:           tbl.Get(rec, "email"),
			CreatedAt:       createdAt,
			StoredCreatedAt: rawCreatedAt,
		})
	}
	return out, nil
}

func (s *CSVStore) writeLocked(rows []*types.Contact) error {
	return csvfile.Replace(s.path, types.ContactColumns, Records(rows))
}

// Records flattens rows into CSV records in column order.
func Records(rows []*types.Contact) [][]string {
	out := make([][]string, 0, len(rows))
	for _, c := range rows {
		if c == nil {
			continue
		}
		out = append(out, []string{
			c.ID,
			c.Owner,
			c.Name,
			c.Phone,
			c.Email,
			types.CreatedAtText(c),
		})
	}
	return out
}

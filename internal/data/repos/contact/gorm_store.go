package contact

import (
	"context"
	"fmt"
	"sync"
	"time"

	"gorm.io/gorm"

	types "github.com/yungbote/contactbook-backend/internal/domain"
	"github.com/yungbote/contactbook-backend/internal/platform/logger"
)

// contactRow is the table shape. Seq keeps insertion order, which stands in
// for file order.
type contactRow struct {
	Seq     uint64    `gorm:"primaryKey;autoIncrement;column:seq"`
	ID      string    `gorm:"column:id;uniqueIndex;not null"`
	Owner   string    `gorm:"column:owner;index;not null"`
	Name    string    `gorm:"column:name;not null"`
	Phone   string    `gorm:"column:phone;not null;default:''"`
	Email   string    `gorm:"column:email;not null;default:''"`
	Created time.Time `gorm:"column:created_at"`
}

func (contactRow) TableName() string { return "contacts" }

// GormStore keeps the collection in a SQL table. Update runs in one
// transaction; on PostgreSQL the table is locked for its duration.
type GormStore struct {
	db  *gorm.DB
	log *logger.Logger
	mu  sync.Mutex
}

func NewGormStore(db *gorm.DB, baseLog *logger.Logger) *GormStore {
	return &GormStore{db: db, log: baseLog.With("repo", "ContactGormStore")}
}

func (s *GormStore) EnsureInitialized(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&contactRow{}); err != nil {
		return fmt.Errorf("%w: migrate contacts: %v", types.ErrIO, err)
	}
	return nil
}

func (s *GormStore) ReadAll(ctx context.Context) ([]*types.Contact, error) {
	return s.readAll(s.db.WithContext(ctx))
}

func (s *GormStore) WriteAll(ctx context.Context, rows []*types.Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.replaceAll(tx, rows)
	})
	return wrapIO(err)
}

func (s *GormStore) Update(ctx context.Context, fn UpdateFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var fnErr error
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if tx.Dialector.Name() == "postgres" {
			if err := tx.Exec("LOCK TABLE contacts IN EXCLUSIVE MODE").Error; err != nil {
				return err
			}
		}
		rows, err := s.readAll(tx)
		if err != nil {
			return err
		}
		next, err := fn(rows)
		if err != nil {
			fnErr = err
			return err
		}
		return s.replaceAll(tx, next)
	})
	if fnErr != nil {
		return fnErr
	}
	return wrapIO(err)
}

func (s *GormStore) readAll(tx *gorm.DB) ([]*types.Contact, error) {
	var rows []contactRow
	if err := tx.Order("seq ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: read contacts: %v", types.ErrIO, err)
	}
	out := make([]*types.Contact, 0, len(rows))
	for _, r := range rows {
		out = append(out, &types.Contact{
			ID:        r.ID,
			Owner:     r.Owner,
			Name:      r.Name,
			Phone:     r.Phone,
			Email:     r.Email,
			CreatedAt: r.Created.UTC(),
		})
	}
	return out, nil
}

func (s *GormStore) replaceAll(tx *gorm.DB, rows []*types.Contact) error {
	if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&contactRow{}).Error; err != nil {
		return err
	}
	batch := make([]contactRow, 0, len(rows))
	for _, c := range rows {
		if c == nil {
			continue
		}
		batch = append(batch, contactRow{
			ID:      c.ID,
			Owner:   c.Owner,
			Name:    c.Name,
			Phone:   c.Phone,
			Email:   c.Email,
			Created: c.CreatedAt.UTC(),
		})
	}
	if len(batch) == 0 {
		return nil
	}
	return tx.CreateInBatches(&batch, 200).Error
}

func wrapIO(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", types.ErrIO, err)
}

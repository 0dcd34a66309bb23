package user

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/contactbook-backend/internal/data/csvfile"
	types "github.com/yungbote/contactbook-backend/internal/domain"
	"github.com/yungbote/contactbook-backend/internal/platform/logger"
)

const FileName = "users.csv"

type UserRepo interface {
	EnsureInitialized(ctx context.Context) error
	// GetByUsername returns domain.ErrNotFound when no such user exists.
	GetByUsername(ctx context.Context, username string) (*types.User, error)
	// Create returns domain.ErrConflict when the username is taken.
	Create(ctx context.Context, user *types.User) error
}

// csvUserRepo appends to a header-first users file.
type csvUserRepo struct {
	path string
	log  *logger.Logger
	mu   sync.Mutex
}

func NewCSVUserRepo(dataDir string, baseLog *logger.Logger) UserRepo {
	return &csvUserRepo{
		path: filepath.Join(dataDir, FileName),
		log:  baseLog.With("repo", "UserCSVRepo"),
	}
}

func (ur *csvUserRepo) EnsureInitialized(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	ur.mu.Lock()
	defer ur.mu.Unlock()
	created, err := csvfile.EnsureFile(ur.path, types.UserColumns)
	if err != nil {
		return err
	}
	if created {
		ur.log.Info("Created user store", "path", ur.path)
	}
	return nil
}

func (ur *csvUserRepo) GetByUsername(ctx context.Context, username string) (*types.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ur.mu.Lock()
	defer ur.mu.Unlock()
	return ur.findLocked(username)
}

func (ur *csvUserRepo) Create(ctx context.Context, user *types.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	ur.mu.Lock()
	defer ur.mu.Unlock()
	if _, err := ur.findLocked(user.Username); err == nil {
		return fmt.Errorf("username %q: %w", user.Username, types.ErrConflict)
	} else if !errors.Is(err, types.ErrNotFound) {
		return err
	}
	return csvfile.Append(ur.path, []string{
		user.Username,
		user.PasswordHash,
		types.FormatTimestamp(user.CreatedAt),
	})
}

func (ur *csvUserRepo) findLocked(username string) (*types.User, error) {
	tbl, err := csvfile.Read(ur.path, types.UserColumns)
	if err != nil {
		return nil, err
	}
	for i, rec := range tbl.Records {
		if tbl.Get(rec, "username") != username {
			continue
		}
		createdAt, err := types.ParseTimestamp(tbl.Get(rec, "created_at"))
		if err != nil {
			return nil, fmt.Errorf("%w: %s line %d: %v", types.ErrIO, FileName, tbl.Lines[i], err)
		}
		return &types.User{
			Username:     username,
			PasswordHash: tbl.Get(rec, "password_hash"),
			CreatedAt:    createdAt,
		}, nil
	}
	return nil, types.ErrNotFound
}

// memoryUserRepo is the in-process variant used by tests and STORE_BACKEND=memory.
type memoryUserRepo struct {
	mu    sync.Mutex
	users map[string]types.User
}

func NewMemoryUserRepo() UserRepo {
	return &memoryUserRepo{users: map[string]types.User{}}
}

func (ur *memoryUserRepo) EnsureInitialized(ctx context.Context) error { return ctx.Err() }

func (ur *memoryUserRepo) GetByUsername(ctx context.Context, username string) (*types.User, error) {
	ur.mu.Lock()
	defer ur.mu.Unlock()
	u, ok := ur.users[username]
	if !ok {
		return nil, types.ErrNotFound
	}
	return &u, nil
}

func (ur *memoryUserRepo) Create(ctx context.Context, user *types.User) error {
	ur.mu.Lock()
	defer ur.mu.Unlock()
	if _, ok := ur.users[user.Username]; ok {
		return fmt.Errorf("username %q: %w", user.Username, types.ErrConflict)
	}
	ur.users[user.Username] = *user
	return nil
}

type userRow struct {
	Username     string    `gorm:"column:username;primaryKey"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	Created      time.Time `gorm:"column:created_at"`
}

func (userRow) TableName() string { return "users" }

type gormUserRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGormUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	return &gormUserRepo{db: db, log: baseLog.With("repo", "UserGormRepo")}
}

func (ur *gormUserRepo) EnsureInitialized(ctx context.Context) error {
	if err := ur.db.WithContext(ctx).AutoMigrate(&userRow{}); err != nil {
		return fmt.Errorf("%w: migrate users: %v", types.ErrIO, err)
	}
	return nil
}

func (ur *gormUserRepo) GetByUsername(ctx context.Context, username string) (*types.User, error) {
	var rows []userRow
	if err := ur.db.WithContext(ctx).
		Where("username = ?", username).
		Limit(1).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: read users: %v", types.ErrIO, err)
	}
	if len(rows) == 0 {
		return nil, types.ErrNotFound
	}
	return &types.User{
		Username:     rows[0].Username,
		PasswordHash: rows[0].PasswordHash,
		CreatedAt:    rows[0].Created.UTC(),
	}, nil
}

// Create relies on the primary key for uniqueness so concurrent signups for
// one username resolve to a single row and ErrConflict for the rest. The
// connection must be opened with TranslateError.
func (ur *gormUserRepo) Create(ctx context.Context, user *types.User) error {
	row := userRow{Username: user.Username, PasswordHash: user.PasswordHash, Created: user.CreatedAt.UTC()}
	if err := ur.db.WithContext(ctx).Create(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("username %q: %w", user.Username, types.ErrConflict)
		}
		return fmt.Errorf("%w: create user: %v", types.ErrIO, err)
	}
	return nil
}

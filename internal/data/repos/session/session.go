package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"

	types "github.com/yungbote/contactbook-backend/internal/domain"
	"github.com/yungbote/contactbook-backend/internal/platform/logger"
)

// SessionRepo holds per-user session state: the UI theme and the set of
// revoked token ids.
type SessionRepo interface {
	// GetTheme returns "" when the user never chose one.
	GetTheme(ctx context.Context, username string) (string, error)
	SetTheme(ctx context.Context, username, theme string) error
	// RevokeToken remembers jti until ttl elapses.
	RevokeToken(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type memorySessionRepo struct {
	mu      sync.Mutex
	now     func() time.Time
	themes  map[string]string
	revoked map[string]time.Time
}

func NewMemorySessionRepo() SessionRepo {
	return newMemorySessionRepo(time.Now)
}

func newMemorySessionRepo(now func() time.Time) *memorySessionRepo {
	return &memorySessionRepo{
		now:     now,
		themes:  map[string]string{},
		revoked: map[string]time.Time{},
	}
}

func (sr *memorySessionRepo) GetTheme(ctx context.Context, username string) (string, error) {
	sr.mu.Lock()
	defer sr.mu.Unlock()
	return sr.themes[username], nil
}

func (sr *memorySessionRepo) SetTheme(ctx context.Context, username, theme string) error {
	sr.mu.Lock()
	defer sr.mu.Unlock()
	sr.themes[username] = theme
	return nil
}

func (sr *memorySessionRepo) RevokeToken(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	sr.mu.Lock()
	defer sr.mu.Unlock()
	now := sr.now()
	for id, exp := range sr.revoked {
		if !exp.After(now) {
			delete(sr.revoked, id)
		}
	}
	sr.revoked[jti] = now.Add(ttl)
	return nil
}

func (sr *memorySessionRepo) IsRevoked(ctx context.Context, jti string) (bool, error) {
	sr.mu.Lock()
	defer sr.mu.Unlock()
	exp, ok := sr.revoked[jti]
	return ok && exp.After(sr.now()), nil
}

type redisSessionRepo struct {
	rdb    *goredis.Client
	log    *logger.Logger
	prefix string
}

// NewRedisSessionRepo stores state under prefix ("cb" when empty). rdb is
// owned by the caller.
func NewRedisSessionRepo(rdb *goredis.Client, prefix string, baseLog *logger.Logger) SessionRepo {
	if prefix == "" {
		prefix = "cb"
	}
	return &redisSessionRepo{
		rdb:    rdb,
		log:    baseLog.With("repo", "SessionRedisRepo"),
		prefix: prefix,
	}
}

func (sr *redisSessionRepo) themeKey(username string) string {
	return sr.prefix + ":theme:" + username
}

func (sr *redisSessionRepo) revokedKey(jti string) string {
	return sr.prefix + ":revoked:" + jti
}

func (sr *redisSessionRepo) GetTheme(ctx context.Context, username string) (string, error) {
	v, err := sr.rdb.Get(ctx, sr.themeKey(username)).Result()
	if errors.Is(err, goredis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("%w: redis get theme: %v", types.ErrIO, err)
	}
	return v, nil
}

func (sr *redisSessionRepo) SetTheme(ctx context.Context, username, theme string) error {
	if err := sr.rdb.Set(ctx, sr.themeKey(username), theme, 0).Err(); err != nil {
		return fmt.Errorf("%w: redis set theme: %v", types.ErrIO, err)
	}
	return nil
}

func (sr *redisSessionRepo) RevokeToken(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := sr.rdb.Set(ctx, sr.revokedKey(jti), "1", ttl).Err(); err != nil {
		return fmt.Errorf("%w: redis revoke token: %v", types.ErrIO, err)
	}
	return nil
}

func (sr *redisSessionRepo) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := sr.rdb.Exists(ctx, sr.revokedKey(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("%w: redis check revoked: %v", types.ErrIO, err)
	}
	return n > 0, nil
}

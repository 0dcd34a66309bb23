package session

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/contactbook-backend/internal/data/repos/testutil"
)

func runSessionRepo(t *testing.T, repo SessionRepo, user string) {
	t.Helper()
	ctx := context.Background()

	theme, err := repo.GetTheme(ctx, user)
	if err != nil {
		t.Fatalf("GetTheme: %v", err)
	}
	if theme != "" {
		t.Fatalf("GetTheme (unset): want=%q got=%q", "", theme)
	}
	if err := repo.SetTheme(ctx, user, "dark"); err != nil {
		t.Fatalf("SetTheme: %v", err)
	}
	if theme, _ = repo.GetTheme(ctx, user); theme != "dark" {
		t.Fatalf("GetTheme: want=%q got=%q", "dark", theme)
	}

	jti := uuid.NewString()
	if revoked, err := repo.IsRevoked(ctx, jti); err != nil || revoked {
		t.Fatalf("IsRevoked (fresh): want=false got=%v err=%v", revoked, err)
	}
	if err := repo.RevokeToken(ctx, jti, time.Minute); err != nil {
		t.Fatalf("RevokeToken: %v", err)
	}
	if revoked, err := repo.IsRevoked(ctx, jti); err != nil || !revoked {
		t.Fatalf("IsRevoked: want=true got=%v err=%v", revoked, err)
	}

	other := uuid.NewString()
	if err := repo.RevokeToken(ctx, other, 0); err != nil {
		t.Fatalf("RevokeToken (expired): %v", err)
	}
	if revoked, _ := repo.IsRevoked(ctx, other); revoked {
		t.Fatalf("an already expired token needs no revocation entry")
	}
}

func TestMemorySessionRepo(t *testing.T) {
	runSessionRepo(t, NewMemorySessionRepo(), "alice")
}

func TestMemorySessionRepoExpiry(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	repo := newMemorySessionRepo(func() time.Time { return now })
	ctx := context.Background()

	if err := repo.RevokeToken(ctx, "a", time.Minute); err != nil {
		t.Fatal(err)
	}
	now = now.Add(2 * time.Minute)
	if revoked, _ := repo.IsRevoked(ctx, "a"); revoked {
		t.Fatalf("revocation should lapse after its ttl")
	}
	if err := repo.RevokeToken(ctx, "b", time.Minute); err != nil {
		t.Fatal(err)
	}
	if _, ok := repo.revoked["a"]; ok {
		t.Fatalf("expired entries should be pruned on write")
	}
}

func TestRedisSessionRepo(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("set TEST_REDIS_ADDR to run redis integration tests")
	}
	rdb := goredis.NewClient(&goredis.Options{Addr: addr})
	t.Cleanup(func() { _ = rdb.Close() })
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		t.Fatalf("redis ping: %v", err)
	}
	prefix := "cbtest-" + uuid.NewString()
	runSessionRepo(t, NewRedisSessionRepo(rdb, prefix, testutil.Logger(t)), "alice")
}

package user

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/yungbote/contactbook-backend/internal/data/repos/testutil"
	types "github.com/yungbote/contactbook-backend/internal/domain"
)

func runUserRepo(t *testing.T, repo UserRepo) {
	t.Helper()
	ctx := context.Background()
	if err := repo.EnsureInitialized(ctx); err != nil {
		t.Fatalf("EnsureInitialized: %v", err)
	}

	if _, err := repo.GetByUsername(ctx, "bob"); !errors.Is(err, types.ErrNotFound) {
		t.Fatalf("GetByUsername (missing): want ErrNotFound, got %v", err)
	}

	u := &types.User{
		Username:     "bob",
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
		CreatedAt:    time.Date(2024, 1, 2, 3, 4, 5, 6000, time.UTC),
	}
	if err := repo.Create(ctx, u); err != nil {
		t.Fatalf("Create: %v", err)
	}
	got, err := repo.GetByUsername(ctx, "bob")
	if err != nil {
		t.Fatalf("GetByUsername: %v", err)
	}
	if got.Username != u.Username || got.PasswordHash != u.PasswordHash || !got.CreatedAt.Equal(u.CreatedAt) {
		t.Fatalf("GetByUsername: want=%+v got=%+v", u, got)
	}

	if err := repo.Create(ctx, u); !errors.Is(err, types.ErrConflict) {
		t.Fatalf("Create duplicate: want ErrConflict, got %v", err)
	}
	if _, err := repo.GetByUsername(ctx, "Bob"); !errors.Is(err, types.ErrNotFound) {
		t.Fatalf("usernames are stored normalized; lookup is exact")
	}
}

func TestMemoryUserRepo(t *testing.T) {
	runUserRepo(t, NewMemoryUserRepo())
}

func TestCSVUserRepo(t *testing.T) {
	dir := t.TempDir()
	runUserRepo(t, NewCSVUserRepo(dir, testutil.Logger(t)))

	raw, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		t.Fatal(err)
	}
	want := "username,password_hash,created_at\r\nbob,$2a$10$abcdefghijklmnopqrstuv,2024-01-02T03:04:05.000006\r\n"
	if string(raw) != want {
		t.Fatalf("users file:\nwant=%q\n got=%q", want, raw)
	}
}

func TestGormUserRepoSQLite(t *testing.T) {
	runUserRepo(t, NewGormUserRepo(testutil.SQLite(t), testutil.Logger(t)))
}

func TestGormUserRepoPostgres(t *testing.T) {
	db := testutil.Postgres(t)
	if err := db.Migrator().DropTable(&userRow{}); err != nil {
		t.Fatalf("drop users: %v", err)
	}
	runUserRepo(t, NewGormUserRepo(db, testutil.Logger(t)))
}

func TestGormUserRepoConflictFromConstraint(t *testing.T) {
	db := testutil.SQLite(t)
	ctx := context.Background()
	first := NewGormUserRepo(db, testutil.Logger(t))
	if err := first.EnsureInitialized(ctx); err != nil {
		t.Fatalf("EnsureInitialized: %v", err)
	}
	// Another writer landed the row between lookup and insert.
	if err := db.Create(&userRow{Username: "kim", PasswordHash: "x", Created: time.Now().UTC()}).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}
	err := first.Create(ctx, &types.User{Username: "kim", PasswordHash: "y", CreatedAt: time.Now()})
	if !errors.Is(err, types.ErrConflict) {
		t.Fatalf("Create: want ErrConflict, got %v", err)
	}
	if errors.Is(err, types.ErrIO) {
		t.Fatalf("Create: unique violation must not surface as ErrIO: %v", err)
	}
}

package app

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/contactbook-backend/internal/data/repos"
	"github.com/yungbote/contactbook-backend/internal/observability"
	"github.com/yungbote/contactbook-backend/internal/platform/logger"
)

type StoreBackend string

const (
	StoreBackendCSV      StoreBackend = "csv"
	StoreBackendMemory   StoreBackend = "memory"
	StoreBackendPostgres StoreBackend = "postgres"
	StoreBackendSQLite   StoreBackend = "sqlite"
)

func (b StoreBackend) supported() bool {
	switch b {
	case StoreBackendCSV, StoreBackendMemory, StoreBackendPostgres, StoreBackendSQLite:
		return true
	}
	return false
}

func (b StoreBackend) usesDatabase() bool {
	return b == StoreBackendPostgres || b == StoreBackendSQLite
}

type StoreBootstrapErrorCode string

const (
	StoreBootstrapErrorInvalidBackend  StoreBootstrapErrorCode = "invalid_backend"
	StoreBootstrapErrorMissingDatabase StoreBootstrapErrorCode = "missing_database"
	StoreBootstrapErrorInitFailed      StoreBootstrapErrorCode = "init_failed"
)

type StoreBootstrapError struct {
	Code    StoreBootstrapErrorCode
	Backend string
	DataDir string
	Cause   error
}

func (e *StoreBootstrapError) Error() string {
	if e == nil {
		return "record store bootstrap failed"
	}
	return fmt.Sprintf(
		"record store bootstrap failed (code=%s backend=%q data_dir=%q): %v",
		e.Code,
		e.Backend,
		e.DataDir,
		e.Cause,
	)
}

func (e *StoreBootstrapError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

type stores struct {
	Contacts repos.ContactStore
	Users    repos.UserRepo
}

// resolveStores builds the contact store and user repo for cfg.StoreBackend
// and makes sure both exist. database must be non-nil for the SQL backends.
func resolveStores(ctx context.Context, log *logger.Logger, cfg Config, database *gorm.DB, metrics *observability.Metrics) (stores, error) {
	backend := cfg.StoreBackend
	fail := func(code StoreBootstrapErrorCode, cause error) (stores, error) {
		err := &StoreBootstrapError{Code: code, Backend: string(backend), DataDir: cfg.DataDir, Cause: cause}
		log.Error(
			"Record store bootstrap failed",
			"backend", backend,
			"data_dir", cfg.DataDir,
			"error_code", code,
			"error", cause,
		)
		return stores{}, err
	}

	if !backend.supported() {
		return fail(StoreBootstrapErrorInvalidBackend, fmt.Errorf("unsupported store backend %q", backend))
	}
	if backend.usesDatabase() && database == nil {
		return fail(StoreBootstrapErrorMissingDatabase, errors.New("no database connection"))
	}

	log.Info("Selecting record store", "backend", backend, "data_dir", cfg.DataDir)

	var out stores
	switch backend {
	case StoreBackendCSV:
		out = stores{
			Contacts: repos.NewCSVContactStore(cfg.DataDir, log),
			Users:    repos.NewCSVUserRepo(cfg.DataDir, log),
		}
	case StoreBackendMemory:
		out = stores{
			Contacts: repos.NewMemoryContactStore(),
			Users:    repos.NewMemoryUserRepo(),
		}
	default:
		out = stores{
			Contacts: repos.NewGormContactStore(database, log),
			Users:    repos.NewGormUserRepo(database, log),
		}
	}
	out.Contacts = instrumentContactStore(string(backend), out.Contacts, metrics)

	if err := out.Contacts.EnsureInitialized(ctx); err != nil {
		return fail(StoreBootstrapErrorInitFailed, err)
	}
	if err := out.Users.EnsureInitialized(ctx); err != nil {
		return fail(StoreBootstrapErrorInitFailed, err)
	}
	return out, nil
}

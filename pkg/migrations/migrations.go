package migrations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"path/filepath"
	"strings"
	"sync"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

type migrator interface {
	Up() error
	Close() (sourceErr error, databaseErr error)
}

// sourceSpec is either a golang-migrate source URL (file://) or an
// already-opened source driver (embedded files).
type sourceSpec struct {
	URL    string
	Driver source.Driver
}

func (s sourceSpec) describe() string {
	if s.Driver != nil {
		return "embedded"
	}
	return s.URL
}

var driverFactory = func(db *sql.DB, cfg Config) (database.Driver, error) {
	return postgres.WithInstance(db, &postgres.Config{MigrationsTable: cfg.MigrationsTable})
}

var migratorFactory = func(src sourceSpec, driver database.Driver) (migrator, error) {
	if src.Driver != nil {
		return migrate.NewWithInstance("iofs", src.Driver, "postgres", driver)
	}
	return migrate.NewWithDatabaseInstance(src.URL, "postgres", driver)
}

type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type Config struct {
	// Dir is read from disk when FS is nil.
	Dir string
	// FS holds the migration files at its root, typically an embed.FS.
	FS              fs.FS
	MigrationsTable string
	Logger          Logger
}

func resolveSource(cfg Config) (sourceSpec, error) {
	if cfg.FS != nil {
		d, err := iofs.New(cfg.FS, ".")
		if err != nil {
			return sourceSpec{}, fmt.Errorf("migrations: embedded source: %w", err)
		}
		return sourceSpec{Driver: d}, nil
	}

	dir := cfg.Dir
	if strings.TrimSpace(dir) == "" {
		dir = "migrations"
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return sourceSpec{}, fmt.Errorf("migrations: resolve dir: %w", err)
	}

	// ToSlash keeps Windows paths valid inside a file:// URL.
	return sourceSpec{URL: (&url.URL{
		Scheme: "file",
		Path:   filepath.ToSlash(absDir),
	}).String()}, nil
}

func Up(ctx context.Context, db *sql.DB, cfg Config) error {
	if db == nil {
		return fmt.Errorf("migrations: db is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(cfg.MigrationsTable) == "" {
		cfg.MigrationsTable = "schema_migrations"
	}

	src, err := resolveSource(cfg)
	if err != nil {
		return err
	}

	driver, err := driverFactory(db, cfg)
	if err != nil {
		return fmt.Errorf("migrations: postgres driver: %w", err)
	}

	m, err := migratorFactory(src, driver)
	if err != nil {
		return fmt.Errorf("migrations: init: %w", err)
	}

	var closeOnce sync.Once
	closeMigrator := func() {
		closeOnce.Do(func() {
			srcErr, dbErr := m.Close()
			if cfg.Logger == nil {
				return
			}
			if srcErr != nil {
				cfg.Logger.Warn("Migrations source close error", "error", srcErr)
			}
			if dbErr != nil {
				cfg.Logger.Warn("Migrations db close error", "error", dbErr)
			}
		})
	}
	defer closeMigrator()

	if cfg.Logger != nil {
		cfg.Logger.Info("Running SQL migrations", "source", src.describe(), "table", cfg.MigrationsTable)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- m.Up()
	}()

	select {
	case <-ctx.Done():
		// migrate has no context support; closing is the only interruption.
		closeMigrator()
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, migrate.ErrNoChange) {
			if cfg.Logger != nil {
				cfg.Logger.Info("No migrations to apply")
			}
			return nil
		}
		if err != nil {
			return fmt.Errorf("migrations: up: %w", err)
		}
	}

	if cfg.Logger != nil {
		cfg.Logger.Info("Migrations applied successfully")
	}
	return nil
}

package adapter

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/pressly/goose/v3"
)

// ErrMigrationsUnsupported is returned by Migrate when the variant or the
// native session cannot run schema migrations.
var ErrMigrationsUnsupported = errors.New("migrations are not supported")

// DBProvider is implemented by native sessions backed by database/sql.
type DBProvider interface {
	DB() *sql.DB
}

// Migrate runs all pending goose migrations found in dir of fsys.
func (a *Adapter) Migrate(ctx context.Context, fsys fs.FS, dir string) error {
	db, err := a.migrationDB()
	if err != nil {
		return err
	}

	goose.SetBaseFS(fsys)
	goose.SetLogger(gooseLogger{a.logger})
	if err := goose.SetDialect(a.variant.MigrationDialect()); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, dir); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// MigrationVersion returns the current goose migration version.
func (a *Adapter) MigrationVersion(ctx context.Context) (int64, error) {
	db, err := a.migrationDB()
	if err != nil {
		return 0, err
	}
	if err := goose.SetDialect(a.variant.MigrationDialect()); err != nil {
		return 0, fmt.Errorf("failed to set dialect: %w", err)
	}
	return goose.GetDBVersionContext(ctx, db)
}

func (a *Adapter) migrationDB() (*sql.DB, error) {
	conn, err := a.Session()
	if err != nil {
		return nil, err
	}
	if !a.variant.SupportsMigrations() {
		return nil, fmt.Errorf("%w for %s", ErrMigrationsUnsupported, a.variant.Name())
	}
	p, ok := conn.(DBProvider)
	if !ok {
		return nil, fmt.Errorf("%w: native session has no database handle", ErrMigrationsUnsupported)
	}
	if !conn.Autocommit() {
		return nil, fmt.Errorf("cannot run migrations inside a transaction")
	}
	return p.DB(), nil
}

// gooseLogger sends goose output to slog.
type gooseLogger struct {
	logger *slog.Logger
}

func (l gooseLogger) Printf(format string, v ...any) {
	l.logger.Info(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l gooseLogger) Fatalf(format string, v ...any) {
	l.logger.Error(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

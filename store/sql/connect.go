package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"strings"
	"time"

	persistence "github.com/goliatone/go-persistence-bun"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/schema"

	"github.com/goliatone/go-listings/core"
	"github.com/goliatone/go-listings/migrations"
)

const defaultPingTimeout = 5 * time.Second

type persistenceConfig struct {
	driver string
	server string
	debug  bool
}

func (c persistenceConfig) GetDebug() bool                { return c.debug }
func (c persistenceConfig) GetDriver() string             { return c.driver }
func (c persistenceConfig) GetServer() string             { return c.server }
func (c persistenceConfig) GetPingTimeout() time.Duration { return defaultPingTimeout }
func (c persistenceConfig) GetOtelIdentifier() string     { return "go-listings" }

// Connect opens the catalog database, registers the embedded schema
// migrations for the selected dialect, and runs them. Callers own the
// returned client and should Close it when done.
func Connect(ctx context.Context, cfg core.CatalogConfig) (*persistence.Client, error) {
	driver, dialectName, dialect, err := resolveDialect(cfg.Driver)
	if err != nil {
		return nil, err
	}
	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" {
		return nil, core.NewBadInputError("sqlstore: catalog dsn is required")
	}

	sqlDB, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: open catalog database: %w", err)
	}

	client, err := persistence.New(persistenceConfig{driver: driver, server: dsn}, sqlDB, dialect)
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("sqlstore: build persistence client: %w", err)
	}

	_, err = migrations.Register(ctx, func(_ context.Context, migrationDialect string, _ string, fsys fs.FS) error {
		if migrationDialect != dialectName {
			return nil
		}
		client.RegisterSQLMigrations(fsys)
		return nil
	}, migrations.WithValidationTargets(dialectName))
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("sqlstore: register catalog migrations: %w", err)
	}

	if err := client.Migrate(ctx); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("sqlstore: migrate catalog schema: %w", err)
	}
	return client, nil
}

func resolveDialect(driver string) (string, string, schema.Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", "sqlite", "sqlite3":
		return "sqlite3", migrations.DialectSQLite, sqlitedialect.New(), nil
	case "postgres", "postgresql", "pg":
		return "postgres", migrations.DialectPostgres, pgdialect.New(), nil
	default:
		return "", "", nil, core.NewBadInputError(fmt.Sprintf("sqlstore: unsupported catalog driver %q", driver))
	}
}

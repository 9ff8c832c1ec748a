package postboard

import (
	"context"
	"database/sql"
	"io/fs"

	"github.com/goliatone/go-persistence-bun"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

// Connect builds the bun client from an open connection and brings the
// schema up to date with the embedded migrations.
func Connect(ctx context.Context, cfg *PersistenceConfig, sqldb *sql.DB) (*bun.DB, error) {
	persistence.RegisterModel((*User)(nil))
	persistence.RegisterModel((*Post)(nil))

	client, err := persistence.New(cfg, sqldb, sqlitedialect.New())
	if err != nil {
		return nil, err
	}

	migrations, err := fs.Sub(GetMigrationsFS(), "data/sql/migrations")
	if err != nil {
		return nil, err
	}

	client.RegisterDialectMigrations(
		migrations,
		persistence.WithDialectSourceLabel("data/sql/migrations"),
		persistence.WithValidationTargets("sqlite"),
	)

	if err := client.ValidateDialects(ctx); err != nil {
		return nil, err
	}

	if err := client.Migrate(ctx); err != nil {
		return nil, err
	}

	return client.DB(), nil
}

// Package localdb opens the client's sqlite database and applies its schema.
package localdb

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/gophtasks/internal/client/migrations"
	"github.com/dmitrijs2005/gophtasks/internal/dbx"
	"github.com/dmitrijs2005/gophtasks/internal/filex"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// Open creates (if needed) and migrates the sqlite file at path.
// ":memory:" gives a throwaway database.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	dsn, err := filex.EnsureParentDir(path)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dsn, err)
	}
	// one writer; also keeps ":memory:" on a single connection
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite %s: %w", dsn, err)
	}

	if err := dbx.Migrate(ctx, db, goose.DialectSQLite3, migrations.Migrations); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

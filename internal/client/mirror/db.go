package mirror

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/weddingkeeper/internal/client/mirror/migrations"
	"github.com/dmitrijs2005/weddingkeeper/internal/filex"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded mirror schema.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return gooseUpContext(ctx, db, ".")
}

// OpenDatabase opens (creating if needed) the SQLite mirror file at path
// and migrates it. ":memory:" gives a throwaway mirror.
func OpenDatabase(ctx context.Context, path string) (*sql.DB, error) {
	if err := filex.EnsureParentDir(path); err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	// one connection: keeps ":memory:" databases alive and serialises writers
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("mirror migrations: %w", err)
	}
	return db, nil
}

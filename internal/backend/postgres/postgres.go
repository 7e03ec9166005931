// Package postgres is the relational Backend: one table per collection,
// snake_case columns, string ids.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dmitrijs2005/weddingkeeper/internal/backend"
	"github.com/dmitrijs2005/weddingkeeper/internal/backend/postgres/migrations"
	"github.com/dmitrijs2005/weddingkeeper/internal/common"
	"github.com/dmitrijs2005/weddingkeeper/internal/dbx"
	"github.com/dmitrijs2005/weddingkeeper/internal/logging"
	"github.com/jackc/pgx/v5"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

type Store struct {
	db     *sql.DB
	logger logging.Logger
}

func New(db *sql.DB, l logging.Logger) *Store {
	if l == nil {
		l = logging.Nop{}
	}
	return &Store{db: db, logger: l.With("module", "postgres")}
}

// Open opens a pgx-backed *sql.DB. It does not touch the network.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	return db, nil
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded schema.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, ".")
}

func (s *Store) Flavor() backend.Flavor {
	return backend.Relational
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// ident quotes a table or column name.
func ident(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

func (s *Store) List(ctx context.Context, collection string) ([]backend.Record, error) {
	q := fmt.Sprintf(`SELECT * FROM %s ORDER BY created_at, id`, ident(collection))
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	out, err := scanRecords(rows)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) Get(ctx context.Context, collection, id string) (backend.Record, error) {
	return get(ctx, s.db, collection, id)
}

func get(ctx context.Context, db dbx.DBTX, collection, id string) (backend.Record, error) {
	q := fmt.Sprintf(`SELECT * FROM %s WHERE id = $1`, ident(collection))
	rows, err := db.QueryContext(ctx, q, id)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	out, err := scanRecords(rows)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%s/%s: %w", collection, id, common.ErrNotFound)
	}
	return out[0], nil
}

func (s *Store) Insert(ctx context.Context, collection string, rec backend.Record) error {
	if rec.ID() == "" {
		return fmt.Errorf("insert %s: %w: missing id", collection, common.ErrInvalidArgument)
	}

	keys := sortedKeys(rec)
	cols := make([]string, len(keys))
	marks := make([]string, len(keys))
	args := make([]any, len(keys))
	for i, k := range keys {
		cols[i] = ident(k)
		marks[i] = fmt.Sprintf("$%d", i+1)
		v, err := toArg(rec[k])
		if err != nil {
			return err
		}
		args[i] = v
	}

	q := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)`, ident(collection), strings.Join(cols, ", "), strings.Join(marks, ", "))
	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (s *Store) Update(ctx context.Context, collection, id string, fields backend.Record) error {
	return update(ctx, s.db, collection, id, fields)
}

func update(ctx context.Context, db dbx.DBTX, collection, id string, fields backend.Record) error {
	keys := sortedKeys(fields)
	sets := make([]string, 0, len(keys))
	args := make([]any, 0, len(keys)+1)
	for _, k := range keys {
		if k == backend.IDField {
			continue
		}
		v, err := toArg(fields[k])
		if err != nil {
			return err
		}
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", ident(k), len(args)))
	}

	if len(sets) == 0 {
		_, err := get(ctx, db, collection, id)
		return err
	}

	args = append(args, id)
	q := fmt.Sprintf(`UPDATE %s SET %s WHERE id = $%d`, ident(collection), strings.Join(sets, ", "), len(args))
	res, err := db.ExecContext(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s/%s: %w", collection, id, common.ErrNotFound)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	q := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, ident(collection))
	if _, err := s.db.ExecContext(ctx, q, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// UpdateOrders rewrites display orders in one transaction; a missing id
// rolls the whole batch back.
func (s *Store) UpdateOrders(ctx context.Context, collection string, ids []string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for i, id := range ids {
			if err := update(ctx, tx, collection, id, backend.Record{backend.OrderField: i}); err != nil {
				return err
			}
		}
		return nil
	})
}

func sortedKeys(rec backend.Record) []string {
	keys := make([]string, 0, len(rec))
	for k := range rec {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// toArg stores nested values as JSON text.
func toArg(v any) (any, error) {
	switch v.(type) {
	case map[string]any, backend.Record, []any:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode column value: %w", err)
		}
		return string(b), nil
	default:
		return v, nil
	}
}

func scanRecords(rows *sql.Rows) ([]backend.Record, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	out := make([]backend.Record, 0)
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}

		rec := make(backend.Record, len(cols))
		for i, c := range cols {
			rec[c] = normalize(values[i])
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

// normalize maps driver values onto the plain types every adapter agrees on.
func normalize(v any) any {
	switch t := v.(type) {
	case []byte:
		return string(t)
	case time.Time:
		return t.UTC().Format(time.RFC3339Nano)
	case int32:
		return int64(t)
	default:
		return v
	}
}

// Package sqlite provides the durable SQLite-backed KeyedStore.
//
// Records live in a `voters` table keyed by voter_id with the full record
// serialized as a JSON payload; metadata lives in a `meta` key/value table.
// Pagination follows the primary-key order of the voters table. Schema
// changes are additive migrations applied at Open, so existing rows survive
// upgrades.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/boothline/rostercache/codec"
	"github.com/boothline/rostercache/model"
	"github.com/boothline/rostercache/store"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// Store persists roster records and cache metadata in SQLite.
type Store struct {
	sqlDB *sql.DB
	codec codec.Codec
}

var _ store.KeyedStore = (*Store)(nil)

// Option configures the store.
type Option func(*Store)

// WithCodec overrides the codec used to serialize record payloads.
// If nil is passed, codec.Default is used.
func WithCodec(c codec.Codec) Option {
	return func(s *Store) {
		if c == nil {
			c = codec.Default
		}
		s.codec = c
	}
}

// Open opens (or creates) the store at path and applies pending migrations.
func Open(path string, optFns ...Option) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	s := &Store{sqlDB: sqlDB, codec: codec.Default}
	for _, fn := range optFns {
		if fn != nil {
			fn(s)
		}
	}
	return s, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// PutBatch upserts the batch inside one transaction.
func (s *Store) PutBatch(ctx context.Context, batch []model.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin batch tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO voters (voter_id, payload, updated_at)
VALUES (?, ?, ?)
ON CONFLICT(voter_id) DO UPDATE SET
    payload = excluded.payload,
    updated_at = excluded.updated_at;
`)
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC().UnixMilli()
	for i, r := range batch {
		id := r.ID()
		if id == "" {
			return fmt.Errorf("record %d has no identifier", i)
		}
		payload, err := s.codec.Marshal(r)
		if err != nil {
			return fmt.Errorf("encode record %q: %w", id, err)
		}
		if _, err := stmt.ExecContext(ctx, id, payload, now); err != nil {
			return fmt.Errorf("upsert record %q: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}
	return nil
}

// Page returns the key-ordered slice for the given page.
func (s *Store) Page(ctx context.Context, page, size int) ([]model.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if page < 1 || size < 1 {
		return nil, store.ErrInvalidPage
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT payload FROM voters ORDER BY voter_id LIMIT ? OFFSET ?;
`, size, (page-1)*size)
	if err != nil {
		return nil, fmt.Errorf("query page: %w", err)
	}
	defer rows.Close()

	out := make([]model.Record, 0, size)
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		var r model.Record
		if err := s.codec.Unmarshal(payload, &r); err != nil {
			return nil, fmt.Errorf("decode record: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate page: %w", err)
	}
	return out, nil
}

// Count returns the total record count.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.sqlDB.QueryRowContext(ctx, `SELECT COUNT(*) FROM voters;`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return n, nil
}

// Clear removes all records, keeping metadata.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM voters;`); err != nil {
		return fmt.Errorf("clear records: %w", err)
	}
	return nil
}

// GetMeta returns a scalar metadata value.
func (s *Store) GetMeta(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.sqlDB.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = ?;`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get meta %q: %w", key, err)
	}
	return value, true, nil
}

// SetMeta writes a scalar metadata value.
func (s *Store) SetMeta(ctx context.Context, key, value string) error {
	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO meta (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value;
`, key, value)
	if err != nil {
		return fmt.Errorf("set meta %q: %w", key, err)
	}
	return nil
}

// applyMigrations executes the embedded migrations at most once per file.
func applyMigrations(sqlDB *sql.DB) error {
	if _, err := sqlDB.Exec(`
CREATE TABLE IF NOT EXISTS schema_migrations (
    name TEXT PRIMARY KEY,
    applied_at INTEGER NOT NULL
);
`); err != nil {
		return fmt.Errorf("ensure migration table: %w", err)
	}

	entries, err := fs.ReadDir(migrationFS, "migrations")
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}
	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		var applied int
		err := sqlDB.QueryRow(`SELECT COUNT(*) FROM schema_migrations WHERE name = ?;`, name).Scan(&applied)
		if err != nil {
			return fmt.Errorf("check migration %q: %w", name, err)
		}
		if applied > 0 {
			continue
		}

		script, err := fs.ReadFile(migrationFS, "migrations/"+name)
		if err != nil {
			return fmt.Errorf("read migration %q: %w", name, err)
		}
		tx, err := sqlDB.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %q: %w", name, err)
		}
		if _, err := tx.Exec(string(script)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply migration %q: %w", name, err)
		}
		if _, err := tx.Exec(`INSERT INTO schema_migrations (name, applied_at) VALUES (?, ?);`,
			name, time.Now().UTC().UnixMilli()); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record migration %q: %w", name, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %q: %w", name, err)
		}
	}
	return nil
}

// Package sqlstore persists workspace state in a single SQL table, one JSON
// document per (workspace, key). SQLite runs through modernc.org/sqlite and
// Postgres through the pgx database/sql driver.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
	_ "modernc.org/sqlite"             // pure go sqlite driver

	"github.com/jsamuelsen/startup-toolkit/internal/domain"
	"github.com/jsamuelsen/startup-toolkit/internal/ports"
)

var (
	_ ports.StateStore    = (*Store)(nil)
	_ ports.HealthChecker = (*Store)(nil)
)

// Dialect identifies the SQL flavor.
type Dialect string

const (
	SQLite   Dialect = "sqlite"
	Postgres Dialect = "postgres"
)

func (d Dialect) driver() string {
	if d == Postgres {
		return "pgx"
	}

	return "sqlite"
}

func (d Dialect) ddl() string {
	payload := "BLOB"
	if d == Postgres {
		payload = "JSONB"
	}

	return `CREATE TABLE IF NOT EXISTS tool_state (
		workspace TEXT NOT NULL,
		"key" TEXT NOT NULL,
		payload ` + payload + ` NOT NULL,
		updated_at TIMESTAMP NOT NULL,
		PRIMARY KEY (workspace, "key")
	)`
}

// Options tunes the connection pool.
type Options struct {
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	// AutoMigrate creates the tool_state table when missing.
	AutoMigrate bool
}

// Store is a StateStore over database/sql.
type Store struct {
	db      *sql.DB
	dialect Dialect
}

// Open connects to dsn, pings it and optionally creates the table. For
// SQLite dsn is a file path whose directory is created when missing.
func Open(ctx context.Context, dialect Dialect, dsn string, opts Options) (*Store, error) {
	if dialect != SQLite && dialect != Postgres {
		return nil, fmt.Errorf("unsupported dialect %q", dialect)
	}

	if dialect == SQLite && dsn != ":memory:" && !strings.HasPrefix(dsn, "file:") {
		if err := os.MkdirAll(filepath.Dir(dsn), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}

	db, err := sql.Open(dialect.driver(), dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dialect, err)
	}

	switch {
	case dialect == SQLite:
		// One writer; also keeps ":memory:" to a single database.
		db.SetMaxOpenConns(1)
	case opts.MaxOpenConns > 0:
		db.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", dialect, err)
	}

	s := &Store{db: db, dialect: dialect}

	if opts.AutoMigrate {
		if err := s.Migrate(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	return s, nil
}

// Migrate creates the tool_state table when missing.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, s.dialect.ddl()); err != nil {
		return fmt.Errorf("ensure tool_state table: %w", err)
	}

	return nil
}

// Load returns the stored document.
func (s *Store) Load(ctx context.Context, workspace, key string) ([]byte, error) {
	var payload []byte

	err := s.db.QueryRowContext(ctx,
		s.rebind(`SELECT payload FROM tool_state WHERE workspace = ? AND "key" = ?`),
		workspace, key,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFoundError("state "+key, "")
	}
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", key, err)
	}

	return payload, nil
}

// Save upserts payload.
func (s *Store) Save(ctx context.Context, workspace, key string, payload []byte) error {
	_, err := s.db.ExecContext(ctx,
		s.rebind(`INSERT INTO tool_state (workspace, "key", payload, updated_at) VALUES (?, ?, ?, ?)
			ON CONFLICT (workspace, "key") DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`),
		workspace, key, s.encode(payload), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}

	return nil
}

// Delete removes key.
func (s *Store) Delete(ctx context.Context, workspace, key string) error {
	_, err := s.db.ExecContext(ctx,
		s.rebind(`DELETE FROM tool_state WHERE workspace = ? AND "key" = ?`),
		workspace, key,
	)
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}

	return nil
}

// Keys lists the keys of workspace in lexical order.
func (s *Store) Keys(ctx context.Context, workspace string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		s.rebind(`SELECT "key" FROM tool_state WHERE workspace = ? ORDER BY "key"`),
		workspace,
	)
	if err != nil {
		return nil, fmt.Errorf("select keys: %w", err)
	}
	defer func() { _ = rows.Close() }()

	keys := []string{}
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("scan key: %w", err)
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate keys: %w", err)
	}

	return keys, nil
}

// Name implements ports.HealthChecker.
func (s *Store) Name() string {
	return string(s.dialect)
}

// Check implements ports.HealthChecker.
func (s *Store) Check(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// encode passes JSONB parameters as text so pgx does not send them as bytea.
func (s *Store) encode(payload []byte) any {
	if s.dialect == Postgres {
		return string(payload)
	}

	return payload
}

// rebind rewrites ? placeholders to $n for Postgres.
func (s *Store) rebind(query string) string {
	if s.dialect != Postgres {
		return query
	}

	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}

	return b.String()
}

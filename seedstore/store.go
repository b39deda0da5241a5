// Package seedstore persists the seeds of failing property-test cases so
// later runs replay them first. It implements proptest.SeedStore on top of
// SQLite, PostgreSQL or MySQL.
package seedstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

const (
	tableName = "_typegen_seeds"
	// sortable fixed-width timestamps for SQLite TEXT columns
	sqliteTime = "2006-01-02T15:04:05.000000000Z"
)

// Store records failing seeds per test name.
type Store struct {
	db      *sql.DB
	dialect string
}

// Open connects to the database at dbURL and creates the seed table if it
// doesn't exist. The URL scheme picks the dialect: sqlite:path/to/seeds.db,
// postgres://... or mysql://...
func Open(ctx context.Context, dbURL string) (*Store, error) {
	driver, dsn, err := driverConfig(dbURL)
	if err != nil {
		return nil, err
	}
	dialect, _ := InferDialect(dbURL)

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if dialect == DialectSQLite {
		// :memory: databases live and die with a single connection.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	s, err := New(ctx, db, dialect)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an open database and ensures the seed table exists.
func New(ctx context.Context, db *sql.DB, dialect string) (*Store, error) {
	var createSQL string

	switch dialect {
	case DialectPostgres, DialectMySQL:
		createSQL = `
			CREATE TABLE IF NOT EXISTS _typegen_seeds (
				test        VARCHAR(255) NOT NULL,
				seed        BIGINT NOT NULL,
				recorded_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
				PRIMARY KEY (test, seed)
			)`
	case DialectSQLite:
		createSQL = `
			CREATE TABLE IF NOT EXISTS _typegen_seeds (
				test        TEXT NOT NULL,
				seed        INTEGER NOT NULL,
				recorded_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
				PRIMARY KEY (test, seed)
			)`
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownDialect, dialect)
	}

	if _, err := db.ExecContext(ctx, createSQL); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", tableName, err)
	}
	return &Store{db: db, dialect: dialect}, nil
}

// Record stores a failing seed. Recording the same seed twice is a no-op.
func (s *Store) Record(ctx context.Context, test string, seed int64) error {
	var insertSQL string
	var args []any

	switch s.dialect {
	case DialectPostgres:
		insertSQL = `INSERT INTO _typegen_seeds (test, seed, recorded_at) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING`
		args = []any{test, seed, time.Now()}
	case DialectMySQL:
		insertSQL = `INSERT IGNORE INTO _typegen_seeds (test, seed, recorded_at) VALUES (?, ?, ?)`
		args = []any{test, seed, time.Now()}
	default:
		insertSQL = `INSERT OR IGNORE INTO _typegen_seeds (test, seed, recorded_at) VALUES (?, ?, ?)`
		args = []any{test, seed, time.Now().UTC().Format(sqliteTime)}
	}

	if _, err := s.db.ExecContext(ctx, insertSQL, args...); err != nil {
		return fmt.Errorf("failed to record seed %d for %s: %w", seed, test, err)
	}
	return nil
}

// Seeds returns the recorded seeds of a test, oldest first.
func (s *Store) Seeds(ctx context.Context, test string) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx,
		s.rebind("SELECT seed FROM _typegen_seeds WHERE test = ? ORDER BY recorded_at, seed"), test)
	if err != nil {
		return nil, fmt.Errorf("failed to query seeds: %w", err)
	}
	defer rows.Close()

	var seeds []int64
	for rows.Next() {
		var seed int64
		if err := rows.Scan(&seed); err != nil {
			return nil, fmt.Errorf("failed to scan seed: %w", err)
		}
		seeds = append(seeds, seed)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating seeds: %w", err)
	}

	return seeds, nil
}

// Forget removes a seed once its case passes again.
func (s *Store) Forget(ctx context.Context, test string, seed int64) error {
	_, err := s.db.ExecContext(ctx,
		s.rebind("DELETE FROM _typegen_seeds WHERE test = ? AND seed = ?"), test, seed)
	if err != nil {
		return fmt.Errorf("failed to forget seed %d for %s: %w", seed, test, err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// rebind rewrites ? placeholders as $n for PostgreSQL.
func (s *Store) rebind(query string) string {
	if s.dialect != DialectPostgres {
		return query
	}
	out := make([]byte, 0, len(query)+8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			out = fmt.Appendf(out, "$%d", n)
			continue
		}
		out = append(out, query[i])
	}
	return string(out)
}

// Package sqlite provides the SQLite-backed gateway store.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/popcity/popcity/internal/game/economy"
	sqlitemigrate "github.com/popcity/popcity/internal/platform/storage/sqlitemigrate"
	"github.com/popcity/popcity/internal/platform/timeouts"
	"github.com/popcity/popcity/internal/services/gateway/storage"
	"github.com/popcity/popcity/internal/services/gateway/storage/sqlite/migrations"
)

const dayLayout = "2006-01-02"

// Store persists gateway state in SQLite. Every mutation runs in one
// immediate transaction.
type Store struct {
	sqlDB *sql.DB
	now   func() time.Time
}

type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite gateway store and applies embedded migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := fmt.Sprintf("file:%s?_txlock=immediate&_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(%d)",
		filepath.Clean(path), timeouts.StoreBusy.Milliseconds())
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlitemigrate.ApplyMigrations(ctx, sqlDB, migrations.FS, "."); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB, now: time.Now}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *Store) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	return nil
}

func (s *Store) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()
	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func selectStats(ctx context.Context, q queryer, userID string) (economy.Stats, error) {
	var stats economy.Stats
	err := q.QueryRowContext(ctx,
		`SELECT points, currency, streak, longest_streak, revision FROM users WHERE id = ?`, userID,
	).Scan(&stats.Points, &stats.Currency, &stats.Streak, &stats.LongestStreak, &stats.Revision)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return economy.Stats{}, storage.ErrNotFound
		}
		return economy.Stats{}, fmt.Errorf("get stats: %w", err)
	}
	return stats, nil
}

// credit applies rewards to userID and returns the resulting stats.
func (s *Store) credit(ctx context.Context, q queryer, userID string, rewards economy.Rewards) (economy.Stats, error) {
	if !rewards.IsZero() {
		res, err := q.ExecContext(ctx,
			`UPDATE users SET points = points + ?, currency = currency + ?, revision = revision + 1, updated_at = ? WHERE id = ?`,
			max(rewards.Points, 0), max(rewards.Currency, 0), toMillis(s.now()), userID,
		)
		if err != nil {
			return economy.Stats{}, fmt.Errorf("credit rewards: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return economy.Stats{}, storage.ErrNotFound
		}
	}
	return selectStats(ctx, q, userID)
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}

func formatDay(t *time.Time) sql.NullString {
	if t == nil || t.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: t.UTC().Format(dayLayout), Valid: true}
}

func parseDay(raw sql.NullString) (*time.Time, error) {
	if !raw.Valid || strings.TrimSpace(raw.String) == "" {
		return nil, nil
	}
	t, err := time.Parse(dayLayout, raw.String)
	if err != nil {
		return nil, fmt.Errorf("parse day %q: %w", raw.String, err)
	}
	return &t, nil
}

var _ storage.Store = (*Store)(nil)

package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/popcity/popcity/internal/game/economy"
	"github.com/popcity/popcity/internal/services/gateway/storage"
)

// EnsureUser creates userID on first sight and refreshes a non-empty name.
func (s *Store) EnsureUser(ctx context.Context, userID, name string) (storage.User, error) {
	if err := s.ready(ctx); err != nil {
		return storage.User{}, err
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return storage.User{}, fmt.Errorf("user id is required")
	}
	now := toMillis(s.now())
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO users (id, name, created_at, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
		   name = CASE WHEN excluded.name != '' THEN excluded.name ELSE users.name END,
		   updated_at = excluded.updated_at`,
		userID, strings.TrimSpace(name), now, now,
	)
	if err != nil {
		return storage.User{}, fmt.Errorf("ensure user: %w", err)
	}
	user := storage.User{ID: userID}
	err = s.sqlDB.QueryRowContext(ctx,
		`SELECT name, points, currency, streak, longest_streak FROM users WHERE id = ?`, userID,
	).Scan(&user.Name, &user.Stats.Points, &user.Stats.Currency, &user.Stats.Streak, &user.Stats.LongestStreak)
	if err != nil {
		return storage.User{}, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// GetStats returns the stats of userID.
func (s *Store) GetStats(ctx context.Context, userID string) (economy.Stats, error) {
	if err := s.ready(ctx); err != nil {
		return economy.Stats{}, err
	}
	return selectStats(ctx, s.sqlDB, userID)
}

// Leaderboard returns up to limit users by points.
func (s *Store) Leaderboard(ctx context.Context, limit int) ([]storage.LeaderboardEntry, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be greater than zero")
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT id, name, points, streak FROM users ORDER BY points DESC, id ASC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []storage.LeaderboardEntry
	for rows.Next() {
		var e storage.LeaderboardEntry
		if err := rows.Scan(&e.UserID, &e.UserName, &e.Points, &e.Streak); err != nil {
			return nil, fmt.Errorf("leaderboard: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("leaderboard: %w", err)
	}
	return entries, nil
}

package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/popcity/popcity/internal/services/gateway/storage"
)

const maxNudgesListed = 500

// ListNudgedUserIDs returns the users fromUserID already nudged.
func (s *Store) ListNudgedUserIDs(ctx context.Context, fromUserID string) ([]string, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT to_user_id FROM nudges WHERE from_user_id = ? ORDER BY created_at ASC LIMIT ?`,
		fromUserID, maxNudgesListed)
	if err != nil {
		return nil, fmt.Errorf("list nudges: %w", err)
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("list nudges: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list nudges: %w", err)
	}
	return ids, nil
}

// CreateNudge records one nudge. Nudging the same user twice fails with
// ErrAlreadyExists.
func (s *Store) CreateNudge(ctx context.Context, fromUserID, toUserID, goalName string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	goalName = strings.TrimSpace(goalName)
	if goalName == "" {
		goalName = "your goal"
	}
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO nudges (from_user_id, to_user_id, goal_name, created_at) VALUES (?, ?, ?, ?)`,
		fromUserID, toUserID, goalName, toMillis(s.now()))
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("create nudge: %w", err)
	}
	return nil
}

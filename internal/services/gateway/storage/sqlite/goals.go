package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/popcity/popcity/internal/game/economy"
	"github.com/popcity/popcity/internal/services/gateway/storage"
)

const goalColumns = `id, user_id, name, category, target_amount, current_amount,
	current_level, total_levels, status, daily_target, target_date, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGoal(row rowScanner) (storage.Goal, error) {
	var (
		g          storage.Goal
		targetDate sql.NullString
		createdAt  int64
	)
	if err := row.Scan(
		&g.ID, &g.UserID, &g.Name, &g.Category, &g.TargetAmount, &g.CurrentAmount,
		&g.CurrentLevel, &g.TotalLevels, &g.Status, &g.DailyTarget, &targetDate, &createdAt,
	); err != nil {
		return storage.Goal{}, err
	}
	date, err := parseDay(targetDate)
	if err != nil {
		return storage.Goal{}, err
	}
	g.TargetDate = date
	g.CreatedAt = fromMillis(createdAt)
	return g, nil
}

// ListGoals returns the goals of userID, oldest first.
func (s *Store) ListGoals(ctx context.Context, userID string) ([]storage.Goal, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT `+goalColumns+` FROM goals WHERE user_id = ? ORDER BY created_at ASC, id ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	var goals []storage.Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("list goals: %w", err)
		}
		goals = append(goals, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	return goals, nil
}

// CreateGoal inserts one goal.
func (s *Store) CreateGoal(ctx context.Context, goal storage.Goal) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(goal.ID) == "" || strings.TrimSpace(goal.UserID) == "" {
		return fmt.Errorf("goal id and user id are required")
	}
	if goal.TotalLevels <= 0 {
		return fmt.Errorf("total levels must be greater than zero")
	}
	createdAt := goal.CreatedAt
	if createdAt.IsZero() {
		createdAt = s.now()
	}
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO goals (`+goalColumns+`, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		goal.ID, goal.UserID, goal.Name, goal.Category, goal.TargetAmount, goal.CurrentAmount,
		goal.CurrentLevel, goal.TotalLevels, goal.Status, goal.DailyTarget, formatDay(goal.TargetDate),
		toMillis(createdAt), toMillis(createdAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("create goal: %w", err)
	}
	return nil
}

// UpdateGoal loads the goal, applies mutate and credits its rewards in one
// transaction. A mutate error aborts without change.
func (s *Store) UpdateGoal(ctx context.Context, userID, goalID string, mutate storage.GoalMutation) (storage.Goal, economy.Stats, error) {
	var (
		goal  storage.Goal
		stats economy.Stats
	)
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		var err error
		goal, err = scanGoal(tx.QueryRowContext(ctx,
			`SELECT `+goalColumns+` FROM goals WHERE id = ? AND user_id = ?`, goalID, userID))
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return storage.ErrNotFound
			}
			return fmt.Errorf("get goal: %w", err)
		}
		rewards, err := mutate(&goal)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE goals SET current_amount = ?, current_level = ?, status = ?, updated_at = ? WHERE id = ?`,
			goal.CurrentAmount, goal.CurrentLevel, goal.Status, toMillis(s.now()), goal.ID,
		); err != nil {
			return fmt.Errorf("update goal: %w", err)
		}
		stats, err = s.credit(ctx, tx, userID, rewards)
		return err
	})
	if err != nil {
		return storage.Goal{}, economy.Stats{}, err
	}
	return goal, stats, nil
}

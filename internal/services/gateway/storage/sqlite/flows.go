package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/popcity/popcity/internal/game/economy"
	"github.com/popcity/popcity/internal/services/gateway/storage"
)

// ListDailyFlows returns userID's recorded days, oldest first.
func (s *Store) ListDailyFlows(ctx context.Context, userID string) ([]storage.DailyFlow, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	return listDailyFlows(ctx, s.sqlDB, userID)
}

func listDailyFlows(ctx context.Context, q queryer, userID string) ([]storage.DailyFlow, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT day, income, expenses FROM daily_flows WHERE user_id = ? ORDER BY day ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list daily flows: %w", err)
	}
	defer rows.Close()
	var flows []storage.DailyFlow
	for rows.Next() {
		var (
			f   storage.DailyFlow
			day string
		)
		if err := rows.Scan(&day, &f.Income, &f.Expenses); err != nil {
			return nil, fmt.Errorf("list daily flows: %w", err)
		}
		if f.Date, err = time.Parse(dayLayout, day); err != nil {
			return nil, fmt.Errorf("parse flow day %q: %w", day, err)
		}
		flows = append(flows, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list daily flows: %w", err)
	}
	return flows, nil
}

// RecordDailyFlow upserts the flow of one day and stores the streak derived
// from every recorded day, in one transaction.
func (s *Store) RecordDailyFlow(ctx context.Context, userID string, flow storage.DailyFlow, streak storage.StreakFunc) (economy.Stats, error) {
	var stats economy.Stats
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		now := toMillis(s.now())
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO daily_flows (user_id, day, income, expenses, updated_at) VALUES (?, ?, ?, ?, ?)
			 ON CONFLICT (user_id, day) DO UPDATE SET
			   income = excluded.income, expenses = excluded.expenses, updated_at = excluded.updated_at`,
			userID, flow.Date.UTC().Format(dayLayout), flow.Income, flow.Expenses, now,
		); err != nil {
			return fmt.Errorf("record daily flow: %w", err)
		}
		flows, err := listDailyFlows(ctx, tx, userID)
		if err != nil {
			return err
		}
		current := streak(flows)
		res, err := tx.ExecContext(ctx,
			`UPDATE users SET streak = ?, longest_streak = MAX(longest_streak, ?), revision = revision + 1, updated_at = ? WHERE id = ?`,
			current, current, now, userID,
		)
		if err != nil {
			return fmt.Errorf("update streak: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return storage.ErrNotFound
		}
		stats, err = selectStats(ctx, tx, userID)
		return err
	})
	if err != nil {
		return economy.Stats{}, err
	}
	return stats, nil
}

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/popcity/popcity/internal/game/economy"
	"github.com/popcity/popcity/internal/services/gateway/filter"
	"github.com/popcity/popcity/internal/services/gateway/storage"
)

const questSelect = `SELECT q.id, q.name, q.category, q.description, q.points_reward,
	q.currency_reward, q.expires_at, COALESCE(uq.status, 'available')
	FROM quests q
	LEFT JOIN user_quests uq ON uq.quest_id = q.id AND uq.user_id = ?`

func scanQuest(row rowScanner) (storage.Quest, error) {
	var (
		q         storage.Quest
		expiresAt sql.NullInt64
	)
	if err := row.Scan(&q.ID, &q.Name, &q.Category, &q.Description, &q.PointsReward,
		&q.CurrencyReward, &expiresAt, &q.Status); err != nil {
		return storage.Quest{}, err
	}
	if expiresAt.Valid {
		t := fromMillis(expiresAt.Int64)
		q.ExpiresAt = &t
	}
	return q, nil
}

// ListQuests returns the catalog with userID's progress, narrowed by cond.
func (s *Store) ListQuests(ctx context.Context, userID string, cond filter.SQLCondition) ([]storage.Quest, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	query := questSelect
	args := []any{userID}
	if cond.Clause != "" {
		query += " WHERE " + cond.Clause
		args = append(args, cond.Params...)
	}
	query += " ORDER BY q.category ASC, q.id ASC"

	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list quests: %w", err)
	}
	defer rows.Close()

	var quests []storage.Quest
	for rows.Next() {
		q, err := scanQuest(rows)
		if err != nil {
			return nil, fmt.Errorf("list quests: %w", err)
		}
		quests = append(quests, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list quests: %w", err)
	}
	return quests, nil
}

// UpdateQuest applies mutate to userID's progress on questID and credits its
// rewards in one transaction.
func (s *Store) UpdateQuest(ctx context.Context, userID, questID string, mutate storage.QuestMutation) (storage.Quest, economy.Stats, error) {
	var (
		quest storage.Quest
		stats economy.Stats
	)
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		var err error
		quest, err = scanQuest(tx.QueryRowContext(ctx, questSelect+" WHERE q.id = ?", userID, questID))
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return storage.ErrNotFound
			}
			return fmt.Errorf("get quest: %w", err)
		}
		rewards, err := mutate(&quest)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO user_quests (user_id, quest_id, status, updated_at) VALUES (?, ?, ?, ?)
			 ON CONFLICT (user_id, quest_id) DO UPDATE SET status = excluded.status, updated_at = excluded.updated_at`,
			userID, quest.ID, quest.Status, toMillis(s.now()),
		); err != nil {
			return fmt.Errorf("update quest progress: %w", err)
		}
		stats, err = s.credit(ctx, tx, userID, rewards)
		return err
	})
	if err != nil {
		return storage.Quest{}, economy.Stats{}, err
	}
	return quest, stats, nil
}

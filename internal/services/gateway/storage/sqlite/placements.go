package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/popcity/popcity/internal/game/economy"
	"github.com/popcity/popcity/internal/services/gateway/storage"
)

// ListPlacements returns userID's placements by cell.
func (s *Store) ListPlacements(ctx context.Context, userID string) ([]storage.Placement, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	return listPlacements(ctx, s.sqlDB, userID)
}

func listPlacements(ctx context.Context, q queryer, userID string) ([]storage.Placement, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT cell_index, item_id FROM placements WHERE user_id = ? ORDER BY cell_index ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list placements: %w", err)
	}
	defer rows.Close()
	var placements []storage.Placement
	for rows.Next() {
		var p storage.Placement
		if err := rows.Scan(&p.CellIndex, &p.ItemID); err != nil {
			return nil, fmt.Errorf("list placements: %w", err)
		}
		placements = append(placements, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list placements: %w", err)
	}
	return placements, nil
}

// PlaceItem debits cost, occupies the cell and credits credit in one
// transaction. An occupied cell fails with ErrAlreadyExists and a short
// balance with ErrInsufficientCurrency.
func (s *Store) PlaceItem(ctx context.Context, userID string, placement storage.Placement, cost int64, credit economy.Rewards) ([]storage.Placement, economy.Stats, error) {
	var (
		placements []storage.Placement
		stats      economy.Stats
	)
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		current, err := selectStats(ctx, tx, userID)
		if err != nil {
			return err
		}
		if current.Currency < cost {
			return storage.ErrInsufficientCurrency
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO placements (user_id, cell_index, item_id, created_at) VALUES (?, ?, ?, ?)`,
			userID, placement.CellIndex, placement.ItemID, toMillis(s.now()),
		); err != nil {
			if isUniqueViolation(err) {
				return storage.ErrAlreadyExists
			}
			return fmt.Errorf("place item: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE users SET currency = currency - ?, revision = revision + 1, updated_at = ? WHERE id = ?`,
			cost, toMillis(s.now()), userID,
		); err != nil {
			return fmt.Errorf("debit currency: %w", err)
		}
		if stats, err = s.credit(ctx, tx, userID, credit); err != nil {
			return err
		}
		placements, err = listPlacements(ctx, tx, userID)
		return err
	})
	if err != nil {
		return nil, economy.Stats{}, err
	}
	return placements, stats, nil
}

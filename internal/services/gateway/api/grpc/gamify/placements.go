package gamify

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/popcity/popcity/internal/api/gamifyv1"
	"github.com/popcity/popcity/internal/game/economy"
	"github.com/popcity/popcity/internal/game/goal"
	"github.com/popcity/popcity/internal/game/placement"
	apperrors "github.com/popcity/popcity/internal/platform/errors"
	"github.com/popcity/popcity/internal/services/gateway/storage"
)

// ListPlacements returns the caller's occupied cells.
func (s *Service) ListPlacements(ctx context.Context, in *gamifyv1.ListPlacementsRequest) (*gamifyv1.ListPlacementsResponse, error) {
	call, err := s.begin(ctx, in == nil)
	if err != nil {
		return nil, err
	}
	placements, err := s.store.ListPlacements(ctx, call.user.ID)
	if err != nil {
		return nil, call.fail(fmt.Errorf("list placements: %w", err))
	}
	return &gamifyv1.ListPlacementsResponse{Placements: placementsToProto(placements)}, nil
}

// PlaceItem buys a catalog item into an unlocked empty cell.
func (s *Service) PlaceItem(ctx context.Context, in *gamifyv1.PlaceItemRequest) (*gamifyv1.PlaceItemResponse, error) {
	call, err := s.begin(ctx, in == nil)
	if err != nil {
		return nil, err
	}
	itemID := strings.TrimSpace(in.ItemId)
	if itemID == "" {
		return nil, call.fail(apperrors.New(apperrors.CodePlacementItemEmpty, "item is required"))
	}
	if _, ok := placement.LookupItem(itemID); !ok {
		return nil, call.fail(apperrors.New(apperrors.CodePlacementItemEmpty, fmt.Sprintf("unknown item %q", itemID)))
	}
	unlocked, err := s.unlockedCells(ctx, call.user.ID)
	if err != nil {
		return nil, call.fail(err)
	}
	cell := int(in.CellIndex)
	if cell < 0 || cell >= unlocked {
		return nil, call.fail(apperrors.WithMetadata(apperrors.CodePlacementCellLocked,
			fmt.Sprintf("cell %d is locked", cell), map[string]string{"Cell": strconv.Itoa(cell)}))
	}

	placements, stats, err := s.store.PlaceItem(ctx, call.user.ID,
		storage.Placement{CellIndex: cell, ItemID: itemID},
		economy.ItemCost, economy.Rewards{Points: economy.PlacementPoints})
	if err != nil {
		return nil, call.fail(storeError(err, apperrors.CodeNotFound, apperrors.CodePlacementCellOccupied))
	}
	return &gamifyv1.PlaceItemResponse{Placements: placementsToProto(placements), Stats: statsToProto(stats)}, nil
}

// unlockedCells derives open cells from the first active goal, the same goal
// the client reads progress from.
func (s *Service) unlockedCells(ctx context.Context, userID string) (int, error) {
	goals, err := s.store.ListGoals(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("list goals: %w", err)
	}
	for _, g := range goals {
		if g.Status == string(goal.StatusActive) {
			return economy.UnlockedCount(economy.ProgressPercent(g.CurrentAmount, g.TargetAmount)), nil
		}
	}
	return economy.UnlockedCount(0), nil
}

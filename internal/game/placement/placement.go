// Package placement runs the reward grid: players buy decorations with
// currency and drop them into unlocked cells.
//
// A connected engine applies each placement optimistically as pending and
// confirms it with the gateway, rolling back on failure. A simulated engine
// has no gateway and settles placements locally. The mode is fixed per engine.
package placement

import (
	"context"

	"github.com/popcity/popcity/internal/game/economy"
)

// CellState is the lifecycle of one grid cell.
type CellState string

const (
	CellEmpty    CellState = "empty"
	CellPending  CellState = "pending"
	CellOccupied CellState = "occupied"
)

// Cell is one grid position.
type Cell struct {
	Index  int       `json:"index"`
	ItemID string    `json:"item_id,omitempty"`
	State  CellState `json:"state"`
}

// Grid is the full placement surface.
type Grid [economy.GridSize]Cell

// PlaceResult is the gateway's answer to a placement: the authoritative
// placements map (cell index to item ID) and the resulting stats.
type PlaceResult struct {
	Placements map[int]string
	Stats      economy.Stats
}

// Confirmer confirms placements with the gateway.
type Confirmer interface {
	PlaceItem(ctx context.Context, cellIndex int, itemID string) (PlaceResult, error)
}

// Gateway is the remote surface of a connected engine.
type Gateway interface {
	Confirmer
	ListPlacements(ctx context.Context) (map[int]string, error)
}

// ProgressSource reports the active goal's progress, which unlocks cells.
type ProgressSource interface {
	ProgressPercent() float64
}

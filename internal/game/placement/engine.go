package placement

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"

	"github.com/popcity/popcity/internal/game/economy"
	"github.com/popcity/popcity/internal/game/pending"
	apperrors "github.com/popcity/popcity/internal/platform/errors"
)

// Engine owns the session's placement grid.
type Engine struct {
	gateway  Gateway
	wallet   economy.Wallet
	progress ProgressSource
	logf     func(string, ...any)
	inflight *pending.Tracker[int]
	epoch    pending.Epoch

	mu       sync.Mutex
	grid     Grid
	retries  map[string]int
	reserved int64
}

// NewConnected builds an engine that confirms every placement with gateway.
// The wallet is settled with the purchase once the gateway confirms it,
// stamped with the revision of the gateway's resulting stats.
func NewConnected(gateway Gateway, wallet economy.Wallet, progress ProgressSource, logf func(string, ...any)) *Engine {
	if gateway == nil {
		gateway = unavailableGateway{}
	}
	return newEngine(gateway, wallet, progress, logf)
}

// NewSimulated builds an engine without a gateway: each placement debits
// ItemCost and credits PlacementPoints locally.
func NewSimulated(wallet economy.Wallet, progress ProgressSource, logf func(string, ...any)) *Engine {
	return newEngine(nil, wallet, progress, logf)
}

func newEngine(gateway Gateway, wallet economy.Wallet, progress ProgressSource, logf func(string, ...any)) *Engine {
	if logf == nil {
		logf = log.Printf
	}
	e := &Engine{
		gateway:  gateway,
		wallet:   wallet,
		progress: progress,
		logf:     logf,
		inflight: pending.NewTracker[int](),
		retries:  map[string]int{},
	}
	e.clearGridLocked()
	return e
}

// Simulated reports whether the engine settles placements locally.
func (e *Engine) Simulated() bool {
	return e.gateway == nil
}

// Place puts itemID into cellIndex. Preconditions are checked synchronously:
// the cell must be unlocked and empty (pending counts as taken) and the
// wallet must cover ItemCost beyond placements still awaiting confirmation.
func (e *Engine) Place(ctx context.Context, cellIndex int, itemID string) error {
	itemID = strings.TrimSpace(itemID)

	e.mu.Lock()
	if err := e.checkLocked(cellIndex, itemID); err != nil {
		e.mu.Unlock()
		return err
	}
	if e.gateway == nil {
		defer e.mu.Unlock()
		if err := e.wallet.Debit(economy.ItemCost); err != nil {
			return err
		}
		e.wallet.Credit(economy.Rewards{Points: economy.PlacementPoints})
		e.grid[cellIndex] = Cell{Index: cellIndex, ItemID: itemID, State: CellOccupied}
		return nil
	}
	tok, err := e.inflight.Begin(cellIndex)
	if err != nil {
		e.mu.Unlock()
		return err
	}
	e.grid[cellIndex] = Cell{Index: cellIndex, ItemID: itemID, State: CellPending}
	e.reserved += economy.ItemCost
	e.mu.Unlock()

	result, callErr := e.gateway.PlaceItem(ctx, cellIndex, itemID)

	e.mu.Lock()
	defer e.mu.Unlock()
	if _, relevant := e.inflight.Resolve(tok, callErr == nil); !relevant {
		e.logf("placement: dropping response for cell %d received after reset", cellIndex)
		return callErr
	}
	e.reserved -= economy.ItemCost
	if callErr != nil {
		e.grid[cellIndex] = Cell{Index: cellIndex, State: CellEmpty}
		e.retries[itemID]++
		e.logf("placement: rolled back %s from cell %d: %v", itemID, cellIndex, callErr)
		return callErr
	}
	e.grid[cellIndex] = Cell{Index: cellIndex, ItemID: itemID, State: CellOccupied}
	e.mergeLocked(result.Placements)
	e.wallet.Settle(economy.ItemCost, economy.Rewards{Points: economy.PlacementPoints, Revision: result.Stats.Revision})
	return nil
}

func (e *Engine) checkLocked(cellIndex int, itemID string) error {
	if itemID == "" {
		return apperrors.New(apperrors.CodePlacementItemEmpty, "item is required")
	}
	unlocked := e.unlockedCount()
	if cellIndex < 0 || cellIndex >= unlocked {
		return apperrors.WithMetadata(apperrors.CodePlacementCellLocked,
			fmt.Sprintf("cell %d is locked (%d unlocked)", cellIndex, unlocked),
			map[string]string{"Cell": strconv.Itoa(cellIndex)})
	}
	if e.grid[cellIndex].State != CellEmpty {
		return apperrors.New(apperrors.CodePlacementCellOccupied, fmt.Sprintf("cell %d is %s", cellIndex, e.grid[cellIndex].State))
	}
	if available := e.availableLocked(); available < economy.ItemCost {
		return apperrors.WithMetadata(apperrors.CodePlacementInsufficientCurrency,
			fmt.Sprintf("currency %d below %d", available, economy.ItemCost),
			map[string]string{"Cost": strconv.FormatInt(economy.ItemCost, 10)})
	}
	return nil
}

// Load installs the gateway's placements. Simulated engines have nothing to load.
func (e *Engine) Load(ctx context.Context) error {
	if e.gateway == nil {
		return nil
	}
	ticket := e.epoch.Ticket()
	placements, err := e.gateway.ListPlacements(ctx)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.epoch.Valid(ticket) {
		e.logf("placement: dropping placements received after reset")
		return nil
	}
	e.mergeLocked(placements)
	return nil
}

// mergeLocked applies authoritative placements. Cells pending on another
// in-flight placement are left alone and occupied cells are never cleared.
func (e *Engine) mergeLocked(placements map[int]string) {
	for index, itemID := range placements {
		if index < 0 || index >= economy.GridSize || strings.TrimSpace(itemID) == "" {
			continue
		}
		if e.grid[index].State == CellPending {
			continue
		}
		e.grid[index] = Cell{Index: index, ItemID: itemID, State: CellOccupied}
	}
}

// Grid returns a copy of the grid.
func (e *Engine) Grid() Grid {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.grid
}

// UnlockedCount is the number of cells open for placement.
func (e *Engine) UnlockedCount() int {
	return e.unlockedCount()
}

func (e *Engine) unlockedCount() int {
	if e.progress == nil {
		return economy.UnlockedCount(0)
	}
	return economy.UnlockedCount(e.progress.ProgressPercent())
}

// CanDrag reports whether the wallet covers one more item.
func (e *Engine) CanDrag() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.availableLocked() >= economy.ItemCost
}

func (e *Engine) availableLocked() int64 {
	return e.wallet.Snapshot().Currency - e.reserved
}

// FullRowsCompleted counts grid rows whose cells are all occupied. Each one
// grants an approve token.
func (e *Engine) FullRowsCompleted() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	rows := 0
	for start := 0; start < economy.GridSize; start += economy.GridColumns {
		full := true
		for _, c := range e.grid[start : start+economy.GridColumns] {
			if c.State != CellOccupied {
				full = false
				break
			}
		}
		if full {
			rows++
		}
	}
	return rows
}

// RetryCount is how many times placing itemID was rolled back. The UI uses
// changes to it to replay the snap-back animation.
func (e *Engine) RetryCount(itemID string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.retries[itemID]
}

// Reset empties the grid and drops every in-flight response.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.epoch.Advance()
	e.inflight.Cancel()
	e.clearGridLocked()
	clear(e.retries)
	e.reserved = 0
}

func (e *Engine) clearGridLocked() {
	for i := range e.grid {
		e.grid[i] = Cell{Index: i, State: CellEmpty}
	}
}

type unavailableGateway struct{}

func (unavailableGateway) PlaceItem(context.Context, int, string) (PlaceResult, error) {
	return PlaceResult{}, apperrors.Transport("placement gateway is not configured", nil)
}

func (unavailableGateway) ListPlacements(context.Context) (map[int]string, error) {
	return nil, apperrors.Transport("placement gateway is not configured", nil)
}

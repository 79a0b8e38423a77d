package service

import (
	"context"
	"fadebot/model"
	"fadebot/storage"
	"fmt"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"strings"
)

type ReconcileResult struct {
	Opened    []*model.Position
	Updated   []*model.Position
	Closed    []*model.Position
	Unchanged int
}

// Changed reports whether the run wrote anything.
func (r ReconcileResult) Changed() bool {
	return len(r.Opened)+len(r.Updated)+len(r.Closed) > 0
}

func (r ReconcileResult) String() string {
	return fmt.Sprintf("opened=%d updated=%d closed=%d unchanged=%d",
		len(r.Opened), len(r.Updated), len(r.Closed), r.Unchanged)
}

// ServiceReconciler diffs a trader's stored open positions against a live
// snapshot. It keeps no state between calls.
type ServiceReconciler struct {
	clock Clock
}

func NewServiceReconciler(clock Clock) *ServiceReconciler {
	if clock == nil {
		clock = utcNow
	}
	return &ServiceReconciler{clock: clock}
}

// Reconcile brings the trader's OPEN positions in line with fetched, using tx
// for every read and write. Matching is by (coin, side). Entry price and
// opened-at never change on a matched row; unmatched rows are closed after
// all updates are applied.
func (r *ServiceReconciler) Reconcile(ctx context.Context, tx storage.Storage, traderID int64, fetched []model.PositionSnapshot) (ReconcileResult, error) {
	result := ReconcileResult{}

	stored, err := tx.Positions(ctx, storage.PositionFilterParams{
		TraderID: traderID,
		Status:   model.PositionStatusOpen,
	})
	if err != nil {
		return result, err
	}
	open := make(map[model.PositionKey]*model.Position, len(stored))
	for _, position := range stored {
		open[position.Key()] = position
	}

	// a repeated key within one snapshot keeps its last values
	snapshots := make(map[model.PositionKey]model.PositionSnapshot, len(fetched))
	order := make([]model.PositionKey, 0, len(fetched))
	for _, snapshot := range fetched {
		if _, ok := snapshots[snapshot.Key()]; !ok {
			order = append(order, snapshot.Key())
		}
		snapshots[snapshot.Key()] = snapshot
	}

	now := r.clock()
	for _, key := range order {
		snapshot := snapshots[key]
		if position, ok := open[key]; ok {
			delete(open, key)
			if !applySnapshot(position, snapshot) {
				result.Unchanged++
				continue
			}
			if err := tx.UpdatePosition(ctx, position); err != nil {
				return result, fmt.Errorf("update %s: %w", key, err)
			}
			result.Updated = append(result.Updated, position)
			continue
		}

		position := &model.Position{
			TraderID:   traderID,
			Coin:       snapshot.Coin,
			Side:       snapshot.Side,
			EntryPrice: snapshot.EntryPrice,
			Status:     model.PositionStatusOpen,
			OpenedAt:   now,
		}
		applySnapshot(position, snapshot)
		if err := tx.CreatePosition(ctx, position); err != nil {
			return result, fmt.Errorf("open %s: %w", key, err)
		}
		result.Opened = append(result.Opened, position)
	}

	// whatever is left in open was not in the snapshot
	leftover := maps.Keys(open)
	slices.SortFunc(leftover, func(a, b model.PositionKey) int {
		return strings.Compare(a.String(), b.String())
	})
	for _, key := range leftover {
		position := open[key]
		closedAt := now
		position.Status = model.PositionStatusClosed
		position.ClosedAt = &closedAt
		if err := tx.UpdatePosition(ctx, position); err != nil {
			return result, fmt.Errorf("close %s: %w", key, err)
		}
		result.Closed = append(result.Closed, position)
	}
	return result, nil
}

// applySnapshot copies the mutable fields and reports whether any changed.
func applySnapshot(position *model.Position, snapshot model.PositionSnapshot) bool {
	changed := false
	setDecimal := func(dst *decimal.Decimal, src decimal.Decimal) {
		if !dst.Equal(src) {
			*dst = src
			changed = true
		}
	}
	setDecimal(&position.Size, snapshot.Size)
	setDecimal(&position.UnrealizedPnl, snapshot.UnrealizedPnl)
	setDecimal(&position.PositionValue, snapshot.PositionValue)
	setDecimal(&position.MarginUsed, snapshot.MarginUsed)

	if position.LiquidationPx.Valid != snapshot.LiquidationPx.Valid ||
		!position.LiquidationPx.Decimal.Equal(snapshot.LiquidationPx.Decimal) {
		position.LiquidationPx = snapshot.LiquidationPx
		changed = true
	}
	if position.Leverage != snapshot.Leverage || position.LeverageType != snapshot.LeverageType {
		position.Leverage = snapshot.Leverage
		position.LeverageType = snapshot.LeverageType
		changed = true
	}
	return changed
}

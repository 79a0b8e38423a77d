package service

import (
	"context"
	"fadebot/model"
	"fadebot/source"
	"fadebot/storage"
	"fadebot/utils"
	"fmt"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"sync"
	"time"
)

const (
	DefaultCollectorWorkers = 4
	DefaultFillsLimit       = 2000
)

// CollectResult summarizes one trader's collection pass.
type CollectResult struct {
	Trader      *model.Trader
	Performance *model.TraderPerformance
	Reconcile   ReconcileResult
	Settled     int
}

type ServiceCollector struct {
	storage           storage.Storage
	source            source.MarketSource
	reconciler        *ServiceReconciler
	locks             *KeyLock[string]
	clock             Clock
	workers           int
	fillsLimit        int
	performanceWindow time.Duration
}

type CollectorOption func(*ServiceCollector)

func WithWorkers(workers int) CollectorOption {
	return func(c *ServiceCollector) {
		if workers > 0 {
			c.workers = workers
		}
	}
}

func WithFillsLimit(limit int) CollectorOption {
	return func(c *ServiceCollector) {
		if limit > 0 {
			c.fillsLimit = limit
		}
	}
}

func WithPerformanceWindow(window time.Duration) CollectorOption {
	return func(c *ServiceCollector) {
		if window > 0 {
			c.performanceWindow = window
		}
	}
}

func WithCollectorClock(clock Clock) CollectorOption {
	return func(c *ServiceCollector) {
		if clock != nil {
			c.clock = clock
		}
	}
}

func NewServiceCollector(storage storage.Storage, source source.MarketSource, options ...CollectorOption) *ServiceCollector {
	c := &ServiceCollector{
		storage:           storage,
		source:            source,
		clock:             utcNow,
		workers:           DefaultCollectorWorkers,
		fillsLimit:        DefaultFillsLimit,
		performanceWindow: DefaultPerformanceWindow,
	}
	for _, option := range options {
		option(c)
	}
	c.reconciler = NewServiceReconciler(c.clock)
	c.locks = NewKeyLock[string]()
	return c
}

// TriggerCollection collects every address on a bounded pool and reports
// per-address success. A failing trader never stops the others.
func (c *ServiceCollector) TriggerCollection(ctx context.Context, addresses []string) map[string]bool {
	results := make(map[string]bool, len(addresses))
	var mu sync.Mutex

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(c.workers)
	for _, address := range lo.Uniq(addresses) {
		address := address
		group.Go(func() error {
			if ctx.Err() != nil {
				mu.Lock()
				results[address] = false
				mu.Unlock()
				return nil
			}
			_, err := c.CollectTrader(ctx, address)
			if err != nil {
				utils.Log.Errorf("[Collector] %s: %v", address, err)
			}
			mu.Lock()
			results[address] = err == nil
			mu.Unlock()
			return nil
		})
	}
	_ = group.Wait()
	return results
}

// CollectTrader refreshes one trader: today's performance snapshot, the open
// position set and the settlement of positions that closed since last time.
// Nothing is written when the open positions cannot be fetched.
func (c *ServiceCollector) CollectTrader(ctx context.Context, address string) (CollectResult, error) {
	result := CollectResult{}
	addr, ok := model.NormalizeAddress(address)
	if !ok {
		return result, ErrInvalidAddress
	}
	// scheduler and api collections of one trader must not interleave
	unlock := c.locks.Lock(addr)
	defer unlock()

	state, err := c.source.GetAccountState(ctx, addr)
	if err != nil {
		return result, fmt.Errorf("fetch account state: %w", err)
	}
	snapshots, accountValue := state.Positions, state.AccountValue

	fills, err := c.source.GetRecentFills(ctx, addr, c.fillsLimit)
	fillsOK := err == nil
	if err != nil {
		utils.Log.Warnf("[Collector] fills for %s unavailable, performance not updated: %v", addr, err)
	}

	now := c.clock()
	err = c.storage.Transaction(ctx, func(tx storage.Storage) error {
		trader, err := tx.GetOrCreateTrader(ctx, addr, now)
		if err != nil {
			return err
		}
		result.Trader = trader

		if fillsOK {
			performance, ok := computePerformance(fills, accountValue, now.Add(-c.performanceWindow))
			if ok {
				performance.TraderID = trader.ID
				performance.Date = model.DayOf(now)
				if err := tx.UpsertPerformance(ctx, performance); err != nil {
					return fmt.Errorf("upsert performance: %w", err)
				}
				result.Performance = performance
			}
		}

		reconciled, err := c.reconciler.Reconcile(ctx, tx, trader.ID, snapshots)
		if err != nil {
			return err
		}
		result.Reconcile = reconciled

		for _, position := range reconciled.Opened {
			if hash := latestOpenHash(fills, position); hash != "" {
				position.OpenTxHash = hash
				if err := tx.UpdatePosition(ctx, position); err != nil {
					return err
				}
			}
		}
		for _, position := range reconciled.Closed {
			settle(position, fills)
			if err := tx.UpdatePosition(ctx, position); err != nil {
				return fmt.Errorf("settle %s: %w", position.Key(), err)
			}
			result.Settled++
		}

		trader.LastUpdated = now
		return tx.UpdateTrader(ctx, trader)
	})
	if err != nil {
		return CollectResult{}, err
	}
	if result.Reconcile.Changed() {
		utils.Log.Infof("[Collector] %s %s", addr, result.Reconcile)
	}
	return result, nil
}

// SetDisplayNames records leaderboard names for already known traders.
func (c *ServiceCollector) SetDisplayNames(ctx context.Context, entries []model.LeaderboardEntry) error {
	names := lo.SliceToMap(entries, func(entry model.LeaderboardEntry) (string, string) {
		return entry.Address, entry.DisplayName
	})
	traders, err := c.storage.Traders(ctx, storage.TraderFilterParams{Addresses: lo.Keys(names)})
	if err != nil {
		return err
	}
	for _, trader := range traders {
		name := names[trader.Address]
		if name == "" || name == trader.DisplayName {
			continue
		}
		trader.DisplayName = name
		if err := c.storage.UpdateTrader(ctx, trader); err != nil {
			return err
		}
	}
	return nil
}

// computePerformance aggregates the fills after since. ok is false when
// there are none, so an idle trader keeps no snapshot for the day.
func computePerformance(fills []model.Fill, accountValue decimal.Decimal, since time.Time) (*model.TraderPerformance, bool) {
	recent := lo.Filter(fills, func(fill model.Fill, _ int) bool {
		return fill.Time.After(since)
	})
	if len(recent) == 0 {
		return nil, false
	}

	performance := &model.TraderPerformance{
		TotalTrades:  len(recent),
		AccountValue: accountValue,
	}
	totalWin, totalLoss := decimal.Zero, decimal.Zero
	for _, fill := range recent {
		performance.PnlAbsolute = performance.PnlAbsolute.Add(fill.ClosedPnl)
		switch fill.ClosedPnl.Sign() {
		case 1:
			performance.WinningTrades++
			totalWin = totalWin.Add(fill.ClosedPnl)
		case -1:
			performance.LosingTrades++
			totalLoss = totalLoss.Add(fill.ClosedPnl)
		}
	}
	performance.WinRate = float64(performance.WinningTrades) / float64(performance.TotalTrades) * 100
	if performance.WinningTrades > 0 {
		performance.AvgWin = totalWin.Div(decimal.NewFromInt(int64(performance.WinningTrades)))
	}
	if performance.LosingTrades > 0 {
		performance.AvgLoss = totalLoss.Div(decimal.NewFromInt(int64(performance.LosingTrades)))
	}
	if accountValue.IsPositive() {
		performance.PnlPercentage = performance.PnlAbsolute.Div(accountValue).Mul(decimal.NewFromInt(100)).InexactFloat64()
	}
	return performance, true
}

// settle sets realized pnl and close price from the closing fills since the
// position opened. Fills are newest first.
func settle(position *model.Position, fills []model.Fill) {
	realized := decimal.Zero
	var closePrice decimal.NullDecimal
	found := false
	for _, fill := range fills {
		if fill.Coin != position.Coin || fill.Time.Before(position.OpenedAt) || !fill.Closes(position.Side) {
			continue
		}
		if !found {
			closePrice = decimal.NullDecimal{Decimal: fill.Price, Valid: true}
			found = true
		}
		realized = realized.Add(fill.ClosedPnl)
	}
	if !found {
		position.RealizedPnl = decimal.NullDecimal{Decimal: position.UnrealizedPnl, Valid: true}
		return
	}
	position.RealizedPnl = decimal.NullDecimal{Decimal: realized, Valid: true}
	position.ClosePrice = closePrice
}

func latestOpenHash(fills []model.Fill, position *model.Position) string {
	fill, ok := lo.Find(fills, func(fill model.Fill) bool {
		return fill.Coin == position.Coin && fill.Opens(position.Side)
	})
	if !ok {
		return ""
	}
	return fill.Hash
}

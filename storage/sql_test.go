package storage

import (
	"context"
	"fadebot/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"path/filepath"
	"testing"
	"time"
)

const (
	addrA = "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	addrB = "0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	addrC = "0xcccccccccccccccccccccccccccccccccccccccc"
)

func newTestStorage(t *testing.T) *SQL {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "fadebot.db"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func openPosition(traderID int64, coin string, side model.Side, openedAt time.Time) *model.Position {
	return &model.Position{
		TraderID:   traderID,
		Coin:       coin,
		Side:       side,
		EntryPrice: decimal.NewFromInt(100),
		Size:       decimal.NewFromInt(1),
		Status:     model.PositionStatusOpen,
		OpenedAt:   openedAt,
	}
}

func TestGetOrCreateTrader(t *testing.T) {
	ctx := context.Background()
	st := newTestStorage(t)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	first, err := st.GetOrCreateTrader(ctx, addrA, now)
	require.NoError(t, err)
	require.NotZero(t, first.ID)
	require.True(t, first.IsActive)

	again, err := st.GetOrCreateTrader(ctx, addrA, now.Add(time.Hour))
	require.NoError(t, err)
	require.Equal(t, first.ID, again.ID)
	require.True(t, again.FirstSeen.Equal(now))

	_, err = st.GetTraderByAddress(ctx, addrB)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestOpenPositionKeyIsUnique(t *testing.T) {
	ctx := context.Background()
	st := newTestStorage(t)
	now := time.Now().UTC()
	trader, err := st.GetOrCreateTrader(ctx, addrA, now)
	require.NoError(t, err)

	first := openPosition(trader.ID, "BTC", model.SideLong, now)
	require.NoError(t, st.CreatePosition(ctx, first))
	require.Error(t, st.CreatePosition(ctx, openPosition(trader.ID, "BTC", model.SideLong, now)))

	// the other side of the same coin is a distinct key
	require.NoError(t, st.CreatePosition(ctx, openPosition(trader.ID, "BTC", model.SideShort, now)))

	// closed rows leave the key free for a new open row
	closedAt := now
	first.Status = model.PositionStatusClosed
	first.ClosedAt = &closedAt
	require.NoError(t, st.UpdatePosition(ctx, first))
	require.NoError(t, st.CreatePosition(ctx, openPosition(trader.ID, "BTC", model.SideLong, now)))

	open, err := st.Positions(ctx, PositionFilterParams{TraderID: trader.ID, Status: model.PositionStatusOpen})
	require.NoError(t, err)
	require.Len(t, open, 2)
}

func TestUpsertPerformance(t *testing.T) {
	ctx := context.Background()
	st := newTestStorage(t)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	trader, err := st.GetOrCreateTrader(ctx, addrA, now)
	require.NoError(t, err)

	require.NoError(t, st.UpsertPerformance(ctx, &model.TraderPerformance{
		TraderID:      trader.ID,
		Date:          now,
		PnlPercentage: -10,
		TotalTrades:   5,
	}))
	require.NoError(t, st.UpsertPerformance(ctx, &model.TraderPerformance{
		TraderID:      trader.ID,
		Date:          now.Add(3 * time.Hour),
		PnlPercentage: -20,
		TotalTrades:   8,
	}))

	rows, err := st.Performances(ctx, PerformanceFilterParams{TraderID: trader.ID})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, -20.0, rows[0].PnlPercentage)
	require.Equal(t, 8, rows[0].TotalTrades)
	require.True(t, rows[0].Date.Equal(model.DayOf(now)))
}

func TestTopLosers(t *testing.T) {
	ctx := context.Background()
	st := newTestStorage(t)
	now := time.Date(2024, 5, 30, 12, 0, 0, 0, time.UTC)

	seed := func(address string, pnl float64, accountValue int64, days int) *model.Trader {
		trader, err := st.GetOrCreateTrader(ctx, address, now)
		require.NoError(t, err)
		for d := 0; d < days; d++ {
			require.NoError(t, st.UpsertPerformance(ctx, &model.TraderPerformance{
				TraderID:      trader.ID,
				Date:          now.AddDate(0, 0, -d),
				PnlPercentage: pnl,
				PnlAbsolute:   decimal.NewFromInt(-100),
				WinRate:       20,
				TotalTrades:   10,
				AccountValue:  decimal.NewFromInt(accountValue),
			}))
		}
		return trader
	}
	seed(addrA, -40, 50_000, 3)
	seed(addrB, -80, 20_000, 2)
	seed(addrC, -95, 5_000, 2)

	rows, err := st.TopLosers(ctx, LoserFilterParams{
		Since:           now.AddDate(0, 0, -30),
		MinAccountValue: decimal.NewFromInt(10_000),
		Limit:           10,
	})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, addrB, rows[0].Address)
	require.InDelta(t, -80, rows[0].AvgPnlPercentage, 1e-9)
	require.EqualValues(t, 20, rows[0].TotalTrades)
	require.True(t, rows[0].TotalPnl.Equal(decimal.NewFromInt(-200)))
	require.EqualValues(t, 2, rows[0].SnapshotDays)
	require.Equal(t, addrA, rows[1].Address)
	require.True(t, rows[1].AccountValue.Equal(decimal.NewFromInt(50_000)))

	// inactive traders drop out
	trader, err := st.GetTraderByAddress(ctx, addrB)
	require.NoError(t, err)
	trader.IsActive = false
	require.NoError(t, st.UpdateTrader(ctx, trader))
	rows, err = st.TopLosers(ctx, LoserFilterParams{Since: now.AddDate(0, 0, -30), MinAccountValue: decimal.NewFromInt(10_000)})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, addrA, rows[0].Address)
}

func TestCreateOpportunityOncePerPosition(t *testing.T) {
	ctx := context.Background()
	st := newTestStorage(t)
	now := time.Now().UTC()
	trader, err := st.GetOrCreateTrader(ctx, addrA, now)
	require.NoError(t, err)
	position := openPosition(trader.ID, "ETH", model.SideShort, now)
	require.NoError(t, st.CreatePosition(ctx, position))

	newOpportunity := func() *model.Opportunity {
		return &model.Opportunity{
			PositionID:    &position.ID,
			TraderID:      trader.ID,
			Coin:          "ETH",
			LoserSide:     model.SideShort,
			SuggestedSide: model.SideLong,
			Confidence:    90,
			Status:        model.OpportunityStatusActive,
			CreatedAt:     now,
		}
	}

	created, err := st.CreateOpportunity(ctx, newOpportunity())
	require.NoError(t, err)
	require.True(t, created)
	created, err = st.CreateOpportunity(ctx, newOpportunity())
	require.NoError(t, err)
	require.False(t, created)

	exists, err := st.OpportunityExists(ctx, position.ID)
	require.NoError(t, err)
	require.True(t, exists)

	// opportunities without a backing position are not limited
	for i := 0; i < 2; i++ {
		o := newOpportunity()
		o.PositionID = nil
		created, err = st.CreateOpportunity(ctx, o)
		require.NoError(t, err)
		require.True(t, created)
	}

	all, err := st.Opportunities(ctx, OpportunityFilterParams{WithRelated: true})
	require.NoError(t, err)
	require.Len(t, all, 3)
	for _, o := range all {
		require.NotNil(t, o.Trader)
		require.Equal(t, addrA, o.Trader.Address)
	}
}

func TestExpireOpportunities(t *testing.T) {
	ctx := context.Background()
	st := newTestStorage(t)
	now := time.Date(2024, 5, 2, 12, 0, 0, 0, time.UTC)
	trader, err := st.GetOrCreateTrader(ctx, addrA, now)
	require.NoError(t, err)

	for _, age := range []time.Duration{25 * time.Hour, time.Hour} {
		_, err := st.CreateOpportunity(ctx, &model.Opportunity{
			TraderID:      trader.ID,
			Coin:          "BTC",
			LoserSide:     model.SideLong,
			SuggestedSide: model.SideShort,
			Status:        model.OpportunityStatusActive,
			CreatedAt:     now.Add(-age),
		})
		require.NoError(t, err)
	}

	count, err := st.ExpireOpportunities(ctx, now.Add(-24*time.Hour), now)
	require.NoError(t, err)
	require.EqualValues(t, 1, count)

	count, err = st.ExpireOpportunities(ctx, now.Add(-24*time.Hour), now)
	require.NoError(t, err)
	require.Zero(t, count)

	expired, err := st.Opportunities(ctx, OpportunityFilterParams{Statuses: []model.OpportunityStatus{model.OpportunityStatusExpired}})
	require.NoError(t, err)
	require.Len(t, expired, 1)
	require.NotNil(t, expired[0].ExpiredAt)
}

func TestTransactionRollback(t *testing.T) {
	ctx := context.Background()
	st := newTestStorage(t)
	now := time.Now().UTC()

	err := st.Transaction(ctx, func(tx Storage) error {
		trader, err := tx.GetOrCreateTrader(ctx, addrA, now)
		if err != nil {
			return err
		}
		if err := tx.CreatePosition(ctx, openPosition(trader.ID, "SOL", model.SideLong, now)); err != nil {
			return err
		}
		// duplicate open key aborts the whole transaction
		return tx.CreatePosition(ctx, openPosition(trader.ID, "SOL", model.SideLong, now))
	})
	require.Error(t, err)

	_, err = st.GetTraderByAddress(ctx, addrA)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteTraderCascades(t *testing.T) {
	ctx := context.Background()
	st := newTestStorage(t)
	now := time.Now().UTC()
	trader, err := st.GetOrCreateTrader(ctx, addrA, now)
	require.NoError(t, err)
	require.NoError(t, st.CreatePosition(ctx, openPosition(trader.ID, "BTC", model.SideLong, now)))
	require.NoError(t, st.UpsertPerformance(ctx, &model.TraderPerformance{TraderID: trader.ID, Date: now}))

	require.NoError(t, st.db.Delete(&model.Trader{}, trader.ID).Error)

	stats, err := st.Stats(ctx)
	require.NoError(t, err)
	require.Zero(t, stats.TotalTraders)
	require.Zero(t, stats.OpenPositions)
	require.Zero(t, stats.PerformanceRows)
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	st := newTestStorage(t)
	now := time.Date(2024, 5, 2, 12, 0, 0, 0, time.UTC)

	stats, err := st.Stats(ctx)
	require.NoError(t, err)
	require.Nil(t, stats.LastUpdated)

	trader, err := st.GetOrCreateTrader(ctx, addrA, now)
	require.NoError(t, err)
	require.NoError(t, st.CreatePosition(ctx, openPosition(trader.ID, "BTC", model.SideLong, now)))

	stats, err = st.Stats(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, stats.TotalTraders)
	require.EqualValues(t, 1, stats.ActiveTraders)
	require.EqualValues(t, 1, stats.OpenPositions)
	require.NotNil(t, stats.LastUpdated)
	require.True(t, stats.LastUpdated.Equal(now))
}

func TestDialector(t *testing.T) {
	require.True(t, IsPostgresDSN("postgres://u:p@localhost:5432/db"))
	require.True(t, IsPostgresDSN("host=localhost user=u dbname=db"))
	require.False(t, IsPostgresDSN("./data/fadebot.db"))

	require.Equal(t, "a.db?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)", withPragmas("a.db"))
	require.Equal(t, "a.db?mode=rwc&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)", withPragmas("a.db?mode=rwc"))
	require.Equal(t, "a.db?_pragma=foreign_keys(1)", withPragmas("a.db?_pragma=foreign_keys(1)"))
}

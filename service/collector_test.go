package service

import (
	"context"
	"errors"
	"fadebot/mocks"
	"fadebot/model"
	"fadebot/storage"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"testing"
	"time"
)

func fill(coin, direction string, px, closedPnl int64, hash string, at time.Time) model.Fill {
	return model.Fill{
		Coin:      coin,
		Price:     decimal.NewFromInt(px),
		Size:      decimal.NewFromInt(1),
		Side:      model.FillSideSell,
		Direction: direction,
		ClosedPnl: decimal.NewFromInt(closedPnl),
		Hash:      hash,
		Time:      at,
	}
}

func accountState(value int64, positions ...model.PositionSnapshot) model.AccountState {
	return model.AccountState{Positions: positions, AccountValue: decimal.NewFromInt(value)}
}

func TestCollectTrader(t *testing.T) {
	ctx := context.Background()
	st := newTestStorage(t)
	market := mocks.NewMarketSource(t)

	market.EXPECT().GetAccountState(mock.Anything, addrA).
		Return(accountState(10_000, snapshot("ETH", model.SideShort, 3000, 2, -50)), nil)
	market.EXPECT().GetRecentFills(mock.Anything, addrA, DefaultFillsLimit).Return([]model.Fill{
		fill("ETH", "Open Short", 3000, 0, "0xopen", testNow.Add(-time.Hour)),
		fill("BTC", "Close Long", 60000, -300, "0xb2", testNow.Add(-2*time.Hour)),
		fill("BTC", "Close Long", 61000, 100, "0xb1", testNow.Add(-3*time.Hour)),
		fill("SOL", "Close Long", 150, 500, "0xold", testNow.AddDate(0, 0, -40)),
	}, nil)

	collector := NewServiceCollector(st, market, WithCollectorClock(fixedClock(testNow)))
	result, err := collector.CollectTrader(ctx, "0xAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA")
	require.NoError(t, err)
	require.Equal(t, addrA, result.Trader.Address)
	require.Len(t, result.Reconcile.Opened, 1)

	performance := result.Performance
	require.NotNil(t, performance)
	require.Equal(t, 3, performance.TotalTrades)
	require.Equal(t, 1, performance.WinningTrades)
	require.Equal(t, 1, performance.LosingTrades)
	require.InDelta(t, 33.333, performance.WinRate, 0.001)
	require.True(t, performance.PnlAbsolute.Equal(decimal.NewFromInt(-200)))
	require.InDelta(t, -2.0, performance.PnlPercentage, 1e-9)
	require.True(t, performance.AvgWin.Equal(decimal.NewFromInt(100)))
	require.True(t, performance.AvgLoss.Equal(decimal.NewFromInt(-300)))

	rows, err := st.Performances(ctx, storage.PerformanceFilterParams{TraderID: result.Trader.ID})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.True(t, rows[0].Date.Equal(model.DayOf(testNow)))

	open := openPositions(t, st, result.Trader.ID)
	require.Len(t, open, 1)
	require.Equal(t, "0xopen", open[0].OpenTxHash)

	// collecting again the same day updates the one snapshot in place
	_, err = collector.CollectTrader(ctx, addrA)
	require.NoError(t, err)
	rows, err = st.Performances(ctx, storage.PerformanceFilterParams{TraderID: result.Trader.ID})
	require.NoError(t, err)
	require.Len(t, rows, 1)
}

func TestCollectTraderSettlesClosedPositions(t *testing.T) {
	ctx := context.Background()
	st := newTestStorage(t)
	market := mocks.NewMarketSource(t)

	clock := testNow
	collector := NewServiceCollector(st, market, WithCollectorClock(func() time.Time { return clock }))

	market.EXPECT().GetAccountState(mock.Anything, addrA).
		Return(accountState(10_000,
			snapshot("ETH", model.SideShort, 3000, 2, -50),
			snapshot("BTC", model.SideLong, 60000, 1, -75),
		), nil).Once()
	market.EXPECT().GetRecentFills(mock.Anything, addrA, mock.Anything).Return(nil, nil).Once()
	_, err := collector.CollectTrader(ctx, addrA)
	require.NoError(t, err)

	clock = testNow.Add(time.Hour)
	market.EXPECT().GetAccountState(mock.Anything, addrA).Return(accountState(10_000), nil).Once()
	market.EXPECT().GetRecentFills(mock.Anything, addrA, mock.Anything).Return([]model.Fill{
		fill("ETH", "Close Short", 3100, -150, "0xc2", testNow.Add(40*time.Minute)),
		fill("ETH", "Close Short", 3080, -120, "0xc1", testNow.Add(30*time.Minute)),
		fill("ETH", "Close Short", 2000, 999, "0xprev", testNow.Add(-time.Hour)),
	}, nil).Once()
	result, err := collector.CollectTrader(ctx, addrA)
	require.NoError(t, err)
	require.Len(t, result.Reconcile.Closed, 2)
	require.Equal(t, 2, result.Settled)

	closed, err := st.Positions(ctx, storage.PositionFilterParams{
		TraderID: result.Trader.ID,
		Status:   model.PositionStatusClosed,
	})
	require.NoError(t, err)
	require.Len(t, closed, 2)
	for _, position := range closed {
		require.True(t, position.RealizedPnl.Valid)
		switch position.Coin {
		case "ETH":
			require.True(t, position.RealizedPnl.Decimal.Equal(decimal.NewFromInt(-270)))
			require.True(t, position.ClosePrice.Valid)
			require.True(t, position.ClosePrice.Decimal.Equal(decimal.NewFromInt(3100)))
		case "BTC":
			// no closing fills, last unrealized pnl stands in
			require.True(t, position.RealizedPnl.Decimal.Equal(decimal.NewFromInt(-75)))
			require.False(t, position.ClosePrice.Valid)
		}
	}
}

func TestCollectTraderPositionsFailureWritesNothing(t *testing.T) {
	ctx := context.Background()
	st := newTestStorage(t)
	market := mocks.NewMarketSource(t)
	market.EXPECT().GetAccountState(mock.Anything, addrA).Return(model.AccountState{}, errors.New("502"))

	collector := NewServiceCollector(st, market, WithCollectorClock(fixedClock(testNow)))
	_, err := collector.CollectTrader(ctx, addrA)
	require.Error(t, err)

	_, err = st.GetTraderByAddress(ctx, addrA)
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestCollectTraderDegradesOnFillsFailure(t *testing.T) {
	ctx := context.Background()
	st := newTestStorage(t)
	market := mocks.NewMarketSource(t)
	market.EXPECT().GetAccountState(mock.Anything, addrA).
		Return(accountState(0, snapshot("ETH", model.SideLong, 3000, 1, 0)), nil)
	market.EXPECT().GetRecentFills(mock.Anything, addrA, mock.Anything).Return(nil, errors.New("timeout"))

	collector := NewServiceCollector(st, market, WithCollectorClock(fixedClock(testNow)))
	result, err := collector.CollectTrader(ctx, addrA)
	require.NoError(t, err)
	require.Nil(t, result.Performance)
	require.Len(t, result.Reconcile.Opened, 1)

	rows, err := st.Performances(ctx, storage.PerformanceFilterParams{TraderID: result.Trader.ID})
	require.NoError(t, err)
	require.Empty(t, rows)
}

func TestCollectTraderZeroAccountValue(t *testing.T) {
	ctx := context.Background()
	market := mocks.NewMarketSource(t)
	market.EXPECT().GetAccountState(mock.Anything, addrA).Return(accountState(0), nil).Once()
	market.EXPECT().GetRecentFills(mock.Anything, addrA, mock.Anything).Return([]model.Fill{
		fill("BTC", "Close Long", 60000, -300, "0xb1", testNow.Add(-time.Hour)),
	}, nil).Once()

	collector := NewServiceCollector(newTestStorage(t), market, WithCollectorClock(fixedClock(testNow)))
	result, err := collector.CollectTrader(ctx, addrA)
	require.NoError(t, err)
	require.NotNil(t, result.Performance)
	require.Zero(t, result.Performance.PnlPercentage)
	require.True(t, result.Performance.PnlAbsolute.Equal(decimal.NewFromInt(-300)))
}

func TestCollectTraderRejectsInvalidAddress(t *testing.T) {
	collector := NewServiceCollector(newTestStorage(t), mocks.NewMarketSource(t))
	_, err := collector.CollectTrader(context.Background(), "0x1234")
	require.ErrorIs(t, err, ErrInvalidAddress)
}

func TestTriggerCollection(t *testing.T) {
	ctx := context.Background()
	st := newTestStorage(t)
	market := mocks.NewMarketSource(t)
	for _, addr := range []string{addrA, addrB} {
		market.EXPECT().GetAccountState(mock.Anything, addr).Return(accountState(5000), nil)
		market.EXPECT().GetRecentFills(mock.Anything, addr, mock.Anything).Return(nil, nil)
	}
	market.EXPECT().GetAccountState(mock.Anything, addrC).Return(model.AccountState{}, errors.New("boom"))

	collector := NewServiceCollector(st, market, WithWorkers(2), WithCollectorClock(fixedClock(testNow)))
	results := collector.TriggerCollection(ctx, []string{addrA, addrB, addrC, addrA, "nope"})
	require.Equal(t, map[string]bool{addrA: true, addrB: true, addrC: false, "nope": false}, results)

	stats, err := st.Stats(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 2, stats.TotalTraders)
}

func TestSetDisplayNames(t *testing.T) {
	ctx := context.Background()
	st := newTestStorage(t)
	seedTrader(t, st, addrA)

	collector := NewServiceCollector(st, mocks.NewMarketSource(t))
	require.NoError(t, collector.SetDisplayNames(ctx, []model.LeaderboardEntry{
		{Address: addrA, DisplayName: "rekt"},
		{Address: addrB, DisplayName: "unknown"},
	}))

	trader, err := st.GetTraderByAddress(ctx, addrA)
	require.NoError(t, err)
	require.Equal(t, "rekt", trader.DisplayName)
	_, err = st.GetTraderByAddress(ctx, addrB)
	require.ErrorIs(t, err, storage.ErrNotFound)
}

package service

import (
	"context"
	"fadebot/model"
	"fadebot/storage"
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

var testNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

func newTestStorage(t *testing.T) *storage.SQL {
	t.Helper()
	st, err := storage.Open(filepath.Join(t.TempDir(), "fadebot.db"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func seedTrader(t *testing.T, st storage.Storage, address string) *model.Trader {
	t.Helper()
	trader, err := st.GetOrCreateTrader(context.Background(), address, testNow.Add(-48*time.Hour))
	require.NoError(t, err)
	return trader
}

// seedPerformance writes one snapshot per day for days days ending today.
func seedPerformance(t *testing.T, st storage.Storage, traderID int64, days int, pnl, winRate float64, trades int, accountValue int64) {
	t.Helper()
	for i := 0; i < days; i++ {
		require.NoError(t, st.UpsertPerformance(context.Background(), &model.TraderPerformance{
			TraderID:      traderID,
			Date:          model.DayOf(testNow.AddDate(0, 0, -i)),
			PnlPercentage: pnl,
			PnlAbsolute:   decimal.NewFromInt(-1000),
			WinRate:       winRate,
			TotalTrades:   trades,
			LosingTrades:  trades,
			AccountValue:  decimal.NewFromInt(accountValue),
		}))
	}
}

func seedOpenPosition(t *testing.T, st storage.Storage, traderID int64, coin string, side model.Side, entry int64, openedAt time.Time) *model.Position {
	t.Helper()
	position := &model.Position{
		TraderID:      traderID,
		Coin:          coin,
		Side:          side,
		EntryPrice:    decimal.NewFromInt(entry),
		Size:          decimal.NewFromFloat(2.5),
		PositionValue: decimal.NewFromInt(entry).Mul(decimal.NewFromFloat(2.5)),
		Leverage:      10,
		LeverageType:  "cross",
		Status:        model.PositionStatusOpen,
		OpenedAt:      openedAt,
		OpenTxHash:    "0xabc",
	}
	require.NoError(t, st.CreatePosition(context.Background(), position))
	return position
}

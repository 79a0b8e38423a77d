package model

import (
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"testing"
	"time"
)

func TestNormalizeAddress(t *testing.T) {
	addr, ok := NormalizeAddress("  0xABCDEF0123456789abcdef0123456789ABCDEF01 ")
	require.True(t, ok)
	require.Equal(t, "0xabcdef0123456789abcdef0123456789abcdef01", addr)

	for _, bad := range []string{"", "0x123", "abcdef0123456789abcdef0123456789abcdef0123", "0xzzcdef0123456789abcdef0123456789abcdef01"} {
		_, ok := NormalizeAddress(bad)
		require.False(t, ok, bad)
	}
}

func TestSideOpposite(t *testing.T) {
	require.Equal(t, SideShort, SideLong.Opposite())
	require.Equal(t, SideLong, SideShort.Opposite())
}

func TestFill(t *testing.T) {
	sell := Fill{Side: FillSideSell, Size: decimal.NewFromFloat(1.5), Direction: "Close Long"}
	require.True(t, sell.SignedSize().Equal(decimal.NewFromFloat(-1.5)))
	require.True(t, sell.Closes(SideLong))
	require.False(t, sell.Closes(SideShort))

	buy := Fill{Side: FillSideBuy, Size: decimal.NewFromInt(2), Direction: "Open Long"}
	require.True(t, buy.SignedSize().Equal(decimal.NewFromInt(2)))
	require.False(t, buy.Closes(SideLong))
}

func TestDayOf(t *testing.T) {
	loc := time.FixedZone("UTC+8", 8*3600)
	ts := time.Date(2024, 5, 2, 3, 30, 0, 0, loc)
	require.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), DayOf(ts))
}

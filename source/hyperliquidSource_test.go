package source

import (
	"context"
	"encoding/json"
	"fadebot/model"
	"fadebot/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

const testAddress = "0x1111111111111111111111111111111111111111"

func fixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return data
}

func newTestSource(t *testing.T) (*HyperliquidSource, *[]types.InfoRequest) {
	t.Helper()
	requests := make([]types.InfoRequest, 0)
	mux := http.NewServeMux()
	mux.HandleFunc("/info", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		var req types.InfoRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		requests = append(requests, req)
		switch req.Type {
		case "clearinghouseState":
			_, _ = w.Write(fixture(t, "clearinghouseState.json"))
		case "userFills":
			_, _ = w.Write(fixture(t, "userFills.json"))
		case "allMids":
			_, _ = w.Write([]byte(`{"BTC":"64123.5","ETH":"2987.25"}`))
		default:
			http.Error(w, "unknown type", http.StatusUnprocessableEntity)
		}
	})
	mux.HandleFunc("/leaderboard", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(fixture(t, "leaderboard.json"))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return NewHyperliquidSource(
		WithInfoURL(server.URL+"/"),
		WithLeaderboardURL(server.URL+"/leaderboard"),
		WithHttpClient(server.Client()),
	), &requests
}

func TestGetAccountState(t *testing.T) {
	src, requests := newTestSource(t)

	state, err := src.GetAccountState(context.Background(), testAddress)
	require.NoError(t, err)
	require.Len(t, *requests, 1)
	require.Equal(t, types.InfoRequest{Type: "clearinghouseState", User: testAddress}, (*requests)[0])
	require.True(t, state.AccountValue.Equal(decimal.RequireFromString("12345.67")))

	positions := state.Positions
	require.Len(t, positions, 2)

	eth := positions[0]
	require.Equal(t, "ETH", eth.Coin)
	require.Equal(t, model.SideShort, eth.Side)
	require.True(t, eth.Size.Equal(decimal.RequireFromString("2.5")))
	require.True(t, eth.EntryPrice.Equal(decimal.NewFromInt(3000)))
	require.Equal(t, 20, eth.Leverage)
	require.Equal(t, "cross", eth.LeverageType)
	require.True(t, eth.LiquidationPx.Valid)
	require.True(t, eth.LiquidationPx.Decimal.Equal(decimal.RequireFromString("3600.5")))

	btc := positions[1]
	require.Equal(t, model.SideLong, btc.Side)
	require.False(t, btc.LiquidationPx.Valid)
	require.InDelta(t, -0.15, btc.ReturnOnEquity, 1e-9)
}

func TestGetRecentFills(t *testing.T) {
	src, _ := newTestSource(t)

	fills, err := src.GetRecentFills(context.Background(), testAddress, 0)
	require.NoError(t, err)
	require.Len(t, fills, 3)
	require.Equal(t, "0xbbb", fills[0].Hash)
	require.Equal(t, "0xccc", fills[1].Hash)
	require.Equal(t, "0xaaa", fills[2].Hash)
	require.Equal(t, time.UnixMilli(1714563600000).UTC(), fills[0].Time)
	require.True(t, fills[0].ClosedPnl.Equal(decimal.NewFromInt(-50)))
	require.True(t, fills[0].Closes(model.SideLong))
	require.True(t, fills[0].SignedSize().IsNegative())

	limited, err := src.GetRecentFills(context.Background(), testAddress, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
}

func TestGetMidPrices(t *testing.T) {
	src, _ := newTestSource(t)
	mids, err := src.GetMidPrices(context.Background())
	require.NoError(t, err)
	require.Len(t, mids, 2)
	require.True(t, mids["ETH"].Equal(decimal.RequireFromString("2987.25")))
}

func TestGetLeaderboard(t *testing.T) {
	src, _ := newTestSource(t)
	entries, err := src.GetLeaderboard(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "rekt", entries[0].DisplayName)
	require.True(t, entries[0].MonthRoi().Equal(decimal.RequireFromString("-0.36")))
	require.True(t, entries[0].AccountValue.Equal(decimal.RequireFromString("25000.5")))
	require.Empty(t, entries[1].DisplayName)
}

func TestUpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()
	src := NewHyperliquidSource(WithInfoURL(server.URL), WithHttpClient(server.Client()))

	_, err := src.GetAccountState(context.Background(), testAddress)
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	require.Equal(t, http.StatusTooManyRequests, statusErr.Code)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = src.GetMidPrices(ctx)
	require.Error(t, err)
}

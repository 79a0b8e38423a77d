package serv

import (
	"context"
	"encoding/json"
	"fadebot/api/controllers"
	"fadebot/bot"
	"fadebot/mocks"
	"fadebot/model"
	"fadebot/service"
	"fadebot/storage"
	"github.com/iris-contrib/httpexpect/v2"
	"github.com/kataras/iris/v12/httptest"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"net/http"
	"path/filepath"
	"testing"
	"time"
)

const addrA = "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Count   *int            `json:"count"`
}

type fixedScheduler struct{}

func (fixedScheduler) Status() bot.Status {
	return bot.Status{Running: true, Cycles: 3}
}

type testServer struct {
	expect  *httpexpect.Expect
	storage *storage.SQL
	market  *mocks.MarketSource
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	st, err := storage.Open(filepath.Join(t.TempDir(), "fadebot.db"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	market := mocks.NewMarketSource(t)
	prices, err := service.NewMidPriceCache(market, time.Minute)
	require.NoError(t, err)
	t.Cleanup(func() { _ = prices.Close() })

	services := &controllers.Services{
		Collector:       service.NewServiceCollector(st, market),
		Generator:       service.NewServiceGenerator(st, service.NewServiceScorer(st, nil), prices),
		Lifecycle:       service.NewServiceLifecycle(st, nil),
		Query:           service.NewServiceQuery(st, "https://app.hyperliquid.xyz/explorer", nil),
		Scheduler:       fixedScheduler{},
		LoserLimit:      100,
		MinAccountValue: decimal.NewFromInt(10_000),
		Retention:       24 * time.Hour,
	}
	return &testServer{expect: httptest.New(t, NewApp(services)), storage: st, market: market}
}

func (s *testServer) do(t *testing.T, method, path, body string) (int, envelope) {
	t.Helper()
	req := s.expect.Request(method, path)
	if body != "" {
		req = req.WithHeader("Content-Type", "application/json").WithBytes([]byte(body))
	}
	res := req.Expect()

	raw := res.Body().Raw()
	var resp envelope
	require.NoError(t, json.Unmarshal([]byte(raw), &resp), raw)
	return res.Raw().StatusCode, resp
}

func TestHealthAndIndex(t *testing.T) {
	server := newTestServer(t)

	server.expect.GET("/health").Expect().
		Status(httptest.StatusOK).
		JSON().Object().Value("status").String().IsEqual("success")

	code, resp := server.do(t, http.MethodGet, "/api", "")
	require.Equal(t, http.StatusOK, code)
	require.Contains(t, string(resp.Data), "/api/losers")
}

func TestLosersEndpoint(t *testing.T) {
	server := newTestServer(t)
	ctx := context.Background()
	trader, err := server.storage.GetOrCreateTrader(ctx, addrA, time.Now().UTC())
	require.NoError(t, err)
	require.NoError(t, server.storage.UpsertPerformance(ctx, &model.TraderPerformance{
		TraderID:      trader.ID,
		Date:          time.Now().UTC(),
		PnlPercentage: -42,
		WinRate:       20,
		TotalTrades:   12,
		AccountValue:  decimal.NewFromInt(25_000),
	}))

	code, resp := server.do(t, http.MethodGet, "/api/losers?limit=10", "")
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, 1, *resp.Count)
	require.Contains(t, string(resp.Data), addrA)

	code, resp = server.do(t, http.MethodGet, "/api/losers?min_account_value=30000", "")
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, 0, *resp.Count)

	code, resp = server.do(t, http.MethodGet, "/api/losers?limit=0", "")
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, "error", resp.Status)
}

func TestCollectEndpoints(t *testing.T) {
	server := newTestServer(t)
	server.market.EXPECT().GetAccountState(mock.Anything, addrA).
		Return(model.AccountState{AccountValue: decimal.NewFromInt(20_000)}, nil)
	server.market.EXPECT().GetRecentFills(mock.Anything, addrA, mock.Anything).Return(nil, nil)

	code, resp := server.do(t, http.MethodPost, "/api/collect", `{"addresses":["0xAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"]}`)
	require.Equal(t, http.StatusOK, code, resp.Message)
	require.Contains(t, string(resp.Data), `"succeeded":1`)

	code, resp = server.do(t, http.MethodPost, "/api/collect", `{"addresses":["0x1234"]}`)
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, "error", resp.Status)

	code, _ = server.do(t, http.MethodPost, "/api/collect", `{"addresses":[]}`)
	require.Equal(t, http.StatusBadRequest, code)

	code, resp = server.do(t, http.MethodPost, "/api/collect/"+addrA, "")
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "Data collected for "+addrA, resp.Message)

	code, _ = server.do(t, http.MethodPost, "/api/collect/nope", "")
	require.Equal(t, http.StatusBadRequest, code)
}

func TestTraderEndpoint(t *testing.T) {
	server := newTestServer(t)
	_, err := server.storage.GetOrCreateTrader(context.Background(), addrA, time.Now().UTC())
	require.NoError(t, err)

	code, resp := server.do(t, http.MethodGet, "/api/trader/"+addrA, "")
	require.Equal(t, http.StatusOK, code)
	require.Contains(t, string(resp.Data), addrA)

	code, resp = server.do(t, http.MethodGet, "/api/trader/0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb", "")
	require.Equal(t, http.StatusNotFound, code)
	require.Equal(t, "error", resp.Status)
}

func TestAnalyzeExpireAndStatus(t *testing.T) {
	server := newTestServer(t)

	code, resp := server.do(t, http.MethodPost, "/api/analyze", "")
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "Analysis complete. Generated 0 opportunities.", resp.Message)

	code, resp = server.do(t, http.MethodPost, "/api/expire?hours=1", "")
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "Expired 0 opportunities", resp.Message)

	code, resp = server.do(t, http.MethodGet, "/api/opportunities", "")
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, 0, *resp.Count)

	code, resp = server.do(t, http.MethodGet, "/api/performance", "")
	require.Equal(t, http.StatusOK, code)
	require.Contains(t, string(resp.Data), "activeTraders")

	server.expect.GET("/api/status").Expect().
		Status(httptest.StatusOK).
		JSON().Object().
		Value("data").Object().
		Value("scheduler").Object().
		Value("cycles").Number().IsEqual(3)
}

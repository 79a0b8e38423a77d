package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fadebot/internal/requestClient"
	"fadebot/model"
	"fadebot/types"
	"fadebot/utils/httputil"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
	"io"
	"net/http"
	"strings"
	"time"
)

var headers = map[string]string{
	"accept":       "application/json",
	"content-type": "application/json",
	"user-agent":   "fadebot/1.0",
}

type HyperliquidSource struct {
	Client         *http.Client
	infoURL        string
	leaderboardURL string
}

type HyperliquidOption func(*HyperliquidSource)

func WithInfoURL(url string) HyperliquidOption {
	return func(s *HyperliquidSource) {
		s.infoURL = strings.TrimRight(url, "/")
	}
}

func WithLeaderboardURL(url string) HyperliquidOption {
	return func(s *HyperliquidSource) {
		s.leaderboardURL = url
	}
}

func WithHttpClient(client *http.Client) HyperliquidOption {
	return func(s *HyperliquidSource) {
		s.Client = client
	}
}

func NewHyperliquidSource(options ...HyperliquidOption) *HyperliquidSource {
	s := &HyperliquidSource{
		infoURL:        "https://api.hyperliquid.xyz",
		leaderboardURL: "https://stats-data.hyperliquid.xyz/Mainnet/leaderboard",
	}
	for _, option := range options {
		option(s)
	}
	if s.Client == nil {
		_ = s.InitHttpClient(types.ProxyOption{}, 10*time.Second)
	}
	return s
}

func (s *HyperliquidSource) InitHttpClient(proxyOption types.ProxyOption, timeout time.Duration) error {
	proxyURL := ""
	if proxyOption.Status {
		proxyURL = proxyOption.Url
	}
	client, err := requestClient.New(timeout, proxyURL)
	if err != nil {
		return err
	}
	s.Client = client
	return nil
}

func (s *HyperliquidSource) GetMidPrices(ctx context.Context) (map[string]decimal.Decimal, error) {
	response := map[string]decimal.Decimal{}
	if err := s.info(ctx, types.InfoRequest{Type: "allMids"}, &response); err != nil {
		return nil, err
	}
	return response, nil
}

// GetAccountState reads open positions and account value from a single
// clearinghouseState response.
func (s *HyperliquidSource) GetAccountState(ctx context.Context, address string) (model.AccountState, error) {
	state, err := s.clearinghouseState(ctx, address)
	if err != nil {
		return model.AccountState{}, err
	}
	snapshots := make([]model.PositionSnapshot, 0, len(state.AssetPositions))
	for _, ap := range state.AssetPositions {
		p := ap.Position
		if p.Szi.IsZero() {
			continue
		}
		side := model.SideLong
		if p.Szi.IsNegative() {
			side = model.SideShort
		}
		snapshots = append(snapshots, model.PositionSnapshot{
			Coin:           p.Coin,
			Side:           side,
			Size:           p.Szi.Abs(),
			EntryPrice:     p.EntryPx,
			Leverage:       p.Leverage.Value,
			LeverageType:   p.Leverage.Type,
			PositionValue:  p.PositionValue,
			UnrealizedPnl:  p.UnrealizedPnl,
			MarginUsed:     p.MarginUsed,
			LiquidationPx:  p.LiquidationPx,
			ReturnOnEquity: p.ReturnOnEquity.InexactFloat64(),
		})
	}
	return model.AccountState{
		Positions:    snapshots,
		AccountValue: state.MarginSummary.AccountValue,
	}, nil
}

// GetRecentFills returns at most limit fills, newest first.
func (s *HyperliquidSource) GetRecentFills(ctx context.Context, address string, limit int) ([]model.Fill, error) {
	var response []types.UserFill
	if err := s.info(ctx, types.InfoRequest{Type: "userFills", User: address}, &response); err != nil {
		return nil, err
	}
	fills := make([]model.Fill, 0, len(response))
	for _, f := range response {
		fills = append(fills, model.Fill{
			Coin:      f.Coin,
			Price:     f.Px,
			Size:      f.Sz,
			Side:      model.FillSide(f.Side),
			Direction: f.Dir,
			ClosedPnl: f.ClosedPnl,
			Hash:      f.Hash,
			Time:      time.UnixMilli(f.Time).UTC(),
		})
	}
	sortFillsNewestFirst(fills)
	if limit > 0 && len(fills) > limit {
		fills = fills[:limit]
	}
	return fills, nil
}

func (s *HyperliquidSource) GetLeaderboard(ctx context.Context) ([]model.LeaderboardEntry, error) {
	var response types.LeaderboardResponse
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.leaderboardURL, nil)
	if err != nil {
		return nil, err
	}
	if err := s.do(req, &response); err != nil {
		return nil, err
	}
	entries := make([]model.LeaderboardEntry, 0, len(response.LeaderboardRows))
	for _, row := range response.LeaderboardRows {
		entry := model.LeaderboardEntry{
			Address:      row.EthAddress,
			AccountValue: row.AccountValue,
			Windows:      make(map[string]model.WindowPerformance, len(row.WindowPerformances)),
		}
		if row.DisplayName != nil {
			entry.DisplayName = *row.DisplayName
		}
		for _, w := range row.WindowPerformances {
			entry.Windows[w.Window] = model.WindowPerformance{Pnl: w.Pnl, Roi: w.Roi, Volume: w.Vlm}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (s *HyperliquidSource) clearinghouseState(ctx context.Context, address string) (types.ClearinghouseStateResponse, error) {
	var response types.ClearinghouseStateResponse
	err := s.info(ctx, types.InfoRequest{Type: "clearinghouseState", User: address}, &response)
	return response, err
}

func (s *HyperliquidSource) info(ctx context.Context, payload types.InfoRequest, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.infoURL+"/info", bytes.NewReader(body))
	if err != nil {
		return err
	}
	return s.do(req, out)
}

func (s *HyperliquidSource) do(req *http.Request, out interface{}) error {
	for key, val := range headers {
		req.Header.Set(key, val)
	}
	data, err := s.Send(req)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

func (s *HyperliquidSource) Send(req *http.Request) ([]byte, error) {
	resp, err := s.Client.Do(req)
	if resp != nil {
		defer httputil.BodyCloser(resp.Body)
	}
	if err != nil {
		return nil, err
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if len(body) > 256 {
			body = body[:256]
		}
		return nil, &StatusError{Code: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}

func sortFillsNewestFirst(fills []model.Fill) {
	slices.SortStableFunc(fills, func(a, b model.Fill) int {
		return b.Time.Compare(a.Time)
	})
}

package service

import (
	"context"
	"fadebot/model"
	"fadebot/storage"
	"fadebot/types"
	"fadebot/utils"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"time"
)

const (
	DefaultLoserLimit           = 100
	DefaultPerformanceWindow    = 30 * 24 * time.Hour
	DefaultTraderDetailSnapshot = 30
)

var DefaultMinAccountValue = decimal.NewFromInt(10_000)

// ServiceQuery holds the read-only projections served to the API and CLI.
type ServiceQuery struct {
	storage     storage.Storage
	clock       Clock
	explorerURL string
}

func NewServiceQuery(storage storage.Storage, explorerURL string, clock Clock) *ServiceQuery {
	if clock == nil {
		clock = utcNow
	}
	return &ServiceQuery{storage: storage, clock: clock, explorerURL: explorerURL}
}

// ListTopLosers ranks active traders by mean 30 day pnl percentage, worst
// first, keeping only those whose account value exceeds minAccountValue.
func (q *ServiceQuery) ListTopLosers(ctx context.Context, limit int, minAccountValue decimal.Decimal) ([]types.TopLoser, error) {
	if limit <= 0 {
		limit = DefaultLoserLimit
	}
	rows, err := q.storage.TopLosers(ctx, storage.LoserFilterParams{
		Since:           q.clock().Add(-DefaultPerformanceWindow),
		MinAccountValue: minAccountValue,
		Limit:           limit,
	})
	if err != nil {
		return nil, err
	}
	return lo.Map(rows, func(row storage.LoserRow, i int) types.TopLoser {
		return types.TopLoser{
			Rank:             i + 1,
			TraderID:         row.TraderID,
			Address:          row.Address,
			DisplayName:      row.DisplayName,
			AvgPnlPercentage: row.AvgPnlPercentage,
			TotalPnl:         row.TotalPnl,
			AvgWinRate:       row.AvgWinRate,
			TotalTrades:      int(row.TotalTrades),
			AccountValue:     row.AccountValue,
			SnapshotDays:     int(row.SnapshotDays),
			FormattedPnl:     utils.FormatCurrency(row.TotalPnl),
			FormattedValue:   utils.FormatCurrency(row.AccountValue),
			ExplorerURL:      utils.ExplorerURL(q.explorerURL, row.Address, ""),
		}
	}), nil
}

// ListActiveOpportunities returns ACTIVE opportunities newest first with
// display fields from the trader and the triggering position.
func (q *ServiceQuery) ListActiveOpportunities(ctx context.Context) ([]types.OpportunityView, error) {
	opportunities, err := q.storage.Opportunities(ctx, storage.OpportunityFilterParams{
		Statuses:    []model.OpportunityStatus{model.OpportunityStatusActive},
		WithRelated: true,
	})
	if err != nil {
		return nil, err
	}
	now := q.clock()
	return lo.Map(opportunities, func(o *model.Opportunity, _ int) types.OpportunityView {
		return q.opportunityView(o, now)
	}), nil
}

func (q *ServiceQuery) opportunityView(o *model.Opportunity, now time.Time) types.OpportunityView {
	view := types.OpportunityView{
		ID:                  o.ID,
		PositionID:          o.PositionID,
		Coin:                o.Coin,
		LoserSide:           o.LoserSide,
		SuggestedSide:       o.SuggestedSide,
		LoserEntryPrice:     o.LoserEntryPrice,
		SuggestedEntryPrice: o.SuggestedEntryPrice,
		Confidence:          o.Confidence,
		Status:              o.Status,
		CreatedAt:           o.CreatedAt,
		TimeAgo:             utils.TimeAgo(o.CreatedAt, now),
	}
	txHash := ""
	if o.Position != nil {
		view.Size = o.Position.Size
		view.Leverage = o.Position.Leverage
		view.PositionValue = o.Position.PositionValue
		view.FormattedSize = utils.FormatSize(o.Coin, o.Position.Size)
		view.FormattedValue = utils.FormatCurrency(o.Position.PositionValue)
		view.TimeAgo = utils.TimeAgo(o.Position.OpenedAt, now)
		txHash = o.Position.OpenTxHash
	}
	if o.Trader != nil {
		view.TraderAddress = o.Trader.Address
		view.ExplorerURL = utils.ExplorerURL(q.explorerURL, o.Trader.Address, txHash)
	}
	return view
}

// TraderDetail returns storage.ErrNotFound for an unknown address.
func (q *ServiceQuery) TraderDetail(ctx context.Context, address string) (*types.TraderDetail, error) {
	addr, ok := model.NormalizeAddress(address)
	if !ok {
		return nil, ErrInvalidAddress
	}
	trader, err := q.storage.GetTraderByAddress(ctx, addr)
	if err != nil {
		return nil, err
	}
	performance, err := q.storage.Performances(ctx, storage.PerformanceFilterParams{
		TraderID:    trader.ID,
		NewestFirst: true,
		Limit:       DefaultTraderDetailSnapshot,
	})
	if err != nil {
		return nil, err
	}
	positions, err := q.storage.Positions(ctx, storage.PositionFilterParams{
		TraderID: trader.ID,
		Status:   model.PositionStatusOpen,
	})
	if err != nil {
		return nil, err
	}
	return &types.TraderDetail{
		Trader:        *trader,
		Performance:   derefAll(performance),
		OpenPositions: derefAll(positions),
	}, nil
}

func (q *ServiceQuery) SystemStats(ctx context.Context) (types.SystemStats, error) {
	stats, err := q.storage.Stats(ctx)
	if err != nil {
		return types.SystemStats{}, err
	}
	return types.SystemStats{
		ActiveTraders:       stats.ActiveTraders,
		TotalTraders:        stats.TotalTraders,
		OpenPositions:       stats.OpenPositions,
		TotalOpportunities:  stats.TotalOpportunities,
		ActiveOpportunities: stats.ActiveOpportunities,
		PerformanceRows:     stats.PerformanceRows,
		LastUpdated:         stats.LastUpdated,
	}, nil
}

func derefAll[T any](items []*T) []T {
	return lo.Map(items, func(item *T, _ int) T { return *item })
}

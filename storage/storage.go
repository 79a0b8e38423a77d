package storage

import (
	"context"
	"errors"
	"fadebot/model"
	"github.com/shopspring/decimal"
	"time"
)

var ErrNotFound = errors.New("storage: record not found")

type Storage interface {
	// Transaction runs fn inside one database transaction. fn must only use tx.
	Transaction(ctx context.Context, fn func(tx Storage) error) error

	GetOrCreateTrader(ctx context.Context, address string, now time.Time) (*model.Trader, error)
	GetTraderByAddress(ctx context.Context, address string) (*model.Trader, error)
	Traders(ctx context.Context, filterParams TraderFilterParams) ([]*model.Trader, error)
	UpdateTrader(ctx context.Context, trader *model.Trader) error

	Positions(ctx context.Context, filterParams PositionFilterParams) ([]*model.Position, error)
	CreatePosition(ctx context.Context, position *model.Position) error
	UpdatePosition(ctx context.Context, position *model.Position) error

	UpsertPerformance(ctx context.Context, performance *model.TraderPerformance) error
	Performances(ctx context.Context, filterParams PerformanceFilterParams) ([]*model.TraderPerformance, error)
	TopLosers(ctx context.Context, filterParams LoserFilterParams) ([]LoserRow, error)

	OpportunityExists(ctx context.Context, positionID int64) (bool, error)
	// CreateOpportunity inserts unless one already references the same position.
	// created is false when the insert was skipped.
	CreateOpportunity(ctx context.Context, opportunity *model.Opportunity) (created bool, err error)
	Opportunities(ctx context.Context, filterParams OpportunityFilterParams) ([]*model.Opportunity, error)
	ExpireOpportunities(ctx context.Context, createdBefore, now time.Time) (int64, error)

	Stats(ctx context.Context) (Stats, error)
	ResetTables() error
	Close() error
}

type TraderFilterParams struct {
	Addresses  []string
	ActiveOnly bool
	// StaleFirst orders by last update, oldest first.
	StaleFirst bool
	Limit      int
}

type PositionFilterParams struct {
	TraderID         int64
	Status           model.PositionStatus
	Coin             string
	OpenedSince      *time.Time
	ClosedSince      *time.Time
	ActiveTraderOnly bool
	WithTrader       bool
	Limit            int
}

type PerformanceFilterParams struct {
	TraderID int64
	Since    *time.Time
	// NewestFirst orders by date descending, oldest first otherwise.
	NewestFirst bool
	Limit       int
}

type LoserFilterParams struct {
	Since           time.Time
	MinAccountValue decimal.Decimal
	Limit           int
}

type OpportunityFilterParams struct {
	Statuses    []model.OpportunityStatus
	TraderID    int64
	WithRelated bool
	Limit       int
}

// LoserRow is one trader aggregated over a performance window.
type LoserRow struct {
	TraderID         int64
	Address          string
	DisplayName      string
	AvgPnlPercentage float64
	TotalPnl         decimal.Decimal
	AvgWinRate       float64
	TotalTrades      int64
	AccountValue     decimal.Decimal
	SnapshotDays     int64
}

type Stats struct {
	TotalTraders        int64
	ActiveTraders       int64
	OpenPositions       int64
	PerformanceRows     int64
	TotalOpportunities  int64
	ActiveOpportunities int64
	LastUpdated         *time.Time
}

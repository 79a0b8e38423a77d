package types

import (
	"fadebot/model"
	"github.com/shopspring/decimal"
	"time"
)

type TopLoser struct {
	Rank             int             `json:"rank"`
	TraderID         int64           `json:"traderId"`
	Address          string          `json:"address"`
	DisplayName      string          `json:"displayName"`
	AvgPnlPercentage float64         `json:"avgPnlPercentage"`
	TotalPnl         decimal.Decimal `json:"totalPnl"`
	AvgWinRate       float64         `json:"avgWinRate"`
	TotalTrades      int             `json:"totalTrades"`
	AccountValue     decimal.Decimal `json:"accountValue"`
	SnapshotDays     int             `json:"snapshotDays"`
	FormattedPnl     string          `json:"formattedPnl"`
	FormattedValue   string          `json:"formattedValue"`
	ExplorerURL      string          `json:"explorerUrl"`
}

type OpportunityView struct {
	ID                  int64                   `json:"id"`
	PositionID          *int64                  `json:"positionId"`
	TraderAddress       string                  `json:"traderAddress"`
	Coin                string                  `json:"coin"`
	LoserSide           model.Side              `json:"loserSide"`
	SuggestedSide       model.Side              `json:"suggestedSide"`
	LoserEntryPrice     decimal.Decimal         `json:"loserEntryPrice"`
	SuggestedEntryPrice decimal.Decimal         `json:"suggestedEntryPrice"`
	Confidence          float64                 `json:"confidence"`
	Status              model.OpportunityStatus `json:"status"`
	CreatedAt           time.Time               `json:"createdAt"`
	Size                decimal.Decimal         `json:"size"`
	Leverage            int                     `json:"leverage"`
	PositionValue       decimal.Decimal         `json:"positionValue"`
	FormattedSize       string                  `json:"formattedSize"`
	FormattedValue      string                  `json:"formattedValue"`
	TimeAgo             string                  `json:"timeAgo"`
	ExplorerURL         string                  `json:"explorerUrl"`
}

type TraderDetail struct {
	Trader        model.Trader              `json:"trader"`
	Performance   []model.TraderPerformance `json:"performance"`
	OpenPositions []model.Position          `json:"openPositions"`
}

type SystemStats struct {
	ActiveTraders       int64      `json:"activeTraders"`
	TotalTraders        int64      `json:"totalTraders"`
	OpenPositions       int64      `json:"openPositions"`
	TotalOpportunities  int64      `json:"totalOpportunities"`
	ActiveOpportunities int64      `json:"activeOpportunities"`
	PerformanceRows     int64      `json:"performanceRows"`
	LastUpdated         *time.Time `json:"lastUpdated"`
}

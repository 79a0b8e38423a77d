package service

import (
	"context"
	"fadebot/storage"
	"gonum.org/v1/gonum/stat"
	"math"
	"time"
)

const DefaultScoreLookback = 30 * 24 * time.Hour

// Metrics aggregates a trader's daily snapshots over a lookback window.
type Metrics struct {
	AvgPnlPercentage float64 `json:"avgPnlPercentage"`
	AvgWinRate       float64 `json:"avgWinRate"`
	TotalTrades      int     `json:"totalTrades"`
	LosingTrades     int     `json:"losingTrades"`
	Days             int     `json:"days"`
}

type ScoreResult struct {
	Metrics
	Confidence float64 `json:"confidence"`
}

type ServiceScorer struct {
	storage storage.Storage
	clock   Clock
}

func NewServiceScorer(storage storage.Storage, clock Clock) *ServiceScorer {
	if clock == nil {
		clock = utcNow
	}
	return &ServiceScorer{storage: storage, clock: clock}
}

// Score aggregates the trader's snapshots within lookback. ok is false when
// there are no snapshots, which callers treat as "skip", not as a failure.
func (s *ServiceScorer) Score(ctx context.Context, traderID int64, lookback time.Duration) (ScoreResult, bool, error) {
	if lookback <= 0 {
		lookback = DefaultScoreLookback
	}
	since := s.clock().Add(-lookback)
	rows, err := s.storage.Performances(ctx, storage.PerformanceFilterParams{
		TraderID: traderID,
		Since:    &since,
	})
	if err != nil {
		return ScoreResult{}, false, err
	}
	if len(rows) == 0 {
		return ScoreResult{}, false, nil
	}

	pnl := make([]float64, len(rows))
	winRate := make([]float64, len(rows))
	metrics := Metrics{Days: len(rows)}
	for i, row := range rows {
		pnl[i] = row.PnlPercentage
		winRate[i] = row.WinRate
		metrics.TotalTrades += row.TotalTrades
		metrics.LosingTrades += row.LosingTrades
	}
	metrics.AvgPnlPercentage = stat.Mean(pnl, nil)
	metrics.AvgWinRate = stat.Mean(winRate, nil)

	return ScoreResult{Metrics: metrics, Confidence: Confidence(metrics)}, true, nil
}

// Confidence maps aggregate metrics to 0..100, higher meaning a stronger case
// for taking the other side of the trader.
func Confidence(m Metrics) float64 {
	pnlComponent := math.Min(math.Abs(m.AvgPnlPercentage)/100*50, 50)
	winRateComponent := math.Max(0, (100-m.AvgWinRate)/100*30)
	volumeComponent := math.Min(float64(m.TotalTrades)/100*20, 20)

	confidence := pnlComponent + winRateComponent + volumeComponent
	if m.AvgPnlPercentage < -50 && m.AvgWinRate < 25 {
		confidence = math.Min(confidence+10, 100)
	}
	return math.Min(confidence, 100)
}

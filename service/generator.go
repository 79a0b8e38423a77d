package service

import (
	"context"
	"fadebot/model"
	"fadebot/reference"
	"fadebot/storage"
	"fadebot/utils"
	"github.com/shopspring/decimal"
	"time"
)

const (
	DefaultConfidenceThreshold = 70.0
	DefaultRecentWindow        = time.Hour
)

type PriceLookup interface {
	Price(ctx context.Context, coin string) (price decimal.Decimal, quoted bool, err error)
}

type ServiceGenerator struct {
	storage       storage.Storage
	scorer        *ServiceScorer
	prices        PriceLookup
	notifier      reference.Notifier
	clock         Clock
	threshold     float64
	scoreLookback time.Duration
	recentWindow  time.Duration
}

type GeneratorOption func(*ServiceGenerator)

func WithThreshold(threshold float64) GeneratorOption {
	return func(g *ServiceGenerator) {
		g.threshold = threshold
	}
}

func WithScoreLookback(lookback time.Duration) GeneratorOption {
	return func(g *ServiceGenerator) {
		g.scoreLookback = lookback
	}
}

func WithRecentWindow(window time.Duration) GeneratorOption {
	return func(g *ServiceGenerator) {
		g.recentWindow = window
	}
}

func WithGeneratorNotifier(notifier reference.Notifier) GeneratorOption {
	return func(g *ServiceGenerator) {
		g.notifier = notifier
	}
}

func WithGeneratorClock(clock Clock) GeneratorOption {
	return func(g *ServiceGenerator) {
		g.clock = clock
	}
}

func NewServiceGenerator(storage storage.Storage, scorer *ServiceScorer, prices PriceLookup, options ...GeneratorOption) *ServiceGenerator {
	g := &ServiceGenerator{
		storage:       storage,
		scorer:        scorer,
		prices:        prices,
		clock:         utcNow,
		threshold:     DefaultConfidenceThreshold,
		scoreLookback: DefaultScoreLookback,
		recentWindow:  DefaultRecentWindow,
	}
	for _, option := range options {
		option(g)
	}
	return g
}

// TriggerAnalysis runs one generation pass over the configured recent window.
func (g *ServiceGenerator) TriggerAnalysis(ctx context.Context) ([]*model.Opportunity, error) {
	return g.GenerateForRecentPositions(ctx, g.recentWindow)
}

// GenerateForRecentPositions emits at most one opportunity for every OPEN
// position of an active trader opened within window, gated by the trader's
// confidence score. All new opportunities are written in one transaction.
func (g *ServiceGenerator) GenerateForRecentPositions(ctx context.Context, window time.Duration) ([]*model.Opportunity, error) {
	if window <= 0 {
		window = DefaultRecentWindow
	}
	since := g.clock().Add(-window)
	positions, err := g.storage.Positions(ctx, storage.PositionFilterParams{
		Status:           model.PositionStatusOpen,
		OpenedSince:      &since,
		ActiveTraderOnly: true,
		WithTrader:       true,
	})
	if err != nil {
		return nil, err
	}

	type score struct {
		result ScoreResult
		ok     bool
	}
	scores := map[int64]score{}
	candidates := make([]*model.Opportunity, 0)
	for _, position := range positions {
		exists, err := g.storage.OpportunityExists(ctx, position.ID)
		if err != nil {
			utils.Log.Errorf("[Generator] check opportunity for position %d: %v", position.ID, err)
			continue
		}
		if exists {
			continue
		}

		sc, cached := scores[position.TraderID]
		if !cached {
			result, ok, err := g.scorer.Score(ctx, position.TraderID, g.scoreLookback)
			if err != nil {
				utils.Log.Errorf("[Generator] score trader %d: %v", position.TraderID, err)
				continue
			}
			sc = score{result: result, ok: ok}
			scores[position.TraderID] = sc
		}
		if !sc.ok || sc.result.Confidence < g.threshold {
			continue
		}

		price, quoted, err := g.prices.Price(ctx, position.Coin)
		if err != nil {
			utils.Log.Warnf("[Generator] price for %s unavailable, skip position %d: %v", position.Coin, position.ID, err)
			continue
		}
		if !quoted {
			price = position.EntryPrice
		}

		positionID := position.ID
		candidates = append(candidates, &model.Opportunity{
			PositionID:          &positionID,
			TraderID:            position.TraderID,
			Coin:                position.Coin,
			LoserSide:           position.Side,
			SuggestedSide:       position.Side.Opposite(),
			LoserEntryPrice:     position.EntryPrice,
			SuggestedEntryPrice: price,
			Confidence:          sc.result.Confidence,
			Status:              model.OpportunityStatusActive,
			CreatedAt:           g.clock(),
			Trader:              position.Trader,
			Position:            position,
		})
	}
	if len(candidates) == 0 {
		return []*model.Opportunity{}, nil
	}

	created := make([]*model.Opportunity, 0, len(candidates))
	err = g.storage.Transaction(ctx, func(tx storage.Storage) error {
		created = created[:0]
		for _, opportunity := range candidates {
			ok, err := tx.CreateOpportunity(ctx, opportunity)
			if err != nil {
				return err
			}
			if ok {
				created = append(created, opportunity)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, opportunity := range created {
		utils.Log.Infof("[Generator] new opportunity: %s", opportunity)
		if g.notifier != nil {
			g.notifier.OnOpportunity(*opportunity)
		}
	}
	return created, nil
}

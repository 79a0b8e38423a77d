//go:generate go run github.com/vektra/mockery/v2 --name=MarketSource --with-expecter --output=../mocks

package source

import (
	"context"
	"fadebot/model"
	"fmt"
	"github.com/shopspring/decimal"
)

// MarketSource is the read-only view of the exchange. Every call may fail
// transiently; callers treat an error as "no data" for that cycle.
type MarketSource interface {
	GetMidPrices(ctx context.Context) (map[string]decimal.Decimal, error)
	GetAccountState(ctx context.Context, address string) (model.AccountState, error)
	GetRecentFills(ctx context.Context, address string, limit int) ([]model.Fill, error)
	GetLeaderboard(ctx context.Context) ([]model.LeaderboardEntry, error)
}

// StatusError is returned for a non-2xx upstream response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream status %d: %s", e.Code, e.Body)
}

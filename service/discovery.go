package service

import (
	"context"
	"fadebot/model"
	"fadebot/source"
	"github.com/StudioSol/set"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
)

// ServiceDiscovery picks losing accounts from the public leaderboard.
type ServiceDiscovery struct {
	source          source.MarketSource
	minAccountValue decimal.Decimal
	maxMonthRoi     decimal.Decimal
	limit           int
}

func NewServiceDiscovery(source source.MarketSource, minAccountValue, maxMonthRoi decimal.Decimal, limit int) *ServiceDiscovery {
	if limit <= 0 {
		limit = 50
	}
	return &ServiceDiscovery{
		source:          source,
		minAccountValue: minAccountValue,
		maxMonthRoi:     maxMonthRoi,
		limit:           limit,
	}
}

// Discover returns leaderboard entries with a valid address, an account value
// of at least minAccountValue and a 30 day ROI at or below maxMonthRoi, worst
// ROI first. Addresses are normalized and unique.
func (d *ServiceDiscovery) Discover(ctx context.Context) ([]model.LeaderboardEntry, error) {
	entries, err := d.source.GetLeaderboard(ctx)
	if err != nil {
		return nil, err
	}

	seen := set.NewLinkedHashSetString()
	losers := lo.FilterMap(entries, func(entry model.LeaderboardEntry, _ int) (model.LeaderboardEntry, bool) {
		addr, ok := model.NormalizeAddress(entry.Address)
		if !ok || seen.InArray(addr) {
			return entry, false
		}
		if entry.AccountValue.LessThan(d.minAccountValue) || entry.MonthRoi().GreaterThan(d.maxMonthRoi) {
			return entry, false
		}
		seen.Add(addr)
		entry.Address = addr
		return entry, true
	})

	slices.SortStableFunc(losers, func(a, b model.LeaderboardEntry) int {
		return a.MonthRoi().Cmp(b.MonthRoi())
	})
	if len(losers) > d.limit {
		losers = losers[:d.limit]
	}
	return losers, nil
}

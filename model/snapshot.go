package model

import (
	"github.com/shopspring/decimal"
	"time"
)

// PositionSnapshot is a position as reported live by the market data source.
type PositionSnapshot struct {
	Coin           string
	Side           Side
	Size           decimal.Decimal
	EntryPrice     decimal.Decimal
	Leverage       int
	LeverageType   string
	PositionValue  decimal.Decimal
	UnrealizedPnl  decimal.Decimal
	MarginUsed     decimal.Decimal
	LiquidationPx  decimal.NullDecimal
	ReturnOnEquity float64
}

// AccountState is one consistent read of an account: its open positions and
// the account value from the same response.
type AccountState struct {
	Positions    []PositionSnapshot
	AccountValue decimal.Decimal
}

func (s PositionSnapshot) Key() PositionKey {
	return PositionKey{Coin: s.Coin, Side: s.Side}
}

type FillSide string

var (
	FillSideBuy  FillSide = "B"
	FillSideSell FillSide = "A"
)

// Fill is one executed trade. ClosedPnl is non-zero only on reducing fills.
type Fill struct {
	Coin      string
	Price     decimal.Decimal
	Size      decimal.Decimal
	Side      FillSide
	Direction string
	ClosedPnl decimal.Decimal
	Hash      string
	Time      time.Time
}

// SignedSize is positive for buys and negative for sells.
func (f Fill) SignedSize() decimal.Decimal {
	if f.Side == FillSideSell {
		return f.Size.Neg()
	}
	return f.Size
}

// Closes reports whether the fill reduced a position on the given side.
func (f Fill) Closes(side Side) bool {
	switch side {
	case SideLong:
		return f.Direction == "Close Long" || f.Direction == "Long > Short"
	case SideShort:
		return f.Direction == "Close Short" || f.Direction == "Short > Long"
	}
	return false
}

// Opens reports whether the fill opened or added to a position on the given side.
func (f Fill) Opens(side Side) bool {
	switch side {
	case SideLong:
		return f.Direction == "Open Long" || f.Direction == "Short > Long"
	case SideShort:
		return f.Direction == "Open Short" || f.Direction == "Long > Short"
	}
	return false
}

type WindowPerformance struct {
	Pnl    decimal.Decimal
	Roi    decimal.Decimal
	Volume decimal.Decimal
}

type LeaderboardEntry struct {
	Address      string
	DisplayName  string
	AccountValue decimal.Decimal
	Windows      map[string]WindowPerformance
}

// MonthRoi returns the 30 day return on investment as a fraction.
func (e LeaderboardEntry) MonthRoi() decimal.Decimal {
	return e.Windows["month"].Roi
}

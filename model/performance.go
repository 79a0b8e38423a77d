package model

import (
	"github.com/shopspring/decimal"
	"time"
)

// TraderPerformance is one aggregate row per trader and UTC calendar day.
type TraderPerformance struct {
	ID            int64           `json:"id" gorm:"primaryKey;autoIncrement"`
	TraderID      int64           `json:"traderId" gorm:"not null;uniqueIndex:idx_performance_trader_date"`
	Date          time.Time       `json:"date" gorm:"not null;uniqueIndex:idx_performance_trader_date"`
	PnlPercentage float64         `json:"pnlPercentage"`
	PnlAbsolute   decimal.Decimal `json:"pnlAbsolute" gorm:"type:decimal(20,8)"`
	WinRate       float64         `json:"winRate"`
	TotalTrades   int             `json:"totalTrades"`
	WinningTrades int             `json:"winningTrades"`
	LosingTrades  int             `json:"losingTrades"`
	AvgWin        decimal.Decimal `json:"avgWin" gorm:"type:decimal(20,8)"`
	AvgLoss       decimal.Decimal `json:"avgLoss" gorm:"type:decimal(20,8)"`
	AccountValue  decimal.Decimal `json:"accountValue" gorm:"type:decimal(20,8)"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`

	Trader *Trader `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

func (TraderPerformance) TableName() string {
	return "trader_performance"
}

// DayOf truncates t to the start of its UTC calendar day.
func DayOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

package model

import (
	"fmt"
	"github.com/shopspring/decimal"
	"time"
)

type Side string
type PositionStatus string

var (
	SideLong  Side = "LONG"
	SideShort Side = "SHORT"

	PositionStatusOpen   PositionStatus = "OPEN"
	PositionStatusClosed PositionStatus = "CLOSED"
)

// Opposite returns the counter side. Only LONG and SHORT are modeled.
func (s Side) Opposite() Side {
	if s == SideLong {
		return SideShort
	}
	return SideLong
}

type Position struct {
	ID            int64               `json:"id" gorm:"primaryKey;autoIncrement"`
	TraderID      int64               `json:"traderId" gorm:"not null;index;uniqueIndex:idx_positions_open_key,where:status = 'OPEN'"`
	Coin          string              `json:"coin" gorm:"type:varchar(32);not null;uniqueIndex:idx_positions_open_key"`
	Side          Side                `json:"side" gorm:"type:varchar(8);not null;uniqueIndex:idx_positions_open_key"`
	EntryPrice    decimal.Decimal     `json:"entryPrice" gorm:"type:decimal(20,8);not null"`
	Size          decimal.Decimal     `json:"size" gorm:"type:decimal(20,8);not null"`
	Leverage      int                 `json:"leverage"`
	LeverageType  string              `json:"leverageType" gorm:"type:varchar(16)"`
	PositionValue decimal.Decimal     `json:"positionValue" gorm:"type:decimal(20,8)"`
	UnrealizedPnl decimal.Decimal     `json:"unrealizedPnl" gorm:"type:decimal(20,8)"`
	MarginUsed    decimal.Decimal     `json:"marginUsed" gorm:"type:decimal(20,8)"`
	LiquidationPx decimal.NullDecimal `json:"liquidationPx" gorm:"type:decimal(20,8)"`
	Status        PositionStatus      `json:"status" gorm:"type:varchar(8);not null;index"`
	OpenedAt      time.Time           `json:"openedAt" gorm:"not null;index"`
	ClosedAt      *time.Time          `json:"closedAt"`
	ClosePrice    decimal.NullDecimal `json:"closePrice" gorm:"type:decimal(20,8)"`
	RealizedPnl   decimal.NullDecimal `json:"realizedPnl" gorm:"type:decimal(20,8)"`
	OpenTxHash    string              `json:"openTxHash" gorm:"type:varchar(66)"`
	UpdatedAt     time.Time           `json:"updatedAt"`

	Trader *Trader `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

// Key identifies an open position inside one trader's book.
func (p Position) Key() PositionKey {
	return PositionKey{Coin: p.Coin, Side: p.Side}
}

func (p Position) String() string {
	return fmt.Sprintf("[%s] %s %s | Size: %s, Entry: %s, uPnL: %s, Opened: %s",
		p.Status,
		p.Coin,
		p.Side,
		p.Size.String(),
		p.EntryPrice.String(),
		p.UnrealizedPnl.StringFixed(2),
		p.OpenedAt.UTC().Format("2006-01-02 15:04:05"),
	)
}

type PositionKey struct {
	Coin string
	Side Side
}

func (k PositionKey) String() string {
	return k.Coin + "/" + string(k.Side)
}

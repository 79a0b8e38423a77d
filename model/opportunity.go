package model

import (
	"fmt"
	"github.com/shopspring/decimal"
	"time"
)

type OpportunityStatus string

var (
	OpportunityStatusActive    OpportunityStatus = "ACTIVE"
	OpportunityStatusExecuted  OpportunityStatus = "EXECUTED"
	OpportunityStatusExpired   OpportunityStatus = "EXPIRED"
	OpportunityStatusCancelled OpportunityStatus = "CANCELLED"
)

type Opportunity struct {
	ID                  int64             `json:"id" gorm:"primaryKey;autoIncrement"`
	PositionID          *int64            `json:"positionId" gorm:"uniqueIndex"`
	TraderID            int64             `json:"traderId" gorm:"not null;index"`
	Coin                string            `json:"coin" gorm:"type:varchar(32);not null"`
	LoserSide           Side              `json:"loserSide" gorm:"type:varchar(8);not null"`
	SuggestedSide       Side              `json:"suggestedSide" gorm:"type:varchar(8);not null"`
	LoserEntryPrice     decimal.Decimal   `json:"loserEntryPrice" gorm:"type:decimal(20,8)"`
	SuggestedEntryPrice decimal.Decimal   `json:"suggestedEntryPrice" gorm:"type:decimal(20,8)"`
	Confidence          float64           `json:"confidence" gorm:"not null"`
	Status              OpportunityStatus `json:"status" gorm:"type:varchar(16);not null;index:idx_opportunities_status_created"`
	CreatedAt           time.Time         `json:"createdAt" gorm:"not null;index:idx_opportunities_status_created"`
	ExecutedAt          *time.Time        `json:"executedAt"`
	ExpiredAt           *time.Time        `json:"expiredAt"`

	Trader   *Trader   `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Position *Position `json:"-" gorm:"constraint:OnDelete:SET NULL"`
}

func (o Opportunity) String() string {
	return fmt.Sprintf("%s %s -> %s | Loser entry: %s, Suggested entry: %s, Confidence: %.1f",
		o.Coin,
		o.LoserSide,
		o.SuggestedSide,
		o.LoserEntryPrice.String(),
		o.SuggestedEntryPrice.String(),
		o.Confidence,
	)
}

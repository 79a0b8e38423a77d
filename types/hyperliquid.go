package types

import (
	"encoding/json"
	"fmt"
	"github.com/shopspring/decimal"
)

type ProxyOption struct {
	Status bool
	Url    string
}

type InfoRequest struct {
	Type string `json:"type"`
	User string `json:"user,omitempty"`
}

type ClearinghouseStateResponse struct {
	AssetPositions []AssetPosition `json:"assetPositions"`
	MarginSummary  MarginSummary   `json:"marginSummary"`
	Withdrawable   decimal.Decimal `json:"withdrawable"`
	Time           int64           `json:"time"`
}

type MarginSummary struct {
	AccountValue    decimal.Decimal `json:"accountValue"`
	TotalNtlPos     decimal.Decimal `json:"totalNtlPos"`
	TotalRawUsd     decimal.Decimal `json:"totalRawUsd"`
	TotalMarginUsed decimal.Decimal `json:"totalMarginUsed"`
}

type AssetPosition struct {
	Type     string              `json:"type"`
	Position AssetPositionDetail `json:"position"`
}

type AssetPositionDetail struct {
	Coin           string              `json:"coin"`
	Szi            decimal.Decimal     `json:"szi"`
	EntryPx        decimal.Decimal     `json:"entryPx"`
	PositionValue  decimal.Decimal     `json:"positionValue"`
	UnrealizedPnl  decimal.Decimal     `json:"unrealizedPnl"`
	ReturnOnEquity decimal.Decimal     `json:"returnOnEquity"`
	LiquidationPx  decimal.NullDecimal `json:"liquidationPx"`
	MarginUsed     decimal.Decimal     `json:"marginUsed"`
	MaxLeverage    int                 `json:"maxLeverage"`
	Leverage       Leverage            `json:"leverage"`
}

type Leverage struct {
	Type  string `json:"type"`
	Value int    `json:"value"`
}

type UserFill struct {
	Coin          string          `json:"coin"`
	Px            decimal.Decimal `json:"px"`
	Sz            decimal.Decimal `json:"sz"`
	Side          string          `json:"side"`
	Time          int64           `json:"time"`
	StartPosition decimal.Decimal `json:"startPosition"`
	Dir           string          `json:"dir"`
	ClosedPnl     decimal.Decimal `json:"closedPnl"`
	Hash          string          `json:"hash"`
	Oid           int64           `json:"oid"`
	Crossed       bool            `json:"crossed"`
	Fee           decimal.Decimal `json:"fee"`
	Tid           int64           `json:"tid"`
}

type LeaderboardResponse struct {
	LeaderboardRows []LeaderboardRow `json:"leaderboardRows"`
}

type LeaderboardRow struct {
	EthAddress         string              `json:"ethAddress"`
	AccountValue       decimal.Decimal     `json:"accountValue"`
	DisplayName        *string             `json:"displayName"`
	WindowPerformances []WindowPerformance `json:"windowPerformances"`
}

type WindowPerformance struct {
	Window string
	Pnl    decimal.Decimal `json:"pnl"`
	Roi    decimal.Decimal `json:"roi"`
	Vlm    decimal.Decimal `json:"vlm"`
}

// UnmarshalJSON decodes the ["month", {"pnl": ..}] tuple form.
func (w *WindowPerformance) UnmarshalJSON(data []byte) error {
	var tuple []json.RawMessage
	if err := json.Unmarshal(data, &tuple); err != nil {
		return err
	}
	if len(tuple) != 2 {
		return fmt.Errorf("window performance: expected 2 elements, got %d", len(tuple))
	}
	if err := json.Unmarshal(tuple[0], &w.Window); err != nil {
		return err
	}
	var body struct {
		Pnl decimal.Decimal `json:"pnl"`
		Roi decimal.Decimal `json:"roi"`
		Vlm decimal.Decimal `json:"vlm"`
	}
	if err := json.Unmarshal(tuple[1], &body); err != nil {
		return err
	}
	w.Pnl, w.Roi, w.Vlm = body.Pnl, body.Roi, body.Vlm
	return nil
}

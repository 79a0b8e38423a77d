package utils

import (
	"fmt"
	"github.com/shopspring/decimal"
	"strings"
	"time"
)

const zeroTxHash = "0x0000000000000000000000000000000000000000000000000000000000000000"

var (
	million  = decimal.NewFromInt(1_000_000)
	thousand = decimal.NewFromInt(1_000)
)

// FormatSize renders a position size, using coin specific precision below 1K.
func FormatSize(coin string, size decimal.Decimal) string {
	if size.IsZero() {
		return ""
	}
	switch {
	case size.GreaterThanOrEqual(million):
		return size.Div(million).StringFixed(1) + "M"
	case size.GreaterThanOrEqual(thousand):
		return size.Div(thousand).StringFixed(1) + "K"
	}
	switch strings.ToUpper(coin) {
	case "BTC":
		return size.StringFixed(4)
	case "ETH":
		return size.StringFixed(3)
	default:
		return size.StringFixed(1)
	}
}

func FormatCurrency(amount decimal.Decimal) string {
	switch abs := amount.Abs(); {
	case abs.GreaterThanOrEqual(million):
		return "$" + amount.Div(million).StringFixed(1) + "M"
	case abs.GreaterThanOrEqual(thousand):
		return "$" + amount.Div(thousand).StringFixed(1) + "K"
	}
	return "$" + amount.StringFixed(0)
}

func TimeAgo(ts, now time.Time) string {
	if ts.IsZero() {
		return ""
	}
	seconds := int64(now.Sub(ts).Seconds())
	switch {
	case seconds < 60:
		return fmt.Sprintf("%ds ago", seconds)
	case seconds < 3600:
		return fmt.Sprintf("%dm ago", seconds/60)
	case seconds < 86400:
		return fmt.Sprintf("%dh ago", seconds/3600)
	default:
		return fmt.Sprintf("%dd ago", seconds/86400)
	}
}

// ExplorerURL links the opening transaction when known, the account otherwise.
func ExplorerURL(base, address, txHash string) string {
	base = strings.TrimRight(base, "/")
	if txHash != "" && txHash != zeroTxHash {
		return base + "/tx/" + txHash
	}
	return base + "/address/" + address
}

package controllers

import (
	"github.com/kataras/iris/v12"
)

type HealthController struct {
	BaseController
}

// Live is the liveness probe.
func (c *HealthController) Live(ctx iris.Context) error {
	return c.Success(ctx, "healthy", nil)
}

// Index lists the API endpoints.
func (c *HealthController) Index(ctx iris.Context) error {
	return c.Success(ctx, "Hyperliquid counter-trading API", map[string]string{
		"losers":        "GET /api/losers - top losing traders",
		"opportunities": "GET /api/opportunities - active counter-trade opportunities",
		"collect":       "POST /api/collect - collect a list of addresses",
		"collectOne":    "POST /api/collect/{address} - collect one address",
		"analyze":       "POST /api/analyze - generate opportunities now",
		"expire":        "POST /api/expire - expire stale opportunities",
		"trader":        "GET /api/trader/{address} - trader detail",
		"performance":   "GET /api/performance - system counters",
		"status":        "GET /api/status - scheduler status",
	})
}

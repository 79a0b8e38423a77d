package controllers

import (
	"github.com/kataras/iris/v12"
	"github.com/shopspring/decimal"
)

type TraderController struct {
	BaseController
}

// Losers lists the worst performing traders. Accepts limit and
// min_account_value query parameters.
func (c *TraderController) Losers(ctx iris.Context) error {
	limit := ctx.URLParamIntDefault("limit", c.LoserLimit)
	if limit <= 0 || limit > 500 {
		return c.FailWithCode(ctx, iris.StatusBadRequest, "limit must be between 1 and 500")
	}
	minAccountValue := c.MinAccountValue
	if raw := ctx.URLParamTrim("min_account_value"); raw != "" {
		value, err := decimal.NewFromString(raw)
		if err != nil {
			return c.FailWithCode(ctx, iris.StatusBadRequest, "min_account_value must be a number")
		}
		minAccountValue = value
	}

	losers, err := c.Query.ListTopLosers(ctx.Request().Context(), limit, minAccountValue)
	if err != nil {
		return c.Fail(ctx, err)
	}
	return c.SuccessList(ctx, losers, len(losers))
}

func (c *TraderController) Detail(ctx iris.Context) error {
	detail, err := c.Query.TraderDetail(ctx.Request().Context(), ctx.Params().Get("address"))
	if err != nil {
		return c.Fail(ctx, err)
	}
	return c.Success(ctx, "", detail)
}

func (c *TraderController) Performance(ctx iris.Context) error {
	stats, err := c.Query.SystemStats(ctx.Request().Context())
	if err != nil {
		return c.Fail(ctx, err)
	}
	return c.Success(ctx, "", stats)
}

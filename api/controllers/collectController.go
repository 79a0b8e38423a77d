package controllers

import (
	"fadebot/api/typing"
	"fadebot/api/validates"
	"fadebot/model"
	"fmt"
	"github.com/kataras/iris/v12"
)

type CollectController struct {
	BaseController
}

// Collect refreshes every address in the body.
func (c *CollectController) Collect(ctx iris.Context) error {
	request, err := validates.CollectRequestValidate(ctx)
	if err != nil {
		return c.FailWithCode(ctx, iris.StatusBadRequest, err.Error())
	}
	addresses := make([]string, 0, len(request.Addresses))
	for _, address := range request.Addresses {
		addr, _ := model.NormalizeAddress(address)
		addresses = append(addresses, addr)
	}

	results := c.Collector.TriggerCollection(ctx.Request().Context(), addresses)
	result := typing.CollectResult{Results: results}
	for _, ok := range results {
		if ok {
			result.Succeeded++
		} else {
			result.Failed++
		}
	}
	return c.Success(ctx, "Data collection complete", result)
}

// CollectOne refreshes the address in the path.
func (c *CollectController) CollectOne(ctx iris.Context) error {
	address := ctx.Params().Get("address")
	if _, err := c.Collector.CollectTrader(ctx.Request().Context(), address); err != nil {
		return c.Fail(ctx, fmt.Errorf("failed to collect data for %s: %w", address, err))
	}
	return c.Success(ctx, fmt.Sprintf("Data collected for %s", address), nil)
}

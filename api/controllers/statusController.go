package controllers

import (
	"github.com/kataras/iris/v12"
)

type StatusController struct {
	BaseController
}

// Status reports the scheduler state next to the storage counters.
func (c *StatusController) Status(ctx iris.Context) error {
	stats, err := c.Query.SystemStats(ctx.Request().Context())
	if err != nil {
		return c.Fail(ctx, err)
	}
	data := map[string]interface{}{
		"stats": stats,
	}
	if c.Scheduler != nil {
		data["scheduler"] = c.Scheduler.Status()
	}
	return c.Success(ctx, "", data)
}

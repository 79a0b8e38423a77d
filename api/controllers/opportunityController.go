package controllers

import (
	"fmt"
	"github.com/kataras/iris/v12"
	"time"
)

type OpportunityController struct {
	BaseController
}

func (c *OpportunityController) List(ctx iris.Context) error {
	views, err := c.Query.ListActiveOpportunities(ctx.Request().Context())
	if err != nil {
		return c.Fail(ctx, err)
	}
	return c.SuccessList(ctx, views, len(views))
}

// Analyze runs one generation pass over recently opened positions.
func (c *OpportunityController) Analyze(ctx iris.Context) error {
	created, err := c.Generator.TriggerAnalysis(ctx.Request().Context())
	if err != nil {
		return c.Fail(ctx, err)
	}
	return c.Success(ctx, fmt.Sprintf("Analysis complete. Generated %d opportunities.", len(created)), created)
}

// Expire moves stale ACTIVE opportunities to EXPIRED. hours overrides the
// configured retention.
func (c *OpportunityController) Expire(ctx iris.Context) error {
	retention := c.Retention
	if hours := ctx.URLParamIntDefault("hours", 0); hours > 0 {
		retention = time.Duration(hours) * time.Hour
	}
	count, err := c.Lifecycle.ExpireOlderThan(ctx.Request().Context(), retention)
	if err != nil {
		return c.Fail(ctx, err)
	}
	return c.Success(ctx, fmt.Sprintf("Expired %d opportunities", count), map[string]int64{"expired": count})
}

package api

import (
	"fadebot/api/controllers"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/core/router"
)

func OpportunityRoutes(app router.Party, services *controllers.Services) {
	c := controllers.OpportunityController{BaseController: controllers.BaseController{Services: services}}

	app.Get("/opportunities", func(ctx iris.Context) {
		_ = c.List(ctx)
	})
	app.Post("/analyze", func(ctx iris.Context) {
		_ = c.Analyze(ctx)
	})
	app.Post("/expire", func(ctx iris.Context) {
		_ = c.Expire(ctx)
	})
}

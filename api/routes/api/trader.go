package api

import (
	"fadebot/api/controllers"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/core/router"
)

func TraderRoutes(app router.Party, services *controllers.Services) {
	c := controllers.TraderController{BaseController: controllers.BaseController{Services: services}}

	app.Get("/losers", func(ctx iris.Context) {
		_ = c.Losers(ctx)
	})
	app.Get("/trader/{address:string}", func(ctx iris.Context) {
		_ = c.Detail(ctx)
	})
	app.Get("/performance", func(ctx iris.Context) {
		_ = c.Performance(ctx)
	})
}

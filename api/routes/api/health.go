package api

import (
	"fadebot/api/controllers"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/core/router"
)

func HealthRoutes(app router.Party, services *controllers.Services) {
	c := controllers.HealthController{BaseController: controllers.BaseController{Services: services}}

	app.Get("/", func(ctx iris.Context) {
		_ = c.Live(ctx)
	})
	app.Get("/live", func(ctx iris.Context) {
		_ = c.Live(ctx)
	})
}

func IndexRoutes(app router.Party, services *controllers.Services) {
	c := controllers.HealthController{BaseController: controllers.BaseController{Services: services}}

	app.Get("/", func(ctx iris.Context) {
		_ = c.Index(ctx)
	})
}

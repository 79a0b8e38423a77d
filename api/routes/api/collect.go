package api

import (
	"fadebot/api/controllers"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/core/router"
)

func CollectRoutes(app router.Party, services *controllers.Services) {
	c := controllers.CollectController{BaseController: controllers.BaseController{Services: services}}

	app.Post("/collect", func(ctx iris.Context) {
		_ = c.Collect(ctx)
	})
	app.Post("/collect/{address:string}", func(ctx iris.Context) {
		_ = c.CollectOne(ctx)
	})
}

package api

import (
	"fadebot/api/controllers"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/core/router"
)

func StatusRoutes(app router.Party, services *controllers.Services) {
	c := controllers.StatusController{BaseController: controllers.BaseController{Services: services}}

	app.Get("/status", func(ctx iris.Context) {
		_ = c.Status(ctx)
	})
}

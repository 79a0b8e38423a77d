package api

import (
	"github.com/kataras/iris/v12"
)

func BaseRoutes(app *iris.Application) {
	app.Get("/", func(ctx iris.Context) {
		_ = ctx.JSON(map[string]string{
			"status":  "success",
			"message": "fadebot is running, see /api/",
		})
	})
}

package routes

import (
	"fadebot/api/controllers"
	"fadebot/api/routes/api"
	"github.com/kataras/iris/v12"
)

// ApiRoutes registers every route on app.
func ApiRoutes(app *iris.Application, services *controllers.Services) {
	api.BaseRoutes(app)
	api.PprofRoutes(app)

	healthRoutes := app.Party("/health")
	{
		api.HealthRoutes(healthRoutes, services)
	}
	apiRoutes := app.Party("/api")
	{
		api.IndexRoutes(apiRoutes, services)
		api.TraderRoutes(apiRoutes, services)
		api.OpportunityRoutes(apiRoutes, services)
		api.CollectRoutes(apiRoutes, services)
		api.StatusRoutes(apiRoutes, services)
	}
}

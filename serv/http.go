package serv

import (
	"context"
	"fadebot/api/controllers"
	"fadebot/api/middlewares"
	"fadebot/api/routes"
	"fadebot/utils"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/recover"
	"github.com/spf13/viper"
	"time"
)

// NewApp builds the iris application with every route registered.
func NewApp(services *controllers.Services) *iris.Application {
	app := iris.New()
	app.Logger().SetLevel(viper.GetString("log.level"))
	app.UseRouter(middlewares.CorsNew())
	app.Use(recover.New())
	routes.ApiRoutes(app, services)
	return app
}

// StartHttpServer serves app on listen.http until ctx is cancelled.
func StartHttpServer(ctx context.Context, app *iris.Application) error {
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := app.Shutdown(shutdownCtx); err != nil {
			utils.Log.Errorf("[HTTP] shutdown: %v", err)
		}
	}()

	cfg := iris.DefaultConfiguration()
	if err := viper.UnmarshalKey("iris", &cfg); err != nil {
		utils.Log.Errorf("unmarshal config failed: %s", err.Error())
	}
	addr := viper.GetString("listen.http")
	utils.Log.Infof("[HTTP] listening on %s", addr)
	err := app.Listen(addr, iris.WithConfiguration(cfg), iris.WithoutServerError(iris.ErrServerClosed))
	return err
}

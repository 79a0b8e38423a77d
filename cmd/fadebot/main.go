package main

import (
	"context"
	"fadebot/api/controllers"
	"fadebot/bot"
	"fadebot/internal/bootstrap"
	"fadebot/serv"
	"fadebot/utils"
	"fadebot/utils/config"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := bootstrap.OpenStorage()
	if err != nil {
		utils.Log.Fatalf("open storage: %v", err)
	}
	defer st.Close()

	src, err := bootstrap.NewMarketSource()
	if err != nil {
		utils.Log.Fatalf("init market source: %v", err)
	}

	notifiers, closeNotifiers, err := bootstrap.Notifiers()
	if err != nil {
		utils.Log.Fatalf("init notifiers: %v", err)
	}
	defer closeNotifiers()

	options := make([]bot.Option, 0, len(notifiers))
	for _, notifier := range notifiers {
		options = append(options, bot.WithNotifier(notifier))
	}
	settings := bot.SettingsFromConfig()
	fadebot, err := bot.NewBot(settings, st, src, options...)
	if err != nil {
		utils.Log.Fatalf("init bot: %v", err)
	}
	defer fadebot.Close()

	app := serv.NewApp(&controllers.Services{
		Collector:       fadebot.CollectorService(),
		Generator:       fadebot.GeneratorService(),
		Lifecycle:       fadebot.LifecycleService(),
		Query:           fadebot.QueryService(),
		Scheduler:       fadebot,
		LoserLimit:      viper.GetInt("losers.limit"),
		MinAccountValue: decimal.NewFromFloat(viper.GetFloat64("losers.minAccountValue")),
		Retention:       config.Duration("analysis.retention"),
	})

	utils.Log.Infof("------------------------------------")
	utils.Log.Infof("------ fadebot initializing --------")
	utils.Log.Infof("------------------------------------")

	group, ctx := errgroup.WithContext(ctx)
	if viper.GetBool("scheduler.enabled") {
		group.Go(func() error {
			fadebot.Run(ctx)
			return nil
		})
	}
	group.Go(func() error {
		return serv.StartHttpServer(ctx, app)
	})
	if err := group.Wait(); err != nil {
		utils.Log.Errorf("stopped with error: %v", err)
	}
	utils.Log.Info(fadebot.Summary())
}

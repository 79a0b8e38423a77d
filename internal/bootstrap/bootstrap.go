package bootstrap

import (
	"fadebot/internal/redisClient"
	"fadebot/notification"
	"fadebot/reference"
	"fadebot/source"
	"fadebot/storage"
	"fadebot/types"
	"fadebot/utils"
	"fadebot/utils/config"
	"fadebot/utils/log"
	"github.com/spf13/viper"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"time"
)

// OpenStorage opens and migrates the storage.dsn database.
func OpenStorage() (*storage.SQL, error) {
	level := logger.Warn
	if viper.GetBool("log.sql") {
		level = logger.Info
	}
	return storage.Open(viper.GetString("storage.dsn"), &gorm.Config{
		Logger: log.NewGormLogger(utils.Log, level),
	})
}

// NewMarketSource builds the Hyperliquid client from the hyperliquid, http
// and proxy sections.
func NewMarketSource() (*source.HyperliquidSource, error) {
	src := source.NewHyperliquidSource(
		source.WithInfoURL(viper.GetString("hyperliquid.infoUrl")),
		source.WithLeaderboardURL(viper.GetString("hyperliquid.leaderboardUrl")),
	)
	timeout := config.Duration("http.timeout")
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	err := src.InitHttpClient(types.ProxyOption{
		Status: viper.GetBool("proxy.status"),
		Url:    viper.GetString("proxy.url"),
	}, timeout)
	return src, err
}

// Notifiers returns the configured non-telegram notifiers and a func
// releasing their connections.
func Notifiers() ([]reference.Notifier, func(), error) {
	notifiers := make([]reference.Notifier, 0)
	closers := make([]func(), 0)
	if viper.GetBool("redis.enabled") {
		client, err := redisClient.New()
		if err != nil {
			return nil, func() {}, err
		}
		closers = append(closers, func() { _ = client.Close() })
		notifiers = append(notifiers, notification.NewRedis(client, viper.GetString("redis.channel")))
	}
	return notifiers, func() {
		for _, closer := range closers {
			closer()
		}
	}, nil
}

package config

import (
	"fadebot/utils/fileutil"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"github.com/xhit/go-str2duration/v2"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var configPath = "./configs/"
var envConfigPath = "./.env"

func LoadConf() {
	setDefaults()
	// config files first, .env and process environment override them
	if err := setFileConfig(); err != nil {
		log.Fatalln("load config files failed:", err.Error())
	}
	if err := setEnvConfig(); err != nil {
		log.Fatalln("load env failed:", err.Error())
	}
}

func setDefaults() {
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.stdout", false)
	viper.SetDefault("log.path", "./logs")
	viper.SetDefault("log.suffix", "log")
	viper.SetDefault("log.sql", false)

	viper.SetDefault("listen.http", ":8080")
	viper.SetDefault("http.timeout", 10000)
	viper.SetDefault("proxy.status", false)
	viper.SetDefault("proxy.url", "")

	viper.SetDefault("storage.dsn", "./data/fadebot.db")

	viper.SetDefault("hyperliquid.infoUrl", "https://api.hyperliquid.xyz")
	viper.SetDefault("hyperliquid.leaderboardUrl", "https://stats-data.hyperliquid.xyz/Mainnet/leaderboard")
	viper.SetDefault("hyperliquid.explorerUrl", "https://app.hyperliquid.xyz/explorer")
	viper.SetDefault("hyperliquid.fillsLimit", 2000)

	viper.SetDefault("market.midPriceTTL", "5s")

	viper.SetDefault("scheduler.enabled", true)
	viper.SetDefault("scheduler.interval", "30s")
	viper.SetDefault("scheduler.phaseTimeout", "25s")
	viper.SetDefault("scheduler.workers", 4)
	viper.SetDefault("scheduler.updateLimit", 20)
	viper.SetDefault("scheduler.backoffMin", "1s")
	viper.SetDefault("scheduler.backoffMax", "30s")

	viper.SetDefault("analysis.threshold", 70.0)
	viper.SetDefault("analysis.lookback", "30d")
	viper.SetDefault("analysis.recentWindow", "1h")
	viper.SetDefault("analysis.retention", "24h")

	viper.SetDefault("losers.limit", 100)
	viper.SetDefault("losers.minAccountValue", 10000)

	viper.SetDefault("discovery.enabled", true)
	viper.SetDefault("discovery.limit", 50)
	viper.SetDefault("discovery.minAccountValue", 1000)
	viper.SetDefault("discovery.maxMonthRoi", -0.10)

	viper.SetDefault("telegram.enabled", false)
	viper.SetDefault("telegram.token", "")
	viper.SetDefault("telegram.users", []int{})

	viper.SetDefault("redis.enabled", false)
	viper.SetDefault("redis.addr", "127.0.0.1:6379")
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.channel", "fadebot:opportunities")

	viper.SetDefault("cors.AllowedOrigins", []string{"*"})
	viper.SetDefault("cors.AllowedMethods", []string{"GET", "POST", "OPTIONS"})
	viper.SetDefault("cors.AllowedHeaders", []string{"*"})
}

// setFileConfig merges every file under ./configs into viper
func setFileConfig() error {
	absPath, err := filepath.Abs(configPath)
	if err != nil {
		return nil
	}
	exist, _ := fileutil.PathExists(absPath)
	if !exist {
		return nil
	}
	entries, err := os.ReadDir(absPath)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		viper.SetConfigFile(filepath.Join(absPath, entry.Name()))
		if err := viper.MergeInConfig(); err != nil {
			return err
		}
	}
	return nil
}

func setEnvConfig() error {
	viper.AutomaticEnv()
	replacer := strings.NewReplacer(".", "_")
	viper.SetEnvKeyReplacer(replacer)

	envViper := viper.New()
	absPath, err := filepath.Abs(envConfigPath)
	if err != nil {
		return nil
	}
	exist, _ := fileutil.PathExists(absPath)
	if exist {
		envViper.SetConfigFile(absPath)
		envViper.SetConfigType("env")
		if err := envViper.ReadInConfig(); err != nil {
			return err
		}
	}
	// STORAGE_DSN -> storage.dsn
	for _, key := range envViper.AllKeys() {
		viper.Set(strings.Replace(key, "_", ".", 1), envViper.Get(key))
	}
	return nil
}

// WatchConfig reloads the last merged config file on change and calls onChange.
func WatchConfig(onChange func(name string)) {
	viper.OnConfigChange(func(e fsnotify.Event) {
		if e.Op&(fsnotify.Write|fsnotify.Create) == 0 {
			return
		}
		onChange(e.Name)
	})
	viper.WatchConfig()
}

// Duration reads a duration that may use day or week units, e.g. "30d".
// Plain numbers are read as milliseconds.
func Duration(key string) time.Duration {
	raw := strings.TrimSpace(viper.GetString(key))
	if raw == "" {
		return 0
	}
	if d, err := str2duration.ParseDuration(raw); err == nil {
		return d
	}
	return time.Duration(viper.GetInt64(key)) * time.Millisecond
}

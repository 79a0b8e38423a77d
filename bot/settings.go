package bot

import (
	"fadebot/notification"
	"fadebot/utils/config"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"time"
)

type TelegramSettings struct {
	Enabled bool
	notification.TelegramSettings
}

type Settings struct {
	Interval      time.Duration
	PhaseTimeout  time.Duration
	Workers       int
	UpdateLimit   int
	BackoffMin    time.Duration
	BackoffMax    time.Duration
	FillsLimit    int
	MidPriceTTL   time.Duration
	Threshold     float64
	ScoreLookback time.Duration
	RecentWindow  time.Duration
	Retention     time.Duration
	ExplorerURL   string

	Discovery                bool
	DiscoveryLimit           int
	DiscoveryMinAccountValue decimal.Decimal
	DiscoveryMaxMonthRoi     decimal.Decimal

	Telegram TelegramSettings
}

// SettingsFromConfig reads the scheduler, analysis and discovery sections.
func SettingsFromConfig() Settings {
	return Settings{
		Interval:      config.Duration("scheduler.interval"),
		PhaseTimeout:  config.Duration("scheduler.phaseTimeout"),
		Workers:       viper.GetInt("scheduler.workers"),
		UpdateLimit:   viper.GetInt("scheduler.updateLimit"),
		BackoffMin:    config.Duration("scheduler.backoffMin"),
		BackoffMax:    config.Duration("scheduler.backoffMax"),
		FillsLimit:    viper.GetInt("hyperliquid.fillsLimit"),
		MidPriceTTL:   config.Duration("market.midPriceTTL"),
		Threshold:     viper.GetFloat64("analysis.threshold"),
		ScoreLookback: config.Duration("analysis.lookback"),
		RecentWindow:  config.Duration("analysis.recentWindow"),
		Retention:     config.Duration("analysis.retention"),
		ExplorerURL:   viper.GetString("hyperliquid.explorerUrl"),

		Discovery:                viper.GetBool("discovery.enabled"),
		DiscoveryLimit:           viper.GetInt("discovery.limit"),
		DiscoveryMinAccountValue: decimal.NewFromFloat(viper.GetFloat64("discovery.minAccountValue")),
		DiscoveryMaxMonthRoi:     decimal.NewFromFloat(viper.GetFloat64("discovery.maxMonthRoi")),

		Telegram: TelegramSettings{
			Enabled: viper.GetBool("telegram.enabled"),
			TelegramSettings: notification.TelegramSettings{
				Token: viper.GetString("telegram.token"),
				Users: lo.Map(viper.GetIntSlice("telegram.users"), func(id int, _ int) int64 {
					return int64(id)
				}),
			},
		},
	}
}

func (s *Settings) applyDefaults() {
	if s.Interval <= 0 {
		s.Interval = 30 * time.Second
	}
	if s.PhaseTimeout <= 0 {
		s.PhaseTimeout = 25 * time.Second
	}
	if s.UpdateLimit <= 0 {
		s.UpdateLimit = 20
	}
	if s.BackoffMin <= 0 {
		s.BackoffMin = time.Second
	}
	if s.BackoffMax <= 0 {
		s.BackoffMax = 30 * time.Second
	}
	if s.DiscoveryLimit <= 0 {
		s.DiscoveryLimit = 50
	}
}

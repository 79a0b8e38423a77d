package bot

import (
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
	"testing"
	"time"
)

func TestSettingsFromConfig(t *testing.T) {
	viper.Set("telegram.users", []int{5_000_000_001, 42})
	viper.Set("scheduler.phaseTimeout", "25s")
	t.Cleanup(func() {
		viper.Set("telegram.users", []int{})
		viper.Set("scheduler.phaseTimeout", "25s")
	})

	settings := SettingsFromConfig()
	require.Equal(t, []int64{5_000_000_001, 42}, settings.Telegram.Users)
	require.Equal(t, 25*time.Second, settings.PhaseTimeout)
}

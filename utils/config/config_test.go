package config

import (
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
	"testing"
	"time"
)

func TestDuration(t *testing.T) {
	t.Cleanup(viper.Reset)

	viper.Set("test.days", "30d")
	viper.Set("test.hours", "24h")
	viper.Set("test.mixed", "1d12h")
	viper.Set("test.millis", 1500)

	require.Equal(t, 30*24*time.Hour, Duration("test.days"))
	require.Equal(t, 24*time.Hour, Duration("test.hours"))
	require.Equal(t, 36*time.Hour, Duration("test.mixed"))
	require.Equal(t, 1500*time.Millisecond, Duration("test.millis"))
	require.Zero(t, Duration("test.missing"))
}

func TestDefaults(t *testing.T) {
	t.Cleanup(viper.Reset)

	setDefaults()
	require.Equal(t, 70.0, viper.GetFloat64("analysis.threshold"))
	require.Equal(t, 30*time.Second, Duration("scheduler.interval"))
	require.Equal(t, 25*time.Second, Duration("scheduler.phaseTimeout"))
	require.Equal(t, 24*time.Hour, Duration("analysis.retention"))
	require.Equal(t, 10000, viper.GetInt("losers.minAccountValue"))
}

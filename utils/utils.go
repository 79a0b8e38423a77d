package utils

import (
	"fadebot/utils/config"
	"fadebot/utils/log"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

var Log *logrus.Logger

func init() {
	config.LoadConf()
	Log = log.InitLogger()

	if viper.GetBool("config.watch") {
		config.WatchConfig(func(name string) {
			log.ApplyLevel(Log, viper.GetString("log.level"))
			Log.Infof("[Config] reloaded %s", name)
		})
	}
}

package log

import (
	"fadebot/utils/fileutil"
	rotatelogs "github.com/lestrrat/go-file-rotatelogs"
	"github.com/rifflock/lfshook"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"os"
	"path"
	"time"
)

func InitLogger() *logrus.Logger {
	Log := logrus.New()
	Log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	Log.Out = os.Stdout

	if err := ApplyLevel(Log, viper.GetString("log.level")); err != nil {
		Log.Panicf("unknown log level: %v", err)
	}

	if viper.GetBool("log.stdout") {
		dataPath := viper.GetString("log.path")
		if err := fileutil.CreateDir(dataPath); err != nil {
			Log.Panicf("mkdir error : %s", err.Error())
		}
		NewSimpleLogger(Log, dataPath, 30)
	}
	return Log
}

// ApplyLevel sets the logger level from its text form.
func ApplyLevel(log *logrus.Logger, level string) error {
	var lvl logrus.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return err
	}
	log.SetLevel(lvl)
	return nil
}

// NewSimpleLogger adds one rotating file per level under logPath.
func NewSimpleLogger(log *logrus.Logger, logPath string, save uint) {
	lfHook := lfshook.NewHook(lfshook.WriterMap{
		logrus.DebugLevel: writer(logPath, "debug", save),
		logrus.TraceLevel: writer(logPath, "trace", save),
		logrus.InfoLevel:  writer(logPath, "info", save),
		logrus.WarnLevel:  writer(logPath, "warn", save),
		logrus.ErrorLevel: writer(logPath, "error", save),
		logrus.FatalLevel: writer(logPath, "fatal", save),
		logrus.PanicLevel: writer(logPath, "panic", save),
	}, &logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	log.AddHook(lfHook)
}

func writer(logPath string, level string, save uint) *rotatelogs.RotateLogs {
	var fileFlag string
	if flag := viper.GetString("log.flag"); flag != "" {
		fileFlag = flag + "-"
	}
	fileFlag += level
	logFullPath := path.Join(logPath, fileFlag)

	logier, err := rotatelogs.New(
		logFullPath+"-%Y%m%d."+viper.GetString("log.suffix"),
		rotatelogs.WithRotationTime(24*time.Hour),
		rotatelogs.WithMaxAge(-1),
		rotatelogs.WithLinkName(logFullPath+".out"),
		rotatelogs.WithRotationCount(int(save)),
	)
	if err != nil {
		panic(err)
	}
	return logier
}

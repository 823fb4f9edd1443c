package logger

import (
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	lg   *logrus.Logger
	once sync.Once
)

// Logger returns the shared framework logger. The level comes from
// HERALD_LOG_LEVEL (default warning) and the format from HERALD_LOG_FORMAT,
// where "json" switches to the JSON formatter.
func Logger() *logrus.Logger {
	once.Do(func() {
		lg = logrus.New()
		lg.SetOutput(os.Stderr)

		level, err := logrus.ParseLevel(levelFromEnv())
		if err != nil {
			level = logrus.WarnLevel
		}
		lg.SetLevel(level)

		if strings.EqualFold(os.Getenv("HERALD_LOG_FORMAT"), "json") {
			lg.SetFormatter(&logrus.JSONFormatter{})
		} else {
			lg.SetFormatter(&logrus.TextFormatter{
				FullTimestamp:   true,
				TimestampFormat: "2006-01-02 15:04:05.000",
			})
		}
	})

	return lg
}

func levelFromEnv() string {
	level := os.Getenv("HERALD_LOG_LEVEL")
	if level == "" {
		return "warning"
	}

	return level
}

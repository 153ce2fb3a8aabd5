package helpers

import (
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger builds the process-wide logrus logger. Development gets colored
// text at debug level; everything else emits JSON for log shipping.
func NewLogger(appName, env string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)

	if env == "development" {
		logger.SetLevel(logrus.DebugLevel)
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetLevel(logrus.InfoLevel)
		logger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: "2006-01-02T15:04:05.000Z07:00"})
	}
	if lvl, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		logger.SetLevel(lvl)
	}

	logger.WithFields(logrus.Fields{"app": appName, "env": env}).Info("logger ready")
	return logger
}

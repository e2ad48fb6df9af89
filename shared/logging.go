package shared

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// ConfigureLogging applies the configured level and format to the standard logrus logger
func ConfigureLogging(level, format string) {
	parsedLevel, err := logrus.ParseLevel(level)
	if err != nil {
		logrus.Warnf("Invalid LOG_LEVEL value: %s, using info", level)
		parsedLevel = logrus.InfoLevel
	}
	logrus.SetLevel(parsedLevel)
	logrus.SetOutput(os.Stdout)

	switch strings.ToLower(format) {
	case "text":
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}

	logrus.WithFields(logrus.Fields{
		"component": "Logging",
		"level":     parsedLevel.String(),
		"format":    format,
	}).Debug("Logging configured")
}

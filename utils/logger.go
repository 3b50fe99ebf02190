package utils

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

var (
	InfoLogger  *logrus.Logger
	ErrorLogger *logrus.Logger
)

func init() {
	// Loggers must never be nil, even for packages used before main runs.
	InitLogger()
}

// InitLogger (re)creates both loggers. LOG_FORMAT=json switches to the JSON
// formatter, LOG_LEVEL=debug lowers the info logger threshold.
func InitLogger() {
	InfoLogger = newLogger(os.Stdout, logrus.InfoLevel)
	ErrorLogger = newLogger(os.Stderr, logrus.WarnLevel)

	if strings.EqualFold(os.Getenv("LOG_LEVEL"), "debug") {
		InfoLogger.SetLevel(logrus.DebugLevel)
	}
}

// SilenceLoggers discards all output; used by tests.
func SilenceLoggers() {
	InfoLogger.SetOutput(io.Discard)
	ErrorLogger.SetOutput(io.Discard)
}

func newLogger(out io.Writer, level logrus.Level) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetLevel(level)

	if strings.EqualFold(os.Getenv("LOG_FORMAT"), "json") {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}
	return l
}

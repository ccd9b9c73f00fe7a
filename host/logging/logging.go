// Package logging configures the logrus logger shared by the host tools.
package logging

import (
	"flag"
	"io"

	prefixed "github.com/BertoldVdb/logrus-prefixed-formatter"
	"github.com/sirupsen/logrus"
)

var loglevel *int

// InitParam registers the -loglevel flag on fs
func InitParam(fs *flag.FlagSet) {
	loglevel = fs.Int("loglevel", int(logrus.InfoLevel), "The loglevel to use. Valid values are from 0 to 6. Higher values output more information")
}

// GetLogger returns a logger at the -loglevel level, or level if the flag was not registered
func GetLogger(level logrus.Level) *logrus.Entry {
	logrus.ErrorKey = "$error"
	logger := logrus.New()
	if loglevel == nil {
		logger.SetLevel(level)
	} else {
		logger.SetLevel(clampLevel(*loglevel))
	}
	customFormatter := new(prefixed.TextFormatter)
	customFormatter.TimestampFormat = "2006-01-02 15:04:05"
	customFormatter.FullTimestamp = true
	customFormatter.SpacePadding = 40
	logger.SetFormatter(customFormatter)
	return logrus.NewEntry(logger)
}

// clampLevel maps out of range flag values onto the nearest logrus level
func clampLevel(v int) logrus.Level {
	switch {
	case v < int(logrus.PanicLevel):
		return logrus.PanicLevel
	case v > int(logrus.TraceLevel):
		return logrus.TraceLevel
	}
	return logrus.Level(v)
}

// DebugWriter adapts an entry to the firmware-style func(string) debug hook
func DebugWriter(log *logrus.Entry) func(string) {
	return func(s string) {
		log.Debug(s)
	}
}

// Discard returns a logger that drops everything, for tests
func Discard() *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logrus.NewEntry(logger)
}

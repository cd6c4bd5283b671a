package logging

import (
	"github.com/sirupsen/logrus"
)

// Fields is re-exported so callers don't import logrus for field maps.
type Fields = logrus.Fields

// New returns a logger at the given level; unknown levels fall back to info.
func New(level string) *logrus.Logger {
	logger := logrus.New()
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)
	return logger
}

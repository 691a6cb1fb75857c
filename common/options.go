package common

import (
	"io"

	"github.com/sirupsen/logrus"
)

// LogOption configures the logger of a library component. Without any option the
// component logs nothing.
type LogOption struct {
	LogLevel logrus.Level
	Logger   *logrus.Logger // takes precedence over other fields
	Output   io.Writer      // stderr if nil
}

func NewLogger(opt ...LogOption) *logrus.Logger {
	logger := logrus.New()
	if len(opt) == 0 {
		logger.Out = io.Discard
		return logger
	}
	if opt[0].Logger != nil {
		return opt[0].Logger
	}
	if opt[0].Output != nil {
		logger.Out = opt[0].Output
	}
	logger.SetLevel(opt[0].LogLevel)
	return logger
}

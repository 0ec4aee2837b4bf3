package cli

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/moffa90/go-ihex/bootloader"
)

// logrusLogger adapts logrus to bootloader.Logger.
type logrusLogger struct {
	log logrus.FieldLogger
}

var _ bootloader.Logger = (*logrusLogger)(nil)

// newLogger creates a logger writing text records to w at level.
func newLogger(w io.Writer, level logrus.Level) *logrusLogger {
	log := logrus.New()
	log.SetOutput(w)
	log.SetLevel(level)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	return &logrusLogger{log: log}
}

func (l *logrusLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.with(keysAndValues).Debug(msg)
}

func (l *logrusLogger) Info(msg string, keysAndValues ...interface{}) {
	l.with(keysAndValues).Info(msg)
}

func (l *logrusLogger) Error(msg string, keysAndValues ...interface{}) {
	l.with(keysAndValues).Error(msg)
}

// with turns alternating keys and values into logrus fields.
func (l *logrusLogger) with(keysAndValues []interface{}) logrus.FieldLogger {
	if len(keysAndValues) == 0 {
		return l.log
	}

	fields := make(logrus.Fields, len(keysAndValues)/2+1)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fields[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}
	if len(keysAndValues)%2 == 1 {
		fields["extra"] = keysAndValues[len(keysAndValues)-1]
	}
	return l.log.WithFields(fields)
}

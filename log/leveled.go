package log

import (
	"github.com/sirupsen/logrus"
)

// LeveledLogger adapts the global logger to the key/value logging interface
// used by HTTP client libraries (Error/Info/Debug/Warn with alternating keys and values).
type LeveledLogger struct {
	entry *logrus.Entry
}

// NewLeveledLogger returns a LeveledLogger tagged with a component name.
func NewLeveledLogger(component string) *LeveledLogger {
	return &LeveledLogger{entry: Logger.WithField("component", component)}
}

func (l *LeveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.with(keysAndValues).Error(msg)
}

func (l *LeveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.with(keysAndValues).Info(msg)
}

func (l *LeveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.with(keysAndValues).Debug(msg)
}

func (l *LeveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.with(keysAndValues).Warn(msg)
}

func (l *LeveledLogger) with(keysAndValues []interface{}) *logrus.Entry {
	fields := logrus.Fields{}
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		fields[key] = keysAndValues[i+1]
	}
	return l.entry.WithFields(fields)
}

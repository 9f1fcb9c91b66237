package logger

import (
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

var once sync.Once
var logger *logrus.Logger

// GetLogger returns the process-wide logger. The level starts at Warn and is
// raised or lowered once configuration has been loaded.
func GetLogger() *logrus.Logger {
	once.Do(func() {
		logger = logrus.New()

		logger.Out = os.Stdout
		logger.SetLevel(logrus.WarnLevel)

		logger.SetFormatter(&logrus.TextFormatter{
			DisableColors: false,
			FullTimestamp: true,
			PadLevelText:  true,
		})
	})

	return logger
}

func SetLogLevel(level logrus.Level) {
	GetLogger().SetLevel(level)
}

// LeveledLogrus adapts logrus to the key/value logging used by
// retryablehttp. Every entry carries the component that produced it.
type LeveledLogrus struct {
	entry *logrus.Entry
}

func NewLeveledLogrus(logger logrus.FieldLogger, component string) *LeveledLogrus {
	return &LeveledLogrus{entry: logger.WithField("component", component)}
}

// log drops a trailing key without a value and any non-string key.
func (l *LeveledLogrus) log(level logrus.Level, msg string, keysAndValues []any) {
	fields := make(logrus.Fields, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		if key, ok := keysAndValues[i].(string); ok {
			fields[key] = keysAndValues[i+1]
		}
	}
	l.entry.WithFields(fields).Log(level, msg)
}

func (l *LeveledLogrus) Error(msg string, keysAndValues ...any) {
	l.log(logrus.ErrorLevel, msg, keysAndValues)
}

func (l *LeveledLogrus) Warn(msg string, keysAndValues ...any) {
	l.log(logrus.WarnLevel, msg, keysAndValues)
}

func (l *LeveledLogrus) Info(msg string, keysAndValues ...any) {
	l.log(logrus.InfoLevel, msg, keysAndValues)
}

func (l *LeveledLogrus) Debug(msg string, keysAndValues ...any) {
	l.log(logrus.DebugLevel, msg, keysAndValues)
}

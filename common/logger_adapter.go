package common

import (
	"fmt"

	"wiz-academy/pkg/log"
)

// Logger is the key/value logger used by packages that must not depend on zap fields,
// e.g. the cache factory and the response helpers.
type Logger interface {
	Info(msg string, fields ...interface{})
	Error(msg string, fields ...interface{})
	Debug(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Debugf(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Printf(format string, args ...interface{})
	Println(args ...interface{})
}

// LoggerAdapter adapts pkg/log.Logger to common.Logger interface
type LoggerAdapter struct {
	logger log.Logger
}

func NewLoggerAdapter(logger log.Logger) Logger {
	return &LoggerAdapter{logger: logger}
}

// toFields pairs up alternating keys and values. A trailing key without a value is
// kept under "!BADKEY" so nothing is silently dropped.
func toFields(kv []interface{}) []log.Field {
	fields := make([]log.Field, 0, (len(kv)+1)/2)
	for i := 0; i < len(kv); i += 2 {
		if i+1 >= len(kv) {
			fields = append(fields, log.Any("!BADKEY", kv[i]))
			break
		}
		fields = append(fields, log.Any(fmt.Sprintf("%v", kv[i]), kv[i+1]))
	}
	return fields
}

func (a *LoggerAdapter) Error(msg string, fields ...interface{}) {
	a.logger.Error(msg, toFields(fields)...)
}

func (a *LoggerAdapter) Info(msg string, fields ...interface{}) {
	a.logger.Info(msg, toFields(fields)...)
}

func (a *LoggerAdapter) Debug(msg string, fields ...interface{}) {
	a.logger.Debug(msg, toFields(fields)...)
}

func (a *LoggerAdapter) Warn(msg string, fields ...interface{}) {
	a.logger.Warn(msg, toFields(fields)...)
}

func (a *LoggerAdapter) Printf(format string, args ...interface{}) {
	a.logger.Printf(format, args...)
}

func (a *LoggerAdapter) Println(args ...interface{}) {
	a.logger.Println(args...)
}

func (a *LoggerAdapter) Infof(format string, args ...interface{}) {
	a.logger.Infof(format, args...)
}

func (a *LoggerAdapter) Errorf(format string, args ...interface{}) {
	a.logger.Errorf(format, args...)
}

func (a *LoggerAdapter) Debugf(format string, args ...interface{}) {
	a.logger.Debugf(format, args...)
}

func (a *LoggerAdapter) Warnf(format string, args ...interface{}) {
	a.logger.Warnf(format, args...)
}

package logging

import (
	"go.uber.org/zap/zapcore"
)

// TraceLevel sits one step below Debug. Project loads log the raw byte
// count of the file at this level; set log.level to "trace" to see it.
const TraceLevel = zapcore.Level(-2)

// LevelFromString maps a log.level setting to a zap level. Besides zap's
// own names it accepts "trace". Unknown names yield Info and an error.
func LevelFromString(level string) (zapcore.Level, error) {
	if level == "trace" {
		return TraceLevel, nil
	}
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return zapcore.InfoLevel, err
	}
	return l, nil
}

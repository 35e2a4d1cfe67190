package common

import "fmt"

// Level orders log output.
type Level int

const (
	LevelDebug Level = iota
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "DEBUG"
	}
}

// EnableDebug gates Debug, Debugf and DebugWarn. Errors always print.
var EnableDebug = true

// Debug logs args at debug level.
func Debug(args ...interface{}) {
	if EnableDebug {
		emit(LevelDebug, args)
	}
}

func Debugf(format string, args ...interface{}) {
	if EnableDebug {
		emit(LevelDebug, []interface{}{fmt.Sprintf(format, args...)})
	}
}

// DebugWarn logs a recoverable problem, such as an unknown chord name.
func DebugWarn(args ...interface{}) {
	if EnableDebug {
		emit(LevelWarn, args)
	}
}

// DebugError logs a failure the caller has already recovered from.
func DebugError(args ...interface{}) {
	emit(LevelError, args)
}

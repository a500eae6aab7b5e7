package logging

import (
	"io"
	"log"
	"os"
	"strings"
)

// LogLevel orders log output from most to least verbose.
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// ParseLevel maps a level name to a LogLevel. Unknown names fall back to info.
func ParseLevel(s string) LogLevel {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

var (
	Level     = LevelInfo
	DebugLogs bool

	logger = log.New(os.Stderr, "", log.LstdFlags)
)

// SetLevel sets the minimum level that is written.
func SetLevel(l LogLevel) {
	Level = l
	DebugLogs = l == LevelDebug
}

// SetOutput redirects log output, mainly for tests.
func SetOutput(w io.Writer) {
	logger.SetOutput(w)
}

func logf(l LogLevel, format string, args ...any) {
	if l < Level {
		return
	}
	logger.Printf("["+strings.ToUpper(l.String())+"] "+format, args...)
}

func Debugf(format string, args ...any) {
	if DebugLogs {
		logf(LevelDebug, format, args...)
	}
}

func Infof(format string, args ...any) {
	logf(LevelInfo, format, args...)
}

func Warnf(format string, args ...any) {
	logf(LevelWarn, format, args...)
}

func Errorf(format string, args ...any) {
	logf(LevelError, format, args...)
}

package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Leveled logger shared by the server, middleware and CLI.
// - zerolog underneath (console output by default, JSON via SetOutput)
// - provides Debug/Info/Warn/Error/Fatal variants and Init(level)

var (
	mu     sync.RWMutex
	logger = newLogger(os.Stdout, true)
	level  = zerolog.InfoLevel
)

func newLogger(w io.Writer, pretty bool) zerolog.Logger {
	if pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).With().Timestamp().Logger()
}

// Init sets the global log level (case-insensitive: debug, info, warn, error, fatal).
// Call early during startup. Default level is Info.
func Init(l string) {
	mu.Lock()
	defer mu.Unlock()
	switch strings.ToLower(strings.TrimSpace(l)) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn", "warning":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	case "fatal":
		level = zerolog.FatalLevel
	default:
		level = zerolog.InfoLevel
	}
}

// SetOutput redirects log output. pretty selects the human-readable console
// format; otherwise one JSON object per line is written.
func SetOutput(w io.Writer, pretty bool) {
	mu.Lock()
	defer mu.Unlock()
	logger = newLogger(w, pretty)
}

// L returns the underlying zerolog logger for structured events.
// Events below the configured level are discarded.
func L() *zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	l := logger.Level(level)
	return &l
}

func shouldLog(l zerolog.Level) bool {
	mu.RLock()
	defer mu.RUnlock()
	return l >= level
}

func emit(l zerolog.Level, msg string) {
	mu.RLock()
	lg := logger
	mu.RUnlock()
	lg.WithLevel(l).Msg(msg)
}

func Debugf(format string, v ...interface{}) {
	if !shouldLog(zerolog.DebugLevel) {
		return
	}
	emit(zerolog.DebugLevel, fmt.Sprintf(format, v...))
}

func Infof(format string, v ...interface{}) {
	if !shouldLog(zerolog.InfoLevel) {
		return
	}
	emit(zerolog.InfoLevel, fmt.Sprintf(format, v...))
}

func Warnf(format string, v ...interface{}) {
	if !shouldLog(zerolog.WarnLevel) {
		return
	}
	emit(zerolog.WarnLevel, fmt.Sprintf(format, v...))
}

func Errorf(format string, v ...interface{}) {
	if !shouldLog(zerolog.ErrorLevel) {
		return
	}
	emit(zerolog.ErrorLevel, fmt.Sprintf(format, v...))
}

func Fatalf(format string, v ...interface{}) {
	emit(zerolog.FatalLevel, fmt.Sprintf(format, v...))
	os.Exit(1)
}

// Println kept for brief messages (maps to Info)
func Println(v ...interface{}) {
	if !shouldLog(zerolog.InfoLevel) {
		return
	}
	emit(zerolog.InfoLevel, strings.TrimSuffix(fmt.Sprintln(v...), "\n"))
}

// Debug/Info/Warn/Error helpers that accept a single string
func Debug(v string) { Debugf("%s", v) }
func Info(v string)  { Infof("%s", v) }
func Warn(v string)  { Warnf("%s", v) }
func Error(v string) { Errorf("%s", v) }

// LevelString returns the current level as text.
func LevelString() string {
	mu.RLock()
	defer mu.RUnlock()
	switch level {
	case zerolog.DebugLevel:
		return "debug"
	case zerolog.InfoLevel:
		return "info"
	case zerolog.WarnLevel:
		return "warn"
	case zerolog.ErrorLevel:
		return "error"
	case zerolog.FatalLevel:
		return "fatal"
	}
	return "info"
}

// Package logger provides the leveled logger shared by the treefs
// daemon and its supporting components. The tree packages themselves
// stay log-free; logging happens in the layers that drive them.
package logger

import (
	"fmt"
	"io"
	stdlog "log"
	"os"
	"strings"
	"sync"
	"time"
)

// Level orders log severities from most to least verbose.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var (
	mu           sync.Mutex
	currentLevel = LevelInfo
	logger       = stdlog.New(os.Stdout, "", 0)
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// SetLevel sets the minimum severity that gets emitted. Unknown names
// are ignored, leaving the level unchanged.
func SetLevel(level string) {
	mu.Lock()
	defer mu.Unlock()
	switch strings.ToUpper(level) {
	case "DEBUG":
		currentLevel = LevelDebug
	case "INFO":
		currentLevel = LevelInfo
	case "WARN":
		currentLevel = LevelWarn
	case "ERROR":
		currentLevel = LevelError
	}
}

// SetOutput redirects log output, primarily for tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	logger = stdlog.New(w, "", 0)
}

func emit(level Level, format string, v ...any) {
	mu.Lock()
	defer mu.Unlock()
	if level < currentLevel {
		return
	}

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	prefix := fmt.Sprintf("[%s] [%s] ", timestamp, level.String())
	logger.Println(prefix + fmt.Sprintf(format, v...))
}

// Debug logs at DEBUG level with Printf-style formatting.
func Debug(format string, v ...any) {
	emit(LevelDebug, format, v...)
}

// Info logs at INFO level with Printf-style formatting.
func Info(format string, v ...any) {
	emit(LevelInfo, format, v...)
}

// Warn logs at WARN level with Printf-style formatting.
func Warn(format string, v ...any) {
	emit(LevelWarn, format, v...)
}

// Error logs at ERROR level with Printf-style formatting.
func Error(format string, v ...any) {
	emit(LevelError, format, v...)
}

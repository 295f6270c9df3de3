// Package logger provides the leveled console logger used by all commands.
// Output is timestamped and thread-safe; color is enabled automatically when
// writing to a terminal.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

const (
	levelDebug int = iota
	levelInfo
	levelWarn
	levelError
)

// ConsoleLogger writes leveled, timestamped messages to a writer.
type ConsoleLogger struct {
	writer   io.Writer
	level    int
	mutex    sync.Mutex
	useColor bool
}

// New creates a ConsoleLogger writing to w. Valid levels: debug, info, warn,
// error (case-insensitive); empty or unknown levels default to info. Color
// is enabled only when w is a TTY.
func New(w io.Writer, level string) *ConsoleLogger {
	return &ConsoleLogger{
		writer:   w,
		level:    parseLevel(level),
		useColor: isTerminal(w),
	}
}

func parseLevel(level string) int {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return levelDebug
	case "warn":
		return levelWarn
	case "error":
		return levelError
	default:
		return levelInfo
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Debugf logs at debug level.
func (l *ConsoleLogger) Debugf(format string, args ...interface{}) {
	l.logf(levelDebug, "DEBUG", nil, format, args...)
}

// Infof logs at info level.
func (l *ConsoleLogger) Infof(format string, args ...interface{}) {
	l.logf(levelInfo, "INFO", nil, format, args...)
}

// Warnf logs at warn level in yellow.
func (l *ConsoleLogger) Warnf(format string, args ...interface{}) {
	l.logf(levelWarn, "WARNING", color.New(color.FgYellow), format, args...)
}

// Errorf logs at error level in red.
func (l *ConsoleLogger) Errorf(format string, args ...interface{}) {
	l.logf(levelError, "ERROR", color.New(color.FgRed), format, args...)
}

// Successf logs at info level in green, used for completion messages.
func (l *ConsoleLogger) Successf(format string, args ...interface{}) {
	l.logf(levelInfo, "INFO", color.New(color.FgGreen), format, args...)
}

func (l *ConsoleLogger) logf(level int, tag string, c *color.Color, format string, args ...interface{}) {
	if l.writer == nil || level < l.level {
		return
	}

	l.mutex.Lock()
	defer l.mutex.Unlock()

	timestamp := time.Now().Format("15:04:05")
	message := fmt.Sprintf(format, args...)
	line := fmt.Sprintf("[%s] %s: %s\n", timestamp, tag, message)
	if l.useColor && c != nil {
		c.Fprint(l.writer, line)
		return
	}
	fmt.Fprint(l.writer, line)
}

package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// log levels in ascending severity
const (
	levelDebug = iota
	levelInfo
	levelWarn
	levelError
)

// stderrLogger is a leveled logger writing to stderr. Stdout is reserved for
// the MCP stdio transport, so nothing else may write there.
type stderrLogger struct {
	out   io.Writer
	level int
}

func newLogger(level string) *stderrLogger {
	return &stderrLogger{out: os.Stderr, level: parseLevel(level)}
}

func parseLevel(level string) int {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return levelDebug
	case "WARN", "WARNING":
		return levelWarn
	case "ERROR":
		return levelError
	default:
		return levelInfo
	}
}

func (l *stderrLogger) log(level int, name, msg string, keysAndValues ...interface{}) {
	if level < l.level {
		return
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s %s", time.Now().Format(time.RFC3339), name, msg)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fmt.Fprintf(&sb, " %v=%v", keysAndValues[i], keysAndValues[i+1])
	}
	fmt.Fprintln(l.out, sb.String())
}

func (l *stderrLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.log(levelDebug, "DEBUG", msg, keysAndValues...)
}

func (l *stderrLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log(levelInfo, "INFO", msg, keysAndValues...)
}

func (l *stderrLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.log(levelWarn, "WARN", msg, keysAndValues...)
}

func (l *stderrLogger) Error(msg string, keysAndValues ...interface{}) {
	l.log(levelError, "ERROR", msg, keysAndValues...)
}

// Package applog builds the application logger.
package applog

import (
	"fmt"
	"io"
	"os"
	"path"
	"runtime"
	"strings"

	"github.com/sirupsen/logrus"
)

// DefaultLevel is used when the configured level is empty or unknown.
const DefaultLevel = logrus.InfoLevel

// New creates a logger writing to stderr at the given level name
// ("debug", "info", "warn", ...). Unknown names fall back to DefaultLevel.
func New(level string) *logrus.Logger {
	return NewWithOutput(os.Stderr, level)
}

// NewWithOutput creates a logger writing to out.
func NewWithOutput(out io.Writer, level string) *logrus.Logger {
	return &logrus.Logger{
		Out: out,
		Formatter: &CallerTextFormatter{
			TextFormatter: logrus.TextFormatter{
				FullTimestamp:   true,
				TimestampFormat: "15:04:05.000",
				CallerPrettyfier: func(*runtime.Frame) (string, string) {
					return "", ""
				},
			},
		},
		Hooks:        make(logrus.LevelHooks),
		Level:        ParseLevel(level),
		ReportCaller: true,
	}
}

// ParseLevel converts a level name to a logrus level, falling back to
// DefaultLevel.
func ParseLevel(level string) logrus.Level {
	lvl, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return DefaultLevel
	}
	return lvl
}

// Discard returns a logger that drops everything. Used by tests and as the
// zone manager default.
func Discard() *logrus.Logger {
	l := logrus.New()
	l.Out = io.Discard
	l.Level = logrus.PanicLevel
	return l
}

// CallerTextFormatter prefixes each message with the file and line that
// emitted it instead of logrus' func= and file= fields.
type CallerTextFormatter struct {
	logrus.TextFormatter
}

// Format renders a single log entry.
func (f *CallerTextFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	if entry.HasCaller() {
		entry.Message = fmt.Sprintf("[%-12s:%03d] %s", path.Base(entry.Caller.File), entry.Caller.Line, entry.Message)
	}
	return f.TextFormatter.Format(entry)
}

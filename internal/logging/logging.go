// Package logging holds the process-wide zerolog logger used by riffctl and
// the file helpers. It discards everything until Init is called.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// L is the global logger instance. It's initialized to discard all output by default.
var L = zerolog.Nop()

const (
	logPrefix     = "riffctl-"
	logSuffix     = ".log"
	retentionDays = 30
)

// Options configures the logger initialization.
type Options struct {
	Enabled bool          // If false, all logging is discarded
	App     string        // Value of the "app" field. Default: riffctl
	Level   zerolog.Level // Minimum level. The zero value is debug; see ParseLevel
	Out     io.Writer     // Console destination. Default: os.Stderr
	JSON    bool          // Write JSON lines instead of the console format
	LogDir  string        // When set, log JSON lines to a dated file in this directory instead
}

// Init configures logging and returns the new logger. Call from main()
// before any log calls.
func Init(opts Options) (zerolog.Logger, error) {
	if !opts.Enabled {
		L = zerolog.Nop()
		return L, nil
	}
	app := opts.App
	if app == "" {
		app = "riffctl"
	}

	var out io.Writer
	switch {
	case opts.LogDir != "":
		f, err := openLogFile(opts.LogDir)
		if err != nil {
			return zerolog.Nop(), err
		}
		out = f
	case opts.JSON:
		out = orStderr(opts.Out)
	default:
		out = zerolog.ConsoleWriter{Out: orStderr(opts.Out), TimeFormat: time.RFC3339}
	}

	L = zerolog.New(out).Level(opts.Level).With().Timestamp().Str("app", app).Logger()
	log.Logger = L
	return L, nil
}

// ParseLevel maps a config or flag value to a level; empty means info.
func ParseLevel(s string) (zerolog.Level, error) {
	if s == "" {
		return zerolog.InfoLevel, nil
	}
	return zerolog.ParseLevel(strings.ToLower(s))
}

func orStderr(w io.Writer) io.Writer {
	if w == nil {
		return os.Stderr
	}
	return w
}

func openLogFile(logDir string) (*os.File, error) {
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, err
	}

	// Clean up old logs (best-effort, ignore errors)
	cleanOldLogs(logDir, time.Now())

	filename := filepath.Join(logDir, logPrefix+time.Now().Format("2006-01-02")+logSuffix)
	return os.OpenFile(filename, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
}

// cleanOldLogs removes log files older than retentionDays.
func cleanOldLogs(logDir string, now time.Time) {
	cutoff := now.AddDate(0, 0, -retentionDays)

	entries, err := os.ReadDir(logDir)
	if err != nil {
		return
	}

	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, logPrefix) || !strings.HasSuffix(name, logSuffix) {
			continue
		}

		// Parse date from filename: riffctl-2024-01-05.log
		dateStr := strings.TrimPrefix(strings.TrimSuffix(name, logSuffix), logPrefix)
		logDate, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			continue
		}

		if logDate.Before(cutoff) {
			os.Remove(filepath.Join(logDir, name))
		}
	}
}

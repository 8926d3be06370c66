package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// Options configures the default logger.
type Options struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

var logFile *os.File

/*
Configure sets up the default charmbracelet logger. Format is "text" or
"json". Output goes to File when set, otherwise to stderr, so stdout stays
free for MCP over stdio and for command output.
*/
func Configure(opts Options) error {
	var out io.Writer = os.Stderr

	if opts.File != "" {
		file, err := os.OpenFile(opts.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)

		if err != nil {
			return fmt.Errorf("failed to open log file %s: %w", opts.File, err)
		}

		Close()
		logFile = file
		out = file
	}

	logger, err := New(out, opts.Level, opts.Format)

	if err != nil {
		return err
	}

	log.SetDefault(logger)

	return nil
}

// New builds a logger writing to out at level in format.
func New(out io.Writer, level, format string) (*log.Logger, error) {
	lvl := log.InfoLevel

	if level != "" {
		parsed, err := log.ParseLevel(strings.ToLower(level))

		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}

		lvl = parsed
	}

	logger := log.NewWithOptions(out, log.Options{
		Level:           lvl,
		ReportTimestamp: true,
		ReportCaller:    lvl == log.DebugLevel,
		TimeFormat:      time.DateTime,
	})

	switch strings.ToLower(format) {
	case "", "text":
		logger.SetFormatter(log.TextFormatter)
	case "json":
		logger.SetFormatter(log.JSONFormatter)
	case "logfmt":
		logger.SetFormatter(log.LogfmtFormatter)
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}

	return logger, nil
}

// Close closes the log file opened by Configure, if any.
func Close() {
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
}

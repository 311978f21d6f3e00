// Package logutil builds the logrus logger used by the CLI and the preview
// server.
package logutil

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// ErrInvalidFormat indicates an unknown log output format.
var ErrInvalidFormat = errors.New("invalid log format")

// Rotation defaults for file output.
const (
	DefaultMaxSizeMB  = 10
	DefaultMaxBackups = 3
	DefaultMaxAgeDays = 28
)

// Options describes a logger.
type Options struct {
	Level      string    // logrus level name, "info" when empty
	Format     string    // "text" or "json", "text" when empty
	File       string    // rotated log file, Output when empty
	MaxSizeMB  int       // rotation size, DefaultMaxSizeMB when zero
	MaxBackups int       // rotated files kept, DefaultMaxBackups when zero
	MaxAgeDays int       // rotated file age limit, DefaultMaxAgeDays when zero
	Output     io.Writer // os.Stderr when nil
}

// New builds a logger from opts. The returned closer releases the log file
// and is safe to call when logging goes to Output.
func New(opts Options) (*logrus.Logger, io.Closer, error) {
	logger := logrus.New()

	level := logrus.InfoLevel
	if opts.Level != "" {
		parsed, err := logrus.ParseLevel(opts.Level)
		if err != nil {
			return nil, nil, err
		}
		level = parsed
	}
	logger.SetLevel(level)

	switch opts.Format {
	case "", "text":
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, nil, fmt.Errorf("%w: %q (use text or json)", ErrInvalidFormat, opts.Format)
	}

	if opts.File == "" {
		out := opts.Output
		if out == nil {
			out = os.Stderr
		}
		logger.SetOutput(out)
		return logger, nopCloser{}, nil
	}

	file := &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    orDefault(opts.MaxSizeMB, DefaultMaxSizeMB),
		MaxBackups: orDefault(opts.MaxBackups, DefaultMaxBackups),
		MaxAge:     orDefault(opts.MaxAgeDays, DefaultMaxAgeDays),
	}
	logger.SetOutput(file)
	return logger, file, nil
}

// Discard returns a logger that drops every entry.
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

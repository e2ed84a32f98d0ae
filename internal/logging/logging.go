// Package logging configures the global zerolog logger.
// Console output always goes to stderr so that the stdio tool server keeps stdout clean.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config holds logging configuration.
type Config struct {
	// Verbosity is the -v count: 0=warn, 1=info, 2=debug, 3+=trace.
	Verbosity int

	// Level overrides Verbosity when set ("debug", "info", "warn", "error").
	Level string

	// FilePath is the rotating JSON log file. Empty disables file logging.
	FilePath string

	// MaxSizeMB is the max size in MB before rotation (default: 5).
	MaxSizeMB int

	// MaxBackups is rotated files to keep (default: 3).
	MaxBackups int

	// Console is the human-readable writer (default: os.Stderr).
	Console io.Writer
}

// Setup configures the global logger and returns a closer for the log file.
func Setup(cfg Config) func() error {
	zerolog.SetGlobalLevel(levelFor(cfg))

	if cfg.MaxSizeMB <= 0 {
		cfg.MaxSizeMB = 5
	}
	if cfg.MaxBackups <= 0 {
		cfg.MaxBackups = 3
	}
	console := cfg.Console
	if console == nil {
		console = os.Stderr
	}

	writers := []io.Writer{zerolog.ConsoleWriter{Out: console, TimeFormat: time.Kitchen}}

	var rotator *lumberjack.Logger
	var dirErr error
	if cfg.FilePath != "" {
		if dirErr = os.MkdirAll(filepath.Dir(cfg.FilePath), 0700); dirErr == nil {
			rotator = &lumberjack.Logger{
				Filename:   cfg.FilePath,
				MaxSize:    cfg.MaxSizeMB,
				MaxBackups: cfg.MaxBackups,
				Compress:   true,
			}
			writers = append(writers, rotator)
		}
	}

	log.Logger = zerolog.New(io.MultiWriter(writers...)).With().Timestamp().Logger()
	if cfg.Verbosity >= 2 {
		log.Logger = log.Logger.With().Caller().Logger()
	}

	if dirErr != nil {
		log.Warn().Err(dirErr).Str("path", cfg.FilePath).Msg("Failed to create log directory, logging to console only")
	}
	log.Debug().Int("verbosity", cfg.Verbosity).Str("logFile", cfg.FilePath).Msg("Logger initialized")

	return func() error {
		if rotator == nil {
			return nil
		}
		return rotator.Close()
	}
}

// Component returns a logger tagged with the given component name.
func Component(name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}

func levelFor(cfg Config) zerolog.Level {
	if cfg.Level != "" {
		if lvl, err := zerolog.ParseLevel(cfg.Level); err == nil && lvl != zerolog.NoLevel {
			// -v still raises verbosity above the configured level.
			if v := verbosityLevel(cfg.Verbosity); cfg.Verbosity > 0 && v < lvl {
				return v
			}
			return lvl
		}
	}
	return verbosityLevel(cfg.Verbosity)
}

func verbosityLevel(v int) zerolog.Level {
	switch v {
	case 0:
		return zerolog.WarnLevel
	case 1:
		return zerolog.InfoLevel
	case 2:
		return zerolog.DebugLevel
	default:
		return zerolog.TraceLevel
	}
}

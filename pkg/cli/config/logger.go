package config

import (
	"log/slog"
	"os"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/argus/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// Logger holds logger configuration
type Logger struct {
	level  string
	format string
}

// NewLogger creates a Logger config without going through CLI flags
func NewLogger(level, format string) *Logger {
	return &Logger{level: level, format: format}
}

// Flags returns CLI flags for Logger configuration
func (l *Logger) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "Log level (debug, info, warn, error)",
			Category:    "Logging",
			Value:       "info",
			Sources:     cli.EnvVars("ARGUS_LOG_LEVEL"),
			Destination: &l.level,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "Log format (console, json, auto)",
			Category:    "Logging",
			Value:       "auto",
			Sources:     cli.EnvVars("ARGUS_LOG_FORMAT"),
			Destination: &l.format,
		},
	}
}

// Validate checks level and format
func (l *Logger) Validate() error {
	switch strings.ToLower(l.level) {
	case "debug", "info", "warn", "error", "":
	default:
		return goerr.Wrap(ErrInvalidConfig, "invalid log level", goerr.V(LevelKey, l.level))
	}

	if _, err := l.parseFormat(); err != nil {
		return err
	}
	return nil
}

func (l *Logger) parseFormat() (logging.Format, error) {
	switch strings.ToLower(l.format) {
	case "console":
		return logging.FormatConsole, nil
	case "json":
		return logging.FormatJSON, nil
	case "auto", "":
		return logging.FormatAuto, nil
	default:
		return logging.FormatAuto, goerr.Wrap(ErrInvalidConfig, "invalid log format", goerr.V(FormatKey, l.format))
	}
}

// Configure builds the logger, installs it as the process default and
// returns a closer that restores the previous default.
func (l *Logger) Configure() (func(), error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}
	format, err := l.parseFormat()
	if err != nil {
		return nil, err
	}

	prev := logging.Default()
	logging.SetDefault(logging.NewLoggerWithFormat(logging.ParseLogLevel(strings.ToLower(l.level)), os.Stdout, format))

	return func() {
		logging.SetDefault(prev)
	}, nil
}

// LogValue returns structured log value
func (l Logger) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("level", l.level),
		slog.String("format", l.format),
	)
}

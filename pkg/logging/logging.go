package logging

import (
	"io"
	"log/slog"
	"os"
)

// Name is the name of the application that the logger belongs to.
type Name string

// Config is the configuration for a logger.
type Config struct {
	// name is the application name appended to every record.
	name Name

	// w is the destination for log output.
	w io.Writer

	// level is the minimum level to log.
	level slog.Leveler
}

// NewConfig creates a logger configuration with the default output and level.
func NewConfig(name Name) *Config {
	return &Config{
		name:  name,
		w:     os.Stdout,
		level: slog.LevelDebug,
	}
}

// CommonLogger creates the logger used across the application. The returned
// logger is also installed as the slog default.
func CommonLogger(c *Config) (*slog.Logger, error) {
	h := slog.NewJSONHandler(c.w, &slog.HandlerOptions{
		Level: c.level,
	})

	l := slog.New(h).With(slog.String(KeyAppName, string(c.name)))
	slog.SetDefault(l)
	return l, nil
}

// Package logging builds the charmbracelet loggers handed to the modulators.
package logging

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// ErrInvalidLevel is returned for a level name log cannot parse.
var ErrInvalidLevel = errors.New("invalid log level")

// DefaultLevel is used when Config.Level is empty.
const DefaultLevel = "info"

// Config selects verbosity and decoration.
type Config struct {
	Level      string `yaml:"level"`
	Timestamps bool   `yaml:"timestamps"`
	Prefix     string `yaml:"prefix"`
}

// Validate checks that the level name parses.
func (c *Config) Validate() error {
	_, err := c.level()
	return err
}

func (c *Config) level() (log.Level, error) {
	name := c.Level
	if name == "" {
		name = DefaultLevel
	}
	lvl, err := log.ParseLevel(name)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidLevel, c.Level)
	}
	return lvl, nil
}

// New returns a logger writing to w.
func New(cfg Config, w io.Writer) (*log.Logger, error) {
	lvl, err := cfg.level()
	if err != nil {
		return nil, err
	}
	logger := log.NewWithOptions(w, log.Options{
		Level:           lvl,
		Prefix:          cfg.Prefix,
		ReportTimestamp: cfg.Timestamps,
		TimeFormat:      time.TimeOnly,
	})
	return logger, nil
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.New(io.Discard)
}

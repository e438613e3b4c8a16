// Package config provides centralized configuration management for the drill.
// It loads configuration from environment variables with defaults that
// reproduce the tool's stock behavior, and validates all settings on startup
// to fail fast on misconfiguration.
package config

import (
	"fmt"
	"strings"
)

// Config holds all application configuration.
// Every setting is optional; an empty environment yields a working setup.
type Config struct {
	Drill   DrillConfig
	Logging LoggingConfig
}

// DrillConfig holds quiz settings.
type DrillConfig struct {
	// DataFile is the delimited reference file (default: Ports.csv).
	// Relative paths are resolved next to the executable first.
	DataFile string `env:"DRILL_DATA_FILE" envAlt:"DATA_FILE" default:"Ports.csv" validate:"required"`

	// Normalizer selects answer comparison: plain or prefix-stripping (default: plain)
	Normalizer string `env:"DRILL_NORMALIZER" default:"plain" validate:"oneof=plain prefix-stripping"`

	// Seed fixes the question order for reproducible runs; 0 seeds from entropy.
	Seed int64 `env:"DRILL_SEED" default:"0" validate:"min=0"`

	// ShowIntro prints the how-it-works banner at startup (default: true)
	ShowIntro bool `env:"DRILL_SHOW_INTRO" default:"true"`

	// ASCIIMarkers swaps the checkmark/cross glyphs for OK/WRONG (default: false)
	ASCIIMarkers bool `env:"DRILL_ASCII_MARKERS" default:"false"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: warn)
	Level string `env:"LOG_LEVEL" default:"warn" validate:"oneof=debug info warn error"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text" validate:"oneof=text json"`

	// SeqURL is an optional Seq endpoint that receives a copy of every record.
	SeqURL string `env:"LOG_SEQ_URL" validate:"omitempty,url"`
}

// String returns a compact representation of the config for logging.
func (c *Config) String() string {
	var b strings.Builder
	b.WriteString("Config{")
	b.WriteString(fmt.Sprintf("Drill: {DataFile: %q, Normalizer: %q, Seed: %d, ShowIntro: %v, ASCIIMarkers: %v}, ",
		c.Drill.DataFile, c.Drill.Normalizer, c.Drill.Seed, c.Drill.ShowIntro, c.Drill.ASCIIMarkers))
	b.WriteString(fmt.Sprintf("Logging: {Level: %q, Format: %q, Seq: %v}",
		c.Logging.Level, c.Logging.Format, c.Logging.SeqURL != ""))
	b.WriteString("}")
	return b.String()
}

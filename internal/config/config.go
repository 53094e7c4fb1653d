// Package config resolves grinder's settings from flags, environment and
// the optional .grinder.yaml file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sadopc/grinder/internal/rebalance"
	"github.com/sadopc/grinder/internal/store"
	"github.com/shopspring/decimal"
)

// Output formats of the week command.
const (
	TextOut = "text"
	CSVOut  = "csv"
	JSONOut = "json"
)

// Defaults shared by flags and viper.
const (
	DefaultWorkdayHours = "8"
	DefaultDailyCap     = "24"
	DefaultColor        = "yes"
	DefaultOutput       = TextOut
)

// MaxDailyCap is the most hours a day can hold.
var MaxDailyCap = decimal.NewFromInt(24)

// Config is the validated configuration.
type Config struct {
	LogFile      string
	DBPath       string
	WorkdayHours decimal.Decimal
	DailyCap     decimal.Decimal
	UseColors    bool
	Output       string
}

// Policy returns the rebalancing policy for this configuration.
func (c *Config) Policy() rebalance.Policy {
	return rebalance.Policy{WorkdayHours: c.WorkdayHours, DailyCap: c.DailyCap}
}

// RawInput holds the raw values from flags, env and config file.
// Viper unmarshals into this struct.
type RawInput struct {
	LogFile      string `mapstructure:"log-file"`
	DB           string `mapstructure:"db"`
	WorkdayHours string `mapstructure:"workday-hours"`
	DailyCap     string `mapstructure:"daily-cap"`
	Color        string `mapstructure:"color"`
	Output       string `mapstructure:"output"`
}

// DefaultLogFile returns ~/Documents/TimeTrack.txt.
func DefaultLogFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "TimeTrack.txt"
	}
	return filepath.Join(home, "Documents", "TimeTrack.txt")
}

// DefaultDBPath returns the recorder database path, falling back to the
// working directory when no user config directory exists.
func DefaultDBPath() string {
	path, err := store.DefaultDBPath()
	if err != nil {
		return "grinder.db"
	}
	return path
}

// ProcessAndValidate checks the raw input and fills cfg.
func ProcessAndValidate(cfg *Config, input *RawInput) error {
	// --- 1. Paths ---
	cfg.LogFile = expandHome(strings.TrimSpace(input.LogFile))
	if cfg.LogFile == "" {
		cfg.LogFile = DefaultLogFile()
	}
	cfg.DBPath = expandHome(strings.TrimSpace(input.DB))
	if cfg.DBPath == "" {
		cfg.DBPath = DefaultDBPath()
	}

	// --- 2. Rebalancing targets ---
	workday, err := parseHours("workday-hours", input.WorkdayHours, DefaultWorkdayHours)
	if err != nil {
		return err
	}
	if !workday.IsPositive() {
		return fmt.Errorf("workday-hours must be greater than 0 (received %s)", workday)
	}
	dailyCap, err := parseHours("daily-cap", input.DailyCap, DefaultDailyCap)
	if err != nil {
		return err
	}
	if dailyCap.LessThan(workday) {
		return fmt.Errorf("daily-cap (%s) cannot be below workday-hours (%s)", dailyCap, workday)
	}
	if dailyCap.GreaterThan(MaxDailyCap) {
		return fmt.Errorf("daily-cap cannot exceed %s (received %s)", MaxDailyCap, dailyCap)
	}
	cfg.WorkdayHours = workday
	cfg.DailyCap = dailyCap

	// --- 3. Color ---
	colorStr := input.Color
	if colorStr == "" {
		colorStr = DefaultColor
	}
	colors, err := ParseBoolString(colorStr)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 4. Output ---
	cfg.Output = strings.ToLower(strings.TrimSpace(input.Output))
	if cfg.Output == "" {
		cfg.Output = DefaultOutput
	}
	validOutputs := map[string]bool{TextOut: true, CSVOut: true, JSONOut: true}
	if !validOutputs[cfg.Output] {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json", input.Output)
	}
	return nil
}

func parseHours(name, raw, fallback string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		raw = fallback
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s value '%s': %w", name, raw, err)
	}
	return d, nil
}

// ParseBoolString parses yes/no/true/false/1/0.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

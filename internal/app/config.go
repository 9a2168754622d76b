package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v9"

	"github.com/raysh454/ptrprobe/internal/cli"
	"github.com/raysh454/ptrprobe/internal/extractor"
	"github.com/raysh454/ptrprobe/internal/logging"
	"github.com/raysh454/ptrprobe/internal/probe"
	"github.com/raysh454/ptrprobe/internal/resolver"
	"github.com/raysh454/ptrprobe/internal/webclient"
)

// EnvPrefix is prepended to every environment variable read by LoadEnv,
// e.g. PTRPROBE_MODE or PTRPROBE_DNS_TIMEOUT.
const EnvPrefix = "PTRPROBE_"

// Mode selects how far each address travels through the pipeline.
type Mode string

const (
	// ModeBasic resolves addresses and reports domains only.
	ModeBasic Mode = "basic"
	// ModeExtended also paces, probes the readme and sorts by version.
	ModeExtended Mode = "extended"
)

var ErrUnknownMode = errors.New("unknown mode")

// ParseMode accepts "basic" or "extended", case-insensitively.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeBasic, ModeExtended:
		return m, nil
	default:
		return "", fmt.Errorf("%w %q (want basic or extended)", ErrUnknownMode, s)
	}
}

// PacingConfig bounds the random delay inserted before each address in
// extended mode. Max of zero disables pacing.
type PacingConfig struct {
	Min time.Duration `env:"MIN"`
	Max time.Duration `env:"MAX"`
}

// Config holds every runtime option. Build it with DefaultConfig, then
// LoadEnv, then apply CLI flags.
type Config struct {
	InputPath  string `env:"INPUT"`
	OutputPath string `env:"OUTPUT"`
	Mode       Mode   `env:"MODE"`

	LogFormat string `env:"LOG_FORMAT"`
	LogLevel  string `env:"LOG_LEVEL"`

	Pacing    PacingConfig          `envPrefix:"PACE_"`
	Resolver  resolver.Config       `envPrefix:"DNS_"`
	Probe     probe.Config          `envPrefix:"PROBE_"`
	WebClient webclient.Config      `envPrefix:"HTTP_"`
	Scope     extractor.ScopeConfig `envPrefix:"SCOPE_"`
}

// DefaultConfig returns the settings the tool ships with.
func DefaultConfig() *Config {
	return &Config{
		InputPath:  "input.json",
		OutputPath: "output.json",
		Mode:       ModeExtended,
		LogFormat:  string(logging.FormatAuto),
		LogLevel:   "info",
		Pacing: PacingConfig{
			Min: 2 * time.Second,
			Max: 6 * time.Second,
		},
		Resolver:  resolver.DefaultConfig(),
		Probe:     probe.DefaultConfig(),
		WebClient: webclient.DefaultConfig(),
	}
}

// LoadEnv overrides fields from PTRPROBE_* environment variables. Unset
// variables leave the current value alone.
func (c *Config) LoadEnv() error {
	return c.loadEnv(nil)
}

func (c *Config) loadEnv(environ map[string]string) error {
	opts := env.Options{Prefix: EnvPrefix}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(c, opts); err != nil {
		return fmt.Errorf("parsing environment: %w", err)
	}
	return nil
}

// Validate checks the configuration for values the pipeline cannot run with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.InputPath) == "" {
		return errors.New("input path is required")
	}
	if strings.TrimSpace(c.OutputPath) == "" {
		return errors.New("output path is required")
	}
	mode, err := ParseMode(string(c.Mode))
	if err != nil {
		return err
	}
	c.Mode = mode

	if c.Pacing.Min < 0 || c.Pacing.Max < 0 {
		return errors.New("pacing interval must not be negative")
	}
	if c.Pacing.Max > 0 && c.Pacing.Min > c.Pacing.Max {
		return fmt.Errorf("pacing min %s exceeds max %s", c.Pacing.Min, c.Pacing.Max)
	}
	if c.Resolver.Timeout < 0 || c.Probe.Timeout < 0 {
		return errors.New("timeouts must not be negative")
	}
	if c.Probe.Scheme != "http" && c.Probe.Scheme != "https" {
		return fmt.Errorf("probe scheme %q must be http or https", c.Probe.Scheme)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	switch logging.Format(strings.ToLower(c.LogFormat)) {
	case "", logging.FormatAuto, logging.FormatJSON, logging.FormatConsole:
	default:
		return fmt.Errorf("unknown log format %q", c.LogFormat)
	}
	if _, err := extractor.NewScope(c.Scope); err != nil {
		return err
	}
	return nil
}

// ApplyArgs copies every explicitly given flag onto c.
func (c *Config) ApplyArgs(a *cli.CLIArgs) {
	if a == nil {
		return
	}
	if a.IsSet("input") {
		c.InputPath = a.Input
	}
	if a.IsSet("output") {
		c.OutputPath = a.Output
	}
	if a.IsSet("mode") {
		c.Mode = Mode(a.Mode)
	}
	if a.IsSet("log-format") {
		c.LogFormat = a.LogFormat
	}
	if a.IsSet("log-level") {
		c.LogLevel = a.LogLevel
	}
	if a.IsSet("backend") {
		c.WebClient.Client = webclient.Client(a.Backend)
	}
	if a.IsSet("scheme") {
		c.Probe.Scheme = a.Scheme
	}
	if a.IsSet("path") {
		c.Probe.Path = a.Path
	}
	if a.IsSet("exclude") {
		c.Scope.Exclude = a.Exclude
	}
	if a.IsSet("dns-timeout") {
		c.Resolver.Timeout = a.DNSTimeout
	}
	if a.IsSet("timeout") {
		c.Probe.Timeout = a.Timeout
	}
	if a.IsSet("pace-min") {
		c.Pacing.Min = a.PaceMin
	}
	if a.IsSet("pace-max") {
		c.Pacing.Max = a.PaceMax
	}
	if a.NoPace {
		c.Pacing = PacingConfig{}
	}
}

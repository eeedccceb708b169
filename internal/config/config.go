// Package config provides configuration management for gprompt.
// Everything is read from the environment; a prompt render has no
// configuration file, so values come from GPROMPT_* variables plus the
// toolchain variables (RUSTC, JAVA_HOME) and NO_COLOR.
package config

import (
	"time"

	"github.com/spf13/viper"
)

const (
	// EnvPrefix is the prefix for gprompt's own environment variables.
	EnvPrefix = "GPROMPT"

	// DefaultExecTimeout bounds external toolchain commands such as `rustc --version`.
	DefaultExecTimeout = 2 * time.Second
)

// Config holds all settings that influence a prompt render.
type Config struct {
	// LogLevel controls logging verbosity (GPROMPT_LOG_LEVEL)
	LogLevel string

	// LogFile enables file logging to the given path (GPROMPT_LOG_FILE)
	LogFile string

	// Debug enables file logging to the default log file (GPROMPT_DEBUG)
	Debug bool

	// Color selects the color profile: ansi256 (default), ansi, truecolor or never (GPROMPT_COLOR)
	Color string

	// NoColor is set when the NO_COLOR convention variable is present
	NoColor bool

	// ExecTimeout bounds each external process spawned while detecting toolchains (GPROMPT_EXEC_TIMEOUT)
	ExecTimeout time.Duration

	// Rustc is the compiler binary used for the Rust hint (RUSTC)
	Rustc string

	// JavaHome is the Java installation path used for the Java hint (JAVA_HOME)
	JavaHome string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:     "info",
		Color:        "ansi256",
		ExecTimeout: DefaultExecTimeout,
		Rustc:        "rustc",
	}
}

// NewViper returns a viper instance bound to gprompt's environment variables.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	defaults := DefaultConfig()
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("log_file", "")
	v.SetDefault("debug", false)
	v.SetDefault("color", defaults.Color)
	v.SetDefault("exec_timeout", defaults.ExecTimeout)
	v.SetDefault("rustc", defaults.Rustc)

	// These follow their ecosystems' conventions rather than the GPROMPT prefix.
	_ = v.BindEnv("rustc", "RUSTC")
	_ = v.BindEnv("java_home", "JAVA_HOME")
	_ = v.BindEnv("no_color", "NO_COLOR")

	return v
}

// Load reads the configuration from the process environment.
func Load() *Config {
	return FromViper(NewViper())
}

// FromViper extracts a Config from an already bound viper instance.
// Invalid values fall back to their defaults; a bad setting never
// prevents the prompt from rendering.
func FromViper(v *viper.Viper) *Config {
	cfg := DefaultConfig()

	if level := v.GetString("log_level"); level != "" {
		cfg.LogLevel = level
	}
	cfg.LogFile = v.GetString("log_file")
	cfg.Debug = v.GetBool("debug")
	if color := v.GetString("color"); color != "" {
		cfg.Color = color
	}
	// NO_COLOR is honored when present, regardless of its value.
	cfg.NoColor = v.IsSet("no_color") && v.GetString("no_color") != ""

	if timeout := v.GetDuration("exec_timeout"); timeout > 0 {
		cfg.ExecTimeout = timeout
	}
	if rustc := v.GetString("rustc"); rustc != "" {
		cfg.Rustc = rustc
	}
	cfg.JavaHome = v.GetString("java_home")

	return cfg
}

// FileLoggingEnabled reports whether any log output was requested.
func (c *Config) FileLoggingEnabled() bool {
	return c.Debug || c.LogFile != ""
}

// Package asmconfig loads the assembler CLI's run configuration from a
// ".asm16.yaml" file (or the file named by --config) and environment
// variables (ASM16_*), the same
// layered precedence the reference CLI sets up through viper.
package asmconfig

import (
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config holds every setting the assemble/dump subcommands read.
type Config struct {
	// LogLevel is the minimum diagnostic severity logged ("debug", "info", "warn", "error").
	LogLevel string `mapstructure:"log_level"`
	// LogFile, if set, also writes JSON diagnostics to this path.
	LogFile string `mapstructure:"log_file"`
	// StrictMode, if true, stops the pass at the first diagnosed error instead of collecting.
	StrictMode bool `mapstructure:"strict"`
	// OutputFormat selects the object dump renderer: "text" (default, bit-exact) or "yaml".
	OutputFormat string `mapstructure:"output_format"`
	// Color forces colorized diagnostics on or off; unset means auto-detect.
	Color *bool `mapstructure:"color"`
}

// Default returns the configuration used when no file, env var, or flag
// overrides a setting.
func Default() Config {
	return Config{
		LogLevel:     "info",
		OutputFormat: "text",
	}
}

// Load reads cfgFile (or "$HOME/.asm16.yaml" if empty) and ASM16_*
// environment variables into a Config seeded with Default's values.
func Load(cfgFile string) (Config, error) {
	cfg := Default()
	v := viper.New()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(home)
		}
		v.SetConfigType("yaml")
		v.SetConfigName(".asm16")
	}

	v.SetEnvPrefix("ASM16")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("log_level", cfg.LogLevel)
	v.SetDefault("output_format", cfg.OutputFormat)
	v.SetDefault("strict", cfg.StrictMode)

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return cfg, err
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// SlogLevel maps LogLevel to a slog.Level, defaulting to Info on an
// unrecognized string.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

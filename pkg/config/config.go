// Package config loads and validates treematch configuration.
package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/viper"

	"github.com/cqfn/patternika-sub000/pkg/matcher"
)

// Sentinel validation errors.
var (
	ErrInvalidStrategy    = errors.New("invalid matcher strategy")
	ErrInvalidAnchorSize  = errors.New("min anchor size must be positive")
	ErrInvalidInputFormat = errors.New("invalid input format")
	ErrInvalidFileSize    = errors.New("invalid max file size")
	ErrInvalidOutput      = errors.New("invalid output format")
	ErrInvalidColor       = errors.New("invalid color mode")
	ErrInvalidLogLevel    = errors.New("invalid log level")
	ErrInvalidLogFormat   = errors.New("invalid log format")
	ErrInvalidSampleRatio = errors.New("sample ratio must be within [0, 1]")
)

// Accepted enumeration values.
const (
	InputAuto = "auto"
	InputYAML = "yaml"
	InputUAST = "uast"

	OutputTable = "table"
	OutputJSON  = "json"
	OutputYAML  = "yaml"

	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"

	LogFormatText = "text"
	LogFormatJSON = "json"
)

// envPrefix prefixes every environment override, e.g. TREEMATCH_MATCHER_STRATEGY.
const envPrefix = "TREEMATCH"

// Config holds all treematch configuration.
type Config struct {
	Matcher   MatcherConfig   `mapstructure:"matcher"`
	Input     InputConfig     `mapstructure:"input"`
	Output    OutputConfig    `mapstructure:"output"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// MatcherConfig selects and tunes the mapping strategy.
type MatcherConfig struct {
	Strategy      string `mapstructure:"strategy"`
	MinAnchorSize int    `mapstructure:"min_anchor_size"`
	Prune         bool   `mapstructure:"prune"`
}

// InputConfig controls how tree files are read.
type InputConfig struct {
	Format      string `mapstructure:"format"`
	MaxFileSize string `mapstructure:"max_file_size"`

	// MaxFileBytes is MaxFileSize parsed during validation.
	MaxFileBytes uint64 `mapstructure:"-"`
}

// OutputConfig controls how results are rendered.
type OutputConfig struct {
	Format string `mapstructure:"format"`
	Color  string `mapstructure:"color"`
}

// LoggingConfig holds logging-specific configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// TelemetryConfig holds OpenTelemetry export settings. An empty endpoint
// disables export.
type TelemetryConfig struct {
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	OTLPHeaders  string  `mapstructure:"otlp_headers"`
	SampleRatio  float64 `mapstructure:"sample_ratio"`
	OTLPInsecure bool    `mapstructure:"otlp_insecure"`
}

// LoadConfig loads configuration from defaults, an optional YAML file, and
// TREEMATCH_* environment variables, in increasing priority. With an empty
// configPath, .treematch.yaml is searched in the working directory, ./config
// and $HOME; a missing file is not an error.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	setDefaults(viperCfg)

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(".treematch")
		viperCfg.SetConfigType("yaml")
		viperCfg.AddConfigPath(".")
		viperCfg.AddConfigPath("./config")
		viperCfg.AddConfigPath("$HOME")
	}

	viperCfg.SetEnvPrefix(envPrefix)
	viperCfg.AutomaticEnv()
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFoundErr) {
			return nil, fmt.Errorf("failed to read config file: %w", readErr)
		}
	}

	var config Config

	unmarshalErr := viperCfg.Unmarshal(&config)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", unmarshalErr)
	}

	validateErr := validateConfig(&config)
	if validateErr != nil {
		return nil, fmt.Errorf("invalid configuration: %w", validateErr)
	}

	return &config, nil
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	config := &Config{
		Matcher: MatcherConfig{
			Strategy:      DefaultStrategy,
			MinAnchorSize: DefaultMinAnchorSize,
			Prune:         DefaultPrune,
		},
		Input:     InputConfig{Format: DefaultInputFormat, MaxFileSize: DefaultMaxFileSize},
		Output:    OutputConfig{Format: DefaultOutputFormat, Color: DefaultColor},
		Logging:   LoggingConfig{Level: DefaultLogLevel, Format: DefaultLogFormat},
		Telemetry: TelemetryConfig{SampleRatio: DefaultSampleRatio},
	}

	// Defaults always validate; this only fills MaxFileBytes.
	_ = validateConfig(config)

	return config
}

// MatcherOptions converts the matcher section into engine options.
func (matcherCfg MatcherConfig) MatcherOptions() []matcher.Option {
	return []matcher.Option{
		matcher.WithPruning(matcherCfg.Prune),
		matcher.WithMinAnchorSize(matcherCfg.MinAnchorSize),
	}
}

func setDefaults(viperCfg *viper.Viper) {
	// Matcher defaults.
	viperCfg.SetDefault("matcher.strategy", DefaultStrategy)
	viperCfg.SetDefault("matcher.min_anchor_size", DefaultMinAnchorSize)
	viperCfg.SetDefault("matcher.prune", DefaultPrune)

	// Input defaults.
	viperCfg.SetDefault("input.format", DefaultInputFormat)
	viperCfg.SetDefault("input.max_file_size", DefaultMaxFileSize)

	// Output defaults.
	viperCfg.SetDefault("output.format", DefaultOutputFormat)
	viperCfg.SetDefault("output.color", DefaultColor)

	// Logging defaults.
	viperCfg.SetDefault("logging.level", DefaultLogLevel)
	viperCfg.SetDefault("logging.format", DefaultLogFormat)

	// Telemetry defaults.
	viperCfg.SetDefault("telemetry.otlp_endpoint", "")
	viperCfg.SetDefault("telemetry.otlp_headers", "")
	viperCfg.SetDefault("telemetry.otlp_insecure", false)
	viperCfg.SetDefault("telemetry.sample_ratio", DefaultSampleRatio)
}

func validateConfig(config *Config) error {
	if !slices.Contains([]string{matcher.StrategyHash, matcher.StrategyRoot}, config.Matcher.Strategy) {
		return fmt.Errorf("%w: %q", ErrInvalidStrategy, config.Matcher.Strategy)
	}

	if config.Matcher.MinAnchorSize <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidAnchorSize, config.Matcher.MinAnchorSize)
	}

	if !slices.Contains([]string{InputAuto, InputYAML, InputUAST}, config.Input.Format) {
		return fmt.Errorf("%w: %q", ErrInvalidInputFormat, config.Input.Format)
	}

	maxBytes, err := humanize.ParseBytes(config.Input.MaxFileSize)
	if err != nil || maxBytes == 0 {
		return fmt.Errorf("%w: %q", ErrInvalidFileSize, config.Input.MaxFileSize)
	}

	config.Input.MaxFileBytes = maxBytes

	if !slices.Contains([]string{OutputTable, OutputJSON, OutputYAML}, config.Output.Format) {
		return fmt.Errorf("%w: %q", ErrInvalidOutput, config.Output.Format)
	}

	if !slices.Contains([]string{ColorAuto, ColorAlways, ColorNever}, config.Output.Color) {
		return fmt.Errorf("%w: %q", ErrInvalidColor, config.Output.Color)
	}

	return validateObservability(config)
}

func validateObservability(config *Config) error {
	if !slices.Contains([]string{"debug", "info", "warn", "error"}, strings.ToLower(config.Logging.Level)) {
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, config.Logging.Level)
	}

	if !slices.Contains([]string{LogFormatText, LogFormatJSON}, config.Logging.Format) {
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, config.Logging.Format)
	}

	if config.Telemetry.SampleRatio < 0 || config.Telemetry.SampleRatio > 1 {
		return fmt.Errorf("%w: %v", ErrInvalidSampleRatio, config.Telemetry.SampleRatio)
	}

	return nil
}

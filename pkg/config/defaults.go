package config

import "github.com/cqfn/patternika-sub000/pkg/matcher"

// Matcher defaults.
const (
	DefaultStrategy      = matcher.StrategyHash
	DefaultMinAnchorSize = 2
	DefaultPrune         = true
)

// Input defaults.
const (
	DefaultInputFormat = InputAuto
	DefaultMaxFileSize = "16MB"
)

// Output defaults.
const (
	DefaultOutputFormat = OutputTable
	DefaultColor        = ColorAuto
)

// Logging and telemetry defaults.
const (
	DefaultLogLevel    = "warn"
	DefaultLogFormat   = LogFormatText
	DefaultSampleRatio = 1.0
)

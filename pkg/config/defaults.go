package config

// Analysis defaults.
const (
	DefaultAnalyzer         = "auto"
	DefaultMaxFileSize      = "5MB"
	DefaultRespectGitignore = false
)

// Quality defaults.
const (
	DefaultQualityThreshold  = 0.8
	DefaultQualityBlockLines = 5
)

// Output defaults.
const (
	DefaultOutputFormat = "text"
	DefaultOutputWidth  = 0
)

// Logging defaults.
const (
	DefaultLogLevel  = "warn"
	DefaultLogFormat = "text"
)

// Telemetry defaults.
const (
	DefaultOTLPInsecure = false
	DefaultSampleRatio  = 1.0
)

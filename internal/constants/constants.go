// Package constants provides shared configuration values used across the slotview application.
package constants

import "time"

// Configuration file defaults
const (
	// AppName is used for the config directory and environment prefix
	AppName = "slotview"

	// EnvPrefix is the prefix for environment variable overrides (SLOTVIEW_FOLLOW, ...)
	EnvPrefix = "SLOTVIEW"

	// DefaultEnvFile is loaded when present and no --env-file is given
	DefaultEnvFile = ".env"
)

// Pattern defaults
const (
	// MaxPatternLength is the maximum allowed length for slot expressions
	// to prevent excessively complex patterns
	MaxPatternLength = 256

	// PromptCharLimit bounds the pattern entry prompt
	PromptCharLimit = MaxPatternLength
)

// Timeout and duration defaults
const (
	// DefaultNoticeDuration is how long transient status notices stay visible
	DefaultNoticeDuration = 3 * time.Second
)

// Buffer sizes
const (
	// ReadChunkSize is the size of each read from the log file
	ReadChunkSize = 32 * 1024 // 32KB

	// MaxBatchLines caps how many lines are sent to the viewer in one message
	MaxBatchLines = 4096
)

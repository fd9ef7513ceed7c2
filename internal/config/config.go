package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/charliek/slotview/internal/constants"
	"github.com/charliek/slotview/internal/domain"
)

// Format is the encoding of a config file
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatFor returns the format implied by a file extension (YAML unless .toml)
func FormatFor(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FormatTOML
	}
	return FormatYAML
}

// Config represents the slotview configuration
type Config struct {
	Patterns       map[domain.Slot]string // Preset slot expressions
	ActiveSlot     domain.Slot            // Slot active at start, 0 for none
	Follow         bool                   // Keep reading appended lines
	KeepBlank      bool                   // Keep whitespace-only lines
	NoticeDuration time.Duration          // How long status notices stay visible
	DebugLog       string                 // Debug log file, empty to disable
	LogLevel       string                 // Debug log level
	EnvFile        string                 // .env file loaded before env overrides
}

// rawConfig is the on-disk shape; slot keys are strings in both YAML and TOML
type rawConfig struct {
	Patterns       map[string]string `yaml:"patterns" toml:"patterns"`
	ActiveSlot     int               `yaml:"active_slot" toml:"active_slot"`
	Follow         bool              `yaml:"follow" toml:"follow"`
	KeepBlank      bool              `yaml:"keep_blank" toml:"keep_blank"`
	NoticeDuration string            `yaml:"notice_duration" toml:"notice_duration"`
	DebugLog       string            `yaml:"debug_log" toml:"debug_log"`
	LogLevel       string            `yaml:"log_level" toml:"log_level"`
	EnvFile        string            `yaml:"env_file" toml:"env_file"`
}

// Default returns the configuration used when no file is found
func Default() *Config {
	return &Config{
		Patterns:       make(map[domain.Slot]string),
		NoticeDuration: constants.DefaultNoticeDuration,
		LogLevel:       "INFO",
	}
}

// Load reads and parses a configuration file
func Load(path string) (*Config, error) {
	// First check if file exists
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("checking config file: %w", err)
	}

	// Check file permissions for security
	if err := CheckFilePermissions(path); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg, err := Parse(data, FormatFor(path))
	if err != nil {
		return nil, err
	}
	if cfg.EnvFile != "" {
		cfg.EnvFile = resolvePath(cfg.EnvFile, filepath.Dir(path))
	}
	return cfg, nil
}

// Parse parses configuration from YAML or TOML bytes
func Parse(data []byte, format Format) (*Config, error) {
	var raw rawConfig
	switch format {
	case FormatTOML:
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parsing toml: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parsing yaml: %w", err)
		}
	}

	config := Default()
	config.ActiveSlot = domain.Slot(raw.ActiveSlot)
	config.Follow = raw.Follow
	config.KeepBlank = raw.KeepBlank
	config.DebugLog = strings.TrimSpace(raw.DebugLog)
	config.EnvFile = strings.TrimSpace(raw.EnvFile)
	if raw.LogLevel != "" {
		config.LogLevel = strings.ToUpper(strings.TrimSpace(raw.LogLevel))
	}

	var errs []string

	// Parse slot keys ("1".."9")
	for key, expr := range raw.Patterns {
		slot, err := ParseSlot(key)
		if err != nil {
			errs = append(errs, fmt.Sprintf("patterns.%s: %v", key, err))
			continue
		}
		config.Patterns[slot] = expr
	}

	if raw.NoticeDuration != "" {
		d, err := time.ParseDuration(raw.NoticeDuration)
		if err != nil {
			errs = append(errs, fmt.Sprintf("notice_duration: %v", err))
		} else {
			config.NoticeDuration = d
		}
	}

	if len(errs) > 0 {
		sort.Strings(errs)
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidConfig, strings.Join(errs, "; "))
	}

	if err := Validate(config); err != nil {
		return nil, err
	}

	return config, nil
}

// ParseSlot converts a slot key such as "3" to a Slot
func ParseSlot(key string) (domain.Slot, error) {
	n, err := strconv.Atoi(strings.TrimSpace(key))
	if err != nil {
		return 0, fmt.Errorf("slot must be a digit 1-9, got %q", key)
	}
	slot := domain.Slot(n)
	if !slot.Valid() {
		return 0, fmt.Errorf("slot must be between 1 and 9, got %d", n)
	}
	return slot, nil
}

// ParsePatternFlag parses a "N=EXPR" command line pattern
func ParsePatternFlag(value string) (domain.Slot, string, error) {
	key, expr, ok := strings.Cut(value, "=")
	if !ok {
		return 0, "", fmt.Errorf("pattern %q must be in the form N=EXPR", value)
	}
	slot, err := ParseSlot(key)
	if err != nil {
		return 0, "", err
	}
	return slot, expr, nil
}

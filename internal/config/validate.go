package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charliek/slotview/internal/domain"
	"github.com/charliek/slotview/internal/logging"
	"github.com/charliek/slotview/internal/patterns"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the configuration for errors
func Validate(config *Config) error {
	var errs []string

	slots := make([]domain.Slot, 0, len(config.Patterns))
	for slot := range config.Patterns {
		slots = append(slots, slot)
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i] < slots[j] })

	for _, slot := range slots {
		if _, err := patterns.Compile(slot, config.Patterns[slot]); err != nil {
			errs = append(errs, fmt.Sprintf("patterns.%s: %v", slot, err))
		}
	}

	if config.ActiveSlot != 0 {
		if !config.ActiveSlot.Valid() {
			errs = append(errs, fmt.Sprintf("active_slot: must be between 1 and 9, got %d", int(config.ActiveSlot)))
		} else if _, ok := config.Patterns[config.ActiveSlot]; !ok {
			errs = append(errs, fmt.Sprintf("active_slot: slot %s has no pattern", config.ActiveSlot))
		}
	}

	if config.NoticeDuration <= 0 {
		errs = append(errs, "notice_duration: must be positive")
	}

	if err := ValidateLogLevel(config.LogLevel); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrInvalidConfig, strings.Join(errs, "; "))
	}

	return nil
}

// ValidateLogLevel checks that level is one of DEBUG, INFO, WARN or ERROR
func ValidateLogLevel(level string) error {
	switch strings.ToUpper(level) {
	case logging.LevelDebug, logging.LevelInfo, logging.LevelWarn, logging.LevelError:
		return nil
	}
	return &ValidationError{Field: "log_level", Message: fmt.Sprintf("unknown level %q", level)}
}

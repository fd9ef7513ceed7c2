package domain

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrInvalidPattern = errors.New("invalid filter pattern")
	ErrInvalidSlot    = errors.New("invalid slot")
	ErrEmptySlot      = errors.New("slot is empty")
	ErrSourceFailed   = errors.New("log source failed")
	ErrConfigNotFound = errors.New("config file not found")
	ErrInvalidConfig  = errors.New("invalid configuration")
)

// PatternError reports an expression that could not be stored in a slot
type PatternError struct {
	Slot Slot
	Expr string
	Err  error
}

func (e *PatternError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("slot %s: %s", e.Slot, ErrInvalidPattern)
	}
	return fmt.Sprintf("slot %s: %s: %v", e.Slot, ErrInvalidPattern, e.Err)
}

// Unwrap lets errors.Is match ErrInvalidPattern as well as the cause
func (e *PatternError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrInvalidPattern}
	}
	return []error{ErrInvalidPattern, e.Err}
}

// SourceError reports a failure reading or following the log file
type SourceError struct {
	Path string
	Err  error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

// Unwrap lets errors.Is match ErrSourceFailed as well as the cause
func (e *SourceError) Unwrap() []error {
	return []error{ErrSourceFailed, e.Err}
}

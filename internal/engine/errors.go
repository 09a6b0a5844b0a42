package engine

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrConfiguration marks registry inconsistencies found at
	// startup, always fatal, before any side effect.
	ErrConfiguration = errors.New("registry configuration error")
	// ErrCycle marks an unorderable dependency graph.
	ErrCycle = errors.New("dependency cycle detected")
)

// ConfigurationError wraps duplicate-identifier and
// unknown-dependency failures.
type ConfigurationError struct {
	Msg string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrConfiguration.Error(), e.Msg)
}

func (e *ConfigurationError) Unwrap() error { return ErrConfiguration }

func configErrorf(format string, args ...any) error {
	return &ConfigurationError{Msg: fmt.Sprintf(format, args...)}
}

// CycleError names the steps that could not be ordered.
type CycleError struct {
	Members []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("%s: %s", ErrCycle.Error(), strings.Join(e.Members, ", "))
}

func (e *CycleError) Unwrap() error { return ErrCycle }

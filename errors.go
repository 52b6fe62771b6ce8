package crudgrid

import (
	"fmt"

	"github.com/friendsofgo/errors"
)

// ErrAlreadyProcessed is returned when Process is called twice on a Grid.
var ErrAlreadyProcessed = errors.New("crudgrid: grid already processed")

// ConfigError is returned when a grid configuration is invalid.
type ConfigError struct {
	Grid   string
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Grid == "" {
		return fmt.Sprintf("crudgrid: invalid configuration of %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("crudgrid: grid %s: invalid configuration of %s: %s", e.Grid, e.Field, e.Reason)
}

func configError(grid, field, format string, args ...any) *ConfigError {
	return &ConfigError{Grid: grid, Field: field, Reason: fmt.Sprintf(format, args...)}
}

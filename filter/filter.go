// Package filter provides the search filter types a grid binds to its search
// form.
//
// A filter has two halves. At submit time it normalizes raw form values and
// reports field-level errors. At query time it turns a normalized value into
// zero or one predicate on a query.Builder. Invalid or empty values never
// produce a predicate and never produce an error.
//
// Built-in filters: Text, Integer, Number, Boolean, Choice, Entity, Null,
// NotNull and Date. Filters can be constructed directly as typed structs, or
// by name from an option map through a Registry.
package filter

import (
	"context"
	"fmt"

	"github.com/nrfta/crudgrid-go/query"
)

// Filter is one search filter type with its configured options.
type Filter interface {
	// Validate checks the configured options. It is called at bind time.
	Validate() error

	// Field completes the form field description for this filter.
	Field(ctx context.Context, field Field) (Field, error)

	// Normalize turns raw submitted values into the value stored in search
	// data. Problems are returned as messages, not errors; err is reserved
	// for collaborator failures (e.g. an entity lookup).
	Normalize(ctx context.Context, raw []string) (value any, problems []string, err error)

	// Apply adds at most one predicate for value to q.
	Apply(q query.Builder, target Target, value any)

	// Supports reports whether Apply can run against builders of kind.
	Supports(kind query.Kind) bool
}

// Target identifies what a filter filters on.
type Target struct {
	// Property is the search data property, used to name parameters.
	Property string

	// Alias is the query-layer expression to filter on.
	Alias string
}

func (t Target) param(suffix string) string {
	return query.ParamName(t.Property, suffix)
}

// Option is one selectable value of a select widget.
type Option struct {
	Value string `mapstructure:"value" json:"value"`
	Label string `mapstructure:"label" json:"label"`
}

// Field describes a rendered search form field.
type Field struct {
	// Name is the form field name, e.g. "users[firstName]".
	Name     string
	Property string
	Label    string

	// Widget is one of "text", "number", "select", "checkbox", "date",
	// "datetime".
	Widget   string
	Multiple bool
	Required bool
	Options  []Option

	// Value is the current normalized value.
	Value any

	// Selected lists the values currently selected, for select widgets.
	Selected []Option
	Errors   []string
	Attrs    map[string]string
}

// OptionError is returned when a filter is configured with invalid options.
type OptionError struct {
	Filter string
	Option string
	Reason string
}

func (e *OptionError) Error() string {
	return fmt.Sprintf("filter %s: invalid option %q: %s", e.Filter, e.Option, e.Reason)
}

func optionError(filter, option, format string, args ...any) *OptionError {
	return &OptionError{Filter: filter, Option: option, Reason: fmt.Sprintf(format, args...)}
}

func first(raw []string) string {
	if len(raw) == 0 {
		return ""
	}
	return raw[0]
}

func setAttr(f *Field, key, value string) {
	if f.Attrs == nil {
		f.Attrs = map[string]string{}
	}
	f.Attrs[key] = value
}

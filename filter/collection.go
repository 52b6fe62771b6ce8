package filter

import (
	"context"
	"fmt"

	"github.com/friendsofgo/errors"

	"github.com/nrfta/crudgrid-go/query"
)

// Collection holds the options shared by Choice and Entity.
//
// In single mode the value must be a scalar and produces an equality. In
// multiple mode a scalar counts as one element, non-scalar elements are
// dropped, and the predicate is an IN list. A list that is empty, longer than
// Max (when Max > 0) or shorter than Min produces nothing. Lists are never
// truncated to fit Max.
type Collection struct {
	Multiple bool `mapstructure:"multiple"`
	Min      int  `mapstructure:"min"`
	Max      int  `mapstructure:"max"`
}

func (c Collection) validate(filter string) error {
	if c.Min < 0 {
		return optionError(filter, "min", "must not be negative")
	}
	if c.Max < 0 {
		return optionError(filter, "max", "must not be negative")
	}
	if c.Max > 0 && c.Min > c.Max {
		return optionError(filter, "min", "greater than max %d", c.Max)
	}
	if !c.Multiple && (c.Min > 1 || c.Max > 1) {
		return optionError(filter, "multiple", "min/max need multiple selection")
	}
	return nil
}

func (c Collection) apply(q query.Builder, target Target, value any) {
	if !c.Multiple {
		s, ok := scalarString(value)
		if !ok || s == "" {
			return
		}
		q.Eq(target.Alias, target.param(""), value)
		return
	}

	values := toList(value)
	if len(values) == 0 || (c.Max > 0 && len(values) > c.Max) || len(values) < c.Min {
		return
	}
	q.In(target.Alias, target.param(""), values)
}

func (c Collection) countProblems(n int) []string {
	if !c.Multiple {
		return nil
	}
	var problems []string
	if c.Min > 0 && n > 0 && n < c.Min {
		problems = append(problems, fmt.Sprintf("You must select at least %d choices.", c.Min))
	}
	if c.Max > 0 && n > c.Max {
		problems = append(problems, fmt.Sprintf("You must select at most %d choices.", c.Max))
	}
	return problems
}

func (c Collection) value(selected []string) any {
	if c.Multiple {
		if len(selected) == 0 {
			return nil
		}
		return selected
	}
	if len(selected) == 0 {
		return nil
	}
	return selected[0]
}

// Choice filters on a fixed list of values.
type Choice struct {
	Collection `mapstructure:",squash"`
	Options    []Option `mapstructure:"choices"`
}

func (c *Choice) Validate() error {
	if len(c.Options) == 0 {
		return optionError("choice", "choices", "at least one choice is required")
	}
	return c.Collection.validate("choice")
}

func (c *Choice) Field(_ context.Context, f Field) (Field, error) {
	f.Widget = "select"
	f.Multiple = c.Multiple
	f.Options = c.Options
	f.Selected = pick(c.Options, stringsOf(f.Value))
	return f, nil
}

func (c *Choice) Normalize(_ context.Context, raw []string) (any, []string, error) {
	submitted := nonEmpty(raw)
	if !c.Multiple && len(submitted) > 1 {
		submitted = submitted[:1]
	}

	var problems []string
	selected := make([]string, 0, len(submitted))
	for _, v := range submitted {
		if !hasOption(c.Options, v) {
			problems = append(problems, "The selected choice is invalid.")
			continue
		}
		selected = append(selected, v)
	}
	problems = append(problems, c.countProblems(len(selected))...)

	return c.value(selected), problems, nil
}

func (c *Choice) Apply(q query.Builder, target Target, value any) {
	c.Collection.apply(q, target, value)
}

func (c *Choice) Supports(query.Kind) bool { return true }

// Lookup resolves entity ids to options, typically against a remote service
// or another table. Unknown ids are simply absent from the result.
type Lookup interface {
	Resolve(ctx context.Context, ids []string) ([]Option, error)
}

// LookupFunc adapts a function to Lookup.
type LookupFunc func(ctx context.Context, ids []string) ([]Option, error)

func (f LookupFunc) Resolve(ctx context.Context, ids []string) ([]Option, error) {
	return f(ctx, ids)
}

// Entity filters on related records identified by id. The candidates come
// either from a direct Options list or from a Lookup.
//
// Submitted ids that do not resolve are dropped, both from the rendered
// selection and from the stored value.
type Entity struct {
	Collection `mapstructure:",squash"`
	Options    []Option `mapstructure:"choices"`
	Lookup     Lookup   `mapstructure:"-"`
}

func (e *Entity) Validate() error {
	if len(e.Options) == 0 && e.Lookup == nil {
		return optionError("entity", "choices", "either choices or a lookup is required")
	}
	if len(e.Options) > 0 && e.Lookup != nil {
		return optionError("entity", "choices", "choices and a lookup are mutually exclusive")
	}
	return e.Collection.validate("entity")
}

func (e *Entity) Field(ctx context.Context, f Field) (Field, error) {
	f.Widget = "select"
	f.Multiple = e.Multiple
	if e.Lookup == nil {
		f.Options = e.Options
	}

	selected, err := e.resolve(ctx, stringsOf(f.Value))
	if err != nil {
		return f, err
	}
	f.Selected = selected
	if e.Lookup != nil {
		f.Options = selected
	}
	return f, nil
}

func (e *Entity) Normalize(ctx context.Context, raw []string) (any, []string, error) {
	submitted := nonEmpty(raw)
	if !e.Multiple && len(submitted) > 1 {
		submitted = submitted[:1]
	}

	var problems []string
	if e.Max > 0 && len(submitted) > e.Max {
		problems = e.countProblems(len(submitted))
	}

	resolved, err := e.resolve(ctx, submitted)
	if err != nil {
		return nil, nil, err
	}

	// Min counts what resolved: unknown ids never reach the query.
	if e.Multiple && e.Min > 0 && len(submitted) > 0 && len(resolved) < e.Min {
		problems = append(problems, fmt.Sprintf("You must select at least %d choices.", e.Min))
	}

	ids := make([]string, len(resolved))
	for i, o := range resolved {
		ids[i] = o.Value
	}
	return e.value(ids), problems, nil
}

func (e *Entity) Apply(q query.Builder, target Target, value any) {
	e.Collection.apply(q, target, value)
}

func (e *Entity) Supports(query.Kind) bool { return true }

// resolve returns the options for ids in the order they were given.
func (e *Entity) resolve(ctx context.Context, ids []string) ([]Option, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	candidates := e.Options
	if e.Lookup != nil {
		found, err := e.Lookup.Resolve(ctx, ids)
		if err != nil {
			return nil, errors.Wrap(err, "entity lookup")
		}
		candidates = found
	}

	return pick(candidates, ids), nil
}

// pick returns the options matching values, in the order of values, without
// duplicates.
func pick(options []Option, values []string) []Option {
	byValue := make(map[string]Option, len(options))
	for _, o := range options {
		byValue[o.Value] = o
	}

	seen := map[string]bool{}
	var out []Option
	for _, v := range values {
		o, ok := byValue[v]
		if !ok || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, o)
	}
	return out
}

func hasOption(options []Option, value string) bool {
	for _, o := range options {
		if o.Value == value {
			return true
		}
	}
	return false
}

func nonEmpty(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		if r != "" {
			out = append(out, r)
		}
	}
	return out
}

func stringsOf(v any) []string {
	values := toList(v)
	out := make([]string, 0, len(values))
	for _, item := range values {
		if s, ok := scalarString(item); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}

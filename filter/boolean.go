package filter

import (
	"context"
	"fmt"

	"github.com/nrfta/crudgrid-go/query"
)

// Submitted values of a Boolean filter.
const (
	BooleanTrue  = "T"
	BooleanFalse = "F"
)

// Boolean filters a column that stores a yes/no state.
//
// The zero value treats a nil ValueTrue as true and a nil ValueFalse as NULL.
// NewBoolean returns the usual defaults.
type Boolean struct {
	// ValueTrue is the stored value meaning "yes".
	ValueTrue any `mapstructure:"-"`

	// ValueFalse is the stored value meaning "no". nil means "no" is
	// stored as NULL.
	ValueFalse any `mapstructure:"-"`

	// NotNullIsTrue makes every non-NULL value other than ValueFalse count
	// as "yes".
	NotNullIsTrue bool `mapstructure:"notNullIsTrue"`

	// NullIsFalse makes NULL count as "no".
	NullIsFalse bool `mapstructure:"nullIsFalse"`

	LabelTrue  string `mapstructure:"labelTrue"`
	LabelFalse string `mapstructure:"labelFalse"`
}

// NewBoolean returns a Boolean filter matching true/false with NULL counted
// as false.
func NewBoolean() *Boolean {
	return &Boolean{
		ValueTrue:   true,
		ValueFalse:  false,
		NullIsFalse: true,
	}
}

func (b *Boolean) Validate() error {
	if b.ValueTrue != nil && b.ValueFalse != nil && fmt.Sprint(b.ValueTrue) == fmt.Sprint(b.ValueFalse) {
		return optionError("boolean", "valueFalse", "must differ from valueTrue")
	}
	return nil
}

func (b *Boolean) Field(_ context.Context, f Field) (Field, error) {
	f.Widget = "select"
	f.Options = []Option{
		{Value: BooleanTrue, Label: labelOr(b.LabelTrue, "Yes")},
		{Value: BooleanFalse, Label: labelOr(b.LabelFalse, "No")},
	}
	if s, ok := scalarString(f.Value); ok {
		for _, o := range f.Options {
			if o.Value == s {
				f.Selected = []Option{o}
			}
		}
	}
	return f, nil
}

func (b *Boolean) Normalize(_ context.Context, raw []string) (any, []string, error) {
	switch s := first(raw); s {
	case "":
		return nil, nil, nil
	case BooleanTrue, BooleanFalse:
		return s, nil, nil
	default:
		return s, []string{invalidValue}, nil
	}
}

// Apply matches "yes" or "no":
//
//	T: alias = :p
//	T, NotNullIsTrue: (alias = :p OR (alias IS NOT NULL AND alias <> :p_false))
//	F, ValueFalse nil: alias IS NULL
//	F: alias = :p
//	F, NullIsFalse: (alias = :p OR alias IS NULL)
func (b *Boolean) Apply(q query.Builder, target Target, value any) {
	s, ok := scalarString(value)
	if !ok {
		return
	}

	switch s {
	case BooleanTrue:
		b.applyTrue(q, target)
	case BooleanFalse:
		b.applyFalse(q, target)
	}
}

func (b *Boolean) applyTrue(q query.Builder, target Target) {
	p := target.param("")
	if !b.NotNullIsTrue {
		q.Eq(target.Alias, p, b.trueValue())
		return
	}

	if b.ValueFalse == nil {
		q.IsNotNull(target.Alias)
		return
	}

	pf := target.param("false")
	q.Where(
		fmt.Sprintf("(%[1]s = :%[2]s OR (%[1]s IS NOT NULL AND %[1]s <> :%[3]s))", target.Alias, p, pf),
		map[string]any{p: b.trueValue(), pf: b.ValueFalse},
	)
}

func (b *Boolean) applyFalse(q query.Builder, target Target) {
	if b.ValueFalse == nil {
		q.IsNull(target.Alias)
		return
	}

	p := target.param("")
	if !b.NullIsFalse {
		q.Eq(target.Alias, p, b.ValueFalse)
		return
	}

	q.Where(
		fmt.Sprintf("(%[1]s = :%[2]s OR %[1]s IS NULL)", target.Alias, p),
		map[string]any{p: b.ValueFalse},
	)
}

// Supports reports false for remote builders whenever a compound predicate
// would be needed.
func (b *Boolean) Supports(kind query.Kind) bool {
	if kind == query.KindSQL {
		return true
	}
	compoundTrue := b.NotNullIsTrue && b.ValueFalse != nil
	compoundFalse := b.NullIsFalse && b.ValueFalse != nil
	return !compoundTrue && !compoundFalse
}

func (b *Boolean) trueValue() any {
	if b.ValueTrue == nil {
		return true
	}
	return b.ValueTrue
}

func labelOr(label, fallback string) string {
	if label == "" {
		return fallback
	}
	return label
}

package filter

import (
	"context"

	"github.com/nrfta/crudgrid-go/query"
)

const invalidValue = "This value is not valid."

// Integer compares an integer column against the submitted value.
type Integer struct {
	Comparator query.Operator `mapstructure:"comparator"`
}

func (i *Integer) Validate() error {
	return validateComparator("integer", i.Comparator)
}

func (i *Integer) Field(_ context.Context, f Field) (Field, error) {
	f.Widget = "number"
	setAttr(&f, "step", "1")
	return f, nil
}

func (i *Integer) Normalize(_ context.Context, raw []string) (any, []string, error) {
	s := first(raw)
	if s == "" {
		return nil, nil, nil
	}
	n, ok := toInt64(s)
	if !ok {
		return s, []string{invalidValue}, nil
	}
	return n, nil, nil
}

func (i *Integer) Apply(q query.Builder, target Target, value any) {
	n, ok := toInt64(value)
	if !ok {
		return
	}
	q.Compare(target.Alias, i.Comparator, target.param(""), n)
}

func (i *Integer) Supports(query.Kind) bool { return true }

// Number compares a decimal column against the submitted value.
type Number struct {
	Comparator query.Operator `mapstructure:"comparator"`
}

func (n *Number) Validate() error {
	return validateComparator("number", n.Comparator)
}

func (n *Number) Field(_ context.Context, f Field) (Field, error) {
	f.Widget = "number"
	setAttr(&f, "step", "any")
	return f, nil
}

func (n *Number) Normalize(_ context.Context, raw []string) (any, []string, error) {
	s := first(raw)
	if s == "" {
		return nil, nil, nil
	}
	f, ok := toFloat64(s)
	if !ok {
		return s, []string{invalidValue}, nil
	}
	return f, nil, nil
}

func (n *Number) Apply(q query.Builder, target Target, value any) {
	f, ok := toFloat64(value)
	if !ok {
		return
	}
	q.Compare(target.Alias, n.Comparator, target.param(""), f)
}

func (n *Number) Supports(query.Kind) bool { return true }

func validateComparator(filter string, op query.Operator) error {
	if op == "" {
		return optionError(filter, "comparator", "is required")
	}
	if _, ok := query.ParseOperator(string(op)); !ok {
		return optionError(filter, "comparator", "%q is not one of >, >=, <, <=, =", op)
	}
	return nil
}

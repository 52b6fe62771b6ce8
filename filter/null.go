package filter

import (
	"context"

	"github.com/nrfta/crudgrid-go/query"
)

// Null restricts to rows where the column is NULL when checked.
type Null struct{}

func (Null) Validate() error { return nil }

func (Null) Field(_ context.Context, f Field) (Field, error) {
	return checkbox(f), nil
}

func (Null) Normalize(_ context.Context, raw []string) (any, []string, error) {
	return truthy(first(raw)), nil, nil
}

func (Null) Apply(q query.Builder, target Target, value any) {
	if truthy(value) {
		q.IsNull(target.Alias)
	}
}

func (Null) Supports(query.Kind) bool { return true }

// NotNull restricts to rows where the column is not NULL when checked.
type NotNull struct{}

func (NotNull) Validate() error { return nil }

func (NotNull) Field(_ context.Context, f Field) (Field, error) {
	return checkbox(f), nil
}

func (NotNull) Normalize(_ context.Context, raw []string) (any, []string, error) {
	return truthy(first(raw)), nil, nil
}

func (NotNull) Apply(q query.Builder, target Target, value any) {
	if truthy(value) {
		q.IsNotNull(target.Alias)
	}
}

func (NotNull) Supports(query.Kind) bool { return true }

func checkbox(f Field) Field {
	f.Widget = "checkbox"
	if truthy(f.Value) {
		setAttr(&f, "checked", "checked")
	}
	return f
}

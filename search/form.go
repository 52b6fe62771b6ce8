// Package search coordinates the search form of a grid: it binds filters to
// properties of a search data value, builds the form fields, normalizes
// submissions and applies the resulting predicates to a query.Builder.
//
// Example usage:
//
//	form := search.NewForm("users", schema)
//	form.Bind("lastName", &filter.Text{}, search.BindOptions{})
//	form.Bind("role", &filter.Choice{Options: roles}, search.BindOptions{ColumnID: "roleName"})
//	form.Bind("active", filter.NewBoolean(), search.BindOptions{})
package search

import (
	"context"
	"fmt"
	"net/url"

	"github.com/friendsofgo/errors"
	"go.uber.org/zap"

	"github.com/nrfta/crudgrid-go/filter"
	"github.com/nrfta/crudgrid-go/query"
)

// ErrFormBuilt is returned when a binding is added after the form was built.
var ErrFormBuilt = errors.New("search: form already built")

const blankValue = "This value should not be blank."

// ColumnInfo is what a binding inherits from the column it refers to.
type ColumnInfo struct {
	ID          string
	Label       string
	SearchAlias string
}

// ColumnResolver looks up regular and virtual columns by id.
type ColumnResolver interface {
	ResolveColumn(id string) (ColumnInfo, bool)
}

// QueryUpdateFunc replaces a filter's Apply for one binding.
type QueryUpdateFunc func(q query.Builder, value any, binding Binding)

// BindOptions configures a binding. Empty fields inherit from the column.
type BindOptions struct {
	// ColumnID defaults to the property name.
	ColumnID string

	// AliasSearch defaults to the column's search alias.
	AliasSearch string

	// Label defaults to the column's label.
	Label string

	Required bool
}

// Binding is one filter bound to one property.
type Binding struct {
	Property string
	Filter   filter.Filter
	Options  BindOptions
	Override QueryUpdateFunc
}

// FieldErrors holds form-level problems per property.
type FieldErrors map[string][]string

// Valid reports whether there are no problems.
func (e FieldErrors) Valid() bool { return len(e) == 0 }

// BindingError is a configuration error of a single binding.
type BindingError struct {
	Form     string
	Property string
	Reason   string
}

func (e *BindingError) Error() string {
	return fmt.Sprintf("search form %s: property %q: %s", e.Form, e.Property, e.Reason)
}

// UnsupportedQueryError is returned when a bound filter cannot run against the
// kind of query builder it is applied to.
type UnsupportedQueryError struct {
	Property string
	Kind     query.Kind
}

func (e *UnsupportedQueryError) Error() string {
	return fmt.Sprintf("search: filter bound to %q does not support %s queries", e.Property, e.Kind)
}

// Form is the search form coordinator of one grid.
type Form struct {
	name     string
	columns  ColumnResolver
	registry *filter.Registry
	logger   *zap.Logger
	bindings []*Binding
	built    bool
}

// FormOption configures a Form.
type FormOption func(*Form)

// WithRegistry sets the registry used by BindNamed.
func WithRegistry(r *filter.Registry) FormOption {
	return func(f *Form) { f.registry = r }
}

// WithLogger sets the form logger.
func WithLogger(l *zap.Logger) FormOption {
	return func(f *Form) { f.logger = l }
}

// NewForm creates a form whose field names are scoped by name.
func NewForm(name string, columns ColumnResolver, opts ...FormOption) *Form {
	f := &Form{
		name:     name,
		columns:  columns,
		registry: filter.NewRegistry(),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Name returns the form name.
func (f *Form) Name() string { return f.name }

// FieldName returns the submitted field name of property.
func (f *Form) FieldName(property string) string {
	return f.name + "[" + property + "]"
}

// Bind binds flt to property.
func (f *Form) Bind(property string, flt filter.Filter, opts BindOptions) error {
	return f.BindFunc(property, flt, opts, nil)
}

// BindFunc binds flt to property and replaces its query update with override.
// The filter still builds and normalizes the field.
func (f *Form) BindFunc(property string, flt filter.Filter, opts BindOptions, override QueryUpdateFunc) error {
	if f.built {
		return ErrFormBuilt
	}
	if property == "" {
		return &BindingError{Form: f.name, Property: property, Reason: "property is required"}
	}
	if flt == nil {
		return &BindingError{Form: f.name, Property: property, Reason: "filter is required"}
	}
	for _, b := range f.bindings {
		if b.Property == property {
			return &BindingError{Form: f.name, Property: property, Reason: "already bound"}
		}
	}
	if err := flt.Validate(); err != nil {
		return errors.Wrapf(err, "search form %s: property %q", f.name, property)
	}

	if opts.ColumnID == "" {
		opts.ColumnID = property
	}
	b := &Binding{Property: property, Filter: flt, Options: opts, Override: override}
	f.inherit(b)
	f.bindings = append(f.bindings, b)

	return nil
}

// BindNamed builds the filter registered as filterName and binds it.
func (f *Form) BindNamed(property, filterName string, filterOptions map[string]any, opts BindOptions) error {
	if f.built {
		return ErrFormBuilt
	}
	flt, err := f.registry.New(filterName, filterOptions)
	if err != nil {
		return errors.Wrapf(err, "search form %s: property %q", f.name, property)
	}
	return f.Bind(property, flt, opts)
}

// Bindings returns a copy of the bindings in binding order.
func (f *Form) Bindings() []Binding {
	out := make([]Binding, len(f.bindings))
	for i, b := range f.bindings {
		out[i] = *b
	}
	return out
}

// CheckKind returns an UnsupportedQueryError for the first filter that cannot
// run against builders of kind.
func (f *Form) CheckKind(kind query.Kind) error {
	for _, b := range f.bindings {
		if b.Override == nil && !b.Filter.Supports(kind) {
			return &UnsupportedQueryError{Property: b.Property, Kind: kind}
		}
	}
	return nil
}

// Build freezes the bindings and returns one field per binding, filled from
// data and errs. It fails when a binding's column no longer resolves.
func (f *Form) Build(ctx context.Context, data Data, errs FieldErrors) ([]filter.Field, error) {
	if err := f.freeze(); err != nil {
		return nil, err
	}

	fields := make([]filter.Field, 0, len(f.bindings))
	for _, b := range f.bindings {
		value, _ := Property(data, b.Property)
		field, err := b.Filter.Field(ctx, filter.Field{
			Name:     f.FieldName(b.Property),
			Property: b.Property,
			Label:    b.Options.Label,
			Required: b.Options.Required,
			Value:    value,
			Errors:   errs[b.Property],
		})
		if err != nil {
			return nil, errors.Wrapf(err, "search form %s: build %q", f.name, b.Property)
		}
		fields = append(fields, field)
	}

	return fields, nil
}

// Submit normalizes submitted values into a clone of prototype. The returned
// data holds every submitted value, valid or not, so the form can be
// redisplayed; callers must only adopt it when errs is empty.
func (f *Form) Submit(ctx context.Context, values url.Values, prototype Data) (Data, FieldErrors, error) {
	if err := f.freeze(); err != nil {
		return nil, nil, err
	}
	if prototype == nil {
		prototype = Values{}
	}

	data := prototype.Clone()
	errs := FieldErrors{}

	for _, b := range f.bindings {
		name := f.FieldName(b.Property)
		raw := values[name]
		if len(raw) == 0 {
			raw = values[name+"[]"]
		}

		value, problems, err := b.Filter.Normalize(ctx, raw)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "search form %s: normalize %q", f.name, b.Property)
		}
		if b.Options.Required && isBlank(value) {
			problems = append(problems, blankValue)
		}
		if len(problems) > 0 {
			errs[b.Property] = problems
		}

		if err := SetProperty(data, b.Property, value); err != nil {
			if len(problems) > 0 {
				continue
			}
			return nil, nil, err
		}
	}

	if !errs.Valid() {
		f.logger.Debug("search form submission invalid",
			zap.String("form", f.name),
			zap.Int("invalid_fields", len(errs)),
		)
	}

	return data, errs, nil
}

// Apply adds the predicates of every binding to q, in binding order. Nothing
// is applied when a filter does not support q's kind.
func (f *Form) Apply(q query.Builder, data Data) error {
	if err := f.freeze(); err != nil {
		return err
	}
	if err := f.CheckKind(q.Kind()); err != nil {
		return err
	}

	for _, b := range f.bindings {
		value, _ := Property(data, b.Property)
		if b.Override != nil {
			b.Override(q, value, *b)
			continue
		}
		b.Filter.Apply(q, filter.Target{Property: b.Property, Alias: b.Options.AliasSearch}, value)
	}

	return nil
}

func (f *Form) freeze() error {
	if f.built {
		return nil
	}
	if f.columns == nil && len(f.bindings) > 0 {
		return &BindingError{Form: f.name, Property: f.bindings[0].Property, Reason: "form has no column resolver"}
	}
	for _, b := range f.bindings {
		if _, ok := f.columns.ResolveColumn(b.Options.ColumnID); !ok {
			return &BindingError{
				Form:     f.name,
				Property: b.Property,
				Reason:   fmt.Sprintf("column %q does not exist", b.Options.ColumnID),
			}
		}
		f.inherit(b)
	}
	f.built = true
	return nil
}

func (f *Form) inherit(b *Binding) {
	if f.columns == nil {
		return
	}
	col, ok := f.columns.ResolveColumn(b.Options.ColumnID)
	if !ok {
		return
	}
	if b.Options.AliasSearch == "" {
		b.Options.AliasSearch = col.SearchAlias
	}
	if b.Options.Label == "" {
		b.Options.Label = col.Label
	}
}

func isBlank(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case []string:
		return len(t) == 0
	case bool:
		return !t
	}
	return false
}

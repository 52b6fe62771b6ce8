package filter

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/friendsofgo/errors"
	"github.com/go-viper/mapstructure/v2"
)

// Constructor builds a filter from an option map.
type Constructor func(options map[string]any) (Filter, error)

// UnknownFilterError is returned when a filter name is not registered.
type UnknownFilterError struct {
	Name string
}

func (e *UnknownFilterError) Error() string {
	return fmt.Sprintf("filter: no filter registered as %q", e.Name)
}

// Registry maps filter names to constructors. It is safe for concurrent use.
type Registry struct {
	mu           sync.RWMutex
	constructors map[string]Constructor
}

// NewRegistry returns a registry with the built-in filters registered as
// text, integer, number, boolean, choice, entity, null, notnull and date.
func NewRegistry() *Registry {
	r := &Registry{constructors: map[string]Constructor{}}

	r.Register("text", decoded(func() Filter { return &Text{} }))
	r.Register("integer", decoded(func() Filter { return &Integer{} }))
	r.Register("number", decoded(func() Filter { return &Number{} }))
	r.Register("boolean", newBooleanFromOptions)
	r.Register("choice", decoded(func() Filter { return &Choice{} }))
	r.Register("entity", decoded(func() Filter { return &Entity{} }))
	r.Register("null", withoutOptions("null", Null{}))
	r.Register("notnull", withoutOptions("notnull", NotNull{}))
	r.Register("date", decoded(func() Filter { return &Date{} }))

	return r
}

// Register adds or replaces a constructor.
func (r *Registry) Register(name string, c Constructor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.constructors[strings.ToLower(name)] = c
}

// New builds and validates the filter registered as name.
func (r *Registry) New(name string, options map[string]any) (Filter, error) {
	r.mu.RLock()
	c, ok := r.constructors[strings.ToLower(name)]
	r.mu.RUnlock()
	if !ok {
		return nil, &UnknownFilterError{Name: name}
	}

	f, err := c(options)
	if err != nil {
		return nil, err
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// Names returns the registered filter names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.constructors))
	for name := range r.constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func decoded(newFilter func() Filter) Constructor {
	return func(options map[string]any) (Filter, error) {
		f := newFilter()
		if len(options) == 0 {
			return f, nil
		}
		if err := decode(options, f); err != nil {
			return nil, err
		}
		return f, nil
	}
}

func withoutOptions(name string, f Filter) Constructor {
	return func(options map[string]any) (Filter, error) {
		for option := range options {
			return nil, optionError(name, option, "takes no options")
		}
		return f, nil
	}
}

// newBooleanFromOptions copies valueTrue and valueFalse as given, so any
// stored value (strings, numbers, nil) can be matched. The remaining options
// decode over the NewBoolean defaults.
func newBooleanFromOptions(options map[string]any) (Filter, error) {
	b := NewBoolean()
	rest := make(map[string]any, len(options))
	for k, v := range options {
		switch strings.ToLower(k) {
		case "valuetrue":
			b.ValueTrue = v
		case "valuefalse":
			b.ValueFalse = v
		default:
			rest[k] = v
		}
	}

	if len(rest) > 0 {
		if err := decode(rest, b); err != nil {
			return nil, err
		}
	}
	return b, nil
}

func decode(options map[string]any, target any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		TagName:          "mapstructure",
	})
	if err != nil {
		return errors.Wrap(err, "filter: decoder")
	}
	if err := decoder.Decode(options); err != nil {
		return errors.Wrap(err, "filter: decode options")
	}
	return nil
}

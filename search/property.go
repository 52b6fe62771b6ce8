package search

import (
	"reflect"
	"strings"

	"github.com/friendsofgo/errors"
)

// Getter lets a Data type expose properties without reflection.
type Getter interface {
	Get(property string) (any, bool)
}

// Setter lets a Data type accept properties without reflection.
type Setter interface {
	Set(property string, value any) error
}

// Property reads a property from v. Maps are read by key. Structs (or
// pointers to structs) are read by `search` tag, then by field name, case
// insensitively.
func Property(v any, name string) (any, bool) {
	switch t := v.(type) {
	case nil:
		return nil, false
	case Values:
		val, ok := t[name]
		return val, ok
	case map[string]any:
		val, ok := t[name]
		return val, ok
	case Getter:
		return t.Get(name)
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, false
	}

	field, ok := structField(rv, name)
	if !ok {
		return nil, false
	}
	if field.Kind() == reflect.Ptr {
		if field.IsNil() {
			return nil, true
		}
		return field.Elem().Interface(), true
	}
	return field.Interface(), true
}

// SetProperty writes a property on d. Struct data must be a pointer. nil
// resets the property to its zero value.
func SetProperty(d Data, name string, value any) error {
	switch t := d.(type) {
	case Values:
		t[name] = value
		return nil
	case Setter:
		return t.Set(name, value)
	}

	rv := reflect.ValueOf(d)
	if rv.Kind() != reflect.Ptr || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return errors.Errorf("search: cannot set %q on %T", name, d)
	}

	field, ok := structField(rv.Elem(), name)
	if !ok {
		return errors.Errorf("search: %T has no property %q", d, name)
	}
	if !field.CanSet() {
		return errors.Errorf("search: property %q of %T is not settable", name, d)
	}
	return assign(field, value)
}

func assign(field reflect.Value, value any) error {
	if value == nil {
		field.Set(reflect.Zero(field.Type()))
		return nil
	}

	v := reflect.ValueOf(value)
	if field.Kind() == reflect.Ptr {
		ptr := reflect.New(field.Type().Elem())
		if err := assign(ptr.Elem(), value); err != nil {
			return err
		}
		field.Set(ptr)
		return nil
	}

	switch {
	case v.Type().AssignableTo(field.Type()):
		field.Set(v)
	case v.Kind() == reflect.Slice && field.Kind() == reflect.Slice:
		out := reflect.MakeSlice(field.Type(), v.Len(), v.Len())
		for i := 0; i < v.Len(); i++ {
			if err := assign(out.Index(i), v.Index(i).Interface()); err != nil {
				return err
			}
		}
		field.Set(out)
	case field.Kind() == reflect.Interface && v.Type().Implements(field.Type()):
		field.Set(v)
	case v.Type().ConvertibleTo(field.Type()) && v.Kind() != reflect.String && field.Kind() != reflect.String:
		field.Set(v.Convert(field.Type()))
	case v.Kind() == reflect.String && field.Kind() == reflect.String:
		field.SetString(v.String())
	default:
		return errors.Errorf("search: cannot assign %T to %s", value, field.Type())
	}
	return nil
}

func structField(rv reflect.Value, name string) (reflect.Value, bool) {
	rt := rv.Type()

	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		if tag, _, _ := strings.Cut(sf.Tag.Get("search"), ","); tag == name {
			return rv.Field(i), true
		}
	}

	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if sf.IsExported() && sf.Tag.Get("search") == "" && strings.EqualFold(sf.Name, name) {
			return rv.Field(i), true
		}
	}

	return reflect.Value{}, false
}

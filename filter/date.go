package filter

import (
	"context"
	"strings"
	"time"

	"github.com/nrfta/crudgrid-go/query"
)

var (
	dateLayouts     = []string{"2006-01-02", time.RFC3339, "2006-01-02 15:04:05", "2006-01-02T15:04:05", "2006-01-02 15:04", "2006-01-02T15:04"}
	dateTimeLayouts = []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02T15:04:05", "2006-01-02 15:04", "2006-01-02T15:04"}
)

// Date compares a date or timestamp column.
//
// Without WithTime the submitted day is widened so comparisons cover the
// whole day: "<" and ">=" anchor at 00:00:00, "<=" and ">" at 23:59:59, and
// "=" matches between both.
type Date struct {
	Comparator query.Operator `mapstructure:"comparator"`
	WithTime   bool           `mapstructure:"withTime"`

	// Location interprets submitted strings and anchors date-only bounds.
	// Defaults to time.Local. A time.Time value keeps its own calendar date.
	Location *time.Location `mapstructure:"-"`
}

func (d *Date) Validate() error {
	return validateComparator("date", d.Comparator)
}

func (d *Date) Field(_ context.Context, f Field) (Field, error) {
	if d.WithTime {
		f.Widget = "datetime"
	} else {
		f.Widget = "date"
	}
	return f, nil
}

func (d *Date) Normalize(_ context.Context, raw []string) (any, []string, error) {
	s := strings.TrimSpace(first(raw))
	if s == "" {
		return nil, nil, nil
	}
	t, ok := d.parse(s)
	if !ok {
		return s, []string{invalidValue}, nil
	}
	return t, nil, nil
}

func (d *Date) Apply(q query.Builder, target Target, value any) {
	t, ok := d.toTime(value)
	if !ok {
		return
	}

	from, to := t, t
	if !d.WithTime {
		// The calendar date of t as given, anchored in Location.
		loc := d.location()
		from = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
		to = time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, loc)
	}

	switch d.Comparator {
	case query.OpEq:
		q.Compare(target.Alias, query.OpGte, target.param("from"), from)
		q.Compare(target.Alias, query.OpLte, target.param("to"), to)
	case query.OpLt, query.OpGte:
		q.Compare(target.Alias, d.Comparator, target.param(""), from)
	case query.OpLte, query.OpGt:
		q.Compare(target.Alias, d.Comparator, target.param(""), to)
	}
}

// Supports reports true for every kind. Date-only "=" needs two predicates on
// the same column, which remote builders encode as __gte and __lte.
func (d *Date) Supports(query.Kind) bool { return true }

func (d *Date) location() *time.Location {
	if d.Location != nil {
		return d.Location
	}
	return time.Local
}

func (d *Date) toTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, !t.IsZero()
	case *time.Time:
		if t == nil || t.IsZero() {
			return time.Time{}, false
		}
		return *t, true
	case string:
		return d.parse(strings.TrimSpace(t))
	}
	return time.Time{}, false
}

func (d *Date) parse(s string) (time.Time, bool) {
	layouts := dateLayouts
	if d.WithTime {
		layouts = dateTimeLayouts
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, s, d.location()); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

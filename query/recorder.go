package query

import (
	"fmt"
	"sort"
	"strings"
)

// Recorder is a Builder that records criteria in their named-parameter form.
//
// The SQL adapters embed a Recorder and translate its clauses when the query
// runs. It is also handy in tests to assert exactly what a filter produced.
type Recorder struct {
	kind    Kind
	orders  []Order
	clauses []string
	params  map[string]any
}

// NewRecorder returns an empty Recorder of the given kind.
func NewRecorder(kind Kind) *Recorder {
	return &Recorder{kind: kind, params: map[string]any{}}
}

func (r *Recorder) Kind() Kind { return r.kind }

func (r *Recorder) OrderBy(expr string, dir Direction) {
	r.orders = []Order{{Expr: expr, Direction: dir}}
}

func (r *Recorder) AddOrderBy(expr string, dir Direction) {
	r.orders = append(r.orders, Order{Expr: expr, Direction: dir})
}

func (r *Recorder) Eq(expr, param string, value any) {
	r.add(fmt.Sprintf("%s = :%s", expr, param), map[string]any{param: value})
}

func (r *Recorder) In(expr, param string, values []any) {
	r.add(fmt.Sprintf("%s IN (:%s)", expr, param), map[string]any{param: values})
}

func (r *Recorder) Like(expr, param, pattern string) {
	r.add(fmt.Sprintf("%s LIKE :%s", expr, param), map[string]any{param: pattern})
}

func (r *Recorder) IsNull(expr string) {
	r.add(expr+" IS NULL", nil)
}

func (r *Recorder) IsNotNull(expr string) {
	r.add(expr+" IS NOT NULL", nil)
}

func (r *Recorder) Compare(expr string, op Operator, param string, value any) {
	r.add(fmt.Sprintf("%s %s :%s", expr, op, param), map[string]any{param: value})
}

func (r *Recorder) Where(clause string, params map[string]any) {
	r.add(clause, params)
}

func (r *Recorder) add(clause string, params map[string]any) {
	r.clauses = append(r.clauses, clause)
	for k, v := range params {
		r.params[k] = v
	}
}

// Orders returns the recorded ordering criteria.
func (r *Recorder) Orders() []Order { return append([]Order(nil), r.orders...) }

// Clauses returns the recorded WHERE clauses in insertion order.
func (r *Recorder) Clauses() []string { return append([]string(nil), r.clauses...) }

// Params returns a copy of the bound parameters.
func (r *Recorder) Params() map[string]any {
	out := make(map[string]any, len(r.params))
	for k, v := range r.params {
		out[k] = v
	}
	return out
}

// Param returns a single bound parameter.
func (r *Recorder) Param(name string) (any, bool) {
	v, ok := r.params[name]
	return v, ok
}

// String renders the recorded criteria for debug logging.
func (r *Recorder) String() string {
	var b strings.Builder
	if len(r.clauses) > 0 {
		b.WriteString("WHERE ")
		b.WriteString(strings.Join(r.clauses, " AND "))
	}
	if len(r.orders) > 0 {
		if b.Len() > 0 {
			b.WriteString(" ")
		}
		b.WriteString("ORDER BY ")
		b.WriteString(OrderClause(r.orders))
	}
	if len(r.params) > 0 {
		names := make([]string, 0, len(r.params))
		for k := range r.params {
			names = append(names, k)
		}
		sort.Strings(names)
		b.WriteString(" [")
		for i, k := range names {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%s=%v", k, r.params[k])
		}
		b.WriteString("]")
	}
	return b.String()
}

// ParamName derives a parameter name from a bound property, optionally with a
// suffix. ASCII letters and digits are kept; every other byte is written as
// "_" and two hex digits. The suffix follows "__", which an escaped property
// never contains, so distinct (property, suffix) pairs never share a name:
//
//	ParamName("firstName", "")     → "firstName"
//	ParamName("first_name", "")    → "first_5fname"
//	ParamName("createdAt", "from") → "createdAt__from"
//	ParamName("author.name", "")   → "author_2ename"
func ParamName(property, suffix string) string {
	var b strings.Builder
	for i := 0; i < len(property); i++ {
		c := property[i]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
			b.WriteByte(c)
			continue
		}
		fmt.Fprintf(&b, "_%02x", c)
	}
	if suffix != "" {
		b.WriteString("__")
		b.WriteString(suffix)
	}
	return b.String()
}

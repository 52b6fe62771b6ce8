// Package remote implements the grid query port for list endpoints reached
// over HTTP.
//
// Criteria are encoded as "field__op" query parameters and a comma-separated
// "sort" parameter where a leading "-" means descending:
//
//	status=active&age__gte=18&role__in=a,b&sort=-created_at,id
//
// Raw expressions cannot be forwarded, so filters that need them declare they
// do not support KindRemote and are rejected when bound.
package remote

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/nrfta/crudgrid-go/query"
)

var operatorSuffix = map[query.Operator]string{
	query.OpEq:  "",
	query.OpGt:  "gt",
	query.OpGte: "gte",
	query.OpLt:  "lt",
	query.OpLte: "lte",
}

// Query is a query.Builder of Kind KindRemote.
type Query struct {
	values      url.Values
	orders      []query.Order
	unsupported []string
}

// New creates an empty remote Query.
func New() *Query {
	return &Query{values: url.Values{}}
}

func (q *Query) Kind() query.Kind { return query.KindRemote }

func (q *Query) OrderBy(expr string, dir query.Direction) {
	q.orders = []query.Order{{Expr: expr, Direction: dir}}
}

func (q *Query) AddOrderBy(expr string, dir query.Direction) {
	q.orders = append(q.orders, query.Order{Expr: expr, Direction: dir})
}

func (q *Query) Eq(expr, _ string, value any) {
	q.values.Add(expr, format(value))
}

func (q *Query) In(expr, _ string, values []any) {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = format(v)
	}
	q.values.Add(key(expr, "in"), strings.Join(parts, ","))
}

func (q *Query) Like(expr, _, pattern string) {
	q.values.Add(key(expr, "like"), pattern)
}

func (q *Query) IsNull(expr string) {
	q.values.Add(key(expr, "null"), "true")
}

func (q *Query) IsNotNull(expr string) {
	q.values.Add(key(expr, "null"), "false")
}

func (q *Query) Compare(expr string, op query.Operator, _ string, value any) {
	q.values.Add(key(expr, operatorSuffix[op]), format(value))
}

// Where cannot be expressed remotely. The clause is kept so callers can
// detect it through Unsupported.
func (q *Query) Where(clause string, _ map[string]any) {
	q.unsupported = append(q.unsupported, clause)
}

// Unsupported returns raw clauses that were dropped.
func (q *Query) Unsupported() []string {
	return append([]string(nil), q.unsupported...)
}

// Values returns the encoded criteria, including "sort" when ordering is set.
func (q *Query) Values() url.Values {
	out := url.Values{}
	for k, v := range q.values {
		out[k] = append([]string(nil), v...)
	}

	if len(q.orders) > 0 {
		parts := make([]string, len(q.orders))
		for i, o := range q.orders {
			if o.Direction == query.DESC {
				parts[i] = "-" + o.Expr
			} else {
				parts[i] = o.Expr
			}
		}
		out.Set("sort", strings.Join(parts, ","))
	}

	return out
}

// Encode returns Values() in URL-encoded form.
func (q *Query) Encode() string {
	return q.Values().Encode()
}

func key(expr, op string) string {
	if op == "" {
		return expr
	}
	return expr + "__" + op
}

func format(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case time.Time:
		return t.Format(time.RFC3339)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}

// Package query defines the query-builder port mutated by a grid.
//
// A grid never talks to an ORM directly. It records ordering and WHERE
// predicates on a Builder, and the Builder implementation translates them into
// whatever the storage layer understands:
//   - query/sqlboiler: SQLBoiler query mods
//   - query/gormq: a *gorm.DB chain
//   - query/remote: url.Values for a remote list endpoint
//
// Predicates reference named parameters (":name"). Builders of Kind KindSQL
// accept raw expressions through Where; remote builders do not.
package query

import (
	"strings"
)

// Kind identifies the family of a Builder. Filters declare which kinds they
// support, so a SQL-only filter is rejected when bound against a remote query.
type Kind string

const (
	// KindSQL is implemented by relational builders that accept raw expressions.
	KindSQL Kind = "sql"

	// KindRemote is implemented by builders forwarding criteria to a remote API.
	KindRemote Kind = "remote"
)

// Direction is a sort direction.
type Direction string

const (
	ASC  Direction = "ASC"
	DESC Direction = "DESC"
)

// ParseDirection parses a direction case-insensitively.
func ParseDirection(s string) (Direction, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case string(ASC):
		return ASC, true
	case string(DESC):
		return DESC, true
	}
	return "", false
}

// Operator is a comparison operator used by numeric and date filters.
type Operator string

const (
	OpEq  Operator = "="
	OpGt  Operator = ">"
	OpGte Operator = ">="
	OpLt  Operator = "<"
	OpLte Operator = "<="
)

// ParseOperator validates a comparator literal.
func ParseOperator(s string) (Operator, bool) {
	switch op := Operator(strings.TrimSpace(s)); op {
	case OpEq, OpGt, OpGte, OpLt, OpLte:
		return op, true
	}
	return "", false
}

// Builder is the query port a grid mutates.
//
// Expressions (expr) are query-layer column references such as "u.first_name".
// Parameter names (param) must be unique within one query; filters derive them
// from the bound property with ParamName.
type Builder interface {
	// Kind reports the builder family.
	Kind() Kind

	// OrderBy replaces any existing ordering with a single criterion.
	OrderBy(expr string, dir Direction)

	// AddOrderBy appends an ordering criterion.
	AddOrderBy(expr string, dir Direction)

	// Eq adds "expr = :param".
	Eq(expr, param string, value any)

	// In adds "expr IN (:param)". values is never empty.
	In(expr, param string, values []any)

	// Like adds "expr LIKE :param". pattern is already escaped.
	Like(expr, param, pattern string)

	// IsNull adds "expr IS NULL".
	IsNull(expr string)

	// IsNotNull adds "expr IS NOT NULL".
	IsNotNull(expr string)

	// Compare adds "expr <op> :param".
	Compare(expr string, op Operator, param string, value any)

	// Where adds a raw expression with named ":param" placeholders.
	Where(clause string, params map[string]any)
}

// Order is one recorded ordering criterion.
type Order struct {
	Expr      string
	Direction Direction
}

// OrderClause joins orders into a SQL ORDER BY list (without the keyword).
//
// Example:
//
//	[]Order{{"last_name", ASC}, {"first_name", DESC}}
//	→ "last_name ASC, first_name DESC"
func OrderClause(orders []Order) string {
	parts := make([]string, len(orders))
	for i, o := range orders {
		parts[i] = o.Expr + " " + string(o.Direction)
	}
	return strings.Join(parts, ", ")
}

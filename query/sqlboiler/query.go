// Package sqlboiler adapts the grid query port to SQLBoiler query mods.
//
// A Query records ordering and predicates like any query.Builder, and
// translates them into []qm.QueryMod when the grid paginates. A generic
// Fetcher[T] runs those mods through SQLBoiler-generated finders.
//
// Example usage:
//
//	q := sqlboiler.New(qm.InnerJoin("roles r ON r.id = users.role_id"))
//	fetcher := sqlboiler.NewFetcher(
//	    func(ctx context.Context, mods ...qm.QueryMod) ([]*models.User, error) {
//	        return models.Users(mods...).All(ctx, db)
//	    },
//	    func(ctx context.Context, mods ...qm.QueryMod) (int64, error) {
//	        return models.Users(mods...).Count(ctx, db)
//	    },
//	)
//	grid, err := crudgrid.New(schema, q, pagination.Auto(fetcher))
package sqlboiler

import (
	"github.com/aarondl/sqlboiler/v4/queries/qm"

	"github.com/nrfta/crudgrid-go/query"
)

// Query is a query.Builder producing SQLBoiler query mods.
type Query struct {
	*query.Recorder
	base []qm.QueryMod
}

// New creates a Query. base mods (joins, fixed predicates) are prepended to
// every generated mod list.
func New(base ...qm.QueryMod) *Query {
	return &Query{
		Recorder: query.NewRecorder(query.KindSQL),
		base:     base,
	}
}

// WhereMods returns the base mods followed by one qm.Where per recorded
// predicate. Use it for count queries, where ORDER BY is not allowed.
func (q *Query) WhereMods() ([]qm.QueryMod, error) {
	mods := append([]qm.QueryMod{}, q.base...)
	params := q.Params()

	for _, clause := range q.Clauses() {
		sql, args, err := query.Positional(clause, params)
		if err != nil {
			return nil, err
		}
		mods = append(mods, qm.Where(sql, args...))
	}

	return mods, nil
}

// QueryMods returns WhereMods followed by the ORDER BY mod.
//
// Example:
//
//	q.Like("first_name", "first_name", "%jo%")
//	q.OrderBy("last_name", query.DESC)
//	q.QueryMods()
//	→ qm.Where("first_name LIKE ?", "%jo%"), qm.OrderBy("last_name DESC")
func (q *Query) QueryMods() ([]qm.QueryMod, error) {
	mods, err := q.WhereMods()
	if err != nil {
		return nil, err
	}

	if orders := q.Orders(); len(orders) > 0 {
		mods = append(mods, qm.OrderBy(query.OrderClause(orders)))
	}

	return mods, nil
}

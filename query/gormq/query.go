// Package gormq adapts the grid query port to GORM.
//
// Example usage:
//
//	q := gormq.New()
//	fetcher := gormq.NewFetcher[User](db.Model(&User{}))
//	grid, err := crudgrid.New(schema, q, pagination.Auto[User](fetcher))
package gormq

import (
	"gorm.io/gorm"

	"github.com/nrfta/crudgrid-go/query"
)

// Query is a query.Builder that applies its criteria to a *gorm.DB chain.
type Query struct {
	*query.Recorder
	scopes []func(*gorm.DB) *gorm.DB
}

// New creates a Query. scopes (joins, soft-delete filters) run before the
// recorded criteria.
func New(scopes ...func(*gorm.DB) *gorm.DB) *Query {
	return &Query{
		Recorder: query.NewRecorder(query.KindSQL),
		scopes:   scopes,
	}
}

// ApplyWhere adds the scopes and recorded predicates to db.
func (q *Query) ApplyWhere(db *gorm.DB) *gorm.DB {
	// Not db.Scopes: gorm would defer them past the criteria below.
	for _, scope := range q.scopes {
		db = scope(db)
	}

	params := q.Params()
	for _, clause := range q.Clauses() {
		sql, args, err := query.Positional(clause, params)
		if err != nil {
			_ = db.AddError(err)
			return db
		}
		db = db.Where(sql, args...)
	}

	return db
}

// Apply adds the scopes, predicates and ordering to db.
func (q *Query) Apply(db *gorm.DB) *gorm.DB {
	db = q.ApplyWhere(db)
	for _, o := range q.Orders() {
		db = db.Order(o.Expr + " " + string(o.Direction))
	}
	return db
}

package gormq

import (
	"context"

	"github.com/friendsofgo/errors"
	"gorm.io/gorm"

	"github.com/nrfta/crudgrid-go/pagination"
)

// Fetcher implements pagination.Fetcher[T] over a GORM model scope.
type Fetcher[T any] struct {
	db *gorm.DB
}

// NewFetcher creates a fetcher. db must already carry the model or table,
// e.g. db.Model(&User{}).
func NewFetcher[T any](db *gorm.DB) *Fetcher[T] {
	return &Fetcher[T]{db: db}
}

// Fetch runs the mutated query with LIMIT/OFFSET applied.
func (f *Fetcher[T]) Fetch(ctx context.Context, params pagination.FetchParams) ([]T, error) {
	q, err := queryOf(params)
	if err != nil {
		return nil, err
	}

	tx := q.Apply(f.db.WithContext(ctx))
	if params.Limit > 0 {
		tx = tx.Limit(params.Limit)
	}
	if params.Offset > 0 {
		tx = tx.Offset(params.Offset)
	}

	var items []T
	if err := tx.Find(&items).Error; err != nil {
		return nil, errors.Wrap(err, "gormq: fetch")
	}
	return items, nil
}

// Count returns the number of rows matching the mutated query's predicates.
func (f *Fetcher[T]) Count(ctx context.Context, params pagination.FetchParams) (int64, error) {
	q, err := queryOf(params)
	if err != nil {
		return 0, err
	}

	var count int64
	if err := q.ApplyWhere(f.db.WithContext(ctx)).Count(&count).Error; err != nil {
		return 0, errors.Wrap(err, "gormq: count")
	}
	return count, nil
}

func queryOf(params pagination.FetchParams) (*Query, error) {
	q, ok := params.Query.(*Query)
	if !ok {
		return nil, errors.Errorf("gormq: fetcher needs a *gormq.Query, got %T", params.Query)
	}
	return q, nil
}

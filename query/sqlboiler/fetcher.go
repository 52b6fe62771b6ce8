package sqlboiler

import (
	"context"

	"github.com/aarondl/sqlboiler/v4/queries/qm"
	"github.com/friendsofgo/errors"

	"github.com/nrfta/crudgrid-go/pagination"
)

// QueryFunc executes a SQLBoiler query and returns results.
//
// Type parameter T is the SQLBoiler model type (e.g., *models.User).
type QueryFunc[T any] func(ctx context.Context, mods ...qm.QueryMod) ([]T, error)

// CountFunc executes a SQLBoiler count query.
type CountFunc func(ctx context.Context, mods ...qm.QueryMod) (int64, error)

// Fetcher implements pagination.Fetcher[T] for SQLBoiler queries. It expects
// the grid to have mutated a *Query.
type Fetcher[T any] struct {
	queryFunc QueryFunc[T]
	countFunc CountFunc
}

// NewFetcher creates a new SQLBoiler fetcher.
//
// Parameters:
//   - queryFunc: Function that executes SQLBoiler queries with query mods
//   - countFunc: Function that counts records with query mods
func NewFetcher[T any](queryFunc QueryFunc[T], countFunc CountFunc) *Fetcher[T] {
	return &Fetcher[T]{
		queryFunc: queryFunc,
		countFunc: countFunc,
	}
}

// Fetch runs the mutated query with LIMIT/OFFSET applied.
func (f *Fetcher[T]) Fetch(ctx context.Context, params pagination.FetchParams) ([]T, error) {
	q, err := queryOf(params)
	if err != nil {
		return nil, err
	}

	mods, err := q.QueryMods()
	if err != nil {
		return nil, err
	}

	if params.Limit > 0 {
		mods = append(mods, qm.Limit(params.Limit))
	}
	if params.Offset > 0 {
		mods = append(mods, qm.Offset(params.Offset))
	}

	return f.queryFunc(ctx, mods...)
}

// Count returns the number of rows matching the mutated query's predicates.
func (f *Fetcher[T]) Count(ctx context.Context, params pagination.FetchParams) (int64, error) {
	q, err := queryOf(params)
	if err != nil {
		return 0, err
	}

	mods, err := q.WhereMods()
	if err != nil {
		return 0, err
	}

	return f.countFunc(ctx, mods...)
}

func queryOf(params pagination.FetchParams) (*Query, error) {
	q, ok := params.Query.(*Query)
	if !ok {
		return nil, errors.Errorf("sqlboiler: fetcher needs a *sqlboiler.Query, got %T", params.Query)
	}
	return q, nil
}

// Package pagination turns a mutated query into one page of results.
//
// A grid asks a Strategy for page N of size S. Strategies shipped here:
//   - Auto: runs a Fetcher with offset/limit math and a count query
//   - Auto with WithoutCount: fetches one extra row instead of counting
//   - Manual: a caller closure paginates however it likes
//
// Example usage:
//
//	fetcher := sqlboiler.NewFetcher(
//	    func(ctx context.Context, mods ...qm.QueryMod) ([]*models.User, error) {
//	        return models.Users(mods...).All(ctx, db)
//	    },
//	    func(ctx context.Context, mods ...qm.QueryMod) (int64, error) {
//	        return models.Users(mods...).Count(ctx, db)
//	    },
//	)
//	strategy := pagination.Auto(fetcher, pagination.WithMaxPageSize(200))
package pagination

import (
	"context"

	"github.com/nrfta/crudgrid-go/query"
)

// Strategy produces a page of results for an already mutated query.
//
// Type parameter T is the item type being paginated (e.g., *models.User).
type Strategy[T any] interface {
	// Paginate returns page number `page` (1-based) of size `pageSize`.
	// Implementations may move an out-of-range page back to 1; the returned
	// Page.Number is authoritative.
	Paginate(ctx context.Context, q query.Builder, page, pageSize int) (*Page[T], error)
}

// Page represents a single page of paginated results.
type Page[T any] struct {
	// Items contains the rows of this page.
	Items []T

	// Number is the 1-based page number actually served.
	Number int

	// Size is the page size the page was computed with.
	Size int

	// PageInfo contains lazily computed pagination metadata.
	PageInfo *PageInfo

	// Metadata provides observability information.
	Metadata Metadata
}

// Metadata provides observability information about pagination execution.
type Metadata struct {
	// Strategy identifies which pagination strategy was used.
	// Values: "auto", "auto_nocount", "manual"
	Strategy string

	// QueryTimeMs is the total time spent executing queries.
	QueryTimeMs int64

	// ItemsExamined is the number of rows fetched, including look-ahead rows.
	ItemsExamined int
}

// Fetcher abstracts the storage query behind automatic pagination.
// Adapters exist for SQLBoiler (query/sqlboiler) and GORM (query/gormq).
type Fetcher[T any] interface {
	// Fetch retrieves one window of rows for the mutated query.
	Fetch(ctx context.Context, params FetchParams) ([]T, error)

	// Count returns the number of rows matching the mutated query's predicates.
	Count(ctx context.Context, params FetchParams) (int64, error)
}

// FetchParams carries the window and the mutated query to a Fetcher.
type FetchParams struct {
	// Limit is the maximum number of rows to fetch. Zero means unbounded.
	Limit int

	// Offset is the number of rows to skip.
	Offset int

	// Query is the builder the grid mutated. Fetchers type-assert it to
	// their own builder.
	Query query.Builder
}

package pagination

import (
	"context"
	"time"

	"github.com/friendsofgo/errors"

	"github.com/nrfta/crudgrid-go/query"
)

// Option configures the automatic strategy.
type Option func(*config)

type config struct {
	maxPageSize int
	withCount   bool
}

// WithMaxPageSize caps the page size regardless of what the view state asks for.
func WithMaxPageSize(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxPageSize = n
		}
	}
}

// WithoutCount skips the count query. The strategy fetches one extra row to
// learn whether a next page exists; total and page count stay unknown.
func WithoutCount() Option {
	return func(c *config) {
		c.withCount = false
	}
}

// AutoStrategy paginates through a Fetcher using offset/limit.
type AutoStrategy[T any] struct {
	fetcher Fetcher[T]
	config  config
}

// Auto creates the automatic strategy.
//
// With counting enabled (the default) a page beyond the last one is served as
// page 1.
func Auto[T any](fetcher Fetcher[T], opts ...Option) *AutoStrategy[T] {
	c := config{withCount: true}
	for _, opt := range opts {
		opt(&c)
	}
	return &AutoStrategy[T]{fetcher: fetcher, config: c}
}

// Paginate implements Strategy.
func (s *AutoStrategy[T]) Paginate(ctx context.Context, q query.Builder, page, pageSize int) (*Page[T], error) {
	if s.config.maxPageSize > 0 && pageSize > s.config.maxPageSize {
		pageSize = s.config.maxPageSize
	}
	if pageSize < 1 {
		return nil, errors.Errorf("pagination: invalid page size %d", pageSize)
	}
	if page < 1 {
		page = 1
	}

	start := time.Now()

	if !s.config.withCount {
		return s.paginateWithoutCount(ctx, q, page, pageSize, start)
	}

	total, err := s.fetcher.Count(ctx, FetchParams{Query: q})
	if err != nil {
		return nil, errors.Wrap(err, "pagination: count")
	}
	if page > LastPage(pageSize, total) {
		page = 1
	}

	items, err := s.fetcher.Fetch(ctx, FetchParams{
		Limit:  pageSize,
		Offset: Offset(page, pageSize),
		Query:  q,
	})
	if err != nil {
		return nil, errors.Wrap(err, "pagination: fetch")
	}

	pageInfo := NewPageInfo(pageSize, total, page)
	return &Page[T]{
		Items:    items,
		Number:   page,
		Size:     pageSize,
		PageInfo: &pageInfo,
		Metadata: Metadata{
			Strategy:      "auto",
			QueryTimeMs:   time.Since(start).Milliseconds(),
			ItemsExamined: len(items),
		},
	}, nil
}

func (s *AutoStrategy[T]) paginateWithoutCount(ctx context.Context, q query.Builder, page, pageSize int, start time.Time) (*Page[T], error) {
	items, err := s.fetcher.Fetch(ctx, FetchParams{
		Limit:  pageSize + 1,
		Offset: Offset(page, pageSize),
		Query:  q,
	})
	if err != nil {
		return nil, errors.Wrap(err, "pagination: fetch")
	}

	examined := len(items)
	hasNext := len(items) > pageSize
	if hasNext {
		items = items[:pageSize]
	}

	pageInfo := NewUncountedPageInfo(page, hasNext)
	return &Page[T]{
		Items:    items,
		Number:   page,
		Size:     pageSize,
		PageInfo: &pageInfo,
		Metadata: Metadata{
			Strategy:      "auto_nocount",
			QueryTimeMs:   time.Since(start).Milliseconds(),
			ItemsExamined: examined,
		},
	}, nil
}

// Manual adapts a caller closure to a Strategy. The closure receives the
// mutated query and is responsible for the whole page.
type Manual[T any] func(ctx context.Context, q query.Builder, page, pageSize int) (*Page[T], error)

// Paginate implements Strategy.
func (m Manual[T]) Paginate(ctx context.Context, q query.Builder, page, pageSize int) (*Page[T], error) {
	p, err := m(ctx, q, page, pageSize)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, errors.New("pagination: manual strategy returned no page")
	}
	if p.Number < 1 {
		p.Number = page
	}
	if p.Size < 1 {
		p.Size = pageSize
	}
	if p.PageInfo == nil {
		p.PageInfo = NewEmptyPageInfo()
	}
	if p.Metadata.Strategy == "" {
		p.Metadata.Strategy = "manual"
	}
	return p, nil
}

package crudgrid

import (
	"github.com/nrfta/crudgrid-go/query"
	"github.com/nrfta/crudgrid-go/search"
)

type sortCriterion struct {
	expr      string
	direction query.Direction
}

// Schema is a validated, immutable grid configuration. It owns the view state
// change operations, which all validate against it.
type Schema struct {
	name                string
	sessionKey          string
	columns             []Column
	virtual             []Column
	byID                map[string]Column
	pageSizes           []int
	defaultPageSize     int
	defaultSort         string
	defaultDirection    query.Direction
	personalized        []sortCriterion
	persistent          bool
	resultsOnlyIfSearch bool
	prototype           search.Data
}

// SchemaOption configures a Schema beyond its declarative Config.
type SchemaOption func(*Schema)

// WithSearchPrototype sets the default search data. Search data restored from
// the session must have the same concrete type.
func WithSearchPrototype(d search.Data) SchemaOption {
	return func(s *Schema) { s.prototype = d }
}

// NewSchema validates cfg and computes its defaults.
func NewSchema(cfg Config, opts ...SchemaOption) (*Schema, error) {
	if cfg.Name == "" {
		return nil, configError("", "name", "is required")
	}

	s := &Schema{
		name:                cfg.Name,
		sessionKey:          cfg.SessionKey,
		byID:                map[string]Column{},
		persistent:          cfg.PersistentSettings,
		resultsOnlyIfSearch: cfg.DisplayResultsOnlyIfSearch,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.sessionKey == "" {
		s.sessionKey = "crudgrid_" + cfg.Name
	}

	if err := s.compileColumns(cfg); err != nil {
		return nil, err
	}
	if err := s.compilePageSizes(cfg); err != nil {
		return nil, err
	}
	if err := s.compileSort(cfg); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Schema) compileColumns(cfg Config) error {
	if len(cfg.Columns) == 0 {
		return configError(s.name, "columns", "at least one column is required")
	}

	displayed := 0
	for _, cc := range cfg.Columns {
		c, err := NewColumn(cc)
		if err != nil {
			return s.withGrid(err)
		}
		if _, dup := s.byID[c.ID]; dup {
			return configError(s.name, "columns", "duplicate column id %q", c.ID)
		}
		if c.DisplayedByDefault {
			displayed++
		}
		s.byID[c.ID] = c
		s.columns = append(s.columns, c)
	}

	for _, cc := range cfg.VirtualColumns {
		c, err := newVirtualColumn(cc)
		if err != nil {
			return s.withGrid(err)
		}
		if _, dup := s.byID[c.ID]; dup {
			return configError(s.name, "virtualColumns", "duplicate column id %q", c.ID)
		}
		s.byID[c.ID] = c
		s.virtual = append(s.virtual, c)
	}

	if displayed == 0 {
		return configError(s.name, "columns", "at least one column must be displayed by default")
	}
	return nil
}

func (s *Schema) compilePageSizes(cfg Config) error {
	sizes := cfg.PageSizes
	if len(sizes) == 0 {
		sizes = DefaultPageSizes
	}

	seen := map[int]bool{}
	for _, n := range sizes {
		if n <= 0 {
			return configError(s.name, "pageSizes", "%d is not a positive page size", n)
		}
		if seen[n] {
			return configError(s.name, "pageSizes", "duplicate page size %d", n)
		}
		seen[n] = true
	}
	s.pageSizes = append([]int(nil), sizes...)

	switch {
	case cfg.DefaultPageSize == 0 && seen[preferredDefaultPageSize]:
		s.defaultPageSize = preferredDefaultPageSize
	case cfg.DefaultPageSize == 0:
		s.defaultPageSize = s.pageSizes[0]
	case seen[cfg.DefaultPageSize]:
		s.defaultPageSize = cfg.DefaultPageSize
	default:
		return configError(s.name, "defaultPageSize", "%d is not one of the page sizes %v", cfg.DefaultPageSize, s.pageSizes)
	}
	return nil
}

func (s *Schema) compileSort(cfg Config) error {
	s.defaultDirection = query.ASC
	if cfg.DefaultSortDirection != "" {
		dir, ok := query.ParseDirection(cfg.DefaultSortDirection)
		if !ok {
			return configError(s.name, "defaultSortDirection", "%q is neither ASC nor DESC", cfg.DefaultSortDirection)
		}
		s.defaultDirection = dir
	}

	for i, c := range cfg.PersonalizedSort {
		if c.Expr == "" {
			return configError(s.name, "personalizedSort", "entry %d has no expression", i)
		}
		dir := s.defaultDirection
		if c.Direction != "" {
			var ok bool
			if dir, ok = query.ParseDirection(c.Direction); !ok {
				return configError(s.name, "personalizedSort", "entry %d: %q is neither ASC nor DESC", i, c.Direction)
			}
		}
		s.personalized = append(s.personalized, sortCriterion{expr: c.Expr, direction: dir})
	}

	switch {
	case cfg.DefaultSort == "" && len(s.personalized) > 0:
		s.defaultSort = PersonalizedSort
	case cfg.DefaultSort == "":
		for _, c := range s.columns {
			if c.Sortable {
				s.defaultSort = c.ID
				break
			}
		}
	case s.isValidSort(cfg.DefaultSort):
		s.defaultSort = cfg.DefaultSort
	default:
		return configError(s.name, "defaultSort", "%q is not a sortable column", cfg.DefaultSort)
	}
	return nil
}

func (s *Schema) withGrid(err error) error {
	if ce, ok := err.(*ConfigError); ok {
		ce.Grid = s.name
		return ce
	}
	return err
}

func (s *Schema) isValidSort(id string) bool {
	if id == PersonalizedSort {
		return len(s.personalized) > 0
	}
	c, ok := s.byID[id]
	return ok && !c.Virtual && c.Sortable
}

// Name returns the grid name.
func (s *Schema) Name() string { return s.name }

// SessionKey returns the key under which the view state is stored.
func (s *Schema) SessionKey() string { return s.sessionKey }

// Columns returns the regular columns in declaration order.
func (s *Schema) Columns() []Column { return append([]Column(nil), s.columns...) }

// VirtualColumns returns the filter-only columns.
func (s *Schema) VirtualColumns() []Column { return append([]Column(nil), s.virtual...) }

// Column returns a regular or virtual column by id.
func (s *Schema) Column(id string) (Column, bool) {
	c, ok := s.byID[id]
	return c, ok
}

// ResolveColumn implements search.ColumnResolver.
func (s *Schema) ResolveColumn(id string) (search.ColumnInfo, bool) {
	c, ok := s.byID[id]
	if !ok {
		return search.ColumnInfo{}, false
	}
	return search.ColumnInfo{ID: c.ID, Label: c.Label, SearchAlias: c.SearchAlias}, true
}

// DisplayedByDefault returns the ids of the columns shown by default.
func (s *Schema) DisplayedByDefault() []string {
	var ids []string
	for _, c := range s.columns {
		if c.DisplayedByDefault {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

// PageSizes returns the page size choices.
func (s *Schema) PageSizes() []int { return append([]int(nil), s.pageSizes...) }

// DefaultPageSize returns the page size used when none valid was requested.
func (s *Schema) DefaultPageSize() int { return s.defaultPageSize }

// DefaultSort returns the sort used when none valid was requested. It is a
// column id or the personalized sort sentinel.
func (s *Schema) DefaultSort() string { return s.defaultSort }

// DefaultSortDirection returns the direction used with the default sort.
func (s *Schema) DefaultSortDirection() query.Direction { return s.defaultDirection }

// HasPersonalizedSort reports whether a personalized sort is configured.
func (s *Schema) HasPersonalizedSort() bool { return len(s.personalized) > 0 }

// PersistentSettings reports whether display settings are stored per user.
func (s *Schema) PersistentSettings() bool { return s.persistent }

// DisplayResultsOnlyIfSearch reports whether results wait for a valid search.
func (s *Schema) DisplayResultsOnlyIfSearch() bool { return s.resultsOnlyIfSearch }

// SearchPrototype returns a fresh clone of the default search data, or nil.
func (s *Schema) SearchPrototype() search.Data {
	if s.prototype == nil {
		return nil
	}
	return s.prototype.Clone()
}

// DisplayFormName returns the scope of the display settings form fields.
func (s *Schema) DisplayFormName() string { return s.name + "_display" }

// applyOrdering writes the ordering selected by state to q.
func (s *Schema) applyOrdering(q query.Builder, state ViewState) {
	if state.Sort == PersonalizedSort {
		for i, c := range s.personalized {
			if i == 0 {
				q.OrderBy(c.expr, c.direction)
			} else {
				q.AddOrderBy(c.expr, c.direction)
			}
		}
		return
	}

	c, ok := s.byID[state.Sort]
	if !ok {
		return
	}
	for i, expr := range c.SortAlias {
		if i == 0 {
			q.OrderBy(expr, state.SortDirection)
		} else {
			q.AddOrderBy(expr, state.SortDirection)
		}
	}
}

package crudgrid

// ColumnConfig is the declarative form of a column.
type ColumnConfig struct {
	// ID is the key used in URLs and the session.
	ID string `mapstructure:"id"`

	// Alias is the query-layer column reference, e.g. "u.first_name".
	Alias string `mapstructure:"alias"`

	// Label defaults to ID.
	Label string `mapstructure:"label"`

	// Sortable defaults to true.
	Sortable *bool `mapstructure:"sortable"`

	// DisplayedByDefault defaults to true.
	DisplayedByDefault *bool `mapstructure:"displayedByDefault"`

	// SortAlias defaults to [Alias]. Several entries sort by several
	// expressions together.
	SortAlias []string `mapstructure:"sortAlias"`

	// SearchAlias defaults to Alias.
	SearchAlias string `mapstructure:"searchAlias"`
}

// Column is an immutable, fully defaulted column.
type Column struct {
	ID                 string
	Alias              string
	Label              string
	Sortable           bool
	DisplayedByDefault bool
	SortAlias          []string
	SearchAlias        string
	Virtual            bool
}

// NewColumn validates cfg and computes its defaults. Raw fields are read
// first; derived defaults are filled in afterwards so they never depend on
// declaration order.
func NewColumn(cfg ColumnConfig) (Column, error) {
	if cfg.ID == "" {
		return Column{}, configError("", "column.id", "is required")
	}
	if cfg.Alias == "" {
		return Column{}, configError("", "column "+cfg.ID+" alias", "is required")
	}

	c := Column{
		ID:                 cfg.ID,
		Alias:              cfg.Alias,
		Label:              cfg.Label,
		Sortable:           true,
		DisplayedByDefault: true,
		SortAlias:          append([]string(nil), cfg.SortAlias...),
		SearchAlias:        cfg.SearchAlias,
	}
	if cfg.Sortable != nil {
		c.Sortable = *cfg.Sortable
	}
	if cfg.DisplayedByDefault != nil {
		c.DisplayedByDefault = *cfg.DisplayedByDefault
	}

	if c.Label == "" {
		c.Label = c.ID
	}
	if len(c.SortAlias) == 0 {
		c.SortAlias = []string{c.Alias}
	}
	if c.SearchAlias == "" {
		c.SearchAlias = c.Alias
	}

	return c, nil
}

// newVirtualColumn builds a filter-only column.
func newVirtualColumn(cfg ColumnConfig) (Column, error) {
	c, err := NewColumn(cfg)
	if err != nil {
		return Column{}, err
	}
	c.Virtual = true
	c.Sortable = false
	c.DisplayedByDefault = false
	return c, nil
}

// Bool returns a pointer to b, for the optional flags of ColumnConfig.
func Bool(b bool) *bool { return &b }

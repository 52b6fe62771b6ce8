package crudgrid

// PersonalizedSort is the sort value selecting the configured multi-column
// default ordering.
const PersonalizedSort = "defaultPersonalizedSort"

// DefaultPageSizes are used when a configuration lists no page sizes.
var DefaultPageSizes = []int{10, 25, 50, 100}

const preferredDefaultPageSize = 50

// SortCriterion is one entry of a personalized sort. An empty Direction uses
// the grid's default direction.
type SortCriterion struct {
	Expr      string `mapstructure:"expr"`
	Direction string `mapstructure:"direction"`
}

// Config is the declarative configuration of a grid.
//
// Example:
//
//	cfg := crudgrid.Config{
//	    Name: "users",
//	    Columns: []crudgrid.ColumnConfig{
//	        {ID: "firstName", Alias: "u.first_name"},
//	        {ID: "username", Alias: "u.username", Sortable: crudgrid.Bool(false)},
//	    },
//	    PersistentSettings: true,
//	}
type Config struct {
	Name string `mapstructure:"name"`

	// SessionKey defaults to "crudgrid_<name>".
	SessionKey string `mapstructure:"sessionKey"`

	Columns []ColumnConfig `mapstructure:"columns"`

	// VirtualColumns are usable by filter bindings only.
	VirtualColumns []ColumnConfig `mapstructure:"virtualColumns"`

	// PageSizes defaults to DefaultPageSizes.
	PageSizes []int `mapstructure:"pageSizes"`

	// DefaultPageSize defaults to 50 when 50 is a choice, else the first
	// choice.
	DefaultPageSize int `mapstructure:"defaultPageSize"`

	// DefaultSort defaults to PersonalizedSort when PersonalizedSort is
	// configured, else the first sortable column.
	DefaultSort string `mapstructure:"defaultSort"`

	// DefaultSortDirection defaults to ASC.
	DefaultSortDirection string `mapstructure:"defaultSortDirection"`

	PersonalizedSort []SortCriterion `mapstructure:"personalizedSort"`

	// PersistentSettings stores display settings per user.
	PersistentSettings bool `mapstructure:"persistentSettings"`

	// DisplayResultsOnlyIfSearch hides results until a valid search was
	// submitted.
	DisplayResultsOnlyIfSearch bool `mapstructure:"displayResultsOnlyIfSearch"`
}

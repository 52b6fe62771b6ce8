// Package config loads grid definitions from a YAML file.
//
// A file lists the grids of an application with their columns, settings and
// search filter bindings, plus the logger configuration:
//
//	logging:
//	  level: info
//	grids:
//	  - name: users
//	    persistentSettings: true
//	    columns:
//	      - id: firstName
//	        alias: u.first_name
//	    filters:
//	      - property: firstName
//	        filter: text
//	        options:
//	          minLength: 2
//
// Every logging key can be overridden from the environment, for example
// CRUDGRID_LOGGING_LEVEL=debug.
package config

import (
	"strings"

	"github.com/friendsofgo/errors"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/nrfta/crudgrid-go"
	"github.com/nrfta/crudgrid-go/logging"
	"github.com/nrfta/crudgrid-go/search"
)

// EnvPrefix prefixes environment overrides.
const EnvPrefix = "CRUDGRID"

// File is a loaded configuration document.
type File struct {
	Logging logging.Config   `mapstructure:"logging"`
	Grids   []GridDefinition `mapstructure:"grids"`
}

// GridDefinition is one grid and its search filters.
type GridDefinition struct {
	crudgrid.Config `mapstructure:",squash"`

	Filters []FilterDefinition `mapstructure:"filters"`
}

// FilterDefinition binds a registered filter to a search property.
type FilterDefinition struct {
	Property    string         `mapstructure:"property"`
	Filter      string         `mapstructure:"filter"`
	Options     map[string]any `mapstructure:"options"`
	ColumnID    string         `mapstructure:"columnId"`
	AliasSearch string         `mapstructure:"aliasSearch"`
	Label       string         `mapstructure:"label"`
	Required    bool           `mapstructure:"required"`
}

// Load reads the file at path. Defaults apply to missing logging keys and
// environment variables override them.
func Load(path string) (*File, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.output", logging.OutputStdout)
	for _, key := range []string{"filePath", "maxSize", "maxBackups", "maxAge"} {
		if err := v.BindEnv("logging." + key); err != nil {
			return nil, errors.Wrap(err, "config: bind env")
		}
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "config: read %s", path)
	}

	var f File
	if err := v.Unmarshal(&f); err != nil {
		return nil, errors.Wrapf(err, "config: decode %s", path)
	}

	seen := map[string]bool{}
	for _, g := range f.Grids {
		if seen[g.Name] {
			return nil, errors.Errorf("config: grid %q is defined twice", g.Name)
		}
		seen[g.Name] = true
	}

	return &f, nil
}

// Grid returns the definition named name.
func (f *File) Grid(name string) (GridDefinition, bool) {
	for _, g := range f.Grids {
		if g.Name == name {
			return g, true
		}
	}
	return GridDefinition{}, false
}

// Logger builds the configured logger.
func (f *File) Logger() (*zap.Logger, error) {
	return logging.New(f.Logging)
}

// Schema validates the grid settings.
func (d GridDefinition) Schema(opts ...crudgrid.SchemaOption) (*crudgrid.Schema, error) {
	return crudgrid.NewSchema(d.Config, opts...)
}

// BindFilters binds every filter of d to form, in declaration order.
func (d GridDefinition) BindFilters(form *search.Form) error {
	for _, fd := range d.Filters {
		if fd.Property == "" || fd.Filter == "" {
			return errors.Errorf("config: grid %s: filters need a property and a filter name", d.Name)
		}
		err := form.BindNamed(fd.Property, fd.Filter, fd.Options, search.BindOptions{
			ColumnID:    fd.ColumnID,
			AliasSearch: fd.AliasSearch,
			Label:       fd.Label,
			Required:    fd.Required,
		})
		if err != nil {
			return errors.Wrapf(err, "config: grid %s", d.Name)
		}
	}
	return nil
}

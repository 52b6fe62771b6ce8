// Package postgres stores grid preferences in a PostgreSQL table through
// SQLBoiler raw queries.
//
// Example usage:
//
//	db, _ := sql.Open("postgres", dsn)
//	store := postgres.New(db)
//	if err := store.Migrate(ctx); err != nil {
//	    return err
//	}
//	grid, err := crudgrid.New(schema, q, strategy, crudgrid.WithPreferences(store))
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/aarondl/null/v8"
	"github.com/aarondl/sqlboiler/v4/boil"
	"github.com/aarondl/sqlboiler/v4/queries"
	"github.com/aarondl/strmangle"
	"github.com/friendsofgo/errors"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/nrfta/crudgrid-go"
	"github.com/nrfta/crudgrid-go/query"
)

// DefaultTable is the table used unless WithTable is given.
const DefaultTable = "crudgrid_preferences"

// Option configures a Store.
type Option func(*Store)

// WithTable overrides the table name.
func WithTable(name string) Option {
	return func(s *Store) { s.table = name }
}

// Store is a crudgrid.PreferenceStore backed by PostgreSQL. Concurrent saves
// for the same user and grid resolve to the last write.
type Store struct {
	exec  boil.ContextExecutor
	table string
}

var _ crudgrid.PreferenceStore = (*Store)(nil)

// New creates a Store on exec, usually a *sql.DB.
func New(exec boil.ContextExecutor, opts ...Option) *Store {
	s := &Store{exec: exec, table: DefaultTable}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// record is one row of the preferences table.
type record struct {
	ID               uuid.UUID      `boil:"id"`
	UserID           string         `boil:"user_id"`
	Grid             string         `boil:"grid"`
	PageSize         null.Int       `boil:"page_size"`
	DisplayedColumns pq.StringArray `boil:"displayed_columns"`
	Sort             null.String    `boil:"sort"`
	SortDirection    null.String    `boil:"sort_direction"`
}

func (s *Store) quotedTable() string {
	return strmangle.IdentQuote('"', '"', s.table)
}

// Migrate creates the preferences table when it does not exist.
func (s *Store) Migrate(ctx context.Context) error {
	stmt := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id UUID PRIMARY KEY,
			user_id TEXT NOT NULL,
			grid TEXT NOT NULL,
			page_size INTEGER,
			displayed_columns TEXT[],
			sort TEXT,
			sort_direction TEXT,
			updated_at TIMESTAMP NOT NULL DEFAULT NOW(),
			UNIQUE (user_id, grid)
		)`, s.quotedTable())

	if _, err := queries.Raw(stmt).ExecContext(ctx, s.exec); err != nil {
		return errors.Wrap(err, "postgres: migrate preferences")
	}
	return nil
}

// LoadPreferences implements crudgrid.PreferenceStore.
func (s *Store) LoadPreferences(ctx context.Context, userID, grid string) (*crudgrid.Preferences, error) {
	stmt := fmt.Sprintf(
		`SELECT id, user_id, grid, page_size, displayed_columns, sort, sort_direction FROM %s WHERE user_id = $1 AND grid = $2`,
		s.quotedTable(),
	)

	var r record
	err := queries.Raw(stmt, userID, grid).Bind(ctx, s.exec, &r)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "postgres: load preferences of %s for %s", grid, userID)
	}

	p := r.preferences()
	return &p, nil
}

// SavePreferences implements crudgrid.PreferenceStore.
func (s *Store) SavePreferences(ctx context.Context, userID, grid string, p crudgrid.Preferences) error {
	r := newRecord(userID, grid, p)
	stmt := fmt.Sprintf(`
		INSERT INTO %s (id, user_id, grid, page_size, displayed_columns, sort, sort_direction)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id, grid) DO UPDATE SET
			page_size = EXCLUDED.page_size,
			displayed_columns = EXCLUDED.displayed_columns,
			sort = EXCLUDED.sort,
			sort_direction = EXCLUDED.sort_direction,
			updated_at = NOW()`, s.quotedTable())

	_, err := queries.Raw(stmt,
		r.ID, r.UserID, r.Grid, r.PageSize, r.DisplayedColumns, r.Sort, r.SortDirection,
	).ExecContext(ctx, s.exec)
	if err != nil {
		return errors.Wrapf(err, "postgres: save preferences of %s for %s", grid, userID)
	}
	return nil
}

// DeletePreferences implements crudgrid.PreferenceStore.
func (s *Store) DeletePreferences(ctx context.Context, userID, grid string) error {
	stmt := fmt.Sprintf(`DELETE FROM %s WHERE user_id = $1 AND grid = $2`, s.quotedTable())

	if _, err := queries.Raw(stmt, userID, grid).ExecContext(ctx, s.exec); err != nil {
		return errors.Wrapf(err, "postgres: delete preferences of %s for %s", grid, userID)
	}
	return nil
}

func newRecord(userID, grid string, p crudgrid.Preferences) record {
	r := record{
		ID:     uuid.New(),
		UserID: userID,
		Grid:   grid,
	}
	if p.PageSize > 0 {
		r.PageSize = null.IntFrom(p.PageSize)
	}
	if len(p.DisplayedColumns) > 0 {
		r.DisplayedColumns = pq.StringArray(append([]string(nil), p.DisplayedColumns...))
	}
	if p.Sort != "" {
		r.Sort = null.StringFrom(p.Sort)
	}
	if p.SortDirection != "" {
		r.SortDirection = null.StringFrom(string(p.SortDirection))
	}
	return r
}

// preferences maps r back. Unset columns stay zero so the grid keeps its
// defaults for them.
func (r record) preferences() crudgrid.Preferences {
	p := crudgrid.Preferences{
		PageSize: r.PageSize.Int,
		Sort:     r.Sort.String,
	}
	if len(r.DisplayedColumns) > 0 {
		p.DisplayedColumns = append([]string(nil), r.DisplayedColumns...)
	}
	if dir, ok := query.ParseDirection(r.SortDirection.String); ok {
		p.SortDirection = dir
	}
	return p
}

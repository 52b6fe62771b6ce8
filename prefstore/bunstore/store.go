// Package bunstore stores grid preferences through Bun, for any database Bun
// has a dialect for.
package bunstore

import (
	"context"
	"database/sql"
	"time"

	"github.com/friendsofgo/errors"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/nrfta/crudgrid-go"
	"github.com/nrfta/crudgrid-go/query"
)

type preferenceModel struct {
	bun.BaseModel `bun:"table:crudgrid_preferences,alias:p"`

	ID               string    `bun:"id,pk"`
	UserID           string    `bun:"user_id,notnull"`
	Grid             string    `bun:"grid,notnull"`
	PageSize         int       `bun:"page_size,nullzero"`
	DisplayedColumns []string  `bun:"displayed_columns"`
	Sort             string    `bun:"sort,nullzero"`
	SortDirection    string    `bun:"sort_direction,nullzero"`
	UpdatedAt        time.Time `bun:"updated_at,notnull"`
}

// Store is a crudgrid.PreferenceStore on a *bun.DB.
type Store struct {
	DB  *bun.DB
	Now func() time.Time
}

var _ crudgrid.PreferenceStore = (*Store)(nil)

// New creates a Store.
func New(db *bun.DB) *Store {
	return &Store{DB: db, Now: time.Now}
}

// CreateTable creates the preferences table and its unique index.
func (s *Store) CreateTable(ctx context.Context) error {
	if _, err := s.DB.NewCreateTable().Model((*preferenceModel)(nil)).IfNotExists().Exec(ctx); err != nil {
		return errors.Wrap(err, "bunstore: create table")
	}
	_, err := s.DB.NewCreateIndex().
		Model((*preferenceModel)(nil)).
		Index("crudgrid_preferences_user_grid_idx").
		Unique().
		IfNotExists().
		Column("user_id", "grid").
		Exec(ctx)
	if err != nil {
		return errors.Wrap(err, "bunstore: create index")
	}
	return nil
}

// LoadPreferences implements crudgrid.PreferenceStore.
func (s *Store) LoadPreferences(ctx context.Context, userID, grid string) (*crudgrid.Preferences, error) {
	model := new(preferenceModel)
	err := s.DB.NewSelect().
		Model(model).
		Where("user_id = ?", userID).
		Where("grid = ?", grid).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "bunstore: load preferences of %s for %s", grid, userID)
	}

	p := model.preferences()
	return &p, nil
}

// SavePreferences implements crudgrid.PreferenceStore. It updates the
// existing row and inserts one when there is none.
func (s *Store) SavePreferences(ctx context.Context, userID, grid string, p crudgrid.Preferences) error {
	model := &preferenceModel{
		UserID:           userID,
		Grid:             grid,
		PageSize:         p.PageSize,
		DisplayedColumns: append([]string(nil), p.DisplayedColumns...),
		Sort:             p.Sort,
		SortDirection:    string(p.SortDirection),
		UpdatedAt:        s.Now(),
	}

	res, err := s.DB.NewUpdate().
		Model(model).
		Column("page_size", "displayed_columns", "sort", "sort_direction", "updated_at").
		Where("user_id = ?", userID).
		Where("grid = ?", grid).
		Exec(ctx)
	if err != nil {
		return errors.Wrapf(err, "bunstore: update preferences of %s for %s", grid, userID)
	}
	if affected, _ := res.RowsAffected(); affected > 0 {
		return nil
	}

	model.ID = uuid.NewString()
	if _, err := s.DB.NewInsert().Model(model).Exec(ctx); err != nil {
		return errors.Wrapf(err, "bunstore: insert preferences of %s for %s", grid, userID)
	}
	return nil
}

// DeletePreferences implements crudgrid.PreferenceStore.
func (s *Store) DeletePreferences(ctx context.Context, userID, grid string) error {
	_, err := s.DB.NewDelete().
		Model((*preferenceModel)(nil)).
		Where("user_id = ?", userID).
		Where("grid = ?", grid).
		Exec(ctx)
	if err != nil {
		return errors.Wrapf(err, "bunstore: delete preferences of %s for %s", grid, userID)
	}
	return nil
}

func (m *preferenceModel) preferences() crudgrid.Preferences {
	p := crudgrid.Preferences{
		PageSize: m.PageSize,
		Sort:     m.Sort,
	}
	if len(m.DisplayedColumns) > 0 {
		p.DisplayedColumns = append([]string(nil), m.DisplayedColumns...)
	}
	if dir, ok := query.ParseDirection(m.SortDirection); ok {
		p.SortDirection = dir
	}
	return p
}

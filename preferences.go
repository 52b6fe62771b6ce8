package crudgrid

import (
	"context"
	"sync"

	"github.com/nrfta/crudgrid-go/query"
)

// Preferences are the display settings stored per user and grid.
type Preferences struct {
	PageSize         int
	DisplayedColumns []string
	Sort             string
	SortDirection    query.Direction
}

// PreferenceStore is durable storage for Preferences.
type PreferenceStore interface {
	// LoadPreferences returns nil when no record exists.
	LoadPreferences(ctx context.Context, userID, grid string) (*Preferences, error)
	SavePreferences(ctx context.Context, userID, grid string, p Preferences) error
	DeletePreferences(ctx context.Context, userID, grid string) error
}

// PreferencesOf extracts the display settings of v.
func PreferencesOf(v ViewState) Preferences {
	return Preferences{
		PageSize:         v.PageSize,
		DisplayedColumns: append([]string(nil), v.DisplayedColumns...),
		Sort:             v.Sort,
		SortDirection:    v.SortDirection,
	}
}

// Equal reports whether p and o hold the same settings.
func (p Preferences) Equal(o Preferences) bool {
	if p.PageSize != o.PageSize || p.Sort != o.Sort || p.SortDirection != o.SortDirection {
		return false
	}
	if len(p.DisplayedColumns) != len(o.DisplayedColumns) {
		return false
	}
	for i := range p.DisplayedColumns {
		if p.DisplayedColumns[i] != o.DisplayedColumns[i] {
			return false
		}
	}
	return true
}

// ApplyPreferences merges stored settings into v, validating each one.
func (s *Schema) ApplyPreferences(v ViewState, p Preferences) ViewState {
	if p.PageSize != 0 {
		v, _ = s.ChangePageSize(v, p.PageSize)
	}
	if len(p.DisplayedColumns) > 0 {
		v, _ = s.ChangeDisplayedColumns(v, p.DisplayedColumns)
	}
	if p.Sort != "" {
		v, _ = s.ChangeSort(v, p.Sort)
	}
	if p.SortDirection != "" {
		v, _ = s.ChangeSortDirection(v, string(p.SortDirection))
	}
	return v
}

// HasDefaultSettings reports whether the display settings of v equal the
// configured defaults.
func (s *Schema) HasDefaultSettings(v ViewState) bool {
	return PreferencesOf(v).Equal(PreferencesOf(s.DefaultState()))
}

type preferenceKey struct {
	userID string
	grid   string
}

// MemoryPreferences is an in-process PreferenceStore. It is safe for
// concurrent use; the last write wins.
type MemoryPreferences struct {
	mu      sync.RWMutex
	records map[preferenceKey]Preferences
}

// NewMemoryPreferences returns an empty MemoryPreferences.
func NewMemoryPreferences() *MemoryPreferences {
	return &MemoryPreferences{records: map[preferenceKey]Preferences{}}
}

func (m *MemoryPreferences) LoadPreferences(_ context.Context, userID, grid string) (*Preferences, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.records[preferenceKey{userID, grid}]
	if !ok {
		return nil, nil
	}
	p.DisplayedColumns = append([]string(nil), p.DisplayedColumns...)
	return &p, nil
}

func (m *MemoryPreferences) SavePreferences(_ context.Context, userID, grid string, p Preferences) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p.DisplayedColumns = append([]string(nil), p.DisplayedColumns...)
	m.records[preferenceKey{userID, grid}] = p
	return nil
}

func (m *MemoryPreferences) DeletePreferences(_ context.Context, userID, grid string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.records, preferenceKey{userID, grid})
	return nil
}

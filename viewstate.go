package crudgrid

import (
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/nrfta/crudgrid-go/query"
	"github.com/nrfta/crudgrid-go/search"
)

const maxPage = 1e12

// ViewState is what a grid remembers between requests.
//
// A ViewState is a value; change operations return a new one and never
// modify their input.
type ViewState struct {
	PageSize         int
	DisplayedColumns []string
	Sort             string
	SortDirection    query.Direction
	Page             int

	// SearchData is the current search form data, or nil without a form.
	SearchData search.Data

	// SearchSubmittedAndValid is set once a valid search was submitted.
	SearchSubmittedAndValid bool
}

// Clone returns a deep copy of v.
func (v ViewState) Clone() ViewState {
	out := v
	out.DisplayedColumns = append([]string(nil), v.DisplayedColumns...)
	if v.SearchData != nil {
		out.SearchData = v.SearchData.Clone()
	}
	return out
}

// DefaultState returns the configured defaults.
func (s *Schema) DefaultState() ViewState {
	return ViewState{
		PageSize:         s.defaultPageSize,
		DisplayedColumns: s.DisplayedByDefault(),
		Sort:             s.defaultSort,
		SortDirection:    s.defaultDirection,
		Page:             1,
		SearchData:       s.SearchPrototype(),
	}
}

// ChangePageSize adopts requested when it is one of the choices, else the
// default page size. It reports whether requested was accepted.
func (s *Schema) ChangePageSize(v ViewState, requested int) (ViewState, bool) {
	out := v.Clone()
	for _, n := range s.pageSizes {
		if n == requested {
			out.PageSize = requested
			return out, true
		}
	}
	out.PageSize = s.defaultPageSize
	return out, false
}

// ChangeDisplayedColumns keeps the requested ids that are regular columns,
// in requested order and without duplicates. When none survive, the default
// columns are displayed.
func (s *Schema) ChangeDisplayedColumns(v ViewState, ids []string) (ViewState, bool) {
	out := v.Clone()

	seen := map[string]bool{}
	kept := make([]string, 0, len(ids))
	for _, id := range ids {
		c, ok := s.byID[id]
		if !ok || c.Virtual || seen[id] {
			continue
		}
		seen[id] = true
		kept = append(kept, id)
	}

	if len(kept) == 0 {
		out.DisplayedColumns = s.DisplayedByDefault()
		return out, false
	}
	out.DisplayedColumns = kept
	return out, len(kept) == len(ids)
}

// ChangeSort adopts a sortable column id, or PersonalizedSort when one is
// configured. Anything else reverts to the default sort.
func (s *Schema) ChangeSort(v ViewState, requested string) (ViewState, bool) {
	out := v.Clone()
	if s.isValidSort(requested) {
		out.Sort = requested
		return out, true
	}
	out.Sort = s.defaultSort
	return out, false
}

// ChangeSortDirection adopts ASC or DESC, case-insensitively. Anything else
// reverts to the default direction.
func (s *Schema) ChangeSortDirection(v ViewState, requested string) (ViewState, bool) {
	out := v.Clone()
	if dir, ok := query.ParseDirection(requested); ok {
		out.SortDirection = dir
		return out, true
	}
	out.SortDirection = s.defaultDirection
	return out, false
}

// ChangeSearchData adopts d when it has the prototype's concrete type, else a
// fresh clone of the prototype.
func (s *Schema) ChangeSearchData(v ViewState, d search.Data) (ViewState, bool) {
	out := v.Clone()
	if s.prototype == nil {
		out.SearchData = nil
		return out, d == nil
	}
	if d != nil && reflect.TypeOf(d) == reflect.TypeOf(s.prototype) {
		out.SearchData = d.Clone()
		return out, true
	}
	out.SearchData = s.SearchPrototype()
	return out, false
}

// ChangePage adopts a positive page number. Integers, integral floats and
// numeric strings are accepted; anything else, including values above 10^12,
// sets page 1.
func (s *Schema) ChangePage(v ViewState, requested any) (ViewState, bool) {
	out := v.Clone()
	page, ok := coercePage(requested)
	if !ok {
		out.Page = 1
		return out, false
	}
	out.Page = page
	return out, true
}

// Reconcile re-validates every field of v against the live configuration. It
// runs on every state restored from the session.
func (s *Schema) Reconcile(v ViewState) ViewState {
	v, _ = s.ChangePageSize(v, v.PageSize)
	v, _ = s.ChangeDisplayedColumns(v, v.DisplayedColumns)
	v, _ = s.ChangeSort(v, v.Sort)
	v, _ = s.ChangeSortDirection(v, string(v.SortDirection))
	v, _ = s.ChangeSearchData(v, v.SearchData)
	v, _ = s.ChangePage(v, v.Page)
	return v
}

// ResetSettings restores the display settings to their defaults. Page and
// search are kept.
func (s *Schema) ResetSettings(v ViewState) ViewState {
	out := v.Clone()
	out.PageSize = s.defaultPageSize
	out.DisplayedColumns = s.DisplayedByDefault()
	out.Sort = s.defaultSort
	out.SortDirection = s.defaultDirection
	return out
}

// ResetSearch restores the search data to the prototype and returns to page 1.
func (s *Schema) ResetSearch(v ViewState) ViewState {
	out := v.Clone()
	out.SearchData = s.SearchPrototype()
	out.SearchSubmittedAndValid = false
	out.Page = 1
	return out
}

func coercePage(requested any) (int, bool) {
	var f float64

	switch t := requested.(type) {
	case int:
		f = float64(t)
	case int32:
		f = float64(t)
	case int64:
		f = float64(t)
	case uint:
		f = float64(t)
	case uint64:
		f = float64(t)
	case float32:
		f = float64(t)
	case float64:
		f = t
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}

	if math.IsNaN(f) || math.IsInf(f, 0) || f < 1 || f > maxPage {
		return 0, false
	}
	return int(f), true
}

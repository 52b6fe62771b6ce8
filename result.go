package crudgrid

import (
	"context"

	"github.com/nrfta/crudgrid-go/filter"
	"github.com/nrfta/crudgrid-go/pagination"
	"github.com/nrfta/crudgrid-go/search"
)

// Result is the outcome of processing one request.
type Result[T any] struct {
	Grid        string
	DisplayForm string
	State       ViewState

	// Columns are the displayed columns, in display order.
	Columns []Column

	// AvailableColumns are the columns the user may choose to display.
	AvailableColumns []Column

	// Page is nil when results are hidden or pagination is disabled.
	Page *pagination.Page[T]

	SearchFields []filter.Field
	SearchErrors search.FieldErrors

	// DisplaySettingsValid is nil unless the display settings form was
	// submitted.
	DisplaySettingsValid *bool

	PageSizes []int
	AJAX      bool
}

// Row is one rendered result row.
type Row struct {
	Item  any
	Cells []any
}

// View is the renderer-facing, non-generic form of a Result.
type View struct {
	Grid                 string
	DisplayForm          string
	State                ViewState
	Columns              []Column
	AvailableColumns     []Column
	Rows                 []Row
	PageInfo             *pagination.PageInfo
	HasResults           bool
	SearchFields         []filter.Field
	SearchErrors         search.FieldErrors
	DisplaySettingsValid *bool
	PageSizes            []int
	AJAX                 bool
}

// Response is a rendered document.
type Response struct {
	ContentType string
	Body        []byte
}

// Renderer turns a View into a response document. AJAX views render the
// search and list fragments separately.
type Renderer interface {
	Render(ctx context.Context, view View) (Response, error)
}

// View converts r for rendering. Cells are read from each item by column id.
func (r *Result[T]) View() View {
	v := View{
		Grid:                 r.Grid,
		DisplayForm:          r.DisplayForm,
		State:                r.State,
		Columns:              r.Columns,
		AvailableColumns:     r.AvailableColumns,
		SearchFields:         r.SearchFields,
		SearchErrors:         r.SearchErrors,
		DisplaySettingsValid: r.DisplaySettingsValid,
		PageSizes:            r.PageSizes,
		AJAX:                 r.AJAX,
	}
	if r.Page == nil {
		return v
	}

	v.HasResults = true
	v.PageInfo = r.Page.PageInfo
	v.Rows = make([]Row, len(r.Page.Items))
	for i, item := range r.Page.Items {
		cells := make([]any, len(r.Columns))
		for j, c := range r.Columns {
			cells[j], _ = search.Property(item, c.ID)
		}
		v.Rows[i] = Row{Item: item, Cells: cells}
	}
	return v
}

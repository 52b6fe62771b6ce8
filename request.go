package crudgrid

import (
	"net/url"
	"strconv"
)

// Query parameters understood by a grid.
const (
	ParamSort            = "sort"
	ParamSortDirection   = "sort-direction"
	ParamPage            = "page"
	ParamReset           = "reset"
	ParamResetSettings   = "resetsettings"
	ParamSearch          = "search"
	ParamDisplaySettings = "display-settings"
)

// Request is the part of an HTTP request a grid reads.
type Request struct {
	// Query holds the URL query parameters.
	Query url.Values

	// Form holds the submitted form body.
	Form url.Values

	// UserID identifies the authenticated user. Empty means anonymous, which
	// disables durable preferences.
	UserID string

	// AJAX marks a partial-update request.
	AJAX bool
}

func (r Request) has(param string) bool {
	_, ok := r.Query[param]
	return ok
}

// displaySettings reads the display settings form. ok is false when the form
// was not submitted.
func (r Request) displaySettings(form string) (pageSize int, columns []string, valid bool) {
	raw := r.Form.Get(form + "[pageSize]")
	pageSize, err := strconv.Atoi(raw)
	columns = r.Form[form+"[columns][]"]
	if len(columns) == 0 {
		columns = r.Form[form+"[columns]"]
	}
	return pageSize, columns, err == nil && len(columns) > 0
}

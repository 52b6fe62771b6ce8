// Package render turns a crudgrid.View into HTML with pongo2 templates.
//
// A full page renders the search panel and the result list inside the page
// template. AJAX requests get a JSON document holding both fragments
// separately:
//
//	{"search": "<form ...>", "list": "<table ...>", "formValid": true}
//
// Templates receive plain maps and lists, so they can be overridden without
// knowing crudgrid types. See the default templates for the available keys.
package render

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/flosch/pongo2/v6"
	"github.com/friendsofgo/errors"

	"github.com/nrfta/crudgrid-go"
	"github.com/nrfta/crudgrid-go/filter"
	"github.com/nrfta/crudgrid-go/pagination"
	"github.com/nrfta/crudgrid-go/query"
)

// Content types of rendered responses.
const (
	ContentTypeHTML = "text/html; charset=utf-8"
	ContentTypeJSON = "application/json"
)

// Template names looked up in a template set.
const (
	TemplateSearch = "search.html"
	TemplateList   = "list.html"
	TemplatePage   = "page.html"
)

// Renderer renders grid views. It implements crudgrid.Renderer and is safe
// for concurrent use once built.
type Renderer struct {
	search *pongo2.Template
	list   *pongo2.Template
	page   *pongo2.Template
}

var _ crudgrid.Renderer = (*Renderer)(nil)

// Option configures a Renderer.
type Option func(*builder)

type builder struct {
	set     *pongo2.TemplateSet
	sources map[string]string
}

// WithTemplateSet loads templates by name from set. Names missing from the
// set fall back to the defaults.
func WithTemplateSet(set *pongo2.TemplateSet) Option {
	return func(b *builder) { b.set = set }
}

// WithTemplate overrides one template with source.
func WithTemplate(name, source string) Option {
	return func(b *builder) { b.sources[name] = source }
}

// New compiles the templates.
func New(opts ...Option) (*Renderer, error) {
	b := &builder{sources: map[string]string{}}
	for _, opt := range opts {
		opt(b)
	}

	var r Renderer
	var err error
	if r.search, err = b.template(TemplateSearch, defaultSearch); err != nil {
		return nil, err
	}
	if r.list, err = b.template(TemplateList, defaultList); err != nil {
		return nil, err
	}
	if r.page, err = b.template(TemplatePage, defaultPage); err != nil {
		return nil, err
	}
	return &r, nil
}

func (b *builder) template(name, fallback string) (*pongo2.Template, error) {
	if src, ok := b.sources[name]; ok {
		tpl, err := pongo2.FromString(src)
		return tpl, errors.Wrapf(err, "render: compile %s", name)
	}
	if b.set != nil {
		if tpl, err := b.set.FromFile(name); err == nil {
			return tpl, nil
		}
	}
	tpl, err := pongo2.FromString(fallback)
	return tpl, errors.Wrapf(err, "render: compile default %s", name)
}

type ajaxPayload struct {
	Search    string `json:"search"`
	List      string `json:"list"`
	FormValid *bool  `json:"formValid,omitempty"`
}

// Render implements crudgrid.Renderer.
func (r *Renderer) Render(_ context.Context, view crudgrid.View) (crudgrid.Response, error) {
	data, err := contextOf(view)
	if err != nil {
		return crudgrid.Response{}, err
	}

	searchHTML, err := r.search.Execute(data)
	if err != nil {
		return crudgrid.Response{}, errors.Wrap(err, "render: search panel")
	}
	listHTML, err := r.list.Execute(data)
	if err != nil {
		return crudgrid.Response{}, errors.Wrap(err, "render: list")
	}

	if view.AJAX {
		body, err := json.Marshal(ajaxPayload{
			Search:    searchHTML,
			List:      listHTML,
			FormValid: view.DisplaySettingsValid,
		})
		if err != nil {
			return crudgrid.Response{}, errors.Wrap(err, "render: ajax payload")
		}
		return crudgrid.Response{ContentType: ContentTypeJSON, Body: body}, nil
	}

	data["search_html"] = pongo2.AsSafeValue(searchHTML)
	data["list_html"] = pongo2.AsSafeValue(listHTML)
	page, err := r.page.Execute(data)
	if err != nil {
		return crudgrid.Response{}, errors.Wrap(err, "render: page")
	}
	return crudgrid.Response{ContentType: ContentTypeHTML, Body: []byte(page)}, nil
}

func contextOf(view crudgrid.View) (pongo2.Context, error) {
	columns := make([]map[string]any, len(view.Columns))
	for i, c := range view.Columns {
		sorted := view.State.Sort == c.ID
		next := query.ASC
		if sorted && view.State.SortDirection == query.ASC {
			next = query.DESC
		}
		columns[i] = map[string]any{
			"id":        c.ID,
			"label":     c.Label,
			"sortable":  c.Sortable,
			"sorted":    sorted,
			"direction": string(view.State.SortDirection),
			"next":      string(next),
		}
	}

	rows := make([][]string, len(view.Rows))
	for i, row := range view.Rows {
		cells := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = cellText(cell)
		}
		rows[i] = cells
	}

	pageInfo, err := pageInfoOf(view.PageInfo, view.State.Page)
	if err != nil {
		return nil, err
	}

	fields := make([]map[string]any, len(view.SearchFields))
	for i, f := range view.SearchFields {
		fields[i] = fieldOf(f)
	}

	displayed := map[string]bool{}
	for _, c := range view.Columns {
		displayed[c.ID] = true
	}
	available := make([]map[string]any, len(view.AvailableColumns))
	for i, c := range view.AvailableColumns {
		available[i] = map[string]any{"id": c.ID, "label": c.Label, "displayed": displayed[c.ID]}
	}

	return pongo2.Context{
		"grid":             view.Grid,
		"display_form":     view.DisplayForm,
		"columns":          columns,
		"rows":             rows,
		"has_results":      view.HasResults,
		"page":             view.State.Page,
		"page_size":        view.State.PageSize,
		"page_sizes":       view.PageSizes,
		"page_info":        pageInfo,
		"fields":           fields,
		"available":        available,
		"settings_invalid": view.DisplaySettingsValid != nil && !*view.DisplaySettingsValid,
	}, nil
}

func pageInfoOf(pi *pagination.PageInfo, page int) (map[string]any, error) {
	if pi == nil {
		return nil, nil
	}

	out := map[string]any{"previous_page": page - 1, "next_page": page + 1}
	total, err := pi.TotalCount()
	if err != nil {
		return nil, errors.Wrap(err, "render: total count")
	}
	if total != nil {
		out["total_count"] = *total
	}
	pages, err := pi.PageCount()
	if err != nil {
		return nil, errors.Wrap(err, "render: page count")
	}
	if pages != nil {
		out["page_count"] = *pages
	}
	if out["has_next"], err = pi.HasNextPage(); err != nil {
		return nil, errors.Wrap(err, "render: next page")
	}
	if out["has_previous"], err = pi.HasPreviousPage(); err != nil {
		return nil, errors.Wrap(err, "render: previous page")
	}
	return out, nil
}

func fieldOf(f filter.Field) map[string]any {
	selected := map[string]bool{}
	for _, o := range f.Selected {
		selected[o.Value] = true
	}
	options := make([]map[string]any, len(f.Options))
	for i, o := range f.Options {
		options[i] = map[string]any{"value": o.Value, "label": o.Label, "selected": selected[o.Value]}
	}

	keys := make([]string, 0, len(f.Attrs))
	for k := range f.Attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	attrs := make([]map[string]string, len(keys))
	for i, k := range keys {
		attrs[i] = map[string]string{"key": k, "value": f.Attrs[k]}
	}

	name := f.Name
	if f.Multiple {
		name += "[]"
	}

	return map[string]any{
		"name":     name,
		"id":       f.Name,
		"label":    f.Label,
		"widget":   f.Widget,
		"input":    inputType(f.Widget),
		"multiple": f.Multiple,
		"required": f.Required,
		"value":    valueText(f),
		"options":  options,
		"errors":   f.Errors,
		"attrs":    attrs,
	}
}

func inputType(widget string) string {
	switch widget {
	case "datetime":
		return "datetime-local"
	case "":
		return "text"
	}
	return widget
}

func valueText(f filter.Field) string {
	switch v := f.Value.(type) {
	case nil:
		return ""
	case time.Time:
		if f.Widget == "datetime" {
			return v.Format("2006-01-02T15:04")
		}
		return v.Format("2006-01-02")
	case *time.Time:
		if v == nil {
			return ""
		}
		return valueText(filter.Field{Widget: f.Widget, Value: *v})
	}
	return cellText(f.Value)
}

func cellText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case time.Time:
		return t.Format(time.RFC3339)
	case fmt.Stringer:
		return t.String()
	}
	return fmt.Sprint(v)
}

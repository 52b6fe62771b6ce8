// Package crudgrid implements paginated, sortable and searchable data grids
// whose view state survives between requests.
//
// A Grid is built per request from a shared Schema. It loads the view state
// from the user session, applies the request to it, writes ordering and
// search predicates to a query.Builder, paginates and saves the state back.
//
// Example usage:
//
//	schema, err := crudgrid.NewSchema(crudgrid.Config{
//		Name: "users",
//		Columns: []crudgrid.ColumnConfig{
//			{ID: "firstName", Alias: "u.first_name"},
//			{ID: "username", Alias: "u.username", Sortable: crudgrid.Bool(false)},
//		},
//	}, crudgrid.WithSearchPrototype(&UserSearch{}))
//
//	q := sqlboiler.New()
//	grid, err := crudgrid.New(schema, q, pagination.Auto[*models.User](fetcher),
//		crudgrid.WithSearchForm(form),
//		crudgrid.WithPreferences(store),
//	)
//	result, err := grid.Process(ctx, crudgrid.Request{Query: r.URL.Query(), UserID: userID})
package crudgrid

import (
	"context"
	"time"

	"github.com/friendsofgo/errors"
	"go.uber.org/zap"

	"github.com/nrfta/crudgrid-go/filter"
	"github.com/nrfta/crudgrid-go/pagination"
	"github.com/nrfta/crudgrid-go/query"
	"github.com/nrfta/crudgrid-go/search"
)

// Option configures a Grid.
type Option func(*options)

type options struct {
	sessions SessionStore
	prefs    PreferenceStore
	form     *search.Form
	logger   *zap.Logger
}

// WithSessions sets the session store. It defaults to a private
// MemorySessions, which forgets everything once the grid is gone.
func WithSessions(s SessionStore) Option {
	return func(o *options) { o.sessions = s }
}

// WithPreferences enables durable per-user display settings for schemas with
// PersistentSettings.
func WithPreferences(p PreferenceStore) Option {
	return func(o *options) { o.prefs = p }
}

// WithSearchForm binds a search form. Its filters must support the kind of
// the grid's query builder.
func WithSearchForm(f *search.Form) Option {
	return func(o *options) { o.form = f }
}

// WithLogger sets the grid logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// Grid processes a single request. It is not safe for concurrent use.
type Grid[T any] struct {
	schema    *Schema
	builder   query.Builder
	strategy  pagination.Strategy[T]
	opts      options
	processed bool
}

// New creates a grid over builder. A nil strategy disables pagination.
func New[T any](schema *Schema, builder query.Builder, strategy pagination.Strategy[T], opts ...Option) (*Grid[T], error) {
	if schema == nil {
		return nil, configError("", "schema", "is required")
	}
	if builder == nil {
		return nil, configError(schema.Name(), "builder", "is required")
	}

	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.sessions == nil {
		o.sessions = NewMemorySessions()
	}

	if o.form != nil {
		if err := o.form.CheckKind(builder.Kind()); err != nil {
			return nil, errors.Wrapf(err, "crudgrid %s", schema.Name())
		}
	}

	return &Grid[T]{
		schema:   schema,
		builder:  builder,
		strategy: strategy,
		opts:     o,
	}, nil
}

// Schema returns the grid schema.
func (g *Grid[T]) Schema() *Schema { return g.schema }

// Process runs the request lifecycle once. Invalid user input never fails;
// errors come from the session, the preference store, the search form or the
// pagination strategy.
func (g *Grid[T]) Process(ctx context.Context, req Request) (*Result[T], error) {
	if g.processed {
		return nil, ErrAlreadyProcessed
	}
	g.processed = true

	log := g.opts.logger.With(zap.String("grid", g.schema.Name()))
	userID := req.UserID
	persist := g.schema.PersistentSettings() && userID != "" && g.opts.prefs != nil

	state, hasRecord, err := g.load(ctx, persist, userID)
	if err != nil {
		return nil, err
	}
	loaded := PreferencesOf(state)

	result := &Result[T]{
		Grid:        g.schema.Name(),
		DisplayForm: g.schema.DisplayFormName(),
		PageSizes:   g.schema.PageSizes(),
		AJAX:        req.AJAX,
	}

	if req.has(ParamResetSettings) {
		state = g.schema.ResetSettings(state)
		if persist && hasRecord {
			if err := g.opts.prefs.DeletePreferences(ctx, userID, g.schema.Name()); err != nil {
				return nil, errors.Wrap(err, "crudgrid: delete preferences")
			}
			log.Info("preferences reset", zap.String("user_id", userID))
		}
		return g.finish(ctx, result, state, nil, nil)
	}

	state, submitted, errs, err := g.mutate(ctx, state, req, result, log)
	if err != nil {
		return nil, err
	}

	if persist {
		current := PreferencesOf(state)
		changed := !current.Equal(loaded)
		if changed && (hasRecord || !g.schema.HasDefaultSettings(state)) {
			if err := g.opts.prefs.SavePreferences(ctx, userID, g.schema.Name(), current); err != nil {
				return nil, errors.Wrap(err, "crudgrid: save preferences")
			}
			log.Info("preferences saved", zap.String("user_id", userID))
		}
	}

	return g.finish(ctx, result, state, submitted, errs)
}

func (g *Grid[T]) load(ctx context.Context, persist bool, userID string) (ViewState, bool, error) {
	blob, err := g.opts.sessions.Load(ctx, g.schema.SessionKey())
	if err != nil {
		return ViewState{}, false, errors.Wrap(err, "crudgrid: load session")
	}

	var hasRecord bool
	if persist {
		p, err := g.opts.prefs.LoadPreferences(ctx, userID, g.schema.Name())
		if err != nil {
			return ViewState{}, false, errors.Wrap(err, "crudgrid: load preferences")
		}
		hasRecord = p != nil

		if len(blob) == 0 && p != nil {
			return g.schema.ApplyPreferences(g.schema.DefaultState(), *p), true, nil
		}
	}

	if len(blob) > 0 {
		if state, ok := g.schema.DecodeState(blob); ok {
			return state, hasRecord, nil
		}
		g.opts.logger.Debug("discarding undecodable session state",
			zap.String("grid", g.schema.Name()),
			zap.String("key", g.schema.SessionKey()),
		)
	}

	return g.schema.DefaultState(), hasRecord, nil
}

// mutate applies the request parameters to state. submitted holds search data
// that failed validation and must be redisplayed instead of the state's.
func (g *Grid[T]) mutate(ctx context.Context, state ViewState, req Request, result *Result[T], log *zap.Logger) (ViewState, search.Data, search.FieldErrors, error) {
	var ok bool

	if req.has(ParamReset) {
		state = g.schema.ResetSearch(state)
	}

	if req.has(ParamDisplaySettings) {
		pageSize, columns, complete := req.displaySettings(g.schema.DisplayFormName())
		valid := complete
		if complete {
			var sizeOK, colsOK bool
			state, sizeOK = g.schema.ChangePageSize(state, pageSize)
			state, colsOK = g.schema.ChangeDisplayedColumns(state, columns)
			valid = sizeOK && colsOK
		}
		result.DisplaySettingsValid = &valid
		if !valid {
			log.Debug("display settings rejected", zap.Int("page_size", pageSize), zap.Strings("columns", columns))
		}
	}

	sortRejected := false
	if req.has(ParamSort) {
		requested := req.Query.Get(ParamSort)
		if state, ok = g.schema.ChangeSort(state, requested); !ok {
			sortRejected = true
			state, _ = g.schema.ChangeSortDirection(state, "")
			log.Debug("sort rejected", zap.String("sort", requested))
		}
	}

	if req.has(ParamSortDirection) && !sortRejected {
		requested := req.Query.Get(ParamSortDirection)
		if state, ok = g.schema.ChangeSortDirection(state, requested); !ok {
			log.Debug("sort direction rejected", zap.String("sort_direction", requested))
		}
	}

	if req.has(ParamPage) {
		requested := req.Query.Get(ParamPage)
		if state, ok = g.schema.ChangePage(state, requested); !ok {
			log.Debug("page rejected", zap.String("page", requested))
		}
	}

	if req.has(ParamSearch) && g.opts.form != nil {
		data, errs, err := g.opts.form.Submit(ctx, req.Form, state.SearchData)
		if err != nil {
			return state, nil, nil, errors.Wrap(err, "crudgrid: submit search")
		}
		if !errs.Valid() {
			return state, data, errs, nil
		}
		state, _ = g.schema.ChangeSearchData(state, data)
		state, _ = g.schema.ChangePage(state, 1)
		state.SearchSubmittedAndValid = true
	}

	return state, nil, nil, nil
}

func (g *Grid[T]) finish(ctx context.Context, result *Result[T], state ViewState, submitted search.Data, errs search.FieldErrors) (*Result[T], error) {
	if g.opts.form != nil {
		shown := state.SearchData
		if submitted != nil {
			shown = submitted
		}
		fields, err := g.opts.form.Build(ctx, shown, errs)
		if err != nil {
			return nil, errors.Wrap(err, "crudgrid: build search form")
		}
		result.SearchFields = fields
		result.SearchErrors = errs
	}

	g.schema.applyOrdering(g.builder, state)
	if g.opts.form != nil {
		if err := g.opts.form.Apply(g.builder, state.SearchData); err != nil {
			return nil, errors.Wrap(err, "crudgrid: apply search")
		}
	}

	if g.showResults(state) {
		started := time.Now()
		page, err := g.strategy.Paginate(ctx, g.builder, state.Page, state.PageSize)
		if err != nil {
			return nil, errors.Wrap(err, "crudgrid: paginate")
		}
		if page.Metadata.QueryTimeMs == 0 {
			page.Metadata.QueryTimeMs = time.Since(started).Milliseconds()
		}
		state.Page = page.Number
		result.Page = page
	}

	blob, err := g.schema.EncodeState(state)
	if err != nil {
		return nil, err
	}
	if err := g.opts.sessions.Save(ctx, g.schema.SessionKey(), blob); err != nil {
		return nil, errors.Wrap(err, "crudgrid: save session")
	}

	result.State = state
	result.Columns = g.displayed(state)
	result.AvailableColumns = g.schema.Columns()
	return result, nil
}

func (g *Grid[T]) showResults(state ViewState) bool {
	if g.strategy == nil {
		return false
	}
	return !g.schema.DisplayResultsOnlyIfSearch() || state.SearchSubmittedAndValid
}

func (g *Grid[T]) displayed(state ViewState) []Column {
	cols := make([]Column, 0, len(state.DisplayedColumns))
	for _, id := range state.DisplayedColumns {
		if c, ok := g.schema.Column(id); ok {
			cols = append(cols, c)
		}
	}
	return cols
}

// SelectedOptions returns the labelled selection of every search field, keyed
// by property. Fields without a selection are omitted.
func (r *Result[T]) SelectedOptions() map[string][]filter.Option {
	out := map[string][]filter.Option{}
	for _, f := range r.SearchFields {
		if len(f.Selected) > 0 {
			out[f.Property] = f.Selected
		}
	}
	return out
}

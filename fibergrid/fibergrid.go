// Package fibergrid serves grids from a Fiber application.
//
// Example usage:
//
//	store := session.New()
//	renderer, _ := render.New()
//
//	app.All("/users", fibergrid.Handler(store, renderer,
//	    func(c *fiber.Ctx, sessions crudgrid.SessionStore) (*crudgrid.Grid[*models.User], error) {
//	        return crudgrid.New(schema, sqlboiler.New(), pagination.Auto(fetcher),
//	            crudgrid.WithSessions(sessions),
//	            crudgrid.WithPreferences(prefs),
//	        )
//	    },
//	    fibergrid.WithUser(func(c *fiber.Ctx) string { return c.Locals("userId").(string) }),
//	))
package fibergrid

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/friendsofgo/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"go.uber.org/zap"

	"github.com/nrfta/crudgrid-go"
)

// Sessions stores grid state in a Fiber session. The caller saves the
// session.
type Sessions struct {
	session *session.Session
}

var _ crudgrid.SessionStore = Sessions{}

// NewSessions wraps sess.
func NewSessions(sess *session.Session) Sessions {
	return Sessions{session: sess}
}

// Load implements crudgrid.SessionStore.
func (s Sessions) Load(_ context.Context, key string) ([]byte, error) {
	switch v := s.session.Get(key).(type) {
	case nil:
		return nil, nil
	case string:
		return []byte(v), nil
	case []byte:
		return v, nil
	default:
		return nil, errors.Errorf("fibergrid: session key %s holds %T", key, v)
	}
}

// Save implements crudgrid.SessionStore.
func (s Sessions) Save(_ context.Context, key string, blob []byte) error {
	s.session.Set(key, string(blob))
	return nil
}

// UserFunc returns the id of the authenticated user, or "" when anonymous.
type UserFunc func(c *fiber.Ctx) string

// GridFunc builds the grid serving one request on top of sessions.
type GridFunc[T any] func(c *fiber.Ctx, sessions crudgrid.SessionStore) (*crudgrid.Grid[T], error)

// Option configures a Handler.
type Option func(*options)

type options struct {
	user   UserFunc
	logger *zap.Logger
}

// WithUser sets how the current user is found. By default the "userId"
// local is used.
func WithUser(f UserFunc) Option {
	return func(o *options) { o.user = f }
}

// WithLogger sets the handler logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

func localUser(c *fiber.Ctx) string {
	switch v := c.Locals("userId").(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// Handler processes the grid built by build and renders it.
func Handler[T any](store *session.Store, renderer crudgrid.Renderer, build GridFunc[T], opts ...Option) fiber.Handler {
	o := options{user: localUser, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()

		sess, err := store.Get(c)
		if err != nil {
			return o.fail(c, errors.Wrap(err, "fibergrid: load session"))
		}

		grid, err := build(c, NewSessions(sess))
		if err != nil {
			return o.fail(c, err)
		}

		req, err := RequestOf(c, o.user(c))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		result, err := grid.Process(ctx, req)
		if err != nil {
			return o.fail(c, err)
		}
		if err := sess.Save(); err != nil {
			return o.fail(c, errors.Wrap(err, "fibergrid: save session"))
		}

		resp, err := renderer.Render(ctx, result.View())
		if err != nil {
			return o.fail(c, err)
		}
		c.Set(fiber.HeaderContentType, resp.ContentType)
		return c.Send(resp.Body)
	}
}

func (o options) fail(c *fiber.Ctx, err error) error {
	o.logger.Error("grid request failed",
		zap.String("path", c.Path()),
		zap.Error(err),
	)
	return err
}

// RequestOf reads the grid request from c. The body is read as a form only
// for url-encoded requests.
func RequestOf(c *fiber.Ctx, userID string) (crudgrid.Request, error) {
	q, err := url.ParseQuery(string(c.Request().URI().QueryString()))
	if err != nil {
		return crudgrid.Request{}, errors.Wrap(err, "fibergrid: parse query")
	}

	form := url.Values{}
	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEApplicationForm) {
		if form, err = url.ParseQuery(string(c.Body())); err != nil {
			return crudgrid.Request{}, errors.Wrap(err, "fibergrid: parse form")
		}
	}

	return crudgrid.Request{
		Query:  q,
		Form:   form,
		UserID: userID,
		AJAX:   c.XHR(),
	}, nil
}

package filter

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/nrfta/crudgrid-go/query"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Text filters on a string column.
//
// By default the value may appear anywhere ("%value%"). MustBegin anchors it
// at the start, MustEnd at the end, both together require equality.
type Text struct {
	MustBegin bool `mapstructure:"mustBegin"`
	MustEnd   bool `mapstructure:"mustEnd"`

	// MinLength and MaxLength bound the submitted value, in characters.
	// Zero disables a bound.
	MinLength int `mapstructure:"minLength"`
	MaxLength int `mapstructure:"maxLength"`
}

func (t *Text) Validate() error {
	if t.MinLength < 0 {
		return optionError("text", "minLength", "must not be negative")
	}
	if t.MaxLength < 0 {
		return optionError("text", "maxLength", "must not be negative")
	}
	if t.MaxLength > 0 && t.MinLength > t.MaxLength {
		return optionError("text", "minLength", "greater than maxLength %d", t.MaxLength)
	}
	return nil
}

func (t *Text) Field(_ context.Context, f Field) (Field, error) {
	f.Widget = "text"
	if t.MaxLength > 0 {
		setAttr(&f, "maxlength", strconv.Itoa(t.MaxLength))
	}
	return f, nil
}

func (t *Text) Normalize(_ context.Context, raw []string) (any, []string, error) {
	s := strings.TrimSpace(first(raw))
	if s == "" {
		return nil, nil, nil
	}

	var problems []string
	n := utf8.RuneCountInString(s)
	if t.MinLength > 0 && n < t.MinLength {
		problems = append(problems, fmt.Sprintf("This value is too short. It should have %d characters or more.", t.MinLength))
	}
	if t.MaxLength > 0 && n > t.MaxLength {
		problems = append(problems, fmt.Sprintf("This value is too long. It should have %d characters or less.", t.MaxLength))
	}
	return s, problems, nil
}

// Apply adds "alias LIKE :p" with the value's wildcards escaped, or
// "alias = :p" when both anchors are set.
func (t *Text) Apply(q query.Builder, target Target, value any) {
	s, ok := scalarString(value)
	if !ok || s == "" {
		return
	}

	if t.MustBegin && t.MustEnd {
		q.Eq(target.Alias, target.param(""), s)
		return
	}

	pattern := likeEscaper.Replace(s)
	if !t.MustBegin {
		pattern = "%" + pattern
	}
	if !t.MustEnd {
		pattern += "%"
	}
	q.Like(target.Alias, target.param(""), pattern)
}

func (t *Text) Supports(query.Kind) bool { return true }

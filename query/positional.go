package query

import (
	"strings"

	"github.com/aarondl/strmangle"
	"github.com/friendsofgo/errors"
)

// Positional rewrites a clause with named ":param" placeholders into "?"
// placeholders and the matching argument list. Slice parameters (as bound by
// In) expand into one placeholder per element.
//
// Postgres casts ("::text") and quoted literals are left untouched.
//
// Example:
//
//	Positional("a = :x AND b IN (:ids)", map[string]any{"x": 1, "ids": []any{2, 3}})
//	→ "a = ? AND b IN (?,?)", []any{1, 2, 3}
func Positional(clause string, params map[string]any) (string, []any, error) {
	var (
		b     strings.Builder
		args  []any
		quote byte
	)

	for i := 0; i < len(clause); i++ {
		c := clause[i]

		if quote != 0 {
			b.WriteByte(c)
			if c == quote {
				quote = 0
			}
			continue
		}

		switch {
		case c == '\'' || c == '"':
			quote = c
			b.WriteByte(c)
		case c == ':' && i+1 < len(clause) && clause[i+1] == ':':
			b.WriteString("::")
			i++
		case c == ':' && i+1 < len(clause) && isParamChar(clause[i+1]):
			j := i + 1
			for j < len(clause) && isParamChar(clause[j]) {
				j++
			}
			name := clause[i+1 : j]
			value, ok := params[name]
			if !ok {
				return "", nil, errors.Errorf("query: no value bound for parameter %q", name)
			}
			if values, isList := value.([]any); isList {
				if len(values) == 0 {
					return "", nil, errors.Errorf("query: empty list bound for parameter %q", name)
				}
				b.WriteString(strmangle.Placeholders(false, len(values), 1, 1))
				args = append(args, values...)
			} else {
				b.WriteByte('?')
				args = append(args, value)
			}
			i = j - 1
		default:
			b.WriteByte(c)
		}
	}

	return b.String(), args, nil
}

func isParamChar(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

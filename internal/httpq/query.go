// Package httpq parses the query strings of the model endpoints and writes
// their JSON responses.
package httpq

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/LucasCostaLobato/auditory-system-api/internal/calcerr"
)

// Query reads typed values from a URL query. The first parse failure is
// kept and reported by Err; later reads return zero values.
type Query struct {
	v   url.Values
	err error
}

func New(r *http.Request) *Query {
	return &Query{v: r.URL.Query()}
}

func (q *Query) Err() error { return q.err }

func (q *Query) fail(name, format string, args ...any) {
	if q.err == nil {
		q.err = fmt.Errorf("%w: %s: %s", calcerr.ErrInvalidQuery, name, fmt.Sprintf(format, args...))
	}
}

func (q *Query) raw(name string) (string, bool) {
	s := strings.TrimSpace(q.v.Get(name))
	return s, s != ""
}

// Float reads a required float.
func (q *Query) Float(name string) float64 {
	s, ok := q.raw(name)
	if !ok {
		q.fail(name, "required")
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		q.fail(name, "not a number: %q", s)
	}
	return v
}

func (q *Query) FloatOr(name string, def float64) float64 {
	if _, ok := q.raw(name); !ok {
		return def
	}
	return q.Float(name)
}

// Int reads a required integer.
func (q *Query) Int(name string) int {
	s, ok := q.raw(name)
	if !ok {
		q.fail(name, "required")
		return 0
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		q.fail(name, "not an integer: %q", s)
	}
	return v
}

func (q *Query) String(name, def string) string {
	if s, ok := q.raw(name); ok {
		return s
	}
	return def
}

func (q *Query) Bool(name string, def bool) bool {
	s, ok := q.raw(name)
	if !ok {
		return def
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		q.fail(name, "not a boolean: %q", s)
	}
	return v
}

// MaxListLen bounds the number of values in one list parameter.
const MaxListLen = 256

// Strings reads a required list given as repeated keys, comma separated
// values, or both. At most MaxListLen values are accepted.
func (q *Query) Strings(name string) []string {
	var out []string
	for _, s := range q.v[name] {
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part == "" {
				continue
			}
			if len(out) == MaxListLen {
				q.fail(name, "more than %d values", MaxListLen)
				return nil
			}
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		q.fail(name, "required")
	}
	return out
}

// Floats reads a required list of floats. The raw strings are returned as
// well since responses are keyed by them.
func (q *Query) Floats(name string) ([]string, []float64) {
	raw := q.Strings(name)
	vals := make([]float64, len(raw))
	for i, s := range raw {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			q.fail(name, "not a number: %q", s)
			return nil, nil
		}
		vals[i] = v
	}
	return raw, vals
}

// StringsOr is Strings with a default for an absent list.
func (q *Query) StringsOr(name string, def []string) []string {
	if len(q.v[name]) == 0 {
		return def
	}
	return q.Strings(name)
}

package model1

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Velocidex/ordereddict"
)

// Filterer keeps the rows matching a predicate map, preserving their
// relative order. A custom Filterer replaces the default matcher entirely.
type Filterer interface {
	Filter(rows Rows, preds PredicateMap) Rows
}

// FilterFunc adapts a function to a Filterer.
type FilterFunc func(rows Rows, preds PredicateMap) Rows

// Filter implements Filterer.
func (f FilterFunc) Filter(rows Rows, preds PredicateMap) Rows {
	return f(rows, preds)
}

// matcher reports whether a field value satisfies a search text.
type matcher func(value interface{}) bool

// SubstringFilter is the default matcher: every non empty predicate must be
// contained, case insensitively, in its field. The global predicate matches
// any field, nested records included.
type SubstringFilter struct{}

// Filter implements Filterer.
func (SubstringFilter) Filter(rows Rows, preds PredicateMap) Rows {
	return filterRows(rows, preds, func(text string) matcher {
		needle := strings.ToLower(text)
		return func(v interface{}) bool {
			return strings.Contains(strings.ToLower(ToString(v)), needle)
		}
	})
}

// RegexFilter treats each predicate as a case insensitive regular
// expression. Invalid expressions match literally.
type RegexFilter struct{}

// Filter implements Filterer.
func (RegexFilter) Filter(rows Rows, preds PredicateMap) Rows {
	return filterRows(rows, preds, func(text string) matcher {
		rx, err := regexp.Compile("(?i)" + text)
		if err != nil {
			rx = regexp.MustCompile("(?i)" + regexp.QuoteMeta(text))
		}
		return func(v interface{}) bool {
			return rx.MatchString(ToString(v))
		}
	})
}

// FiltererByName returns a built-in matcher. An empty name yields the default.
func FiltererByName(name string) (Filterer, error) {
	switch strings.ToLower(name) {
	case "", "substring":
		return SubstringFilter{}, nil
	case "regex":
		return RegexFilter{}, nil
	default:
		return nil, fmt.Errorf("unknown filter algorithm %q", name)
	}
}

func filterRows(rows Rows, preds PredicateMap, compile func(string) matcher) Rows {
	type clause struct {
		path  string
		match matcher
	}
	clauses := make([]clause, 0, len(preds))
	for path, text := range preds {
		if text == "" {
			continue
		}
		clauses = append(clauses, clause{path: path, match: compile(text)})
	}

	out := make(Rows, 0, len(rows))
	for _, r := range rows {
		keep := true
		for _, c := range clauses {
			if c.path == GlobalPredicate {
				keep = anyField(r.Fields, c.match)
			} else {
				v, ok := r.Get(c.path)
				keep = ok && c.match(v)
			}
			if !keep {
				break
			}
		}
		if keep {
			out = append(out, r)
		}
	}
	return out
}

func anyField(v interface{}, m matcher) bool {
	switch t := v.(type) {
	case *ordereddict.Dict:
		if t == nil {
			return false
		}
		for _, k := range t.Keys() {
			if k != "" && k[0] == ReservedMarker {
				continue
			}
			fv, _ := t.Get(k)
			if anyField(fv, m) {
				return true
			}
		}
		return false
	case map[string]interface{}:
		for _, fv := range t {
			if anyField(fv, m) {
				return true
			}
		}
		return false
	case []interface{}:
		for _, fv := range t {
			if anyField(fv, m) {
				return true
			}
		}
		return false
	case nil:
		return false
	default:
		return m(t)
	}
}

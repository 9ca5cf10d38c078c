// Package query implements an ordered URI query string with
// dictionary-like access, built on the multimap container.
//
// A query will happily hold more than one value per key; the plain
// accessors return the first of those values, but the order of every
// pair - duplicates included - is maintained precisely, and survives a
// round trip through String and ParseQuery.
//
// Note that by default "+" is NOT treated as a space: it stays a "+",
// and spaces must be percent-encoded to be picked up. The form
// dialect, which does decode "+", is selected with WithPlusAsSpace.
package query

import (
	"github.com/mikeboers/multimap"
)

// Query is an ordered, multi-valued set of URI query parameters. The
// embedded multimap supplies the full container API; keys are plain
// strings and values carry the present-without-value distinction via
// Value.
type Query struct {
	*multimap.MultiMap[string, Value]

	options []Option
}

// New creates an empty Query. options select the codec dialect used
// by String.
func New(options ...Option) *Query {
	return &Query{
		MultiMap: multimap.New[string, Value](),
		options:  options,
	}
}

// ParseQuery decodes a query string. The resulting Query remembers
// the dialect options and reuses them when rendered back with String.
func ParseQuery(s string, options ...Option) (*Query, error) {
	pairs, err := Parse(s, options...)
	if err != nil {
		return nil, err
	}
	q := New(options...)
	q.Extend(pairs...)
	return q, nil
}

// FromPairs creates a Query holding the given parameters, in order,
// duplicates included.
func FromPairs(pairs []Pair, options ...Option) *Query {
	q := New(options...)
	q.Extend(pairs...)
	return q
}

// String renders the query back into its encoded wire form.
func (q *Query) String() string {
	return Unparse(q.AllItems(), q.options...)
}

// GetString returns the first value for the given key as a plain
// string. Absent keys and value-less parameters both come back as "";
// use Get to tell them apart.
func (q *Query) GetString(key string) string {
	value, _ := q.Get(key)
	return value.String
}

// GetAllStrings returns every value for the given key as plain
// strings, in order.
func (q *Query) GetAllStrings(key string) []string {
	values := q.GetAll(key)
	out := make([]string, len(values))
	for i, value := range values {
		out[i] = value.String
	}
	return out
}

// SetString associates the key with a single string value, collapsing
// any existing occurrences.
func (q *Query) SetString(key, value string) {
	q.Set(key, String(value))
}

// SetStrings associates the key with one pair per given string,
// collapsing any existing occurrences first.
func (q *Query) SetStrings(key string, values []string) {
	wrapped := make([]Value, len(values))
	for i, value := range values {
		wrapped[i] = String(value)
	}
	q.SetList(key, wrapped)
}

// Copy returns a new, independent Query holding the same parameters.
func (q *Query) Copy() *Query {
	return &Query{
		MultiMap: q.MultiMap.Copy(),
		options:  q.options,
	}
}

package query

import (
	"net/url"
	"strings"

	"github.com/pkg/errors"

	"github.com/mikeboers/multimap"
)

// Pair is a single decoded query parameter.
type Pair = multimap.Pair[string, Value]

// Value is a query parameter value. Valid distinguishes a parameter
// that is present without a value ("key") from one carrying an empty
// value ("key="): the former decodes with Valid false.
type Value struct {
	String string
	Valid  bool
}

// String wraps a plain string into a valid Value.
func String(s string) Value {
	return Value{String: s, Valid: true}
}

// NoValue is the sentinel for a parameter present without a value. It
// is the zero Value.
var NoValue = Value{}

// Option configures the codec dialect.
type Option func(*config)

type config struct {
	plusAsSpace bool
}

// WithPlusAsSpace selects the form-encoding dialect that decodes "+"
// as a space (and encodes spaces as "+"). The default dialect leaves
// "+" alone; spaces must be percent-encoded to be picked up.
func WithPlusAsSpace() Option {
	return func(c *config) {
		c.plusAsSpace = true
	}
}

func newConfig(options []Option) config {
	var c config
	for _, option := range options {
		option(&c)
	}
	return c
}

// Parse decodes a query string into its ordered parameter list.
// Parameters are split on "&" and each one on its first "=" only, so
// later equals signs stay part of the value. Both sides are
// percent-decoded.
func Parse(s string, options ...Option) ([]Pair, error) {
	if s == "" {
		return nil, nil
	}
	cfg := newConfig(options)

	segments := strings.Split(s, "&")
	pairs := make([]Pair, 0, len(segments))
	for _, segment := range segments {
		rawKey, rawValue, hasValue := strings.Cut(segment, "=")

		key, err := decode(rawKey, cfg)
		if err != nil {
			return nil, errors.Wrapf(err, "decoding key %q", rawKey)
		}
		var value Value
		if hasValue {
			decoded, err := decode(rawValue, cfg)
			if err != nil {
				return nil, errors.Wrapf(err, "decoding value %q", rawValue)
			}
			value = Value{String: decoded, Valid: true}
		}

		pairs = append(pairs, Pair{Key: key, Value: value})
	}
	return pairs, nil
}

// Unparse encodes an ordered parameter list back into a query string.
// A parameter without a value renders as its bare key, with no "=".
// Unparse(Parse(s)) is semantically equivalent to s, and Parse
// round-trips Unparse exactly.
func Unparse(pairs []Pair, options ...Option) string {
	cfg := newConfig(options)

	var b strings.Builder
	for i, pair := range pairs {
		if i != 0 {
			b.WriteByte('&')
		}
		b.WriteString(encode(pair.Key, keySafe, cfg))
		if pair.Value.Valid {
			b.WriteByte('=')
			b.WriteString(encode(pair.Value.String, valueSafe, cfg))
		}
	}
	return b.String()
}

func decode(s string, cfg config) (string, error) {
	if cfg.plusAsSpace {
		return url.QueryUnescape(s)
	}
	return url.PathUnescape(s)
}

// Characters allowed through unencoded beyond the RFC 3986 unreserved
// set. Values additionally keep "=" literal; that is unambiguous
// because Parse only splits on the first one.
const (
	keySafe   = "/"
	valueSafe = "/="
)

const upperhex = "0123456789ABCDEF"

func shouldEscape(c byte, safe string) bool {
	if 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9' {
		return false
	}
	switch c {
	case '-', '_', '.', '~':
		return false
	}
	return strings.IndexByte(safe, c) < 0
}

func encode(s, safe string, cfg config) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case cfg.plusAsSpace && c == ' ':
			b.WriteByte('+')
		case shouldEscape(c, safe):
			b.WriteByte('%')
			b.WriteByte(upperhex[c>>4])
			b.WriteByte(upperhex[c&0xf])
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

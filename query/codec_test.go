package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	t.Run("key with value", func(t *testing.T) {
		pairs, err := Parse("key=value")
		assert.NoError(t, err)
		assert.Equal(t, []Pair{{Key: "key", Value: String("value")}}, pairs)
	})

	t.Run("key with empty value", func(t *testing.T) {
		pairs, err := Parse("key=")
		assert.NoError(t, err)
		assert.Equal(t, []Pair{{Key: "key", Value: String("")}}, pairs)
	})

	t.Run("key without value", func(t *testing.T) {
		// no "=" at all is absence, not emptiness
		pairs, err := Parse("key")
		assert.NoError(t, err)
		assert.Equal(t, []Pair{{Key: "key", Value: NoValue}}, pairs)
		assert.False(t, pairs[0].Value.Valid)
	})

	t.Run("empty query", func(t *testing.T) {
		pairs, err := Parse("")
		assert.NoError(t, err)
		assert.Empty(t, pairs)
	})

	t.Run("order and duplicates are preserved", func(t *testing.T) {
		pairs, err := Parse("a=1&b=2&a=3")
		assert.NoError(t, err)
		assert.Equal(t, []Pair{
			{Key: "a", Value: String("1")},
			{Key: "b", Value: String("2")},
			{Key: "a", Value: String("3")},
		}, pairs)
	})

	t.Run("only the first equals sign splits", func(t *testing.T) {
		pairs, err := Parse("key=value/with/slashes.and.dots=and=equals")
		assert.NoError(t, err)
		assert.Equal(t, []Pair{{Key: "key", Value: String("value/with/slashes.and.dots=and=equals")}}, pairs)
	})

	t.Run("percent decoding", func(t *testing.T) {
		pairs, err := Parse("na%20me=val%26ue")
		assert.NoError(t, err)
		assert.Equal(t, []Pair{{Key: "na me", Value: String("val&ue")}}, pairs)
	})

	t.Run("plus stays a plus by default", func(t *testing.T) {
		pairs, err := Parse("a=b+c")
		assert.NoError(t, err)
		assert.Equal(t, String("b+c"), pairs[0].Value)
	})

	t.Run("plus decodes as space in the form dialect", func(t *testing.T) {
		pairs, err := Parse("a=b+c", WithPlusAsSpace())
		assert.NoError(t, err)
		assert.Equal(t, String("b c"), pairs[0].Value)
	})

	t.Run("invalid percent escape", func(t *testing.T) {
		_, err := Parse("a=%zz")
		assert.Error(t, err)
		_, err = Parse("%zz=a")
		assert.Error(t, err)
	})
}

func TestUnparse(t *testing.T) {
	t.Run("valueless pairs render as bare keys", func(t *testing.T) {
		s := Unparse([]Pair{
			{Key: "key", Value: NoValue},
			{Key: "a", Value: NoValue},
		})
		assert.Equal(t, "key&a", s)
	})

	t.Run("empty values keep their equals sign", func(t *testing.T) {
		assert.Equal(t, "key=", Unparse([]Pair{{Key: "key", Value: String("")}}))
	})

	t.Run("slashes and value equals signs stay literal", func(t *testing.T) {
		s := Unparse([]Pair{{Key: "key", Value: String("value/with/slashes.and.dots=and=equals")}})
		assert.Equal(t, "key=value/with/slashes.and.dots=and=equals", s)
	})

	t.Run("reserved characters are escaped", func(t *testing.T) {
		s := Unparse([]Pair{{Key: "na me", Value: String("val&ue")}})
		assert.Equal(t, "na%20me=val%26ue", s)

		// "=" is only safe in values, never in keys
		assert.Equal(t, "a%3Db=c", Unparse([]Pair{{Key: "a=b", Value: String("c")}}))
	})

	t.Run("form dialect encodes spaces as plus", func(t *testing.T) {
		s := Unparse([]Pair{{Key: "a", Value: String("b c+d")}}, WithPlusAsSpace())
		assert.Equal(t, "a=b+c%2Bd", s)
	})
}

func TestRoundTrips(t *testing.T) {
	t.Run("parse then unparse", func(t *testing.T) {
		for _, s := range []string{
			"key=value",
			"key=",
			"key",
			"a=1&b=2&a=3",
			"key=value/with/slashes.and.dots=and=equals",
			"na%20me=val%26ue",
			"a&b=&c=x",
		} {
			pairs, err := Parse(s)
			assert.NoError(t, err)
			assert.Equal(t, s, Unparse(pairs), "canonically encoded input should round-trip byte for byte: %q", s)
		}
	})

	t.Run("unparse then parse", func(t *testing.T) {
		for _, pairs := range [][]Pair{
			{{Key: "key", Value: NoValue}},
			{{Key: "key", Value: String("")}},
			{{Key: "a&b", Value: String("c=d&e")}},
			{{Key: "sp ace", Value: String("+plus")}, {Key: "sp ace", Value: NoValue}},
			{{Key: "uni", Value: String("héllo wörld")}},
		} {
			decoded, err := Parse(Unparse(pairs))
			assert.NoError(t, err)
			assert.Equal(t, pairs, decoded)

			decoded, err = Parse(Unparse(pairs, WithPlusAsSpace()), WithPlusAsSpace())
			assert.NoError(t, err)
			assert.Equal(t, pairs, decoded)
		}
	})
}

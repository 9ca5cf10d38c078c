package multimap

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMarshalJSON(t *testing.T) {
	t.Run("int keys", func(t *testing.T) {
		m := New[int, any]()
		m.Set(1, "bar")
		m.Set(7, "baz")
		m.Set(2, 28)
		m.Set(3, 100)
		m.Set(4, "baz")
		m.Set(5, "28")
		m.Set(6, "100")
		m.Set(8, "baz")

		b, err := json.Marshal(m)
		assert.NoError(t, err)
		assert.Equal(t, `{"1":"bar","7":"baz","2":28,"3":100,"4":"baz","5":"28","6":"100","8":"baz"}`, string(b))
	})

	t.Run("string keys with duplicates", func(t *testing.T) {
		m := New[string, int]()
		m.Append(Pair[string, int]{"a", 1})
		m.Append(Pair[string, int]{"b", 2})
		m.Append(Pair[string, int]{"a", 3})

		b, err := json.Marshal(m)
		assert.NoError(t, err)
		assert.Equal(t, `{"a":1,"b":2,"a":3}`, string(b))
	})

	t.Run("empty map", func(t *testing.T) {
		m := New[string, any]()

		b, err := json.Marshal(m)
		assert.NoError(t, err)
		assert.Equal(t, `{}`, string(b))
	})

	t.Run("nil map", func(t *testing.T) {
		var m *MultiMap[string, any]

		b, err := json.Marshal(m)
		assert.NoError(t, err)
		assert.Equal(t, `null`, string(b))
	})

	t.Run("unsupported key type", func(t *testing.T) {
		m := New[float64, any]()
		m.Set(1.5, "a")

		_, err := json.Marshal(m)
		assert.Error(t, err)
	})
}

func TestUnmarshalJSON(t *testing.T) {
	t.Run("duplicate members survive", func(t *testing.T) {
		m := New[string, int]()
		err := json.Unmarshal([]byte(`{"a":1,"b":2,"a":3}`), m)
		assert.NoError(t, err)

		assertOrderedPairsEqual(t, m, []string{"a", "b", "a"}, []int{1, 2, 3})
		assertIndexIntegrity(t, m)
	})

	t.Run("string values with escapes", func(t *testing.T) {
		m := New[string, string]()
		err := json.Unmarshal([]byte(`{"key":"a \"quoted\" value"}`), m)
		assert.NoError(t, err)
		assert.Equal(t, `a "quoted" value`, m.Value("key"))
	})

	t.Run("int keys", func(t *testing.T) {
		m := New[int, string]()
		err := json.Unmarshal([]byte(`{"28":"foo","12":"bar"}`), m)
		assert.NoError(t, err)
		assertOrderedPairsEqual(t, m, []int{28, 12}, []string{"foo", "bar"})
	})

	t.Run("nested values", func(t *testing.T) {
		m := New[string, any]()
		err := json.Unmarshal([]byte(`{"a":{"nested":[1,2]},"b":null}`), m)
		assert.NoError(t, err)
		assert.Equal(t, map[string]any{"nested": []any{1.0, 2.0}}, m.Value("a"))
		assert.Nil(t, m.Value("b"))
	})

	t.Run("round trip", func(t *testing.T) {
		doc := `{"a":1,"b":2,"a":3}`

		m := New[string, int]()
		assert.NoError(t, json.Unmarshal([]byte(doc), m))
		b, err := json.Marshal(m)
		assert.NoError(t, err)
		assert.Equal(t, doc, string(b))
	})
}

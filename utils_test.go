package multimap

import (
	"crypto/rand"
	"encoding/hex"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func assertOrderedPairsEqual[K comparable, V any](t *testing.T, m *MultiMap[K, V], expectedKeys []K, expectedValues []V) {
	t.Helper()

	assert.Equal(t, expectedKeys, m.AllKeys())
	assert.Equal(t, expectedValues, m.AllValues())
}

func assertLenEqual[K comparable, V any](t *testing.T, m *MultiMap[K, V], distinct, total int) {
	t.Helper()

	assert.Equal(t, distinct, m.Len())
	assert.Equal(t, total, m.AllLen())
}

// assertIndexIntegrity rescans the pair sequence from scratch and
// checks that the position index matches it exactly, positions
// ascending, with no entry for absent keys.
func assertIndexIntegrity[K comparable, V any](t *testing.T, m *MultiMap[K, V]) {
	t.Helper()

	expected := make(map[K][]int, len(m.index))
	for i, pair := range m.pairs {
		expected[pair.Key] = append(expected[pair.Key], i)
	}
	assert.Equal(t, len(expected), len(m.index))
	for key, positions := range expected {
		assert.Equal(t, positions, m.index[key], "positions for key %v", key)
		assert.True(t, sort.IntsAreSorted(m.index[key]))
	}
}

func randomHexString(t *testing.T, length int) string {
	t.Helper()

	b := make([]byte, length/2)
	_, err := rand.Read(b)
	assert.NoError(t, err)

	return hex.EncodeToString(b)
}

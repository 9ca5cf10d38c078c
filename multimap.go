// Package multimap implements an ordered mapping that allows multiple
// values per key.
//
// The API tends towards being a drop-in replacement for a normal map:
// the plain accessors return only the first occurrence of a key, and
// Len reports the number of distinct keys rather than the number of
// pairs stored. Most of them have an "All"-prefixed sibling that works
// on every stored pair instead, so duplicate keys come back out in
// exactly the order they went in. A handful of list operations
// (Insert, Extend, PopAt, Sort, ...) mutate the underlying pair
// sequence directly.
//
// A MultiMap is not safe for concurrent use; callers that share one
// across goroutines must provide their own locking. Mutating a map
// while ranging over one of its iterators is likewise the caller's
// responsibility to avoid.
package multimap

import (
	"iter"
	"sort"
)

// Pair is a single key/value entry of a MultiMap.
type Pair[K comparable, V any] struct {
	Key   K
	Value V
}

// MultiMap is an ordered mapping which supports multiple values for
// the same key. The ordered pair sequence is the source of truth; a
// derived key-to-positions index keeps lookups cheap.
type MultiMap[K comparable, V any] struct {
	pairs []Pair[K, V]
	index map[K][]int

	conformKey   func(K) K
	conformValue func(V) V
}

type initConfig[K comparable, V any] struct {
	capacity     int
	initialData  []Pair[K, V]
	conformKey   func(K) K
	conformValue func(V) V
}

// InitOption is an option for the New constructor.
type InitOption[K comparable, V any] func(config *initConfig[K, V])

// WithCapacity allows giving a capacity hint for the map, akin to the
// standard make(map[K]V, capacity).
func WithCapacity[K comparable, V any](capacity int) InitOption[K, V] {
	return func(c *initConfig[K, V]) {
		c.capacity = capacity
	}
}

// WithInitialData allows passing in initial data for the map.
func WithInitialData[K comparable, V any](initialData ...Pair[K, V]) InitOption[K, V] {
	return func(c *initConfig[K, V]) {
		c.initialData = initialData
		if c.capacity < len(initialData) {
			c.capacity = len(initialData)
		}
	}
}

// WithKeyConformer installs a normalization function applied to every
// key before it is stored or looked up, e.g. strings.ToLower for a
// case-insensitive map.
func WithKeyConformer[K comparable, V any](conform func(K) K) InitOption[K, V] {
	return func(c *initConfig[K, V]) {
		c.conformKey = conform
	}
}

// WithValueConformer installs a normalization function applied to
// every value before it is stored.
func WithValueConformer[K comparable, V any](conform func(V) V) InitOption[K, V] {
	return func(c *initConfig[K, V]) {
		c.conformValue = conform
	}
}

const invalidOptionMessage = `when using New, the options must be one of: an integer or WithCapacity for the capacity, WithInitialData, WithKeyConformer or WithValueConformer`

// New creates a new MultiMap.
// options can either be one or several InitOption, or a single integer
// which is then interpreted as a capacity hint, à la make(map[K]V, capacity).
func New[K comparable, V any](options ...any) *MultiMap[K, V] {
	config := initConfig[K, V]{}

	for _, untyped := range options {
		switch option := untyped.(type) {
		case int:
			if len(options) != 1 {
				invalidOption()
			}
			config.capacity = option

		case InitOption[K, V]:
			option(&config)

		default:
			invalidOption()
		}
	}

	capacity := config.capacity
	if capacity < 0 {
		capacity = 0
	}
	m := &MultiMap[K, V]{
		pairs:        make([]Pair[K, V], 0, capacity),
		index:        make(map[K][]int, capacity),
		conformKey:   config.conformKey,
		conformValue: config.conformValue,
	}
	m.Extend(config.initialData...)

	return m
}

func invalidOption() { panic(invalidOptionMessage) }

// From creates a new MultiMap from an iterator over key/value pairs.
// Every pair is appended, so an iterator that repeats a key yields a
// map with duplicates.
func From[K comparable, V any](i iter.Seq2[K, V]) *MultiMap[K, V] {
	m := New[K, V]()
	for k, v := range i {
		m.Append(Pair[K, V]{Key: k, Value: v})
	}
	return m
}

// FromPairs creates a new MultiMap holding the given pairs, in order,
// duplicates included.
func FromPairs[K comparable, V any](pairs []Pair[K, V]) *MultiMap[K, V] {
	return New[K, V](WithInitialData(pairs...))
}

func (m *MultiMap[K, V]) key(key K) K {
	if m.conformKey != nil {
		key = m.conformKey(key)
	}
	return key
}

func (m *MultiMap[K, V]) conformPair(pair Pair[K, V]) Pair[K, V] {
	if m.conformKey != nil {
		pair.Key = m.conformKey(pair.Key)
	}
	if m.conformValue != nil {
		pair.Value = m.conformValue(pair.Value)
	}
	return pair
}

// The three primitives below are the only places that splice the pair
// sequence; everything else is expressed through them.

// appendPair pushes an already-conformed pair onto the end of the
// sequence and records its position.
func (m *MultiMap[K, V]) appendPair(pair Pair[K, V]) {
	if m.index == nil {
		m.index = make(map[K][]int)
	}
	m.pairs = append(m.pairs, pair)
	m.index[pair.Key] = append(m.index[pair.Key], len(m.pairs)-1)
}

// removeAt splices the pairs at the given positions out of the
// sequence, highest first so the lower targets keep their meaning, and
// then shifts the surviving index entries down. The removed positions
// must already be gone from the index.
func (m *MultiMap[K, V]) removeAt(positions []int) {
	if len(positions) == 0 {
		return
	}
	positions = ascending(positions)
	for i := len(positions) - 1; i >= 0; i-- {
		p := positions[i]
		m.pairs = append(m.pairs[:p], m.pairs[p+1:]...)
	}
	shiftForRemove(m.index, positions)
}

// insertAt splices an already-conformed pair into the sequence at the
// given position. The existing index entries are shifted before the
// new position is recorded, otherwise they would be off by one.
func (m *MultiMap[K, V]) insertAt(position int, pair Pair[K, V]) {
	if m.index == nil {
		m.index = make(map[K][]int)
	}
	shiftForInsert(m.index, []int{position})

	m.pairs = append(m.pairs, Pair[K, V]{})
	copy(m.pairs[position+1:], m.pairs[position:])
	m.pairs[position] = pair

	positions := m.index[pair.Key]
	at := sort.SearchInts(positions, position)
	positions = append(positions, 0)
	copy(positions[at+1:], positions[at:])
	positions[at] = position
	m.index[pair.Key] = positions
}

func (m *MultiMap[K, V]) rebuildIndex() {
	clear(m.index)
	for i, pair := range m.pairs {
		m.index[pair.Key] = append(m.index[pair.Key], i)
	}
}

// Get looks for the given key, and returns the value associated with
// the first occurrence of that key. The boolean it returns says
// whether at least one occurrence is present in the map.
func (m *MultiMap[K, V]) Get(key K) (val V, present bool) {
	if m == nil {
		return
	}
	if positions := m.index[m.key(key)]; len(positions) != 0 {
		return m.pairs[positions[0]].Value, true
	}
	return
}

// GetOrErr is Get with the absence of the key reported as a
// *KeyNotFoundError instead of a boolean.
func (m *MultiMap[K, V]) GetOrErr(key K) (V, error) {
	value, present := m.Get(key)
	if !present {
		return value, &KeyNotFoundError[K]{key}
	}
	return value, nil
}

// Value returns the value associated with the first occurrence of the
// given key, or the zero value if the key is absent.
func (m *MultiMap[K, V]) Value(key K) (val V) {
	val, _ = m.Get(key)
	return
}

// GetAll returns every value stored for the given key, in sequence
// order. An absent key yields an empty slice, not an error.
func (m *MultiMap[K, V]) GetAll(key K) []V {
	if m == nil {
		return nil
	}
	positions := m.index[m.key(key)]
	values := make([]V, len(positions))
	for i, p := range positions {
		values[i] = m.pairs[p].Value
	}
	return values
}

// Has checks whether at least one occurrence of the given key is
// present in the map.
func (m *MultiMap[K, V]) Has(key K) bool {
	if m == nil {
		return false
	}
	return len(m.index[m.key(key)]) != 0
}

// Len returns the number of distinct keys in the map. See AllLen for
// the total number of stored pairs.
func (m *MultiMap[K, V]) Len() int {
	if m == nil {
		return 0
	}
	return len(m.index)
}

// AllLen returns the total number of pairs in the map, duplicate keys
// included.
func (m *MultiMap[K, V]) AllLen() int {
	if m == nil {
		return 0
	}
	return len(m.pairs)
}

// Iter returns an iterator over the map's distinct keys, each paired
// with the value of its first occurrence, in first-occurrence order.
func (m *MultiMap[K, V]) Iter() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		if m == nil {
			return
		}
		for i, pair := range m.pairs {
			if m.index[pair.Key][0] != i {
				continue
			}
			if !yield(pair.Key, pair.Value) {
				return
			}
		}
	}
}

// IterAll returns an iterator over every stored pair, duplicates
// included, in sequence order.
func (m *MultiMap[K, V]) IterAll() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		if m == nil {
			return
		}
		for _, pair := range m.pairs {
			if !yield(pair.Key, pair.Value) {
				return
			}
		}
	}
}

// Keys returns the distinct keys of the map, in first-occurrence
// order.
func (m *MultiMap[K, V]) Keys() []K {
	keys := make([]K, 0, m.Len())
	for key := range m.Iter() {
		keys = append(keys, key)
	}
	return keys
}

// Values returns the first value of each distinct key, in
// first-occurrence order.
func (m *MultiMap[K, V]) Values() []V {
	values := make([]V, 0, m.Len())
	for _, value := range m.Iter() {
		values = append(values, value)
	}
	return values
}

// Items returns one pair per distinct key, each holding the value of
// the key's first occurrence, in first-occurrence order.
func (m *MultiMap[K, V]) Items() []Pair[K, V] {
	items := make([]Pair[K, V], 0, m.Len())
	for key, value := range m.Iter() {
		items = append(items, Pair[K, V]{Key: key, Value: value})
	}
	return items
}

// AllKeys returns the key of every stored pair, duplicates included,
// in sequence order.
func (m *MultiMap[K, V]) AllKeys() []K {
	keys := make([]K, m.AllLen())
	for i, pair := range m.pairs {
		keys[i] = pair.Key
	}
	return keys
}

// AllValues returns the value of every stored pair, in sequence order.
func (m *MultiMap[K, V]) AllValues() []V {
	values := make([]V, m.AllLen())
	for i, pair := range m.pairs {
		values[i] = pair.Value
	}
	return values
}

// AllItems returns a copy of the pair sequence.
func (m *MultiMap[K, V]) AllItems() []Pair[K, V] {
	return append([]Pair[K, V](nil), m.pairs...)
}

// Set associates the key with a single value: every existing
// occurrence of the key is removed, then one new pair is appended at
// the end of the sequence. Setting a key therefore always collapses
// prior duplicates down to exactly one entry, in last position.
func (m *MultiMap[K, V]) Set(key K, value V) {
	pair := m.conformPair(Pair[K, V]{Key: key, Value: value})
	m.discard(pair.Key)
	m.appendPair(pair)
}

// SetList removes every existing occurrence of the key, then appends
// one pair per given value, in order, at the end of the sequence.
func (m *MultiMap[K, V]) SetList(key K, values []V) {
	key = m.key(key)
	m.discard(key)
	for _, value := range values {
		if m.conformValue != nil {
			value = m.conformValue(value)
		}
		m.appendPair(Pair[K, V]{Key: key, Value: value})
	}
}

// discard removes every occurrence of an already-conformed key,
// reporting whether there was any.
func (m *MultiMap[K, V]) discard(key K) bool {
	positions := m.index[key]
	if len(positions) == 0 {
		return false
	}
	delete(m.index, key)
	m.removeAt(positions)
	return true
}

// Delete removes every occurrence of the given key. It returns a
// *KeyNotFoundError if the key is absent; use Discard when absence is
// not an error.
func (m *MultiMap[K, V]) Delete(key K) error {
	if !m.discard(m.key(key)) {
		return &KeyNotFoundError[K]{key}
	}
	return nil
}

// Discard removes every occurrence of the given key, reporting whether
// there was any. Unlike Delete, discarding an absent key is not an
// error.
func (m *MultiMap[K, V]) Discard(key K) bool {
	return m.discard(m.key(key))
}

// Append adds a single pair at the end of the sequence. Existing
// occurrences of the same key are left alone, so appending is how
// duplicates are made.
func (m *MultiMap[K, V]) Append(pair Pair[K, V]) {
	m.appendPair(m.conformPair(pair))
}

// Extend appends the given pairs, in order.
func (m *MultiMap[K, V]) Extend(pairs ...Pair[K, V]) {
	for _, pair := range pairs {
		m.appendPair(m.conformPair(pair))
	}
}

// Insert splices a pair into the sequence just before the given
// position, list-style; position may equal AllLen to append. Existing
// occurrences of the key are left alone.
func (m *MultiMap[K, V]) Insert(position int, pair Pair[K, V]) error {
	if position < 0 || position > len(m.pairs) {
		return &IndexOutOfRangeError{Index: position, Length: len(m.pairs)}
	}
	m.insertAt(position, m.conformPair(pair))
	return nil
}

// Pop returns the value of the first occurrence of the given key and
// removes every occurrence, like a Get followed by a Delete. It
// returns a *KeyNotFoundError if the key is absent.
func (m *MultiMap[K, V]) Pop(key K) (V, error) {
	key = m.key(key)
	positions := m.index[key]
	if len(positions) == 0 {
		var zero V
		return zero, &KeyNotFoundError[K]{key}
	}
	value := m.pairs[positions[0]].Value
	delete(m.index, key)
	m.removeAt(positions)
	return value, nil
}

// PopDefault is Pop with a fallback: if the key is absent it returns
// def instead of an error.
func (m *MultiMap[K, V]) PopDefault(key K, def V) V {
	value, err := m.Pop(key)
	if err != nil {
		return def
	}
	return value
}

// PopOne returns and removes only the first occurrence of the given
// key, leaving later duplicates in place.
func (m *MultiMap[K, V]) PopOne(key K) (V, error) {
	key = m.key(key)
	positions := m.index[key]
	if len(positions) == 0 {
		var zero V
		return zero, &KeyNotFoundError[K]{key}
	}
	first := positions[0]
	value := m.pairs[first].Value
	if len(positions) == 1 {
		delete(m.index, key)
	} else {
		m.index[key] = positions[1:]
	}
	m.removeAt([]int{first})
	return value, nil
}

// PopOneDefault is PopOne with a fallback for absent keys.
func (m *MultiMap[K, V]) PopOneDefault(key K, def V) V {
	value, err := m.PopOne(key)
	if err != nil {
		return def
	}
	return value
}

// PopAll returns and removes every value stored for the given key, in
// sequence order. An absent key yields an empty slice.
func (m *MultiMap[K, V]) PopAll(key K) []V {
	key = m.key(key)
	positions := m.index[key]
	values := make([]V, len(positions))
	for i, p := range positions {
		values[i] = m.pairs[p].Value
	}
	if len(positions) != 0 {
		delete(m.index, key)
		m.removeAt(positions)
	}
	return values
}

// PopAt removes and returns the pair at the given position of the
// sequence, list-style.
func (m *MultiMap[K, V]) PopAt(position int) (Pair[K, V], error) {
	if position < 0 || position >= len(m.pairs) {
		return Pair[K, V]{}, &IndexOutOfRangeError{Index: position, Length: len(m.pairs)}
	}
	pair := m.pairs[position]

	positions := m.index[pair.Key]
	at := sort.SearchInts(positions, position)
	positions = append(positions[:at], positions[at+1:]...)
	if len(positions) == 0 {
		delete(m.index, pair.Key)
	} else {
		m.index[pair.Key] = positions
	}

	m.removeAt([]int{position})
	return pair, nil
}

// PopLast removes and returns the last pair of the sequence.
func (m *MultiMap[K, V]) PopLast() (Pair[K, V], error) {
	return m.PopAt(len(m.pairs) - 1)
}

// Update sets, for each distinct key of other in first-occurrence
// order, that key's full value list from other. Existing occurrences
// are collapsed exactly as Set would, so the updated keys all end up
// at the end of the sequence.
func (m *MultiMap[K, V]) Update(other Map[K, V]) {
	for key := range other.Iter() {
		m.SetList(key, other.GetAll(key))
	}
}

// UpdateMap is Update for a plain map. Go maps have no iteration
// order, so the relative order of the updated keys is undefined; Sort
// afterwards when determinism matters.
func (m *MultiMap[K, V]) UpdateMap(other map[K]V) {
	for key, value := range other {
		m.Set(key, value)
	}
}

// Sort reorders the whole pair sequence in place by the supplied
// ordering. The sort is stable, so pairs that compare equal keep their
// relative order. Positions are a permutation afterwards, not a shift,
// so the index is rebuilt from scratch.
func (m *MultiMap[K, V]) Sort(less func(a, b Pair[K, V]) bool) {
	sort.SliceStable(m.pairs, func(i, j int) bool {
		return less(m.pairs[i], m.pairs[j])
	})
	m.rebuildIndex()
}

// Copy returns a new, independent MultiMap built from a snapshot of
// the pair sequence. It shares no mutable state with the original.
func (m *MultiMap[K, V]) Copy() *MultiMap[K, V] {
	out := &MultiMap[K, V]{
		pairs:        append(make([]Pair[K, V], 0, len(m.pairs)), m.pairs...),
		index:        make(map[K][]int, len(m.index)),
		conformKey:   m.conformKey,
		conformValue: m.conformValue,
	}
	out.rebuildIndex()
	return out
}

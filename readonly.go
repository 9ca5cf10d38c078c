package multimap

import "iter"

// Map is the read capability shared by every container variant: pure
// lookups and iteration, no mutation.
type Map[K comparable, V any] interface {
	Get(key K) (V, bool)
	GetOrErr(key K) (V, error)
	Value(key K) V
	GetAll(key K) []V
	Has(key K) bool
	Len() int
	AllLen() int
	Keys() []K
	Values() []V
	Items() []Pair[K, V]
	AllKeys() []K
	AllValues() []V
	AllItems() []Pair[K, V]
	Iter() iter.Seq2[K, V]
	IterAll() iter.Seq2[K, V]
}

// Mutable layers the write capability on top of Map. Calling a
// mutator on a read-only variant fails with ErrNotSupported: returned
// where the signature has an error, panicked otherwise.
type Mutable[K comparable, V any] interface {
	Map[K, V]
	Set(key K, value V)
	SetList(key K, values []V)
	Delete(key K) error
	Discard(key K) bool
	Append(pair Pair[K, V])
	Extend(pairs ...Pair[K, V])
	Insert(position int, pair Pair[K, V]) error
	Pop(key K) (V, error)
	PopDefault(key K, def V) V
	PopOne(key K) (V, error)
	PopOneDefault(key K, def V) V
	PopAll(key K) []V
	PopAt(position int) (Pair[K, V], error)
	PopLast() (Pair[K, V], error)
	Update(other Map[K, V])
	UpdateMap(other map[K]V)
	Sort(less func(a, b Pair[K, V]) bool)
}

var (
	_ Mutable[int, any] = &MultiMap[int, any]{}
	_ Mutable[int, any] = &ReadOnly[int, any]{}
	_ Mutable[int, any] = &Lazy[int, any]{}
)

// ReadOnly exposes a MultiMap through the read capability only. It
// still satisfies Mutable so it can stand in anywhere a container is
// expected, but every mutator fails with ErrNotSupported and leaves
// the underlying map untouched.
type ReadOnly[K comparable, V any] struct {
	m *MultiMap[K, V]
}

// AsReadOnly returns a read-only view of the map. The view aliases
// the map, so mutations made directly on m remain visible through it.
func (m *MultiMap[K, V]) AsReadOnly() *ReadOnly[K, V] {
	return &ReadOnly[K, V]{m: m}
}

// NewReadOnly creates a read-only map holding the given pairs.
func NewReadOnly[K comparable, V any](pairs ...Pair[K, V]) *ReadOnly[K, V] {
	return New[K, V](WithInitialData(pairs...)).AsReadOnly()
}

func (r *ReadOnly[K, V]) Get(key K) (V, bool) { return r.m.Get(key) }
func (r *ReadOnly[K, V]) GetOrErr(key K) (V, error) { return r.m.GetOrErr(key) }
func (r *ReadOnly[K, V]) Value(key K) V { return r.m.Value(key) }
func (r *ReadOnly[K, V]) GetAll(key K) []V { return r.m.GetAll(key) }
func (r *ReadOnly[K, V]) Has(key K) bool { return r.m.Has(key) }
func (r *ReadOnly[K, V]) Len() int { return r.m.Len() }
func (r *ReadOnly[K, V]) AllLen() int { return r.m.AllLen() }
func (r *ReadOnly[K, V]) Keys() []K { return r.m.Keys() }
func (r *ReadOnly[K, V]) Values() []V { return r.m.Values() }
func (r *ReadOnly[K, V]) Items() []Pair[K, V] { return r.m.Items() }
func (r *ReadOnly[K, V]) AllKeys() []K { return r.m.AllKeys() }
func (r *ReadOnly[K, V]) AllValues() []V { return r.m.AllValues() }
func (r *ReadOnly[K, V]) AllItems() []Pair[K, V] { return r.m.AllItems() }
func (r *ReadOnly[K, V]) Iter() iter.Seq2[K, V] { return r.m.Iter() }
func (r *ReadOnly[K, V]) IterAll() iter.Seq2[K, V] { return r.m.IterAll() }

// Copy returns a new, independent, mutable MultiMap holding the same
// pairs.
func (r *ReadOnly[K, V]) Copy() *MultiMap[K, V] { return r.m.Copy() }

func (r *ReadOnly[K, V]) Set(key K, value V) { panic(ErrNotSupported) }
func (r *ReadOnly[K, V]) SetList(key K, values []V) { panic(ErrNotSupported) }
func (r *ReadOnly[K, V]) Delete(key K) error { return ErrNotSupported }
func (r *ReadOnly[K, V]) Discard(key K) bool { panic(ErrNotSupported) }
func (r *ReadOnly[K, V]) Append(pair Pair[K, V]) { panic(ErrNotSupported) }
func (r *ReadOnly[K, V]) Extend(pairs ...Pair[K, V]) { panic(ErrNotSupported) }
func (r *ReadOnly[K, V]) Insert(position int, pair Pair[K, V]) error {
	return ErrNotSupported
}
func (r *ReadOnly[K, V]) Pop(key K) (V, error) {
	var zero V
	return zero, ErrNotSupported
}
func (r *ReadOnly[K, V]) PopDefault(key K, def V) V { panic(ErrNotSupported) }
func (r *ReadOnly[K, V]) PopOne(key K) (V, error) {
	var zero V
	return zero, ErrNotSupported
}
func (r *ReadOnly[K, V]) PopOneDefault(key K, def V) V { panic(ErrNotSupported) }
func (r *ReadOnly[K, V]) PopAll(key K) []V { panic(ErrNotSupported) }
func (r *ReadOnly[K, V]) PopAt(position int) (Pair[K, V], error) {
	return Pair[K, V]{}, ErrNotSupported
}
func (r *ReadOnly[K, V]) PopLast() (Pair[K, V], error) {
	return Pair[K, V]{}, ErrNotSupported
}
func (r *ReadOnly[K, V]) Update(other Map[K, V]) { panic(ErrNotSupported) }
func (r *ReadOnly[K, V]) UpdateMap(other map[K]V) { panic(ErrNotSupported) }
func (r *ReadOnly[K, V]) Sort(less func(a, b Pair[K, V]) bool) { panic(ErrNotSupported) }

// Lazy defers building the pair sequence until first access. The
// producer runs exactly once, on the first structural access; from
// then on the variant behaves exactly like an eager MultiMap. A
// read-only Lazy rejects mutation without ever invoking the producer.
type Lazy[K comparable, V any] struct {
	produce  func() []Pair[K, V]
	options  []any
	readonly bool
	m        *MultiMap[K, V]
}

// NewLazy creates a mutable map whose pairs are produced on first
// access. options are forwarded to New when the map materializes.
func NewLazy[K comparable, V any](produce func() []Pair[K, V], options ...any) *Lazy[K, V] {
	return &Lazy[K, V]{produce: produce, options: options}
}

// NewLazyReadOnly is NewLazy for a read-only map: every mutator fails
// with ErrNotSupported, and a failed mutation does not materialize.
func NewLazyReadOnly[K comparable, V any](produce func() []Pair[K, V], options ...any) *Lazy[K, V] {
	return &Lazy[K, V]{produce: produce, options: options, readonly: true}
}

// Materialized reports whether the producer has already run.
func (l *Lazy[K, V]) Materialized() bool { return l.m != nil }

func (l *Lazy[K, V]) materialize() *MultiMap[K, V] {
	if l.m == nil {
		l.m = New[K, V](l.options...)
		l.m.Extend(l.produce()...)
		l.produce = nil
	}
	return l.m
}

// mutable is the gate every mutator goes through: a read-only Lazy
// fails here, before the producer has a chance to run.
func (l *Lazy[K, V]) mutable() *MultiMap[K, V] {
	if l.readonly {
		panic(ErrNotSupported)
	}
	return l.materialize()
}

func (l *Lazy[K, V]) Get(key K) (V, bool) { return l.materialize().Get(key) }
func (l *Lazy[K, V]) GetOrErr(key K) (V, error) { return l.materialize().GetOrErr(key) }
func (l *Lazy[K, V]) Value(key K) V { return l.materialize().Value(key) }
func (l *Lazy[K, V]) GetAll(key K) []V { return l.materialize().GetAll(key) }
func (l *Lazy[K, V]) Has(key K) bool { return l.materialize().Has(key) }
func (l *Lazy[K, V]) Len() int { return l.materialize().Len() }
func (l *Lazy[K, V]) AllLen() int { return l.materialize().AllLen() }
func (l *Lazy[K, V]) Keys() []K { return l.materialize().Keys() }
func (l *Lazy[K, V]) Values() []V { return l.materialize().Values() }
func (l *Lazy[K, V]) Items() []Pair[K, V] { return l.materialize().Items() }
func (l *Lazy[K, V]) AllKeys() []K { return l.materialize().AllKeys() }
func (l *Lazy[K, V]) AllValues() []V { return l.materialize().AllValues() }
func (l *Lazy[K, V]) AllItems() []Pair[K, V] { return l.materialize().AllItems() }
func (l *Lazy[K, V]) Iter() iter.Seq2[K, V] { return l.materialize().Iter() }
func (l *Lazy[K, V]) IterAll() iter.Seq2[K, V] { return l.materialize().IterAll() }

// Copy materializes and returns a new, independent, mutable MultiMap.
func (l *Lazy[K, V]) Copy() *MultiMap[K, V] { return l.materialize().Copy() }

func (l *Lazy[K, V]) Set(key K, value V) { l.mutable().Set(key, value) }
func (l *Lazy[K, V]) SetList(key K, values []V) { l.mutable().SetList(key, values) }
func (l *Lazy[K, V]) Delete(key K) error {
	if l.readonly {
		return ErrNotSupported
	}
	return l.materialize().Delete(key)
}
func (l *Lazy[K, V]) Discard(key K) bool { return l.mutable().Discard(key) }
func (l *Lazy[K, V]) Append(pair Pair[K, V]) { l.mutable().Append(pair) }
func (l *Lazy[K, V]) Extend(pairs ...Pair[K, V]) { l.mutable().Extend(pairs...) }
func (l *Lazy[K, V]) Insert(position int, pair Pair[K, V]) error {
	if l.readonly {
		return ErrNotSupported
	}
	return l.materialize().Insert(position, pair)
}
func (l *Lazy[K, V]) Pop(key K) (V, error) {
	if l.readonly {
		var zero V
		return zero, ErrNotSupported
	}
	return l.materialize().Pop(key)
}
func (l *Lazy[K, V]) PopDefault(key K, def V) V { return l.mutable().PopDefault(key, def) }
func (l *Lazy[K, V]) PopOne(key K) (V, error) {
	if l.readonly {
		var zero V
		return zero, ErrNotSupported
	}
	return l.materialize().PopOne(key)
}
func (l *Lazy[K, V]) PopOneDefault(key K, def V) V { return l.mutable().PopOneDefault(key, def) }
func (l *Lazy[K, V]) PopAll(key K) []V { return l.mutable().PopAll(key) }
func (l *Lazy[K, V]) PopAt(position int) (Pair[K, V], error) {
	if l.readonly {
		return Pair[K, V]{}, ErrNotSupported
	}
	return l.materialize().PopAt(position)
}
func (l *Lazy[K, V]) PopLast() (Pair[K, V], error) {
	if l.readonly {
		return Pair[K, V]{}, ErrNotSupported
	}
	return l.materialize().PopLast()
}
func (l *Lazy[K, V]) Update(other Map[K, V]) { l.mutable().Update(other) }
func (l *Lazy[K, V]) UpdateMap(other map[K]V) { l.mutable().UpdateMap(other) }
func (l *Lazy[K, V]) Sort(less func(a, b Pair[K, V]) bool) { l.mutable().Sort(less) }

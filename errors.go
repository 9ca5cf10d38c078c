package multimap

import (
	"errors"
	"fmt"
)

// ErrNotSupported is the failure reported when a mutating method is
// called on a read-only map. Mutators whose signature carries no error
// return panic with it instead.
var ErrNotSupported = errors.New("mutation of a read-only multimap")

// KeyNotFoundError may be returned by functions in this package when
// they're called with keys that are absent from the map.
type KeyNotFoundError[K comparable] struct {
	MissingKey K
}

func (e *KeyNotFoundError[K]) Error() string {
	return fmt.Sprintf("missing key: %v", e.MissingKey)
}

// IndexOutOfRangeError is returned by positional operations handed an
// index outside the pair sequence.
type IndexOutOfRangeError struct {
	Index  int
	Length int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("index %d out of range with length %d", e.Index, e.Length)
}

package multimap

import "sort"

// The position index maps every conformed key to the ascending list of
// positions in the pair sequence where that key occurs. Whenever the
// sequence is spliced, every stored position has to be shifted to keep
// the two structures consistent. The arithmetic lives here, decoupled
// from the container, so it can be tested on plain integer slices.

// ascending returns positions sorted in increasing order. The splice
// helpers below silently corrupt the index when handed an unsorted
// list, so they never trust their callers; the common case of an
// already-sorted list costs a single scan.
func ascending(positions []int) []int {
	if sort.IntsAreSorted(positions) {
		return positions
	}
	sorted := append([]int(nil), positions...)
	sort.Ints(sorted)
	return sorted
}

// rankBelow returns how many of the sorted positions are strictly less
// than p.
func rankBelow(sorted []int, p int) int {
	return sort.SearchInts(sorted, p)
}

// rankAtOrBelow returns how many of the sorted positions are less than
// or equal to p.
func rankAtOrBelow(sorted []int, p int) int {
	return sort.SearchInts(sorted, p+1)
}

// shiftForRemove rewrites every position stored in the index to account
// for the pairs that were just removed at the given positions: each
// surviving position drops by the number of removed positions below it.
// Positions belonging to the removed pairs themselves must already be
// gone from the index.
func shiftForRemove[K comparable](index map[K][]int, removed []int) {
	if len(removed) == 0 {
		return
	}
	removed = ascending(removed)
	for _, positions := range index {
		for i, p := range positions {
			positions[i] = p - rankBelow(removed, p)
		}
	}
}

// shiftForInsert is the dual of shiftForRemove: each stored position
// grows by the number of insertion points at or below it. It must run
// before the inserted pairs are themselves added to the index.
func shiftForInsert[K comparable](index map[K][]int, inserted []int) {
	if len(inserted) == 0 {
		return
	}
	inserted = ascending(inserted)
	for _, positions := range index {
		for i, p := range positions {
			positions[i] = p + rankAtOrBelow(inserted, p)
		}
	}
}

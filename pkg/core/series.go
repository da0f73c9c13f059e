package core

import (
	"golang.org/x/exp/constraints"
)

// Series is an ordered sequence of metric samples
type Series[T constraints.Ordered] []T

// Values returns the underlying slice of values
func (s Series[T]) Values() []T {
	return s
}

// Length returns the number of values in the series
func (s Series[T]) Length() int {
	return len(s)
}

// Last returns the value at a specified position from the end
// position 0 is the last value, 1 is the second-to-last, etc.
func (s Series[T]) Last(position int) T {
	return s[len(s)-1-position]
}

// Since returns the values appended after the first n, or an empty series
// when n already covers the whole series.
func (s Series[T]) Since(n int) Series[T] {
	if n < 0 {
		n = 0
	}
	if n >= len(s) {
		return Series[T]{}
	}
	return s[n:]
}

// LastValues returns a slice with the last 'size' values
// If size exceeds the length, returns the entire series
func (s Series[T]) LastValues(size int) Series[T] {
	if l := len(s); l > size {
		return s[l-size:]
	}
	return s
}

// Clone returns a copy that does not share the backing array
func (s Series[T]) Clone() Series[T] {
	out := make(Series[T], len(s))
	copy(out, s)
	return out
}

package date

import (
	"iter"
	"slices"
	"sort"
)

// History stores a chronological series of values, each associated with a specific date.
// It ensures that dates are unique and the series is always sorted.
type History[T any] struct {
	days   []Date
	values []T
}

// NewHistory builds a History from unordered days and values of the same length.
//
// When a day appears several times, the value that comes last in the input wins.
func NewHistory[T any](days []Date, values []T) *History[T] {
	if len(days) != len(values) {
		panic("NewHistory: days and values length mismatch")
	}
	h := &History[T]{
		days:   slices.Clone(days),
		values: slices.Clone(values),
	}
	// stable, so that equal days keep input order and the last one can be kept.
	sort.Stable(chronological[T]{h})

	n := 0
	for i := range h.days {
		if n > 0 && h.days[n-1] == h.days[i] {
			h.values[n-1] = h.values[i]
			continue
		}
		h.days[n], h.values[n] = h.days[i], h.values[i]
		n++
	}
	h.days, h.values = h.days[:n], h.values[:n]
	return h
}

// Latest returns the latest date and value in the history.
// If the history is empty, it returns zero value.
func (h *History[T]) Latest() (day Date, value T) {
	last := len(h.days) - 1
	if last < 0 {
		return Date{}, *new(T) // return zero value of T
	}
	return h.days[last], h.values[last]
}

// First returns the earliest date and value in the history.
// If the history is empty, it returns zero value.
func (h *History[T]) First() (day Date, value T) {
	if len(h.days) == 0 {
		return Date{}, *new(T)
	}
	return h.days[0], h.values[0]
}

// At returns the i-th date and value in chronological order.
func (h *History[T]) At(i int) (Date, T) { return h.days[i], h.values[i] }

// Len returns the number of items in the history.
func (h *History[T]) Len() int { return len(h.days) }

// chronological is a private implementation to make this history chronologically sorted.
type chronological[T any] struct{ *History[T] }

func (s chronological[T]) Less(i, j int) bool { return s.days[i].Before(s.days[j]) }

func (s chronological[T]) Swap(i, j int) {
	s.days[i], s.days[j] = s.days[j], s.days[i]
	s.values[i], s.values[j] = s.values[j], s.values[i]
}

// Append adds a point to the history.
//
// Existing value at that date are overwritten.
func (h *History[T]) Append(on Date, q T) *History[T] {
	i, found := h.search(on)
	if found {
		// We choose to replace, because it will give higher priority to the last data
		h.values[i] = q
		return h
	}
	h.days = slices.Insert(h.days, i, on)
	h.values = slices.Insert(h.values, i, q)
	return h
}

// Values returns an iterator over all date/value pairs in the history, in chronological order.
func (h *History[T]) Values() iter.Seq2[Date, T] {
	return func(yield func(Date, T) bool) {
		for i, on := range h.days {
			if !yield(on, h.values[i]) {
				return
			}
		}
	}
}

// Get returns the value at 'day' and true or zero value and false.
func (h *History[T]) Get(day Date) (T, bool) {
	if i, found := h.search(day); found {
		return h.values[i], true
	}
	var zero T
	return zero, false
}

// search returns the position of day, or where it would be inserted.
func (h *History[T]) search(day Date) (int, bool) {
	return slices.BinarySearchFunc(h.days, day, Date.Compare)
}

// IndexAsOf returns the index of the last entry on or before day, or -1.
func (h *History[T]) IndexAsOf(day Date) int {
	i, found := h.search(day)
	if found {
		return i
	}
	// Not found. `i` is the index where `day` would be inserted.
	// The entry we want is at `i-1`, which is the last entry before the target date.
	return i - 1
}

// AsOf returns the entry on a given day, or the most recent one before it.
// It returns false when day precedes the whole history.
func (h *History[T]) AsOf(day Date) (Date, T, bool) {
	i := h.IndexAsOf(day)
	if i < 0 {
		var zero T
		return Date{}, zero, false // No date on or before the given day.
	}
	return h.days[i], h.values[i], true
}

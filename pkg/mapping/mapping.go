// Package mapping provides a balanced bidirectional correspondence table.
//
// A Mapping links elements pairwise: whenever a is connected to b, b is
// connected to a, and no element is ever linked to more than one partner.
// Keys use Go equality, which for pointer and interface-of-pointer types is
// reference identity, so structurally equal nodes at different positions are
// distinct keys.
package mapping

import (
	"errors"
	"fmt"
	"iter"
	"maps"
)

// ErrMergeConflict is matched by every ConflictError.
var ErrMergeConflict = errors.New("mapping merge conflict")

// ConflictError reports that two mappings assign different partners to Key.
type ConflictError[T comparable] struct {
	Key      T
	Existing T
	Incoming T
}

// Error implements error.
func (err *ConflictError[T]) Error() string {
	return fmt.Sprintf("%s: %v is linked to %v and to %v", ErrMergeConflict, err.Key, err.Existing, err.Incoming)
}

// Is makes errors.Is(err, ErrMergeConflict) hold.
func (err *ConflictError[T]) Is(target error) bool {
	return target == ErrMergeConflict
}

// Mapping is a balanced element-to-element table. The zero value is not
// usable; create one with New. A Mapping is not safe for concurrent use.
type Mapping[T comparable] struct {
	links map[T]T
}

// New creates an empty mapping.
func New[T comparable]() *Mapping[T] {
	return &Mapping[T]{links: make(map[T]T)}
}

// Get returns the partner of element.
func (table *Mapping[T]) Get(element T) (T, bool) {
	partner, ok := table.links[element]

	return partner, ok
}

// Contains reports whether element is linked to anything.
func (table *Mapping[T]) Contains(element T) bool {
	_, ok := table.links[element]

	return ok
}

// Connect links first and second, breaking any previous link either of them
// had. Reconnecting an existing pair is a no-op.
func (table *Mapping[T]) Connect(first, second T) {
	if partner, ok := table.links[first]; ok && partner == second {
		return
	}

	table.Disconnect(first)
	table.Disconnect(second)

	table.links[first] = second
	table.links[second] = first
}

// Disconnect removes element and its partner from the table. It reports
// whether element was linked.
func (table *Mapping[T]) Disconnect(element T) bool {
	partner, ok := table.links[element]
	if !ok {
		return false
	}

	delete(table.links, element)
	delete(table.links, partner)

	return true
}

// Connected reports whether first is linked to second. Because the table is
// balanced, one direction is enough.
func (table *Mapping[T]) Connected(first, second T) bool {
	partner, ok := table.links[first]

	return ok && partner == second
}

// Len returns the number of directed links; a pair of distinct elements
// counts twice.
func (table *Mapping[T]) Len() int {
	return len(table.links)
}

// All iterates over every directed link. Both a→b and b→a are yielded.
// Iteration order is unspecified.
func (table *Mapping[T]) All() iter.Seq2[T, T] {
	return func(yield func(T, T) bool) {
		for key, value := range table.links {
			if !yield(key, value) {
				return
			}
		}
	}
}

// Clone returns an independent copy.
func (table *Mapping[T]) Clone() *Mapping[T] {
	return &Mapping[T]{links: maps.Clone(table.links)}
}

// Merge returns the union of table and other. If the two tables link the
// same element to different partners it returns a *ConflictError and no
// mapping; neither input is modified in any case.
func (table *Mapping[T]) Merge(other *Mapping[T]) (*Mapping[T], error) {
	merged := table.Clone()

	for key, value := range other.links {
		existing, ok := merged.links[key]
		if ok && existing != value {
			return nil, &ConflictError[T]{Key: key, Existing: existing, Incoming: value}
		}

		merged.links[key] = value
	}

	return merged, nil
}

// Redirect composes table with other: for every a→b in table with b→c in
// other, the result links a to c. It chains two successive mappings, such as
// pattern→intermediate and intermediate→target. When the composed links are
// not one-to-one it returns a *ConflictError and no mapping.
func (table *Mapping[T]) Redirect(other *Mapping[T]) (*Mapping[T], error) {
	composed := make(map[T]T, len(table.links))

	for key, via := range table.links {
		if target, ok := other.links[via]; ok {
			composed[key] = target
		}
	}

	// Both inputs are one-to-one, so composed is too; the only way to break
	// balance is a target whose own composed partner is someone else.
	result := New[T]()

	for key, target := range composed {
		if back, ok := composed[target]; ok && back != key {
			return nil, &ConflictError[T]{Key: target, Existing: back, Incoming: key}
		}

		result.links[key] = target
		result.links[target] = key
	}

	return result, nil
}

// Convert maps every element through convert and returns the resulting
// table, e.g. to turn a mapping of views into a mapping of underlying values.
func Convert[T, U comparable](table *Mapping[T], convert func(T) U) *Mapping[U] {
	result := New[U]()

	for key, value := range table.links {
		result.Connect(convert(key), convert(value))
	}

	return result
}

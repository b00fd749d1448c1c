package util

import (
	"sort"
	"strings"
)

// StringSet is an unordered collection of unique strings.
type StringSet map[string]struct{}

func NewStringSet(elements ...string) StringSet {
	s := StringSet(map[string]struct{}{})
	for _, el := range elements {
		s.Add(el)
	}
	return s
}

// Add adds the given element to the set. Has no effect if it's already there.
func (s StringSet) Add(element string) {
	s[element] = struct{}{}
}

// AddAll adds all elements of s2 to the set.
func (s StringSet) AddAll(s2 StringSet) {
	for el := range s2 {
		s.Add(el)
	}
}

// Remove removes the given element from the set. Has no effect if it is not
// there.
func (s StringSet) Remove(element string) {
	delete(s, element)
}

// Has returns whether the set contains the given element.
func (s StringSet) Has(element string) bool {
	_, has := s[element]
	return has
}

// Len returns the number of elements in the set.
func (s StringSet) Len() int {
	return len(s)
}

// Empty returns whether the set has no elements.
func (s StringSet) Empty() bool {
	return len(s) == 0
}

// Copy returns a duplicate of the set.
func (s StringSet) Copy() StringSet {
	s2 := NewStringSet()
	s2.AddAll(s)
	return s2
}

// Equal returns whether the set has exactly the same elements as another
// value. It will not be equal if the other value cannot be cast to StringSet
// or *StringSet.
func (s StringSet) Equal(o any) bool {
	other, ok := o.(StringSet)
	if !ok {
		otherPtr, ok := o.(*StringSet)
		if !ok || otherPtr == nil {
			return false
		}
		other = *otherPtr
	}

	if len(s) != len(other) {
		return false
	}
	for el := range s {
		if !other.Has(el) {
			return false
		}
	}
	return true
}

// Slice returns the elements of the set, sorted.
func (s StringSet) Slice() []string {
	elements := make([]string, 0, len(s))
	for el := range s {
		elements = append(elements, el)
	}
	sort.Strings(elements)
	return elements
}

// String is a string with the contents of the set in sorted order.
func (s StringSet) String() string {
	return "{" + strings.Join(s.Slice(), ", ") + "}"
}

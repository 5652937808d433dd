package xset

import (
	"cmp"
	"encoding/json"
	"maps"
	"slices"
)

type Set[T comparable] map[T]struct{}

func Of[T comparable](values ...T) Set[T] {
	s := make(Set[T], len(values))
	for _, value := range values {
		s[value] = struct{}{}
	}

	return s
}

func (s Set[T]) Add(value T) {
	s[value] = struct{}{}
}

func (s Set[T]) AddAll(other Set[T]) {
	maps.Copy(s, other)
}

func (s Set[T]) Contains(value T) bool {
	_, ok := s[value]
	return ok
}

func (s Set[T]) Remove(value T) bool {
	_, ok := s[value]
	delete(s, value)
	return ok
}

func (s Set[T]) SubsetOf(other Set[T]) bool {
	if len(s) > len(other) {
		return false
	}

	for value := range s {
		if !other.Contains(value) {
			return false
		}
	}

	return true
}

func (s Set[T]) Clone() Set[T] {
	return maps.Clone(s)
}

func (s *Set[T]) UnmarshalJSON(bytes []byte) error {
	var values []T
	if err := json.Unmarshal(bytes, &values); err != nil {
		return err
	}

	*s = Of(values...)

	return nil
}

func (s Set[T]) MarshalJSON() ([]byte, error) {
	values := make([]T, 0, len(s))
	for value := range s {
		values = append(values, value)
	}

	return json.Marshal(values)
}

func Sorted[T cmp.Ordered](s Set[T]) []T {
	return slices.Sorted(maps.Keys(s))
}

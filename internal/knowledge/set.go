package knowledge

type void struct{}

type set[T comparable] map[T]void

func newSet[T comparable](items ...T) set[T] {
	s := make(set[T], len(items))
	for _, v := range items {
		s[v] = void{}
	}
	return s
}

func (s set[T]) add(v T) {
	s[v] = void{}
}

func (s set[T]) remove(v T) {
	delete(s, v)
}

func (s set[T]) has(v T) bool {
	_, ok := s[v]
	return ok
}

func (s set[T]) clone() set[T] {
	c := make(set[T], len(s))
	for v := range s {
		c[v] = void{}
	}
	return c
}

func (s set[T]) subsetOf(x set[T]) bool {
	if len(s) > len(x) {
		return false
	}
	for v := range s {
		if !x.has(v) {
			return false
		}
	}
	return true
}

func (s set[T]) equal(x set[T]) bool {
	return len(s) == len(x) && s.subsetOf(x)
}

func (s set[T]) items() []T {
	result := make([]T, 0, len(s))
	for v := range s {
		result = append(result, v)
	}
	return result
}

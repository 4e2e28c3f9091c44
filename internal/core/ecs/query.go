package ecs

// Each visits, in registration order, every entity holding a component of
// kind as T.
func Each[T Component](w *World, kind ComponentKind, fn func(*Entity, T)) {
	for _, e := range w.entities {
		if c, ok := Get[T](e, kind); ok {
			fn(e, c)
		}
	}
}

// Each2 visits entities holding both an A of kind ka and a B of kind kb.
func Each2[A, B Component](w *World, ka, kb ComponentKind, fn func(*Entity, A, B)) {
	for _, e := range w.entities {
		a, ok := Get[A](e, ka)
		if !ok {
			continue
		}
		if b, ok := Get[B](e, kb); ok {
			fn(e, a, b)
		}
	}
}

// Count returns how many entities hold a component of kind.
func (w *World) Count(kind ComponentKind) int {
	n := 0
	for _, e := range w.entities {
		if e.Has(kind) {
			n++
		}
	}
	return n
}

package ecs

// ComponentKind tags a component type. Kinds are declared by the component
// package as an explicit enumeration and used as map keys on entities.
type ComponentKind uint16

// Component is a passive data record. Implementations are usually pointer
// types so systems can mutate them in place.
type Component interface {
	Kind() ComponentKind
}

// Get returns the component of the given kind as T. It reports false when the
// entity has no such component or it is not a T.
func Get[T Component](e *Entity, kind ComponentKind) (T, bool) {
	c, ok := e.components[kind]
	if !ok {
		var zero T
		return zero, false
	}
	t, ok := c.(T)
	return t, ok
}

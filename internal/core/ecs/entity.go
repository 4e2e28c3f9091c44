package ecs

import (
	"sort"
	"sync/atomic"
)

// EntityID is a unique, monotonically increasing entity identifier. IDs are
// assigned once and never reused while the process runs.
type EntityID uint64

// EntityPool hands out entity IDs. There is no destroy path, so the pool is a
// single counter with no free list.
type EntityPool struct {
	next atomic.Uint64
}

// Create returns the next unused ID.
func (p *EntityPool) Create() EntityID {
	return EntityID(p.next.Add(1) - 1)
}

// Allocated returns how many IDs the pool has issued.
func (p *EntityPool) Allocated() uint64 {
	return p.next.Load()
}

// processPool is shared by every world that is not given its own pool, so IDs
// stay unique process-wide.
var processPool EntityPool

// Entity is an identity plus at most one component per kind.
type Entity struct {
	id         EntityID
	components map[ComponentKind]Component
}

func newEntity(id EntityID) *Entity {
	return &Entity{
		id:         id,
		components: make(map[ComponentKind]Component, 4),
	}
}

func (e *Entity) ID() EntityID { return e.id }

// Add stores c under its kind, replacing any component of the same kind.
func (e *Entity) Add(c Component) {
	e.components[c.Kind()] = c
}

// Get returns the component of the given kind, if present.
func (e *Entity) Get(kind ComponentKind) (Component, bool) {
	c, ok := e.components[kind]
	return c, ok
}

func (e *Entity) Has(kind ComponentKind) bool {
	_, ok := e.components[kind]
	return ok
}

// Len returns the number of components attached.
func (e *Entity) Len() int { return len(e.components) }

// Kinds returns the attached component kinds in ascending order.
func (e *Entity) Kinds() []ComponentKind {
	kinds := make([]ComponentKind, 0, len(e.components))
	for k := range e.components {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

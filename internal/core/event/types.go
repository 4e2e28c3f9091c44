package event

// Task lifecycle events published by the world scheduler. System IDs are the
// dense registration indices handed out by ecs.World.

// TaskStarted is emitted on the tick a long-running system's task is spawned.
type TaskStarted struct {
	SystemID uint32
	System   string
	Tick     uint64
}

// TaskSettled is emitted on the tick the scheduler observes a task's
// completion. Err is nil on success.
type TaskSettled struct {
	SystemID uint32
	System   string
	Tick     uint64
	Err      error
}

// EntityCreated is emitted when the world factory registers a new entity.
type EntityCreated struct {
	EntityID uint64
}

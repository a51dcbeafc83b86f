package state

// IDAllocator hands out node ids for one editing session.
// It is owned by the session and passed to whatever creates nodes.
type IDAllocator struct {
	next int
}

func NewIDAllocator() *IDAllocator {
	return &IDAllocator{}
}

// NextID returns a fresh id and advances the allocator
func (a *IDAllocator) NextID() int {
	id := a.next
	a.next++
	return id
}

// Observe records an id that was assigned elsewhere (e.g. loaded from a file)
// so later allocations never collide with it.
func (a *IDAllocator) Observe(id int) {
	if id >= a.next {
		a.next = id + 1
	}
}

// NewRoot allocates the root node: turn 0, default name
func (a *IDAllocator) NewRoot() *Node {
	return NewNode(a.NextID(), 0, "")
}

// NewNode allocates a node on the given turn. Negative turns are raised to 0.
func (a *IDAllocator) NewNode(turn int, name string) *Node {
	return NewNode(a.NextID(), max(0, turn), name)
}

// Reset rewinds the allocator to 0. Intended for test setup.
func (a *IDAllocator) Reset() {
	a.next = 0
}

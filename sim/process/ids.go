package process

// IDAllocator hands out unique, monotonically increasing PIDs for one
// simulation session. The zero value starts at 1.
type IDAllocator struct {
	next int
}

// NewIDAllocator returns an allocator whose first PID is 1.
func NewIDAllocator() *IDAllocator {
	return &IDAllocator{next: 1}
}

// Next returns a fresh PID.
func (a *IDAllocator) Next() int {
	if a.next < 1 {
		a.next = 1
	}
	pid := a.next
	a.next++
	return pid
}

// Peek returns the PID the next call to Next will return.
func (a *IDAllocator) Peek() int {
	if a.next < 1 {
		return 1
	}
	return a.next
}

// Observe records an externally assigned PID (e.g. loaded from a file) so
// later allocations never collide with it.
func (a *IDAllocator) Observe(pid int) {
	if pid >= a.Peek() {
		a.next = pid + 1
	}
}

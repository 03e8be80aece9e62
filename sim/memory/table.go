package memory

import (
	"fmt"
	"sort"

	"github.com/ossim/ossim/sim"
	"github.com/ossim/ossim/sim/process"
)

// ProcessTable owns every complete process of a session. Components hold
// only a pid and look their parent up here.
type ProcessTable struct {
	ids   *process.IDAllocator
	procs map[int]*ProcessComplete
}

// NewProcessTable returns an empty table.
func NewProcessTable() *ProcessTable {
	return &ProcessTable{ids: process.NewIDAllocator(), procs: make(map[int]*ProcessComplete)}
}

// New creates and registers a process with a fresh pid.
func (t *ProcessTable) New(name string, size, duration int, color sim.Color) (*ProcessComplete, error) {
	if size <= 0 {
		return nil, fmt.Errorf("process %q: size must be > 0, got %d", name, size)
	}
	p := NewProcessComplete(t.ids.Next(), name, size, duration, color)
	t.procs[p.pid] = p
	return p, nil
}

// Add registers an existing process, e.g. one loaded from a file.
func (t *ProcessTable) Add(p *ProcessComplete) error {
	if _, dup := t.procs[p.pid]; dup {
		return fmt.Errorf("process %d already registered", p.pid)
	}
	t.ids.Observe(p.pid)
	t.procs[p.pid] = p
	return nil
}

// Get looks a process up by pid.
func (t *ProcessTable) Get(pid int) (*ProcessComplete, bool) {
	if t == nil {
		return nil, false
	}
	p, ok := t.procs[pid]
	return p, ok
}

// Remove drops a process from the table.
func (t *ProcessTable) Remove(pid int) {
	delete(t.procs, pid)
}

// PIDs returns the registered pids in ascending order.
func (t *ProcessTable) PIDs() []int {
	out := make([]int, 0, len(t.procs))
	for pid := range t.procs {
		out = append(out, pid)
	}
	sort.Ints(out)
	return out
}

// Paginate splits process pid into pages of pageSize. The last page holds
// the remainder.
func (t *ProcessTable) Paginate(pid, pageSize int) ([]*ProcessComponent, error) {
	p, ok := t.Get(pid)
	if !ok {
		return nil, fmt.Errorf("paginate %d: %w", pid, sim.ErrNotFound)
	}
	if pageSize <= 0 {
		return nil, fmt.Errorf("paginate %d: page size must be > 0, got %d", pid, pageSize)
	}
	var out []*ProcessComponent
	for off := 0; off < p.size; off += pageSize {
		out = append(out, &ProcessComponent{
			Kind:      Page,
			Index:     len(out),
			size:      min(pageSize, p.size-off),
			parentPID: pid,
			table:     t,
		})
	}
	return out, nil
}

// Segment splits process pid into segments of the given sizes, which must
// add up to the process size.
func (t *ProcessTable) Segment(pid int, sizes []int) ([]*ProcessComponent, error) {
	p, ok := t.Get(pid)
	if !ok {
		return nil, fmt.Errorf("segment %d: %w", pid, sim.ErrNotFound)
	}
	total := 0
	out := make([]*ProcessComponent, 0, len(sizes))
	for i, s := range sizes {
		if s <= 0 {
			return nil, fmt.Errorf("segment %d: segment %d has size %d", pid, i, s)
		}
		total += s
		out = append(out, &ProcessComponent{Kind: Segmentation, Index: i, size: s, parentPID: pid, table: t})
	}
	if total != p.size {
		return nil, fmt.Errorf("segment %d: segments total %d, process size is %d", pid, total, p.size)
	}
	return out, nil
}

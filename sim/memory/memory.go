package memory

import (
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/ossim/ossim/sim"
	"github.com/ossim/ossim/sim/trace"
)

// Partition is a contiguous range of memory, free when Unit is nil.
type Partition struct {
	Start int
	Size  int
	Unit  MemUnit
}

// Free reports whether the partition is a hole.
func (p Partition) Free() bool { return p.Unit == nil }

// End returns the first address past the partition.
func (p Partition) End() int { return p.Start + p.Size }

// Memory is primary memory as an ordered list of partitions covering
// [0, Size).
type Memory struct {
	Size      int
	Placement Placement
	Clock     int
	// Trace records load attempts; nil disables recording.
	Trace *trace.SimulationTrace

	parts    []Partition
	loadedAt map[int]int // pid -> clock of its first resident unit
}

// New returns an empty memory of size units. Panics if size is not positive.
func New(size int, placement Placement) *Memory {
	if size <= 0 {
		panic(fmt.Sprintf("memory.New: size must be > 0, got %d", size))
	}
	if placement == nil {
		placement = FirstFit{}
	}
	return &Memory{
		Size:      size,
		Placement: placement,
		parts:     []Partition{{Start: 0, Size: size}},
		loadedAt:  make(map[int]int),
	}
}

// Partitions returns a copy of the partition list in address order.
func (m *Memory) Partitions() []Partition {
	return append([]Partition(nil), m.parts...)
}

// FreeSize returns the total free memory.
func (m *Memory) FreeSize() int {
	n := 0
	for _, p := range m.parts {
		if p.Free() {
			n += p.Size
		}
	}
	return n
}

// LargestHole returns the size of the largest free partition.
func (m *Memory) LargestHole() int {
	n := 0
	for _, p := range m.parts {
		if p.Free() && p.Size > n {
			n = p.Size
		}
	}
	return n
}

// Resident reports whether any unit of pid is loaded.
func (m *Memory) Resident(pid int) bool {
	_, ok := m.loadedAt[pid]
	return ok
}

// place puts u into parts and returns the new list and its start address.
func place(parts []Partition, pl Placement, u MemUnit) ([]Partition, int, bool) {
	i := pl.Choose(parts, u.Size())
	if i < 0 {
		return parts, -1, false
	}
	hole := parts[i]
	out := make([]Partition, 0, len(parts)+1)
	out = append(out, parts[:i]...)
	out = append(out, Partition{Start: hole.Start, Size: u.Size(), Unit: u})
	if rest := hole.Size - u.Size(); rest > 0 {
		out = append(out, Partition{Start: hole.Start + u.Size(), Size: rest})
	}
	out = append(out, parts[i+1:]...)
	return out, hole.Start, true
}

// Load places a single unit. On sim.ErrNoSpace memory is unchanged.
func (m *Memory) Load(u MemUnit) (int, error) {
	starts, err := m.LoadAll([]MemUnit{u})
	if err != nil {
		return -1, err
	}
	return starts[0], nil
}

// LoadAll places every unit or none of them, returning their start addresses.
func (m *Memory) LoadAll(units []MemUnit) ([]int, error) {
	parts := m.parts
	starts := make([]int, len(units))
	need := 0
	for i, u := range units {
		if u.Size() <= 0 {
			return nil, fmt.Errorf("loading pid %d: unit size must be > 0", u.PID())
		}
		need += u.Size()
		var ok bool
		parts, starts[i], ok = place(parts, m.Placement, u)
		if !ok {
			err := fmt.Errorf("loading pid %d: no hole for %d units (%d free, largest %d): %w",
				u.PID(), u.Size(), m.FreeSize(), m.LargestHole(), sim.ErrNoSpace)
			logrus.Warnf("[mem %05d] %v", m.Clock, err)
			m.record(u, need, err)
			return nil, err
		}
	}
	m.parts = parts
	for i, u := range units {
		if _, ok := m.loadedAt[u.PID()]; !ok {
			m.loadedAt[u.PID()] = m.Clock
		}
		logrus.Infof("[mem %05d] %s placed pid %d (%d units) at %d", m.Clock, m.Placement.Name(), u.PID(), u.Size(), starts[i])
	}
	if len(units) > 0 {
		m.record(units[0], need, nil)
	}
	return starts, nil
}

// Unload frees every unit whose parent is pid and merges adjacent holes.
// It returns the number of units freed.
func (m *Memory) Unload(pid int) int {
	freed := 0
	for i := range m.parts {
		if u := m.parts[i].Unit; u != nil && u.PID() == pid {
			m.parts[i].Unit = nil
			freed++
		}
	}
	delete(m.loadedAt, pid)
	m.coalesce()
	if freed > 0 {
		logrus.Infof("[mem %05d] unloaded pid %d (%d units)", m.Clock, pid, freed)
	}
	return freed
}

func (m *Memory) coalesce() {
	out := m.parts[:0]
	for _, p := range m.parts {
		if n := len(out); n > 0 && p.Free() && out[n-1].Free() {
			out[n-1].Size += p.Size
			continue
		}
		out = append(out, p)
	}
	m.parts = out
}

// Step advances the clock one unit and unloads every process whose
// Duration has elapsed. It returns the pids unloaded, ascending by address.
func (m *Memory) Step() []int {
	m.Clock++
	var expired []int
	seen := make(map[int]bool)
	for _, p := range m.parts {
		if p.Free() || seen[p.Unit.PID()] {
			continue
		}
		pid := p.Unit.PID()
		seen[pid] = true
		parent := p.Unit.Parent()
		if parent == nil || parent.Duration <= 0 {
			continue
		}
		if m.Clock-m.loadedAt[pid] >= parent.Duration {
			expired = append(expired, pid)
		}
	}
	for _, pid := range expired {
		m.Unload(pid)
	}
	logrus.Debugf("[mem %05d] %d free in %d partitions", m.Clock, m.FreeSize(), len(m.parts))
	return expired
}

// Clone returns an independent copy; units are cloned, the trace is not shared.
func (m *Memory) Clone() *Memory {
	c := &Memory{
		Size:      m.Size,
		Placement: m.Placement,
		Clock:     m.Clock,
		parts:     make([]Partition, len(m.parts)),
		loadedAt:  make(map[int]int, len(m.loadedAt)),
	}
	for i, p := range m.parts {
		c.parts[i] = p
		if p.Unit != nil {
			c.parts[i].Unit = p.Unit.Clone()
		}
	}
	for k, v := range m.loadedAt {
		c.loadedAt[k] = v
	}
	return c
}

// TableHeader is the header of the partition table.
func (m *Memory) TableHeader() []string {
	return append([]string{"Start", "End"}, UnitHeader()...)
}

// TableRows lists every partition; holes are white and unnamed.
func (m *Memory) TableRows() [][]sim.Cell {
	rows := make([][]sim.Cell, 0, len(m.parts))
	for _, p := range m.parts {
		row := []sim.Cell{sim.NewCell(strconv.Itoa(p.Start)), sim.NewCell(strconv.Itoa(p.End() - 1))}
		if p.Free() {
			row = append(row, sim.NewCell("-"), sim.NewCell("free"), sim.NewCell(""), sim.NewCell(strconv.Itoa(p.Size)), sim.NewCell(""))
		} else {
			row = append(row, p.Unit.Info()...)
		}
		rows = append(rows, row)
	}
	return rows
}

func (m *Memory) record(u MemUnit, units int, err error) {
	if m.Trace == nil {
		return
	}
	name := strconv.Itoa(u.PID())
	if p := u.Parent(); p != nil {
		name = p.Name
	}
	rec := trace.AllocationRecord{Op: "load", Object: name, Blocks: units, Success: err == nil}
	if err != nil {
		rec.Reason = err.Error()
	}
	m.Trace.RecordAllocation(rec)
}

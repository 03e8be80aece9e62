// Package memory models primary memory: processes as memory objects, their
// pages and segments, and a partition map filled by a placement policy.
package memory

import (
	"strconv"

	"github.com/ossim/ossim/sim"
)

// MemUnit is anything a memory manager can place: a whole process or one
// piece of it. Parent always resolves to the complete process.
type MemUnit interface {
	Parent() *ProcessComplete
	PID() int
	Size() int
	// Info is the display row of the unit.
	Info() []sim.Cell
	// XMLInfo is the persisted attribute list of the unit.
	XMLInfo() sim.Attributes
	// Clone returns a copy whose mutation never reaches the original.
	Clone() MemUnit
}

// ProcessComplete is an indivisible process image.
type ProcessComplete struct {
	pid      int
	Name     string
	size     int
	Duration int // steps resident once loaded, 0 = until unloaded
	Color    sim.Color
}

// NewProcessComplete returns an image of size memory units.
func NewProcessComplete(pid int, name string, size, duration int, color sim.Color) *ProcessComplete {
	return &ProcessComplete{pid: pid, Name: name, size: size, Duration: duration, Color: color}
}

func (p *ProcessComplete) Parent() *ProcessComplete { return p }
func (p *ProcessComplete) PID() int                 { return p.pid }
func (p *ProcessComplete) Size() int                { return p.size }

func (p *ProcessComplete) Info() []sim.Cell {
	return []sim.Cell{
		{Value: strconv.Itoa(p.pid), Color: p.Color},
		sim.NewCell(p.Name),
		sim.NewCell(""),
		sim.NewCell(strconv.Itoa(p.size)),
		sim.NewCell(strconv.Itoa(p.Duration)),
	}
}

func (p *ProcessComplete) XMLInfo() sim.Attributes {
	return sim.Attributes{
		{Name: "pid", Value: strconv.Itoa(p.pid)},
		{Name: "name", Value: p.Name},
		{Name: "size", Value: strconv.Itoa(p.size)},
		{Name: "duration", Value: strconv.Itoa(p.Duration)},
		{Name: "color", Value: p.Color.String()},
	}
}

func (p *ProcessComplete) Clone() MemUnit {
	c := *p
	return &c
}

// ComponentKind says how a component was split off its process.
type ComponentKind int

const (
	Page ComponentKind = iota
	Segmentation
)

func (k ComponentKind) String() string {
	if k == Segmentation {
		return "segment"
	}
	return "page"
}

// ProcessComponent is one page or segment of a process. It refers to its
// process by pid only; the table resolves it.
type ProcessComponent struct {
	Kind      ComponentKind
	Index     int
	size      int
	parentPID int
	table     *ProcessTable
}

// Parent returns the process this piece was split from, nil once that
// process has left the table.
func (c *ProcessComponent) Parent() *ProcessComplete {
	p, _ := c.table.Get(c.parentPID)
	return p
}

// PID returns the owning process identifier.
func (c *ProcessComponent) PID() int  { return c.parentPID }
func (c *ProcessComponent) Size() int { return c.size }

// Label names the piece, e.g. "page 2".
func (c *ProcessComponent) Label() string {
	return c.Kind.String() + " " + strconv.Itoa(c.Index)
}

func (c *ProcessComponent) Info() []sim.Cell {
	name, color, duration := "", sim.White, ""
	if p := c.Parent(); p != nil {
		name, color, duration = p.Name, p.Color, strconv.Itoa(p.Duration)
	}
	return []sim.Cell{
		{Value: strconv.Itoa(c.parentPID), Color: color},
		sim.NewCell(name),
		sim.NewCell(c.Label()),
		sim.NewCell(strconv.Itoa(c.size)),
		sim.NewCell(duration),
	}
}

func (c *ProcessComponent) XMLInfo() sim.Attributes {
	return sim.Attributes{
		{Name: "pid", Value: strconv.Itoa(c.parentPID)},
		{Name: "kind", Value: c.Kind.String()},
		{Name: "index", Value: strconv.Itoa(c.Index)},
		{Name: "size", Value: strconv.Itoa(c.size)},
	}
}

func (c *ProcessComponent) Clone() MemUnit {
	cp := *c
	return &cp
}

// UnitHeader is the column header matching MemUnit.Info.
func UnitHeader() []string {
	return []string{"PID", "Name", "Piece", "Size", "Duration"}
}

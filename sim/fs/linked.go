package fs

import (
	"strconv"

	"github.com/ossim/ossim/sim"
)

// Linked chains an object's blocks through a file allocation table. Growth
// appends the lowest free blocks to the chain, shrinking truncates it.
type Linked struct {
	base
}

// NewLinked returns a linked (FAT) strategy. Paths use a backslash separator.
func NewLinked(g Geometry) *Linked {
	l := &Linked{}
	l.base = newBase("linked", `\`, g, g.NumBlocks(), l)
	return l
}

func (l *Linked) Info() string {
	return "Linked allocation: blocks of an object form a chain recorded in the file allocation table."
}

func (l *Linked) plan(dev *Device, p *PhysicalObject, need int) ([]int, []int, bool) {
	cur := p.Blocks
	if need <= len(cur) {
		return append([]int(nil), cur[:need]...), nil, true
	}
	extra, ok := pickFree(dev, need-len(cur), nil)
	if !ok {
		return nil, nil, false
	}
	out := append(append([]int(nil), cur...), extra...)
	return out, nil, true
}

func (l *Linked) link(dev *Device, p *PhysicalObject) {
	for i, n := range p.Blocks {
		next := NoBlock
		if i+1 < len(p.Blocks) {
			next = p.Blocks[i+1]
		}
		dev.Blocks[n].Next = next
	}
}

// Chain follows the allocation table from start until the chain ends.
func Chain(dev *Device, start int) []int {
	var out []int
	seen := make(map[int]bool)
	for n := start; n != NoBlock && n >= 0 && n < dev.Len() && !seen[n]; n = dev.Blocks[n].Next {
		seen[n] = true
		out = append(out, n)
	}
	return out
}

func (l *Linked) DetailInfoHeader() []string {
	return []string{"Block", "Next"}
}

// DetailInfoData lists the chain of p one block per row.
func (l *Linked) DetailInfoData(dev *Device, p *PhysicalObject) [][]sim.Cell {
	if p == nil || p.logical == nil {
		return nil
	}
	var rows [][]sim.Cell
	for _, n := range Chain(dev, p.Start()) {
		rows = append(rows, []sim.Cell{
			{Value: strconv.Itoa(n), Color: p.logical.Color},
			sim.NewCell(strconv.Itoa(dev.Blocks[n].Next)),
		})
	}
	return rows
}

func (l *Linked) InnerDetailInfoHeader() []string {
	return []string{"Block", "Owner", "Next"}
}

func (l *Linked) InnerDetailInfoData(dev *Device, block int) [][]sim.Cell {
	rows := l.base.InnerDetailInfoData(dev, block)
	if rows == nil {
		return nil
	}
	rows[0] = append(rows[0], sim.NewCell(strconv.Itoa(dev.Blocks[block].Next)))
	return rows
}

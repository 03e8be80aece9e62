package fs

import (
	"strconv"

	"github.com/ossim/ossim/sim"
)

// Contiguous places every object in one run of adjacent blocks. An object
// that grows keeps its start block when the run after it is free and is
// relocated to the first fitting run otherwise.
type Contiguous struct {
	base
}

// NewContiguous returns a contiguous strategy. One descriptor slot exists per block.
func NewContiguous(g Geometry) *Contiguous {
	c := &Contiguous{}
	c.base = newBase("contiguous", "/", g, g.NumBlocks(), c)
	return c
}

func (c *Contiguous) Info() string {
	return "Contiguous allocation: each object occupies a single run of adjacent blocks (first fit)."
}

func (c *Contiguous) plan(dev *Device, p *PhysicalObject, need int) ([]int, []int, bool) {
	cur := p.Blocks
	if len(cur) > 0 {
		if need <= len(cur) {
			return append([]int(nil), cur[:need]...), nil, true
		}
		if runFits(dev, p, cur[0], need) {
			return run(cur[0], need), nil, true
		}
	}
	for s := dev.Geometry.AdminBlocks(); s+need <= dev.Len(); s++ {
		if runFits(dev, p, s, need) {
			return run(s, need), nil, true
		}
	}
	return nil, nil, false
}

func (c *Contiguous) link(*Device, *PhysicalObject) {}

func runFits(dev *Device, p *PhysicalObject, start, n int) bool {
	for i := start; i < start+n; i++ {
		if !ownedOrFree(dev, p, i) {
			return false
		}
	}
	return true
}

func run(start, n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = start + i
	}
	return out
}

func (c *Contiguous) DetailInfoHeader() []string {
	return []string{"Name", "Start", "Length"}
}

func (c *Contiguous) DetailInfoData(_ *Device, p *PhysicalObject) [][]sim.Cell {
	if p == nil || p.logical == nil {
		return nil
	}
	return [][]sim.Cell{{
		{Value: c.ownerName(p.ID), Color: p.logical.Color},
		sim.NewCell(strconv.Itoa(p.Start())),
		sim.NewCell(strconv.Itoa(len(p.Blocks))),
	}}
}

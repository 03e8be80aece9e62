package fs

import (
	"strconv"

	"github.com/ossim/ossim/sim"
)

const (
	// InodeSize is the bytes one inode takes in the admin region.
	InodeSize = sim.InodeSize
	// DirectPointers is the number of data blocks an inode addresses itself.
	DirectPointers = 10
	// PointerSize is the bytes one block pointer takes inside an index block.
	PointerSize = 4
)

// Indexed addresses data blocks through inodes: the first DirectPointers
// blocks directly, the rest through single-indirect index blocks holding
// BlockSize/PointerSize pointers each.
type Indexed struct {
	base
}

// NewIndexed returns an indexed strategy with AdminSize/InodeSize inodes.
func NewIndexed(g Geometry) *Indexed {
	x := &Indexed{}
	x.base = newBase("indexed", "/", g, slotsFor("indexed", g), x)
	return x
}

func (x *Indexed) Info() string {
	return "Indexed allocation: each object has an inode with direct pointers and single-indirect index blocks."
}

// PointersPerBlock returns how many data blocks one index block addresses.
func (x *Indexed) PointersPerBlock() int {
	return x.geo.BlockSize / PointerSize
}

// IndexBlocksFor returns the index blocks an object of n data blocks needs.
func (x *Indexed) IndexBlocksFor(n int) int {
	if n <= DirectPointers {
		return 0
	}
	ppb := x.PointersPerBlock()
	return (n - DirectPointers + ppb - 1) / ppb
}

func (x *Indexed) plan(dev *Device, p *PhysicalObject, need int) ([]int, []int, bool) {
	needIndex := x.IndexBlocksFor(need)
	keptData := p.Blocks
	if len(keptData) > need {
		keptData = keptData[:need]
	}
	keptIndex := p.Index
	if len(keptIndex) > needIndex {
		keptIndex = keptIndex[:needIndex]
	}
	extra, ok := pickFree(dev, need-len(keptData)+needIndex-len(keptIndex), nil)
	if !ok {
		return nil, nil, false
	}
	split := need - len(keptData)
	data := append(append([]int(nil), keptData...), extra[:split]...)
	index := append(append([]int(nil), keptIndex...), extra[split:]...)
	return data, index, true
}

func (x *Indexed) link(dev *Device, p *PhysicalObject) {
	ppb := x.PointersPerBlock()
	rest := p.Blocks
	if len(rest) > DirectPointers {
		rest = rest[DirectPointers:]
	} else {
		rest = nil
	}
	for _, ib := range p.Index {
		n := min(ppb, len(rest))
		dev.Blocks[ib].Index = append([]int(nil), rest[:n]...)
		rest = rest[n:]
	}
}

// Direct returns the data blocks addressed straight from the inode.
func (x *Indexed) Direct(p *PhysicalObject) []int {
	return p.Blocks[:min(DirectPointers, len(p.Blocks))]
}

func (x *Indexed) DetailInfoHeader() []string {
	return []string{"Pointer", "Block"}
}

// DetailInfoData lists the inode: direct pointers then index blocks.
func (x *Indexed) DetailInfoData(_ *Device, p *PhysicalObject) [][]sim.Cell {
	if p == nil || p.logical == nil {
		return nil
	}
	var rows [][]sim.Cell
	for i, n := range x.Direct(p) {
		rows = append(rows, []sim.Cell{
			sim.NewCell("direct " + strconv.Itoa(i)),
			{Value: strconv.Itoa(n), Color: p.logical.Color},
		})
	}
	for i, n := range p.Index {
		rows = append(rows, []sim.Cell{
			sim.NewCell("indirect " + strconv.Itoa(i)),
			{Value: strconv.Itoa(n), Color: sim.Yellow},
		})
	}
	return rows
}

func (x *Indexed) InnerDetailInfoHeader() []string {
	return []string{"Block", "Owner", "Pointer"}
}

// InnerDetailInfoData lists the pointers of an index block, or the block's
// owner alone for a data block.
func (x *Indexed) InnerDetailInfoData(dev *Device, block int) [][]sim.Cell {
	rows := x.base.InnerDetailInfoData(dev, block)
	if rows == nil {
		return nil
	}
	ptrs := dev.Blocks[block].Index
	if len(ptrs) == 0 {
		rows[0] = append(rows[0], sim.NewCell(""))
		return rows
	}
	out := make([][]sim.Cell, 0, len(ptrs))
	for i, ptr := range ptrs {
		row := []sim.Cell{sim.NewCell(""), sim.NewCell("")}
		if i == 0 {
			row = []sim.Cell{rows[0][0], rows[0][1]}
		}
		out = append(out, append(row, sim.NewCell(strconv.Itoa(ptr))))
	}
	return out
}

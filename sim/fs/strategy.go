package fs

import (
	"fmt"
	"strconv"

	"github.com/ossim/ossim/sim"
)

// TableColumns is the number of blocks per row of the occupancy table.
const TableColumns = 8

// Strategy is the file-system allocation policy. Concrete strategies differ
// only in how they place blocks; every other behavior is shared.
type Strategy interface {
	Name() string
	Info() string
	Geometry() Geometry
	IsAdminBlock(num int) bool
	BlockSize() int
	DevSize() int
	PathSeparator() string

	// InitRoot bootstraps the root folder at the start of the admin region.
	// It must be called exactly once per device.
	InitRoot(dev *Device) *LogicalObject
	// NewPhysicalObject reserves a descriptor slot; sim.ErrNoFreeSlots when none is left.
	NewPhysicalObject() (*PhysicalObject, error)
	// PhysicalObject looks up a live descriptor; sim.ErrNotFound on a miss.
	PhysicalObject(dev *Device, id int) (*PhysicalObject, error)
	// CheckAvailableDisk reports whether an object of size bytes could be placed now.
	CheckAvailableDisk(dev *Device, size int) bool
	// CheckMoreAvailableDisk reports whether obj could be resized to newSize bytes,
	// counting the blocks it already owns.
	CheckMoreAvailableDisk(dev *Device, newSize int, obj *LogicalObject) bool
	// AllocateObject places obj; sim.ErrNoSpace leaves the device unchanged.
	AllocateObject(dev *Device, obj *LogicalObject) error
	// UpdateObject re-lays obj out after its Size changed; sim.ErrNoSpace leaves
	// the device unchanged.
	UpdateObject(obj *LogicalObject, dev *Device) error
	// RemoveObject frees every block of obj (recursively for folders), releases
	// its slot, unlinks it and returns its former parent.
	RemoveObject(obj *LogicalObject, dev *Device) *LogicalObject

	SelectedFolderHeader() []string
	SelectedFolderData(folder *LogicalObject) [][]sim.Cell
	DetailInfoHeader() []string
	DetailInfoData(dev *Device, p *PhysicalObject) [][]sim.Cell
	InnerDetailInfoHeader() []string
	InnerDetailInfoData(dev *Device, block int) [][]sim.Cell
	TableHeader() []string
	TableData(dev *Device) [][]sim.Cell
}

// layout is the placement algorithm a concrete strategy plugs into base.
type layout interface {
	// plan returns the data and index blocks p would own after resizing to
	// need data blocks, without touching dev. p may be a fresh descriptor.
	plan(dev *Device, p *PhysicalObject, need int) (data, index []int, ok bool)
	// link writes per-block structure (chain pointers, index entries) for p.
	link(dev *Device, p *PhysicalObject)
}

// base implements the behavior shared by every strategy.
type base struct {
	geo     Geometry
	name    string
	sep     string
	used    []bool // descriptor slots
	objects map[int]*PhysicalObject
	root    *LogicalObject
	layout  layout
}

func newBase(name, sep string, g Geometry, slots int, l layout) base {
	if err := g.Validate(); err != nil {
		panic(fmt.Sprintf("%s strategy: %v", name, err))
	}
	if slots < 1 {
		panic(fmt.Sprintf("%s strategy: need at least one object slot, got %d", name, slots))
	}
	return base{
		geo:     g,
		name:    name,
		sep:     sep,
		used:    make([]bool, slots),
		objects: make(map[int]*PhysicalObject),
		layout:  l,
	}
}

// slotsFor returns the descriptor slots strategy name gets on g.
func slotsFor(name string, g Geometry) int {
	if name == "" || name == "indexed" {
		return g.AdminSize / InodeSize
	}
	return g.NumBlocks()
}

// CheckGeometry reports whether NewStrategy(name, g) would succeed.
func CheckGeometry(name string, g Geometry) error {
	if !sim.ValidFSStrategies[name] {
		return fmt.Errorf("unknown fs strategy %q", name)
	}
	if err := g.Validate(); err != nil {
		return err
	}
	if n := slotsFor(name, g); n < 1 {
		return fmt.Errorf("admin size %d holds no %d-byte inode", g.AdminSize, InodeSize)
	}
	return nil
}

// NewStrategy creates a Strategy by name. Valid names are the keys of
// sim.ValidFSStrategies; empty defaults to indexed. Panics on unrecognized
// names or invalid geometry.
func NewStrategy(name string, g Geometry) Strategy {
	if !sim.ValidFSStrategies[name] {
		panic(fmt.Sprintf("unknown fs strategy %q", name))
	}
	switch name {
	case "", "indexed":
		return NewIndexed(g)
	case "contiguous":
		return NewContiguous(g)
	case "linked":
		return NewLinked(g)
	default:
		panic(fmt.Sprintf("unhandled fs strategy %q", name))
	}
}

func (b *base) Name() string              { return b.name }
func (b *base) Geometry() Geometry        { return b.geo }
func (b *base) IsAdminBlock(num int) bool { return b.geo.IsAdminBlock(num) }
func (b *base) BlockSize() int            { return b.geo.BlockSize }
func (b *base) DevSize() int              { return b.geo.DeviceSize }
func (b *base) PathSeparator() string     { return b.sep }

// Slots returns the number of descriptor slots, including the root's.
func (b *base) Slots() int { return len(b.used) }

func (b *base) InitRoot(dev *Device) *LogicalObject {
	if b.root != nil {
		panic("InitRoot: root already initialized")
	}
	for i := 0; i < b.geo.AdminBlocks(); i++ {
		dev.claim(i, AdminOwner)
	}
	b.used[0] = true
	p := &PhysicalObject{ID: 0, Blocks: []int{0}}
	dev.claim(0, 0)
	b.objects[0] = p
	b.root = NewLogicalObject("", KindFolder, FolderSize(0), p)
	b.root.Color = sim.LightGray
	return b.root
}

func (b *base) NewPhysicalObject() (*PhysicalObject, error) {
	for id, taken := range b.used {
		if !taken {
			b.used[id] = true
			p := &PhysicalObject{ID: id}
			b.objects[id] = p
			return p, nil
		}
	}
	return nil, fmt.Errorf("%s: all %d descriptors in use: %w", b.name, len(b.used), sim.ErrNoFreeSlots)
}

func (b *base) PhysicalObject(_ *Device, id int) (*PhysicalObject, error) {
	p, ok := b.objects[id]
	if !ok {
		return nil, fmt.Errorf("physical object %d: %w", id, sim.ErrNotFound)
	}
	return p, nil
}

func (b *base) CheckAvailableDisk(dev *Device, size int) bool {
	_, _, ok := b.layout.plan(dev, &PhysicalObject{ID: NoOwner}, b.geo.BlocksFor(size))
	return ok
}

func (b *base) CheckMoreAvailableDisk(dev *Device, newSize int, obj *LogicalObject) bool {
	if obj == b.root {
		return true
	}
	if obj.phys == nil {
		return false
	}
	_, _, ok := b.layout.plan(dev, obj.phys, b.geo.BlocksFor(newSize))
	return ok
}

func (b *base) AllocateObject(dev *Device, obj *LogicalObject) error {
	p := obj.phys
	if p == nil {
		return fmt.Errorf("allocating %q: no physical descriptor", obj.Name)
	}
	if len(p.Owned()) > 0 {
		return fmt.Errorf("allocating %q: already placed at block %d", obj.Name, p.Start())
	}
	return b.place(dev, obj, "allocating")
}

func (b *base) UpdateObject(obj *LogicalObject, dev *Device) error {
	if obj == b.root {
		return nil // root entries live in the admin region
	}
	if obj.phys == nil {
		return fmt.Errorf("updating %q: no physical descriptor", obj.Name)
	}
	return b.place(dev, obj, "updating")
}

func (b *base) place(dev *Device, obj *LogicalObject, verb string) error {
	p := obj.phys
	need := b.geo.BlocksFor(obj.Size)
	data, index, ok := b.layout.plan(dev, p, need)
	if !ok {
		return fmt.Errorf("%s %q: %d blocks needed, %d free: %w", verb, obj.Name, need, dev.FreeCount(), sim.ErrNoSpace)
	}
	keep := make(map[int]bool, len(data)+len(index))
	for _, n := range data {
		keep[n] = true
	}
	for _, n := range index {
		keep[n] = true
	}
	for _, n := range p.Owned() {
		if !keep[n] {
			dev.release(n)
		}
	}
	for _, n := range data {
		dev.claim(n, p.ID)
	}
	for _, n := range index {
		dev.claim(n, p.ID)
	}
	p.Blocks = data
	p.Index = index
	b.layout.link(dev, p)
	return nil
}

func (b *base) RemoveObject(obj *LogicalObject, dev *Device) *LogicalObject {
	if obj == b.root || obj.phys == nil {
		return obj.parent
	}
	// A removed object's descriptor id may already belong to a newer object.
	if b.objects[obj.phys.ID] != obj.phys {
		return obj.parent
	}
	for _, c := range obj.Children() {
		b.RemoveObject(c, dev)
	}
	p := obj.phys
	for _, n := range p.Owned() {
		dev.release(n)
	}
	p.Blocks, p.Index = nil, nil
	if p.ID >= 0 && p.ID < len(b.used) {
		b.used[p.ID] = false
	}
	delete(b.objects, p.ID)
	parent := obj.parent
	if parent != nil {
		parent.removeChild(obj)
	}
	return parent
}

// ownerName returns the display name of a block owner.
func (b *base) ownerName(owner int) string {
	switch owner {
	case NoOwner:
		return "free"
	case AdminOwner:
		return "admin"
	}
	if p, ok := b.objects[owner]; ok && p.logical != nil {
		if p.logical == b.root {
			return b.sep
		}
		return p.logical.Name
	}
	return strconv.Itoa(owner)
}

func (b *base) blockColor(dev *Device, num int) sim.Color {
	blk := dev.Blocks[num]
	switch {
	case b.geo.IsAdminBlock(num):
		return sim.Gray
	case blk.Free():
		return sim.White
	}
	if p, ok := b.objects[blk.Owner]; ok && p.logical != nil {
		return p.logical.Color
	}
	return sim.Red
}

func (b *base) SelectedFolderHeader() []string {
	return []string{"Name", "Type", "Size", "ID", "Start"}
}

func (b *base) SelectedFolderData(folder *LogicalObject) [][]sim.Cell {
	rows := make([][]sim.Cell, 0, len(folder.children))
	for _, c := range folder.children {
		start := NoBlock
		if c.phys != nil {
			start = c.phys.Start()
		}
		rows = append(rows, []sim.Cell{
			{Value: c.Name, Color: c.Color},
			sim.NewCell(c.Kind.String()),
			sim.NewCell(strconv.Itoa(c.Size)),
			sim.NewCell(strconv.Itoa(c.ID())),
			sim.NewCell(strconv.Itoa(start)),
		})
	}
	return rows
}

func (b *base) InnerDetailInfoHeader() []string {
	return []string{"Block", "Owner"}
}

func (b *base) InnerDetailInfoData(dev *Device, block int) [][]sim.Cell {
	if block < 0 || block >= dev.Len() {
		return nil
	}
	return [][]sim.Cell{{
		{Value: strconv.Itoa(block), Color: b.blockColor(dev, block)},
		sim.NewCell(b.ownerName(dev.Blocks[block].Owner)),
	}}
}

func (b *base) TableHeader() []string {
	h := make([]string, TableColumns)
	for i := range h {
		h[i] = strconv.Itoa(i)
	}
	return h
}

// TableData returns the occupancy grid: admin blocks gray, free blocks white,
// used blocks in their owner's color.
func (b *base) TableData(dev *Device) [][]sim.Cell {
	var rows [][]sim.Cell
	for start := 0; start < dev.Len(); start += TableColumns {
		row := make([]sim.Cell, 0, TableColumns)
		for n := start; n < start+TableColumns && n < dev.Len(); n++ {
			row = append(row, sim.Cell{Value: strconv.Itoa(n), Color: b.blockColor(dev, n)})
		}
		rows = append(rows, row)
	}
	return rows
}

// ownedOrFree reports whether block n can belong to p after a re-layout.
func ownedOrFree(dev *Device, p *PhysicalObject, n int) bool {
	if n < 0 || n >= dev.Len() || dev.Geometry.IsAdminBlock(n) {
		return false
	}
	owner := dev.Blocks[n].Owner
	return owner == NoOwner || (p.ID != NoOwner && owner == p.ID)
}

// pickFree returns the n lowest free data blocks not in taken.
func pickFree(dev *Device, n int, taken map[int]bool) ([]int, bool) {
	out := make([]int, 0, n)
	if n <= 0 {
		return out, true
	}
	for _, f := range dev.FreeBlocks() {
		if taken[f] {
			continue
		}
		out = append(out, f)
		if len(out) == n {
			return out, true
		}
	}
	return nil, false
}

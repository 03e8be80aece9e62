package fs

import (
	"strings"

	"github.com/ossim/ossim/sim"
)

// Kind distinguishes files from folders.
type Kind int

const (
	KindFile Kind = iota
	KindFolder
)

func (k Kind) String() string {
	if k == KindFolder {
		return "folder"
	}
	return "file"
}

// EntrySize is the bytes one directory entry takes inside its folder.
const EntrySize = 32

// PhysicalObject is the on-device placement record of a logical object.
type PhysicalObject struct {
	ID      int
	Blocks  []int // data blocks in logical order
	Index   []int // index blocks (indexed allocation only)
	logical *LogicalObject
}

// Logical returns the object this record backs.
func (p *PhysicalObject) Logical() *LogicalObject { return p.logical }

// Owned returns every block the object holds: data then index blocks.
func (p *PhysicalObject) Owned() []int {
	out := make([]int, 0, len(p.Blocks)+len(p.Index))
	out = append(out, p.Blocks...)
	return append(out, p.Index...)
}

// Start returns the first data block, or NoBlock.
func (p *PhysicalObject) Start() int {
	if len(p.Blocks) == 0 {
		return NoBlock
	}
	return p.Blocks[0]
}

// LogicalObject is a file or folder as the user sees it.
type LogicalObject struct {
	Name  string
	Kind  Kind
	Size  int // bytes
	Color sim.Color

	parent   *LogicalObject
	children []*LogicalObject
	phys     *PhysicalObject
}

// NewLogicalObject creates an unplaced object backed by phys.
func NewLogicalObject(name string, kind Kind, size int, phys *PhysicalObject) *LogicalObject {
	o := &LogicalObject{Name: name, Kind: kind, Size: size, phys: phys}
	if phys != nil {
		phys.logical = o
	}
	return o
}

// IsFolder reports whether o is a folder.
func (o *LogicalObject) IsFolder() bool { return o.Kind == KindFolder }

// Parent returns the containing folder, nil for the root or a detached object.
func (o *LogicalObject) Parent() *LogicalObject { return o.parent }

// Physical returns the placement record.
func (o *LogicalObject) Physical() *PhysicalObject { return o.phys }

// ID returns the physical object identifier.
func (o *LogicalObject) ID() int {
	if o.phys == nil {
		return NoOwner
	}
	return o.phys.ID
}

// Children returns a copy of the folder's contents in insertion order.
func (o *LogicalObject) Children() []*LogicalObject {
	return append([]*LogicalObject(nil), o.children...)
}

// Child returns the direct child called name.
func (o *LogicalObject) Child(name string) *LogicalObject {
	for _, c := range o.children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func (o *LogicalObject) addChild(c *LogicalObject) {
	c.parent = o
	o.children = append(o.children, c)
}

func (o *LogicalObject) removeChild(c *LogicalObject) {
	for i, v := range o.children {
		if v == c {
			o.children = append(o.children[:i], o.children[i+1:]...)
			c.parent = nil
			return
		}
	}
}

// Path joins the names from the root down to o with sep.
func (o *LogicalObject) Path(sep string) string {
	if o.parent == nil {
		return sep
	}
	var parts []string
	for c := o; c.parent != nil; c = c.parent {
		parts = append([]string{c.Name}, parts...)
	}
	return sep + strings.Join(parts, sep)
}

// FolderItem is one directory entry of a folder.
type FolderItem struct {
	Name string
	ID   int
	Kind Kind
	Size int
}

// Entries returns the directory-entry view of a folder.
func (o *LogicalObject) Entries() []FolderItem {
	out := make([]FolderItem, len(o.children))
	for i, c := range o.children {
		out[i] = FolderItem{Name: c.Name, ID: c.ID(), Kind: c.Kind, Size: c.Size}
	}
	return out
}

// FolderSize returns the bytes a folder with n entries occupies.
func FolderSize(n int) int {
	if n < 1 {
		n = 1
	}
	return n * EntrySize
}

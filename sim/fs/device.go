// Models the secondary-storage device: a fixed array of blocks whose first
// ceil(AdminSize/BlockSize) entries are reserved for file-system bookkeeping.

package fs

import "fmt"

const (
	// NoBlock terminates a linked chain.
	NoBlock = -1
	// NoOwner marks a free block.
	NoOwner = -1
	// AdminOwner marks an administrative block not owned by any object.
	AdminOwner = -2
)

// Geometry is the static device layout, all sizes in bytes.
type Geometry struct {
	BlockSize  int
	DeviceSize int
	AdminSize  int
}

// NumBlocks returns the number of blocks on the device.
func (g Geometry) NumBlocks() int {
	if g.BlockSize <= 0 {
		return 0
	}
	return g.DeviceSize / g.BlockSize
}

// AdminBlocks returns the size of the reserved prefix in blocks.
func (g Geometry) AdminBlocks() int {
	if g.BlockSize <= 0 {
		return 0
	}
	return (g.AdminSize + g.BlockSize - 1) / g.BlockSize
}

// IsAdminBlock reports whether block num belongs to the reserved prefix.
func (g Geometry) IsAdminBlock(num int) bool {
	return num >= 0 && num < g.AdminBlocks()
}

// BlocksFor returns the data blocks an object of size bytes occupies.
// Every object, even an empty one, holds at least one block.
func (g Geometry) BlocksFor(size int) int {
	if size <= 0 || g.BlockSize <= 0 {
		return 1
	}
	return (size + g.BlockSize - 1) / g.BlockSize
}

// Validate checks that the geometry describes a usable device.
func (g Geometry) Validate() error {
	if g.BlockSize <= 0 {
		return fmt.Errorf("block size must be > 0, got %d", g.BlockSize)
	}
	if g.DeviceSize < g.BlockSize {
		return fmt.Errorf("device size %d smaller than one block (%d)", g.DeviceSize, g.BlockSize)
	}
	if g.AdminSize <= 0 {
		return fmt.Errorf("admin size must be > 0, got %d", g.AdminSize)
	}
	if g.AdminBlocks() >= g.NumBlocks() {
		return fmt.Errorf("admin region (%d blocks) leaves no data blocks on a %d-block device", g.AdminBlocks(), g.NumBlocks())
	}
	return nil
}

// Block is one device block.
type Block struct {
	Num   int
	Owner int   // physical object id, NoOwner or AdminOwner
	Next  int   // linked allocation: next block of the chain
	Index []int // indexed allocation: pointers stored in an index block
}

// Free reports whether the block is unallocated.
func (b *Block) Free() bool { return b.Owner == NoOwner }

// Device is the whole block array.
type Device struct {
	Geometry Geometry
	Blocks   []Block
}

// NewDevice returns a device with every block free. Panics on invalid geometry.
func NewDevice(g Geometry) *Device {
	if err := g.Validate(); err != nil {
		panic(fmt.Sprintf("NewDevice: %v", err))
	}
	d := &Device{Geometry: g, Blocks: make([]Block, g.NumBlocks())}
	for i := range d.Blocks {
		d.Blocks[i] = Block{Num: i, Owner: NoOwner, Next: NoBlock}
	}
	return d
}

// Len returns the number of blocks.
func (d *Device) Len() int { return len(d.Blocks) }

// IsFree reports whether block num is a free data block.
func (d *Device) IsFree(num int) bool {
	return num >= 0 && num < len(d.Blocks) && !d.Geometry.IsAdminBlock(num) && d.Blocks[num].Free()
}

// FreeBlocks returns every free data block in ascending order.
func (d *Device) FreeBlocks() []int {
	var out []int
	for i := d.Geometry.AdminBlocks(); i < len(d.Blocks); i++ {
		if d.Blocks[i].Free() {
			out = append(out, i)
		}
	}
	return out
}

// FreeCount returns the number of free data blocks.
func (d *Device) FreeCount() int {
	n := 0
	for i := d.Geometry.AdminBlocks(); i < len(d.Blocks); i++ {
		if d.Blocks[i].Free() {
			n++
		}
	}
	return n
}

// UsedCount returns the number of data blocks owned by objects.
func (d *Device) UsedCount() int {
	return len(d.Blocks) - d.Geometry.AdminBlocks() - d.FreeCount()
}

// Owners returns the owner of every block, indexed by block number.
func (d *Device) Owners() []int {
	out := make([]int, len(d.Blocks))
	for i, b := range d.Blocks {
		out[i] = b.Owner
	}
	return out
}

func (d *Device) claim(num, owner int) {
	b := &d.Blocks[num]
	b.Owner = owner
	b.Next = NoBlock
	b.Index = nil
}

func (d *Device) release(num int) {
	d.claim(num, NoOwner)
}

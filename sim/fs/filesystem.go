package fs

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ossim/ossim/sim"
	"github.com/ossim/ossim/sim/trace"
)

// palette colors new objects round-robin.
var palette = []sim.Color{
	0x1E90FF, 0xFF8C00, 0x32CD32, 0xBA55D3, 0xFF6347,
	0x20B2AA, 0xDAA520, 0x6495ED, 0xDB7093, 0x8FBC8F,
}

// FileSystem drives a Strategy over a Device through path-based operations.
// Every operation is all-or-nothing: on error the device, the slot pool and
// the folder tree are left as they were.
type FileSystem struct {
	Strategy Strategy
	Device   *Device
	Root     *LogicalObject
	// Trace records allocation attempts; nil disables recording.
	Trace *trace.SimulationTrace

	colors int
}

// New formats a device for strategy and creates its root folder.
func New(strategy Strategy) *FileSystem {
	dev := NewDevice(strategy.Geometry())
	root := strategy.InitRoot(dev)
	return &FileSystem{Strategy: strategy, Device: dev, Root: root}
}

func (f *FileSystem) split(path string) []string {
	var parts []string
	for _, p := range strings.Split(path, f.Strategy.PathSeparator()) {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

// Lookup resolves an absolute path; sim.ErrNotFound on a miss.
func (f *FileSystem) Lookup(path string) (*LogicalObject, error) {
	cur := f.Root
	for _, name := range f.split(path) {
		if !cur.IsFolder() {
			return nil, fmt.Errorf("%s: %q is not a folder: %w", path, cur.Name, sim.ErrNotFound)
		}
		next := cur.Child(name)
		if next == nil {
			return nil, fmt.Errorf("%s: %w", path, sim.ErrNotFound)
		}
		cur = next
	}
	return cur, nil
}

// Mkdir creates an empty folder.
func (f *FileSystem) Mkdir(path string) (*LogicalObject, error) {
	obj, err := f.create(path, KindFolder, FolderSize(0))
	f.record("mkdir", path, obj, err)
	return obj, err
}

// Create creates a file of size bytes.
func (f *FileSystem) Create(path string, size int) (*LogicalObject, error) {
	if size < 0 {
		err := fmt.Errorf("create %s: negative size %d", path, size)
		f.record("create", path, nil, err)
		return nil, err
	}
	obj, err := f.create(path, KindFile, size)
	f.record("create", path, obj, err)
	return obj, err
}

func (f *FileSystem) create(path string, kind Kind, size int) (*LogicalObject, error) {
	parts := f.split(path)
	if len(parts) == 0 {
		return nil, fmt.Errorf("create %q: path names the root", path)
	}
	name := parts[len(parts)-1]
	parent, err := f.Lookup(strings.Join(parts[:len(parts)-1], f.Strategy.PathSeparator()))
	if err != nil {
		return nil, err
	}
	if !parent.IsFolder() {
		return nil, fmt.Errorf("create %s: parent %q is a file", path, parent.Name)
	}
	if parent.Child(name) != nil {
		return nil, fmt.Errorf("create %s: already exists", path)
	}

	p, err := f.Strategy.NewPhysicalObject()
	if err != nil {
		return nil, err
	}
	obj := NewLogicalObject(name, kind, size, p)
	obj.Color = palette[f.colors%len(palette)]
	if err := f.Strategy.AllocateObject(f.Device, obj); err != nil {
		f.Strategy.RemoveObject(obj, f.Device) // releases the slot
		return nil, err
	}
	if err := f.growFolder(parent, len(parent.children)+1); err != nil {
		f.Strategy.RemoveObject(obj, f.Device)
		return nil, err
	}
	f.colors++
	parent.addChild(obj)
	logrus.Infof("[fs] %s %s: %d blocks from %d", kind, obj.Path(f.Strategy.PathSeparator()), len(p.Blocks), p.Start())
	return obj, nil
}

// growFolder resizes folder for entries directory entries.
func (f *FileSystem) growFolder(folder *LogicalObject, entries int) error {
	size := FolderSize(entries)
	if size == folder.Size {
		return nil
	}
	old := folder.Size
	folder.Size = size
	if err := f.Strategy.UpdateObject(folder, f.Device); err != nil {
		folder.Size = old
		return err
	}
	return nil
}

// Resize changes the size of a file in bytes.
func (f *FileSystem) Resize(path string, size int) (*LogicalObject, error) {
	obj, err := f.resize(path, size)
	f.record("resize", path, obj, err)
	return obj, err
}

func (f *FileSystem) resize(path string, size int) (*LogicalObject, error) {
	obj, err := f.Lookup(path)
	if err != nil {
		return nil, err
	}
	if obj.IsFolder() {
		return nil, fmt.Errorf("resize %s: folders are sized by their entries", path)
	}
	if size < 0 {
		return nil, fmt.Errorf("resize %s: negative size %d", path, size)
	}
	old := obj.Size
	obj.Size = size
	if err := f.Strategy.UpdateObject(obj, f.Device); err != nil {
		obj.Size = old
		return nil, err
	}
	logrus.Infof("[fs] resized %s from %d to %d bytes", path, old, size)
	return obj, nil
}

// Remove deletes an object, recursively for folders, and returns its parent.
func (f *FileSystem) Remove(path string) (*LogicalObject, error) {
	parent, err := f.remove(path)
	f.record("remove", path, nil, err)
	return parent, err
}

func (f *FileSystem) remove(path string) (*LogicalObject, error) {
	obj, err := f.Lookup(path)
	if err != nil {
		return nil, err
	}
	if obj == f.Root {
		return nil, fmt.Errorf("remove %q: cannot remove the root", path)
	}
	parent := f.Strategy.RemoveObject(obj, f.Device)
	if parent != nil {
		// Shrinking never needs new blocks.
		if err := f.growFolder(parent, len(parent.children)); err != nil {
			logrus.Warnf("[fs] shrinking %q after remove: %v", parent.Name, err)
		}
	}
	logrus.Infof("[fs] removed %s", path)
	return parent, nil
}

// Apply runs one named operation: mkdir, create, resize or remove.
func (f *FileSystem) Apply(op, path string, size int) error {
	var err error
	switch op {
	case "mkdir":
		_, err = f.Mkdir(path)
	case "create":
		_, err = f.Create(path, size)
	case "resize":
		_, err = f.Resize(path, size)
	case "remove":
		_, err = f.Remove(path)
	default:
		err = fmt.Errorf("unknown fs operation %q", op)
	}
	return err
}

// Walk visits every object below the root depth-first, parents first.
func (f *FileSystem) Walk(fn func(obj *LogicalObject, depth int)) {
	var walk func(o *LogicalObject, depth int)
	walk = func(o *LogicalObject, depth int) {
		for _, c := range o.children {
			fn(c, depth)
			if c.IsFolder() {
				walk(c, depth+1)
			}
		}
	}
	walk(f.Root, 0)
}

func (f *FileSystem) record(op, path string, obj *LogicalObject, err error) {
	if err != nil {
		lvl := logrus.WarnLevel
		if errors.Is(err, sim.ErrNotFound) {
			lvl = logrus.InfoLevel
		}
		logrus.StandardLogger().Logf(lvl, "[fs] %s %s failed: %v", op, path, err)
	}
	if f.Trace == nil {
		return
	}
	rec := trace.AllocationRecord{Op: op, Object: path, Success: err == nil}
	if obj != nil && obj.phys != nil {
		rec.Blocks = len(obj.phys.Owned())
	}
	if err != nil {
		rec.Reason = err.Error()
	}
	f.Trace.RecordAllocation(rec)
}

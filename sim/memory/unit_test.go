package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ossim/ossim/sim"
)

func TestProcessComplete_IsItsOwnParent(t *testing.T) {
	p := NewProcessComplete(4, "editor", 300, 5, sim.Red)
	assert.Same(t, p, p.Parent())
	assert.Equal(t, 4, p.PID())
	assert.Equal(t, 300, p.Size())
	assert.Equal(t, []string{"4", "editor", "", "300", "5"}, sim.Values(p.Info()))
	assert.Equal(t, sim.Red, p.Info()[0].Color)
}

func TestProcessComplete_CloneIsIndependent(t *testing.T) {
	p := NewProcessComplete(1, "a", 100, 0, sim.Green)
	c := p.Clone().(*ProcessComplete)
	c.Name = "b"
	c.Duration = 9
	assert.Equal(t, "a", p.Name)
	assert.Equal(t, 0, p.Duration)
	assert.NotSame(t, p, c)
}

func TestProcessComplete_XMLInfo(t *testing.T) {
	p := NewProcessComplete(2, "db", 64, 3, 0x0000FF)
	got := p.XMLInfo()
	v, ok := got.Get("color")
	require.True(t, ok)
	assert.Equal(t, "-16776961", v)
	v, _ = got.Get("size")
	assert.Equal(t, "64", v)
}

func TestProcessComponent_ResolvesParentThroughTable(t *testing.T) {
	tbl := NewProcessTable()
	p, err := tbl.New("shell", 250, 0, sim.Yellow)
	require.NoError(t, err)

	pages, err := tbl.Paginate(p.PID(), 100)
	require.NoError(t, err)
	require.Len(t, pages, 3)
	assert.Equal(t, []int{100, 100, 50}, []int{pages[0].Size(), pages[1].Size(), pages[2].Size()})
	for i, pg := range pages {
		assert.Same(t, p, pg.Parent())
		assert.Equal(t, p.PID(), pg.PID())
		assert.Equal(t, i, pg.Index)
	}
	assert.Equal(t, "page 2", pages[2].Label())
	assert.Equal(t, []string{"1", "shell", "page 0", "100", "0"}, sim.Values(pages[0].Info()))

	tbl.Remove(p.PID())
	assert.Nil(t, pages[0].Parent())
}

func TestProcessComponent_CloneKeepsParentLink(t *testing.T) {
	tbl := NewProcessTable()
	p, err := tbl.New("x", 10, 0, sim.Red)
	require.NoError(t, err)
	segs, err := tbl.Segment(p.PID(), []int{4, 6})
	require.NoError(t, err)

	c := segs[1].Clone().(*ProcessComponent)
	c.Index = 7
	assert.Equal(t, 1, segs[1].Index)
	assert.Same(t, p, c.Parent())
	v, _ := segs[1].XMLInfo().Get("kind")
	assert.Equal(t, "segment", v)
}

func TestProcessTable_SegmentValidatesSizes(t *testing.T) {
	tbl := NewProcessTable()
	p, err := tbl.New("x", 10, 0, sim.Red)
	require.NoError(t, err)
	_, err = tbl.Segment(p.PID(), []int{4, 5})
	assert.Error(t, err)
	_, err = tbl.Segment(p.PID(), []int{10, 0})
	assert.Error(t, err)
	_, err = tbl.Segment(99, []int{10})
	assert.ErrorIs(t, err, sim.ErrNotFound)
	_, err = tbl.Paginate(p.PID(), 0)
	assert.Error(t, err)
}

func TestProcessTable_AddObservesPIDs(t *testing.T) {
	tbl := NewProcessTable()
	require.NoError(t, tbl.Add(NewProcessComplete(7, "loaded", 10, 0, sim.Red)))
	assert.Error(t, tbl.Add(NewProcessComplete(7, "dup", 10, 0, sim.Red)))
	p, err := tbl.New("fresh", 10, 0, sim.Red)
	require.NoError(t, err)
	assert.Equal(t, 8, p.PID())
	assert.Equal(t, []int{7, 8}, tbl.PIDs())
	_, err = tbl.New("empty", 0, 0, sim.Red)
	assert.Error(t, err)
}

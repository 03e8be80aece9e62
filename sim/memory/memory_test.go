package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ossim/ossim/sim"
	"github.com/ossim/ossim/sim/trace"
)

// fragmented returns memory with holes of 100 at 0, 300 at 150 and 200 at 500.
func fragmented(t *testing.T, policy string) (*Memory, *ProcessTable) {
	t.Helper()
	m := New(700, NewPlacement(policy))
	tbl := NewProcessTable()
	for _, size := range []int{100, 50, 300, 50, 200} {
		p, err := tbl.New("p", size, 0, sim.Red)
		require.NoError(t, err)
		_, err = m.Load(p)
		require.NoError(t, err)
	}
	m.Unload(1)
	m.Unload(3)
	m.Unload(5)
	require.Equal(t, 600, m.FreeSize())
	return m, tbl
}

func TestPlacement_ChoosesHolePerPolicy(t *testing.T) {
	tests := []struct {
		policy string
		start  int
	}{
		{"first-fit", 150},
		{"", 150},
		{"best-fit", 500},
		{"worst-fit", 150},
	}
	for _, tt := range tests {
		t.Run(tt.policy, func(t *testing.T) {
			m, tbl := fragmented(t, tt.policy)
			p, err := tbl.New("new", 120, 0, sim.Green)
			require.NoError(t, err)
			start, err := m.Load(p)
			require.NoError(t, err)
			assert.Equal(t, tt.start, start)
		})
	}
}

func TestPlacement_UnknownPanics(t *testing.T) {
	assert.Panics(t, func() { NewPlacement("next-fit") })
	assert.Equal(t, "best-fit", NewPlacement("best-fit").Name())
}

func TestMemory_LoadFailureLeavesMemoryUnchanged(t *testing.T) {
	m, tbl := fragmented(t, "first-fit")
	m.Trace = trace.NewSimulationTrace(trace.TraceConfig{Level: trace.TraceLevelDecisions})
	before := m.Partitions()

	p, err := tbl.New("big", 400, 0, sim.Green)
	require.NoError(t, err)
	_, err = m.Load(p)
	require.ErrorIs(t, err, sim.ErrNoSpace)
	assert.True(t, sim.IsExhausted(err))
	assert.Equal(t, before, m.Partitions())
	assert.False(t, m.Resident(p.PID()))

	require.Len(t, m.Trace.Allocations, 1)
	assert.False(t, m.Trace.Allocations[0].Success)
	assert.Equal(t, "big", m.Trace.Allocations[0].Object)
}

func TestMemory_LoadAllIsAllOrNothing(t *testing.T) {
	m, tbl := fragmented(t, "first-fit")
	p, err := tbl.New("paged", 450, 0, sim.Green)
	require.NoError(t, err)
	pages, err := tbl.Paginate(p.PID(), 150)
	require.NoError(t, err)
	before := m.Partitions()

	// three pages of 150 fit (300 hole takes two, 200 hole one); a fourth would not
	units := []MemUnit{pages[0], pages[1], pages[2]}
	starts, err := m.LoadAll(units)
	require.NoError(t, err)
	assert.Equal(t, []int{150, 300, 500}, starts)

	m2 := New(400, FirstFit{})
	_, err = m2.LoadAll(units)
	require.ErrorIs(t, err, sim.ErrNoSpace)
	assert.Equal(t, []Partition{{Start: 0, Size: 400}}, m2.Partitions())
	assert.NotEqual(t, before, m.Partitions())
}

func TestMemory_UnloadFreesAllComponentsAndMerges(t *testing.T) {
	m := New(1000, FirstFit{})
	tbl := NewProcessTable()
	a, err := tbl.New("a", 300, 0, sim.Red)
	require.NoError(t, err)
	segs, err := tbl.Segment(a.PID(), []int{100, 200})
	require.NoError(t, err)
	_, err = m.LoadAll([]MemUnit{segs[0], segs[1]})
	require.NoError(t, err)
	require.Len(t, m.Partitions(), 3)

	assert.Equal(t, 2, m.Unload(a.PID()))
	assert.Equal(t, []Partition{{Start: 0, Size: 1000}}, m.Partitions())
	assert.Equal(t, 0, m.Unload(a.PID()))
}

func TestMemory_StepExpiresByDuration(t *testing.T) {
	m := New(100, FirstFit{})
	tbl := NewProcessTable()
	short, err := tbl.New("short", 10, 2, sim.Red)
	require.NoError(t, err)
	forever, err := tbl.New("forever", 10, 0, sim.Red)
	require.NoError(t, err)
	_, err = m.Load(short)
	require.NoError(t, err)
	_, err = m.Load(forever)
	require.NoError(t, err)

	assert.Empty(t, m.Step())
	assert.Equal(t, []int{short.PID()}, m.Step())
	assert.False(t, m.Resident(short.PID()))
	assert.True(t, m.Resident(forever.PID()))
	assert.Equal(t, 90, m.FreeSize())
}

func TestMemory_CloneDoesNotAlias(t *testing.T) {
	m := New(100, FirstFit{})
	p := NewProcessComplete(1, "a", 40, 0, sim.Red)
	_, err := m.Load(p)
	require.NoError(t, err)

	c := m.Clone()
	require.NotNil(t, c.Partitions()[0].Unit)
	assert.NotSame(t, p, c.Partitions()[0].Unit)
	assert.Equal(t, p.PID(), c.Partitions()[0].Unit.PID())

	c.Unload(1)
	assert.True(t, m.Resident(1))
	assert.Equal(t, 60, m.FreeSize())
	assert.Same(t, p, m.Partitions()[0].Unit)
	assert.Equal(t, 100, c.FreeSize())
	assert.False(t, c.Resident(1))
}

func TestMemory_TableRows(t *testing.T) {
	m := New(100, FirstFit{})
	_, err := m.Load(NewProcessComplete(3, "ed", 40, 0, sim.Green))
	require.NoError(t, err)

	rows := m.TableRows()
	require.Len(t, rows, 2)
	assert.Len(t, m.TableHeader(), 7)
	assert.Equal(t, []string{"0", "39", "3", "ed", "", "40", "0"}, sim.Values(rows[0]))
	assert.Equal(t, []string{"40", "99", "-", "free", "", "60", ""}, sim.Values(rows[1]))
	assert.Equal(t, sim.Green, rows[0][2].Color)
}

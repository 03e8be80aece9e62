package process

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ossim/ossim/sim"
)

func mustNew(t *testing.T, pid int, periodic bool, bursts ...Burst) *Process {
	t.Helper()
	p, err := New(pid, "p", 0, 0, periodic, bursts, sim.Red)
	require.NoError(t, err)
	return p
}

func advance(p *Process, n int) {
	for i := 0; i < n; i++ {
		p.IncCurrent()
	}
}

func TestNew_EmptyBursts_ReturnsError(t *testing.T) {
	_, err := New(1, "empty", 0, 0, false, nil, sim.White)
	assert.Error(t, err)
}

func TestNew_InvalidMarker_ReturnsError(t *testing.T) {
	_, err := New(1, "bad", 0, 0, false, []Burst{0, 2}, sim.White)
	assert.Error(t, err)
}

func TestNew_CopiesBurstCycle(t *testing.T) {
	bursts := []Burst{CPUBurst, IOBurst}
	p, err := New(1, "p", 0, 0, false, bursts, sim.White)
	require.NoError(t, err)
	bursts[0] = IOBurst
	if p.Bursts()[0] != CPUBurst {
		t.Errorf("caller mutation leaked into process burst cycle")
	}
}

func TestCurrentBurst_PeriodicWrapsWithModulo(t *testing.T) {
	p := mustNew(t, 1, true, 0, 0, 1, 1)
	advance(p, 5)
	assert.Equal(t, 1, p.CurrentBurst())
	assert.False(t, p.IsCurrentIO(), "index 1 is a CPU burst")
}

func TestCurrentBurst_NonPeriodicIndexesDirectly(t *testing.T) {
	p := mustNew(t, 1, false, 0, 1, 1)
	advance(p, 2)
	assert.Equal(t, 2, p.CurrentBurst())
	assert.True(t, p.IsCurrentIO())
}

func TestCurrentBurstDuration(t *testing.T) {
	tests := []struct {
		name     string
		periodic bool
		bursts   []Burst
		current  int
		want     int
	}{
		{"run to different burst", false, []Burst{0, 0, 0, 1}, 0, 3},
		{"run to end of cycle", false, []Burst{0, 1, 1}, 1, 2},
		{"periodic run straddles boundary", true, []Burst{1, 1, 0, 0, 1}, 4, 3},
		{"periodic no wrap when first differs", true, []Burst{0, 1, 1}, 1, 2},
		{"periodic uniform cycle counted once", true, []Burst{0, 0, 0}, 1, 3},
		{"periodic uniform cycle from start", true, []Burst{1, 1}, 0, 2},
		{"exhausted has no burst", false, []Burst{0, 1}, 2, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := mustNew(t, 1, tt.periodic, tt.bursts...)
			advance(p, tt.current)
			if got := p.CurrentBurstDuration(); got != tt.want {
				t.Errorf("CurrentBurstDuration() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestIORate_ComputedFromCycle(t *testing.T) {
	p := mustNew(t, 1, false, 0, 1, 0, 1)
	assert.Equal(t, 0.5, p.IORate())
}

func TestMarkDispatched_LatchesOnce(t *testing.T) {
	p, err := New(1, "p", 0, 3, false, []Burst{0, 0}, sim.White)
	require.NoError(t, err)

	_, ok := p.Response()
	assert.False(t, ok, "response starts unset")

	assert.True(t, p.MarkDispatched(5))
	assert.False(t, p.MarkDispatched(9))
	rt, ok := p.Response()
	assert.True(t, ok)
	assert.Equal(t, 2, rt)
}

func TestComplete_OnlyAfterExhaustion(t *testing.T) {
	p := mustNew(t, 1, false, 0, 1)
	assert.False(t, p.Complete(1))
	advance(p, 2)
	assert.True(t, p.Complete(2))
	assert.False(t, p.Complete(7), "completion is set at most once")
	ta, ok := p.Turnaround()
	assert.True(t, ok)
	assert.Equal(t, 2, ta)
	assert.Equal(t, StateCompleted, p.State(10))
}

func TestComplete_PeriodicNeverCompletes(t *testing.T) {
	p := mustNew(t, 1, true, 0)
	advance(p, 10)
	assert.False(t, p.Exhausted())
	assert.False(t, p.Complete(10))
	assert.Equal(t, StateActive, p.State(10))
}

func TestState_UnsubmittedBeforeSubmission(t *testing.T) {
	p, err := New(1, "late", 0, 4, false, []Burst{0}, sim.White)
	require.NoError(t, err)
	assert.Equal(t, StateUnsubmitted, p.State(3))
	assert.Equal(t, StateActive, p.State(4))
}

func TestCPURate(t *testing.T) {
	p := mustNew(t, 1, false, 0, 0, 0)
	assert.Equal(t, 0.0, p.CPURate())
	p.IncCPU()
	p.IncCPU()
	p.IncCPU()
	p.IncWaiting()
	assert.Equal(t, 0.75, p.CPURate())
}

func TestCompare_TotalOrder(t *testing.T) {
	a := mustNew(t, 1, false, 0)
	b := mustNew(t, 2, false, 0)
	c := mustNew(t, 3, false, 0)
	a.Order, b.Order, c.Order = 5, 5, 1

	assert.Equal(t, -1, Compare(c, a), "lower order first")
	assert.Equal(t, -1, Compare(a, b), "equal order falls back to pid")
	assert.Equal(t, 1, Compare(b, a))
	assert.Equal(t, 0, Compare(a, a))
}

func TestClone_DoesNotAliasRunState(t *testing.T) {
	p := mustNew(t, 1, false, 0, 1)
	c := p.Clone()
	c.IncCurrent()
	c.IncCPU()
	c.MarkDispatched(3)

	assert.Equal(t, 0, p.Current())
	assert.Equal(t, 0, p.CPU())
	_, ok := p.Response()
	assert.False(t, ok)
	assert.Equal(t, 1, c.Current())
}

func TestParseBursts(t *testing.T) {
	got, err := ParseBursts("0 1\t1 0 ")
	require.NoError(t, err)
	assert.Equal(t, []Burst{0, 1, 1, 0}, got)

	_, err = ParseBursts("   ")
	assert.Error(t, err)
	_, err = ParseBursts("0 2")
	assert.Error(t, err)
}

func TestFormatBursts_TrailingBlank(t *testing.T) {
	assert.Equal(t, "0 1 1 ", FormatBursts([]Burst{0, 1, 1}))
}

func TestIDAllocator_MonotonicAndObserve(t *testing.T) {
	ids := NewIDAllocator()
	assert.Equal(t, 1, ids.Next())
	assert.Equal(t, 2, ids.Next())
	ids.Observe(10)
	assert.Equal(t, 11, ids.Next())
	ids.Observe(3)
	assert.Equal(t, 12, ids.Peek())

	var zero IDAllocator
	assert.Equal(t, 1, zero.Next())
}

func TestIDAllocator_IndependentSessions(t *testing.T) {
	a, b := NewIDAllocator(), NewIDAllocator()
	a.Next()
	a.Next()
	assert.Equal(t, 1, b.Next())
}

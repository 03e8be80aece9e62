package cpu

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ossim/ossim/sim"
	"github.com/ossim/ossim/sim/internal/testutil"
	"github.com/ossim/ossim/sim/process"
	"github.com/ossim/ossim/sim/trace"
)

type proc struct {
	pid, prio, sub int
	bursts         string
}

func newEngine(t *testing.T, policy Policy, procs ...proc) *Engine {
	t.Helper()
	e := NewEngine(policy)
	for _, s := range procs {
		bursts, err := process.ParseBursts(s.bursts)
		require.NoError(t, err)
		p, err := process.New(s.pid, "", s.prio, s.sub, false, bursts, sim.Red)
		require.NoError(t, err)
		require.NoError(t, e.Add(p))
	}
	return e
}

func pidOf(e *Engine, pid int) *process.Process {
	for _, p := range e.Processes() {
		if p.PID == pid {
			return p
		}
	}
	return nil
}

func TestEngine_FCFSMetrics(t *testing.T) {
	e := newEngine(t, &FCFS{}, proc{1, 0, 0, "0 0 0"}, proc{2, 0, 1, "0 0"})
	require.NoError(t, e.Run(0))

	assert.Equal(t, []int{1, 1, 1, 2, 2}, e.Gantt())
	assert.Equal(t, 5, e.Clock)
	p2 := pidOf(e, 2)
	rt, ok := p2.Response()
	require.True(t, ok)
	assert.Equal(t, 2, rt)
	assert.Equal(t, 2, p2.Waiting())
	ta, _ := p2.Turnaround()
	assert.Equal(t, 4, ta)

	avg := e.Averages()
	assert.Equal(t, 2, avg.Completed)
	testutil.AssertFloat64Equal(t, "mean waiting", 1.0, avg.Waiting, 1e-9)
	testutil.AssertFloat64Equal(t, "mean turnaround", 3.5, avg.Turnaround, 1e-9)
	testutil.AssertFloat64Equal(t, "mean response", 1.0, avg.Response, 1e-9)
	assert.Equal(t, 1, e.ContextSwitches())
	assert.InDelta(t, 1.0, e.CPUUtilization(), 1e-9)
}

func TestEngine_PolicyOrders(t *testing.T) {
	long := []proc{{1, 1, 0, "0 0 0 0 0"}, {2, 5, 1, "0 0"}}
	tests := []struct {
		name   string
		policy Policy
		procs  []proc
		gantt  []int
	}{
		{"sjf picks shortest at start", &ShortestJob{}, []proc{{1, 0, 0, "0 0 0 0 0 0"}, {2, 0, 0, "0 0"}, {3, 0, 0, "0 0 0 0"}},
			[]int{2, 2, 3, 3, 3, 3, 1, 1, 1, 1, 1, 1}},
		{"sjf does not preempt", &ShortestJob{}, long, []int{1, 1, 1, 1, 1, 2, 2}},
		{"srtf preempts", &ShortestJob{Preempt: true}, long, []int{1, 2, 2, 1, 1, 1, 1}},
		{"priority does not preempt", &PriorityPolicy{}, []proc{{1, 1, 0, "0 0 0"}, {2, 5, 1, "0 0"}}, []int{1, 1, 1, 2, 2}},
		{"priority-preemptive preempts", &PriorityPolicy{Preempt: true}, []proc{{1, 1, 0, "0 0 0"}, {2, 5, 1, "0 0"}}, []int{1, 2, 2, 1, 1}},
		{"rr quantum 2", &RoundRobin{Quantum: 2}, []proc{{1, 0, 0, "0 0 0 0"}, {2, 0, 0, "0 0 0"}}, []int{1, 1, 2, 2, 1, 1, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEngine(t, tt.policy, tt.procs...)
			require.NoError(t, e.Run(0))
			assert.Equal(t, tt.gantt, e.Gantt())
			assert.True(t, e.Done())
		})
	}
}

func TestEngine_IOProceedsInParallel(t *testing.T) {
	e := newEngine(t, &FCFS{}, proc{1, 0, 0, "0 1 1 0"}, proc{2, 0, 0, "0 0 0"})
	require.NoError(t, e.Run(0))

	assert.Equal(t, []int{1, 2, 2, 2, 1}, e.Gantt())
	assert.InDelta(t, 0.4, e.IOUtilization(), 1e-9)
	assert.Equal(t, 1, pidOf(e, 1).Waiting())
	ct, ok := pidOf(e, 1).Completion()
	require.True(t, ok)
	assert.Equal(t, 5, ct)
	ct, _ = pidOf(e, 2).Completion()
	assert.Equal(t, 4, ct)
}

func TestEngine_IdleUntilSubmission(t *testing.T) {
	e := newEngine(t, &FCFS{}, proc{1, 0, 2, "0"})
	require.NoError(t, e.Run(0))
	assert.Equal(t, []int{Idle, Idle, 1}, e.Gantt())
	assert.InDelta(t, 1.0/3, e.CPUUtilization(), 1e-9)
	assert.Equal(t, []string{"-", "-", "1"}, sim.Values(e.GanttRow()))
}

func TestEngine_PeriodicNeedsHorizon(t *testing.T) {
	e := NewEngine(&FCFS{})
	p, err := process.New(1, "loop", 0, 0, true, []process.Burst{process.CPUBurst, process.IOBurst}, sim.Red)
	require.NoError(t, err)
	require.NoError(t, e.Add(p))

	assert.ErrorIs(t, e.Run(0), ErrUnbounded)
	require.NoError(t, e.Run(6))
	assert.Equal(t, 6, e.Clock)
	assert.False(t, e.Done())
	assert.Equal(t, []int{1, Idle, 1, Idle, 1, Idle}, e.Gantt())
	assert.Equal(t, 3, p.CPU())
}

func TestEngine_AddRejectsDuplicatePID(t *testing.T) {
	e := newEngine(t, &FCFS{}, proc{2, 0, 0, "0"}, proc{1, 0, 0, "0"})
	p, err := process.New(2, "dup", 0, 0, false, []process.Burst{process.CPUBurst}, sim.Red)
	require.NoError(t, err)
	assert.Error(t, e.Add(p))
	ps := e.Processes()
	assert.Equal(t, 1, ps[0].PID)
	assert.Equal(t, 2, ps[1].PID)
}

func TestEngine_SnapshotDoesNotAlias(t *testing.T) {
	e := newEngine(t, &FCFS{}, proc{1, 0, 0, "0 0"})
	e.Step()
	snap := e.Snapshot()
	e.Step()
	assert.Equal(t, 1, snap[0].CPU())
	assert.Equal(t, 2, pidOf(e, 1).CPU())
}

func TestEngine_TraceMatchesCounters(t *testing.T) {
	e := newEngine(t, &RoundRobin{Quantum: 1}, proc{1, 0, 0, "0 0"}, proc{2, 0, 0, "0 0"}, proc{3, 0, 3, "0"})
	e.Trace = trace.NewSimulationTrace(trace.TraceConfig{Level: trace.TraceLevelDecisions})
	require.NoError(t, e.Run(0))

	s := trace.Summarize(e.Trace)
	assert.Equal(t, len(e.Gantt()), len(e.Trace.Dispatches))
	assert.Equal(t, e.ContextSwitches(), s.ContextSwitches)
	assert.Equal(t, 2, s.PIDDistribution[1])
	assert.Equal(t, 1, s.PIDDistribution[3])
}

func TestEngine_TableRowsHighlightRunning(t *testing.T) {
	e := newEngine(t, &FCFS{}, proc{1, 0, 0, "0 0"}, proc{2, 0, 0, "0"})
	e.Step()
	rows := e.TableRows()
	require.Len(t, rows, 2)
	assert.Equal(t, sim.Yellow, rows[0][1].Color)
	assert.Equal(t, sim.White, rows[1][1].Color)
	assert.Equal(t, sim.Red, rows[0][0].Color)
}

func TestNewPolicy(t *testing.T) {
	assert.Equal(t, "fcfs", NewPolicy("", 0).Name())
	assert.Equal(t, "srtf", NewPolicy("srtf", 0).Name())
	assert.Equal(t, "priority-preemptive", NewPolicy("priority-preemptive", 0).Name())
	assert.True(t, NewPolicy("rr", 3).Preemptive())
	assert.False(t, NewPolicy("sjf", 0).Preemptive())
	assert.Panics(t, func() { NewPolicy("rr", 0) })
	assert.Panics(t, func() { NewPolicy("lottery", 0) })
}

func TestGenerate_Deterministic(t *testing.T) {
	cfg := sim.RandomProcesses{Count: 5, MaxBursts: 6, IOProbability: 0.5, MaxSubmission: 4}
	a, err := Generate(rand.New(rand.NewSource(7)), cfg, process.NewIDAllocator())
	require.NoError(t, err)
	b, err := Generate(rand.New(rand.NewSource(7)), cfg, process.NewIDAllocator())
	require.NoError(t, err)
	require.Len(t, a, 5)
	for i := range a {
		assert.Equal(t, a[i].Bursts(), b[i].Bursts())
		assert.Equal(t, a[i].Submission, b[i].Submission)
		assert.Equal(t, process.CPUBurst, a[i].Bursts()[0])
		assert.Equal(t, i+1, a[i].PID)
		assert.LessOrEqual(t, a[i].Submission, 4)
	}
	_, err = Generate(rand.New(rand.NewSource(1)), sim.RandomProcesses{Count: 1}, process.NewIDAllocator())
	assert.Error(t, err)
}

package cpu

import (
	"errors"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/ossim/ossim/sim"
	"github.com/ossim/ossim/sim/process"
	"github.com/ossim/ossim/sim/trace"
)

// Idle is the Gantt entry of a step in which no process ran.
const Idle = -1

// Engine advances a process set one time unit per Step. I/O bursts proceed
// in parallel with no device contention; only the CPU is contended.
type Engine struct {
	Clock  int
	Policy Policy
	// Trace records every dispatch decision; nil disables recording.
	Trace *trace.SimulationTrace

	procs    []*process.Process // PID order
	running  *process.Process
	gantt    []int
	ioSteps  int
	switches int
}

// NewEngine returns an engine at clock 0 with no processes.
func NewEngine(policy Policy) *Engine {
	if policy == nil {
		policy = &FCFS{}
	}
	return &Engine{Policy: policy}
}

// Add registers a process. PIDs must be unique.
func (e *Engine) Add(p *process.Process) error {
	i := sort.Search(len(e.procs), func(i int) bool { return e.procs[i].PID >= p.PID })
	if i < len(e.procs) && e.procs[i].PID == p.PID {
		return fmt.Errorf("cpu: duplicate pid %d", p.PID)
	}
	e.procs = append(e.procs, nil)
	copy(e.procs[i+1:], e.procs[i:])
	e.procs[i] = p
	return nil
}

// Processes returns the live processes in PID order.
func (e *Engine) Processes() []*process.Process {
	return append([]*process.Process(nil), e.procs...)
}

// Running returns the process dispatched in the last step, nil when idle.
func (e *Engine) Running() *process.Process { return e.running }

// Step simulates one time unit and returns the pid that held the CPU, or Idle.
func (e *Engine) Step() int {
	var ready, io []*process.Process
	for _, p := range e.procs {
		if p.Submission > e.Clock || p.Exhausted() {
			continue
		}
		if p.IsCurrentIO() {
			io = append(io, p)
		} else {
			ready = append(ready, p)
		}
	}

	prev := e.running
	var stillReady *process.Process
	for _, p := range ready {
		if p == prev {
			stillReady = p
		}
	}

	var winner *process.Process
	if len(ready) > 0 {
		e.Policy.Prioritize(ready, stillReady, e.Clock)
		if stillReady != nil && !e.Policy.Preemptive() {
			winner = stillReady
		} else {
			sorted := append([]*process.Process(nil), ready...)
			sort.SliceStable(sorted, func(i, j int) bool { return process.Compare(sorted[i], sorted[j]) < 0 })
			winner = sorted[0]
		}
	}

	pid, prevPID := Idle, Idle
	if prev != nil {
		prevPID = prev.PID
	}
	if winner != nil {
		pid = winner.PID
		if winner != prev {
			winner.SetQuantumExecuted(0)
			if prev != nil {
				e.switches++
			}
			logrus.Infof("[cpu %05d] %s dispatched pid %d (order %d)", e.Clock, e.Policy.Name(), winner.PID, winner.Order)
		}
		if winner.MarkDispatched(e.Clock) {
			logrus.Debugf("[cpu %05d] pid %d first response", e.Clock, winner.PID)
		}
		winner.IncCPU()
		winner.IncCurrent()
		winner.AddQuantumExecuted(1)
	} else {
		logrus.Debugf("[cpu %05d] idle", e.Clock)
	}
	for _, p := range ready {
		if p != winner {
			p.IncWaiting()
		}
	}
	for _, p := range io {
		p.IncCurrent()
	}
	if len(io) > 0 {
		e.ioSteps++
	}

	if e.Trace != nil {
		reason := "idle"
		if winner != nil {
			reason = fmt.Sprintf("%s order=%d", e.Policy.Name(), winner.Order)
		}
		e.Trace.RecordDispatch(trace.DispatchRecord{Clock: e.Clock, PID: pid, Previous: prevPID, Reason: reason})
	}

	e.gantt = append(e.gantt, pid)
	e.running = winner
	e.Clock++
	for _, p := range e.procs {
		if p.Submission < e.Clock && p.Complete(e.Clock) {
			logrus.Infof("[cpu %05d] pid %d completed", e.Clock, p.PID)
		}
	}
	return pid
}

// Done reports whether every process has completed. An engine holding a
// periodic process is never done.
func (e *Engine) Done() bool {
	for _, p := range e.procs {
		if _, ok := p.Completion(); !ok {
			return false
		}
	}
	return true
}

// ErrUnbounded is returned by Run when it would never terminate.
var ErrUnbounded = errors.New("cpu: periodic processes need a horizon")

// Run steps until Done or, when horizon > 0, until Clock reaches horizon.
func (e *Engine) Run(horizon int) error {
	if horizon <= 0 {
		for _, p := range e.procs {
			if p.Periodic {
				return ErrUnbounded
			}
		}
	}
	for !e.Done() && (horizon <= 0 || e.Clock < horizon) {
		e.Step()
	}
	return nil
}

// Gantt returns the pid run at each elapsed step.
func (e *Engine) Gantt() []int {
	return append([]int(nil), e.gantt...)
}

// ContextSwitches counts dispatches that replaced a running process.
func (e *Engine) ContextSwitches() int { return e.switches }

// CPUUtilization is the fraction of elapsed steps with a process running.
func (e *Engine) CPUUtilization() float64 {
	if len(e.gantt) == 0 {
		return 0
	}
	busy := 0
	for _, pid := range e.gantt {
		if pid != Idle {
			busy++
		}
	}
	return float64(busy) / float64(len(e.gantt))
}

// IOUtilization is the fraction of elapsed steps with any I/O in progress.
func (e *Engine) IOUtilization() float64 {
	if len(e.gantt) == 0 {
		return 0
	}
	return float64(e.ioSteps) / float64(len(e.gantt))
}

// Averages holds per-process means over completed processes.
type Averages struct {
	Completed  int
	Waiting    float64
	Turnaround float64
	Response   float64
}

// Averages computes mean waiting, turnaround and response times.
func (e *Engine) Averages() Averages {
	var a Averages
	for _, p := range e.procs {
		ta, ok := p.Turnaround()
		if !ok {
			continue
		}
		rt, _ := p.Response()
		a.Completed++
		a.Waiting += float64(p.Waiting())
		a.Turnaround += float64(ta)
		a.Response += float64(rt)
	}
	if a.Completed > 0 {
		n := float64(a.Completed)
		a.Waiting /= n
		a.Turnaround /= n
		a.Response /= n
	}
	return a
}

// Snapshot returns independent copies of every process.
func (e *Engine) Snapshot() []*process.Process {
	out := make([]*process.Process, len(e.procs))
	for i, p := range e.procs {
		out[i] = p.Clone()
	}
	return out
}

// TableRows returns one process.TableRow per process; the running process
// has its name cell highlighted.
func (e *Engine) TableRows() [][]sim.Cell {
	rows := make([][]sim.Cell, len(e.procs))
	for i, p := range e.procs {
		rows[i] = p.TableRow(e.Clock)
		if p == e.running && len(rows[i]) > 1 {
			rows[i][1].Color = sim.Yellow
		}
	}
	return rows
}

// GanttHeader and GanttRow render the Gantt chart as a single table row.
func (e *Engine) GanttHeader() []string {
	h := make([]string, len(e.gantt))
	for i := range h {
		h[i] = fmt.Sprint(i)
	}
	return h
}

func (e *Engine) GanttRow() []sim.Cell {
	colors := make(map[int]sim.Color, len(e.procs))
	for _, p := range e.procs {
		colors[p.PID] = p.Color
	}
	row := make([]sim.Cell, len(e.gantt))
	for i, pid := range e.gantt {
		if pid == Idle {
			row[i] = sim.NewCell("-")
			continue
		}
		row[i] = sim.Cell{Value: fmt.Sprint(pid), Color: colors[pid]}
	}
	return row
}

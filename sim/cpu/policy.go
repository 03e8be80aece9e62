// Package cpu drives the process model through discrete time under a
// pluggable scheduling policy.
package cpu

import (
	"fmt"

	"github.com/ossim/ossim/sim"
	"github.com/ossim/ossim/sim/process"
)

// Policy assigns the Order key of every ready process once per step. The
// engine dispatches the lowest (Order, PID).
type Policy interface {
	Name() string
	// Preemptive reports whether a ready process may displace the running one.
	Preemptive() bool
	// Prioritize sets Order on each ready process. running is the process that
	// ran the previous step if it is still ready, nil otherwise.
	Prioritize(ready []*process.Process, running *process.Process, clock int)
}

// arrivals stamps processes in the order they enter the ready set. A process
// that leaves the ready set (I/O or completion) is stamped again on return.
type arrivals struct {
	seq   int
	stamp map[int]int
}

func (a *arrivals) update(ready []*process.Process) {
	if a.stamp == nil {
		a.stamp = make(map[int]int)
	}
	in := make(map[int]bool, len(ready))
	for _, p := range ready {
		in[p.PID] = true
	}
	for pid := range a.stamp {
		if !in[pid] {
			delete(a.stamp, pid)
		}
	}
	// ready is in PID order, so simultaneous arrivals queue by PID
	for _, p := range ready {
		if _, ok := a.stamp[p.PID]; !ok {
			a.stamp[p.PID] = a.seq
			a.seq++
		}
	}
}

func (a *arrivals) requeue(p *process.Process) {
	a.stamp[p.PID] = a.seq
	a.seq++
}

func (a *arrivals) apply(ready []*process.Process) {
	for _, p := range ready {
		p.Order = a.stamp[p.PID]
	}
}

// FCFS runs processes in ready-queue arrival order to the end of their burst.
type FCFS struct {
	q arrivals
}

func (f *FCFS) Name() string     { return "fcfs" }
func (f *FCFS) Preemptive() bool { return false }

func (f *FCFS) Prioritize(ready []*process.Process, _ *process.Process, _ int) {
	f.q.update(ready)
	f.q.apply(ready)
}

// RoundRobin is FCFS with a time quantum: a process that used up its quantum
// goes to the back of the ready queue.
type RoundRobin struct {
	Quantum int
	q       arrivals
}

func (r *RoundRobin) Name() string     { return "rr" }
func (r *RoundRobin) Preemptive() bool { return true }

func (r *RoundRobin) Prioritize(ready []*process.Process, running *process.Process, _ int) {
	r.q.update(ready)
	if running != nil && running.QuantumExecuted() >= r.Quantum {
		r.q.requeue(running)
		running.SetQuantumExecuted(0)
	}
	r.q.apply(ready)
}

// ShortestJob orders by the length of the current CPU burst. With Preempt set
// it is shortest-remaining-time-first.
type ShortestJob struct {
	Preempt bool
}

func (s *ShortestJob) Name() string {
	if s.Preempt {
		return "srtf"
	}
	return "sjf"
}

func (s *ShortestJob) Preemptive() bool { return s.Preempt }

func (s *ShortestJob) Prioritize(ready []*process.Process, _ *process.Process, _ int) {
	for _, p := range ready {
		p.Order = p.CurrentBurstDuration()
	}
}

// PriorityPolicy runs the highest Priority first.
type PriorityPolicy struct {
	Preempt bool
}

func (pp *PriorityPolicy) Name() string {
	if pp.Preempt {
		return "priority-preemptive"
	}
	return "priority"
}

func (pp *PriorityPolicy) Preemptive() bool { return pp.Preempt }

func (pp *PriorityPolicy) Prioritize(ready []*process.Process, _ *process.Process, _ int) {
	for _, p := range ready {
		p.Order = -p.Priority
	}
}

// NewPolicy creates a Policy by name. Valid names are the keys of
// sim.ValidCPUPolicies; empty defaults to fcfs. quantum is only read by rr,
// which panics unless it is positive. Panics on unrecognized names.
func NewPolicy(name string, quantum int) Policy {
	if !sim.ValidCPUPolicies[name] {
		panic(fmt.Sprintf("unknown cpu policy %q", name))
	}
	switch name {
	case "", "fcfs":
		return &FCFS{}
	case "sjf":
		return &ShortestJob{}
	case "srtf":
		return &ShortestJob{Preempt: true}
	case "priority":
		return &PriorityPolicy{}
	case "priority-preemptive":
		return &PriorityPolicy{Preempt: true}
	case "rr":
		if quantum <= 0 {
			panic(fmt.Sprintf("rr policy requires quantum > 0, got %d", quantum))
		}
		return &RoundRobin{Quantum: quantum}
	default:
		panic(fmt.Sprintf("unhandled cpu policy %q", name))
	}
}

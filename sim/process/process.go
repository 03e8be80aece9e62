// Defines the Process struct that models one schedulable task in the simulation.
// Tracks identity, the CPU/IO burst cycle, and the run-state a scheduling
// policy evolves one time unit at a time.

package process

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ossim/ossim/sim"
)

// Burst is one burst-cycle marker: one simulated time unit of CPU or I/O work.
type Burst int

const (
	CPUBurst Burst = 0
	IOBurst  Burst = 1
)

// State represents the lifecycle state of a process relative to a clock.
type State string

const (
	StateUnsubmitted State = "unsubmitted"
	StateActive      State = "active" // ready, running or doing I/O
	StateCompleted   State = "completed"
)

const unset = -1

// Process models a single task's lifecycle in the simulation.
// Identity and behavior fields are fixed at construction; run state is only
// changed through the mutators a scheduling policy calls.
type Process struct {
	PID        int       // Unique identifier
	Name       string    // Display name
	Priority   int       // Higher value = higher priority
	Submission int       // Time the process becomes eligible
	Periodic   bool      // Repeat the burst cycle indefinitely
	Color      sim.Color // Display color

	bursts []Burst
	ioRate float64

	current    int // elapsed units since submission (CPU + I/O)
	waiting    int
	cpu        int
	qexecuted  int // quantum consumed since last dispatch
	completion int
	response   int

	// Order is the sort key recomputed by the scheduling policy every step.
	// It carries no meaning outside a single policy decision.
	Order int
}

// New creates a process with all run state zeroed and response/completion unset.
// The burst cycle is copied; it must be non-empty and hold only CPU/IO markers.
func New(pid int, name string, priority, submission int, periodic bool, bursts []Burst, color sim.Color) (*Process, error) {
	if len(bursts) == 0 {
		return nil, fmt.Errorf("process %d: burst cycle must not be empty", pid)
	}
	if submission < 0 {
		return nil, fmt.Errorf("process %d: submission must be non-negative, got %d", pid, submission)
	}
	io := 0
	for i, b := range bursts {
		if b != CPUBurst && b != IOBurst {
			return nil, fmt.Errorf("process %d: burst %d has invalid marker %d", pid, i, b)
		}
		io += int(b)
	}
	return &Process{
		PID:        pid,
		Name:       name,
		Priority:   priority,
		Submission: submission,
		Periodic:   periodic,
		Color:      color,
		bursts:     append([]Burst(nil), bursts...),
		ioRate:     float64(io) / float64(len(bursts)),
		completion: unset,
		response:   unset,
	}, nil
}

// Bursts returns a copy of the burst cycle.
func (p *Process) Bursts() []Burst {
	return append([]Burst(nil), p.bursts...)
}

// Current returns elapsed simulated units since submission.
func (p *Process) Current() int { return p.current }

// Waiting returns accumulated ready-but-not-running time.
func (p *Process) Waiting() int { return p.waiting }

// CPU returns accumulated CPU time.
func (p *Process) CPU() int { return p.cpu }

// QuantumExecuted returns time run since the last dispatch.
func (p *Process) QuantumExecuted() int { return p.qexecuted }

// IORate is the fraction of burst-cycle units marked I/O, fixed at construction.
func (p *Process) IORate() float64 { return p.ioRate }

// IncCurrent advances the process one unit through its burst cycle.
func (p *Process) IncCurrent() { p.current++ }

// IncWaiting counts one unit spent ready but not running.
func (p *Process) IncWaiting() { p.waiting++ }

// IncCPU counts one unit spent on the CPU.
func (p *Process) IncCPU() { p.cpu++ }

// AddQuantumExecuted adds x units to the quantum consumed.
func (p *Process) AddQuantumExecuted(x int) { p.qexecuted += x }

// SetQuantumExecuted overwrites the quantum consumed (reset on dispatch).
func (p *Process) SetQuantumExecuted(x int) { p.qexecuted = x }

// Exhausted reports whether a non-periodic process has consumed its whole cycle.
// Periodic processes are never exhausted.
func (p *Process) Exhausted() bool {
	return !p.Periodic && p.current >= len(p.bursts)
}

// CurrentBurst returns the index into the burst cycle for the current unit.
// Periodic processes wrap with modulo; others index directly, so the result
// equals len(bursts) once a non-periodic process is exhausted.
func (p *Process) CurrentBurst() int {
	if p.Periodic {
		return p.current % len(p.bursts)
	}
	return p.current
}

// IsCurrentIO reports whether the current unit is an I/O burst.
func (p *Process) IsCurrentIO() bool {
	if p.Exhausted() {
		return false
	}
	return p.bursts[p.CurrentBurst()] == IOBurst
}

// CurrentBurstDuration counts the run of identical markers starting at the
// current index. For periodic processes a run reaching the end of the cycle
// continues from index 0, stopping before the current index so a uniform
// cycle is never counted twice.
func (p *Process) CurrentBurstDuration() int {
	if p.Exhausted() {
		return 0
	}
	start := p.CurrentBurst()
	kind := p.bursts[start]
	n := 0
	i := start
	for i < len(p.bursts) && p.bursts[i] == kind {
		n++
		i++
	}
	if p.Periodic && i >= len(p.bursts) && p.bursts[0] == kind {
		for i = 0; i < start && p.bursts[i] == kind; i++ {
			n++
		}
	}
	return n
}

// MarkDispatched latches the response time (clock - submission) on the first
// dispatch. It reports whether this call set it.
func (p *Process) MarkDispatched(clock int) bool {
	if p.response != unset {
		return false
	}
	p.response = clock - p.Submission
	return true
}

// Response returns the response time. ok is false until the first dispatch.
func (p *Process) Response() (rt int, ok bool) {
	return p.response, p.response != unset
}

// Complete latches the completion time. It only succeeds once, for an
// exhausted non-periodic process.
func (p *Process) Complete(clock int) bool {
	if p.completion != unset || !p.Exhausted() {
		return false
	}
	p.completion = clock
	return true
}

// Completion returns the completion time. ok is false while the process runs,
// and always false for periodic processes.
func (p *Process) Completion() (ct int, ok bool) {
	return p.completion, p.completion != unset
}

// Turnaround returns completion - submission for completed processes.
func (p *Process) Turnaround() (int, bool) {
	ct, ok := p.Completion()
	if !ok {
		return 0, false
	}
	return ct - p.Submission, true
}

// CPURate returns cpu / (cpu + waiting), or 0 before any accounting.
func (p *Process) CPURate() float64 {
	if p.cpu+p.waiting > 0 {
		return float64(p.cpu) / float64(p.cpu+p.waiting)
	}
	return 0
}

// State returns the lifecycle state at clock.
func (p *Process) State(clock int) State {
	if _, done := p.Completion(); done {
		return StateCompleted
	}
	if clock < p.Submission {
		return StateUnsubmitted
	}
	return StateActive
}

// Compare orders processes by (Order, PID) ascending. Distinct processes never
// compare equal because PIDs are unique.
func Compare(a, b *Process) int {
	if a.Order != b.Order {
		if a.Order < b.Order {
			return -1
		}
		return 1
	}
	switch {
	case a.PID < b.PID:
		return -1
	case a.PID > b.PID:
		return 1
	}
	return 0
}

// Clone returns an independent copy; mutating it never affects p.
func (p *Process) Clone() *Process {
	c := *p
	c.bursts = append([]Burst(nil), p.bursts...)
	return &c
}

// This method returns a human-readable string representation of a Process.
func (p *Process) String() string {
	return fmt.Sprintf("Process: (PID: %d, Name: %s, Current: %d, Order: %d)", p.PID, p.Name, p.current, p.Order)
}

// ParseBursts splits a persisted burst string on whitespace. Only "0" and "1"
// tokens are accepted; surrounding and trailing blanks are tolerated.
func ParseBursts(s string) ([]Burst, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil, fmt.Errorf("burst cycle %q is empty", s)
	}
	out := make([]Burst, len(fields))
	for i, f := range fields {
		switch f {
		case "0":
			out[i] = CPUBurst
		case "1":
			out[i] = IOBurst
		default:
			return nil, fmt.Errorf("burst %d: invalid token %q", i, f)
		}
	}
	return out, nil
}

// FormatBursts renders bursts in the persisted form: each token followed by a blank.
func FormatBursts(bursts []Burst) string {
	var sb strings.Builder
	for _, b := range bursts {
		sb.WriteString(strconv.Itoa(int(b)))
		sb.WriteString(" ")
	}
	return sb.String()
}

// Package trace provides decision-trace recording for every simulation engine.
// This package has no dependencies on sim/ or its engines: it stores pure data types.
package trace

// DispatchRecord captures a CPU scheduling decision.
type DispatchRecord struct {
	Clock    int
	PID      int // -1 when the CPU idles
	Previous int // pid that ran in the previous step, -1 if none
	Reason   string
}

// ContextSwitch reports whether the dispatch replaced one running process with another.
func (r DispatchRecord) ContextSwitch() bool {
	return r.PID != r.Previous && r.Previous != -1 && r.PID != -1
}

// ServiceRecord captures one disk request completion.
type ServiceRecord struct {
	RequestID int
	Track     int
	Clock     int
	Seek      int // tracks travelled to serve it
	Wait      int // arrival to completion
	Policy    string
}

// AllocationRecord captures a block- or memory-allocation attempt.
type AllocationRecord struct {
	Op      string // e.g. "create", "resize", "remove", "load"
	Object  string // path or process name
	Blocks  int    // blocks (or memory units) owned after the operation
	Success bool
	Reason  string
}

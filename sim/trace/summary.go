package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	Dispatches        int
	IdleSteps         int
	ContextSwitches   int
	RequestsServed    int
	TotalSeek         int
	MeanSeek          float64
	MaxWait           int
	Allocations       int
	FailedAllocations int
	PIDDistribution   map[int]int // pid → steps on the CPU
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		PIDDistribution: make(map[int]int),
	}
	if st == nil {
		return summary
	}

	for _, d := range st.Dispatches {
		if d.PID == -1 {
			summary.IdleSteps++
			continue
		}
		summary.Dispatches++
		summary.PIDDistribution[d.PID]++
		if d.ContextSwitch() {
			summary.ContextSwitches++
		}
	}

	summary.RequestsServed = len(st.Services)
	for _, s := range st.Services {
		summary.TotalSeek += s.Seek
		if s.Wait > summary.MaxWait {
			summary.MaxWait = s.Wait
		}
	}
	if summary.RequestsServed > 0 {
		summary.MeanSeek = float64(summary.TotalSeek) / float64(summary.RequestsServed)
	}

	for _, a := range st.Allocations {
		summary.Allocations++
		if !a.Success {
			summary.FailedAllocations++
		}
	}

	return summary
}

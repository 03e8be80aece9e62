package trace

// TraceLevel controls the verbosity of decision tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelDecisions captures every dispatch, service and allocation decision.
	TraceLevelDecisions TraceLevel = "decisions"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:      true,
	TraceLevelDecisions: true,
	"":                  true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// TraceConfig controls trace collection behavior.
type TraceConfig struct {
	Level TraceLevel
}

// SimulationTrace collects decision records during a simulation session.
type SimulationTrace struct {
	Config      TraceConfig
	Dispatches  []DispatchRecord
	Services    []ServiceRecord
	Allocations []AllocationRecord
}

// NewSimulationTrace creates a SimulationTrace ready for recording.
// A TraceLevelNone config returns nil so engines skip recording entirely.
func NewSimulationTrace(config TraceConfig) *SimulationTrace {
	if config.Level == TraceLevelNone || config.Level == "" {
		return nil
	}
	return &SimulationTrace{
		Config:      config,
		Dispatches:  make([]DispatchRecord, 0),
		Services:    make([]ServiceRecord, 0),
		Allocations: make([]AllocationRecord, 0),
	}
}

// RecordDispatch appends a CPU dispatch record.
func (st *SimulationTrace) RecordDispatch(record DispatchRecord) {
	st.Dispatches = append(st.Dispatches, record)
}

// RecordService appends a disk service record.
func (st *SimulationTrace) RecordService(record ServiceRecord) {
	st.Services = append(st.Services, record)
}

// RecordAllocation appends an allocation record.
func (st *SimulationTrace) RecordAllocation(record AllocationRecord) {
	st.Allocations = append(st.Allocations, record)
}

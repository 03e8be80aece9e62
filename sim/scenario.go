package sim

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario holds a full simulation session, loadable from a YAML file.
// Nil section pointers mean "section not present": that engine is not run.
type Scenario struct {
	Seed   int64         `yaml:"seed"`
	CPU    *CPUConfig    `yaml:"cpu,omitempty"`
	Disk   *DiskConfig   `yaml:"disk,omitempty"`
	FS     *FSConfig     `yaml:"fs,omitempty"`
	Memory *MemoryConfig `yaml:"memory,omitempty"`
}

// CPUConfig configures the process scheduling engine.
type CPUConfig struct {
	Policy    string           `yaml:"policy"`
	Quantum   int              `yaml:"quantum,omitempty"`
	Horizon   int              `yaml:"horizon,omitempty"` // 0 = run until every non-periodic process completes
	Processes []ProcessConfig  `yaml:"processes"`
	Random    *RandomProcesses `yaml:"random,omitempty"`
}

// ProcessConfig describes one process. Bursts uses the persisted token format ("0 0 1 ").
type ProcessConfig struct {
	PID        int    `yaml:"pid,omitempty"` // 0 = allocate
	Name       string `yaml:"name"`
	Priority   int    `yaml:"priority"`
	Submission int    `yaml:"submission"`
	Periodic   bool   `yaml:"periodic"`
	Bursts     string `yaml:"bursts"`
	Color      uint32 `yaml:"color,omitempty"`
}

// RandomProcesses asks the scenario loader to synthesize extra processes.
type RandomProcesses struct {
	Count         int     `yaml:"count"`
	MaxBursts     int     `yaml:"max_bursts"`
	IOProbability float64 `yaml:"io_probability"`
	MaxSubmission int     `yaml:"max_submission"`
}

// DiskConfig configures the disk request scheduling engine.
type DiskConfig struct {
	Policy    string          `yaml:"policy"`
	Tracks    int             `yaml:"tracks"`
	Head      int             `yaml:"head"`
	Direction string          `yaml:"direction,omitempty"` // "up" (default) or "down"
	Requests  []RequestConfig `yaml:"requests"`
	Random    *RandomRequests `yaml:"random,omitempty"`
}

// RequestConfig is one disk block request.
type RequestConfig struct {
	Track   int `yaml:"track"`
	Arrival int `yaml:"arrival"`
}

// RandomRequests asks the scenario loader to synthesize extra disk requests.
type RandomRequests struct {
	Count      int `yaml:"count"`
	MaxArrival int `yaml:"max_arrival"`
}

// FSConfig configures the file-system allocation engine.
type FSConfig struct {
	Strategy   string        `yaml:"strategy"`
	BlockSize  int           `yaml:"block_size"`
	DeviceSize int           `yaml:"device_size"`
	AdminSize  int           `yaml:"admin_size"`
	Operations []FSOperation `yaml:"operations"`
}

// FSOperation is one file-system command replayed in order.
type FSOperation struct {
	Op   string `yaml:"op"` // mkdir, create, resize, remove
	Path string `yaml:"path"`
	Size int    `yaml:"size,omitempty"`
}

// MemoryConfig configures the primary-memory placement engine.
type MemoryConfig struct {
	Policy    string                `yaml:"policy"`
	Size      int                   `yaml:"size"`
	PageSize  int                   `yaml:"page_size,omitempty"` // 0 = contiguous placement
	Processes []MemoryProcessConfig `yaml:"processes"`
	Unload    []int                 `yaml:"unload,omitempty"`  // pids released after loading
	Horizon   int                   `yaml:"horizon,omitempty"` // steps run after loading; expired processes leave memory
}

// MemoryProcessConfig is one process image to load.
type MemoryProcessConfig struct {
	Name     string `yaml:"name"`
	Size     int    `yaml:"size"`
	Duration int    `yaml:"duration"` // steps resident, 0 = until unloaded
	Segments []int  `yaml:"segments,omitempty"`
	Color    uint32 `yaml:"color,omitempty"`
}

// LoadScenario reads and strictly parses a YAML scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario strictly parses scenario YAML. Unknown keys are rejected.
func ParseScenario(data []byte) (*Scenario, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var sc Scenario
	if err := dec.Decode(&sc); err != nil {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}
	return &sc, nil
}

// InodeSize is the bytes one indexed-allocation inode takes in the admin region.
const InodeSize = 64

// ValidCPUPolicies is the set of recognized CPU scheduling policy names.
// Shared by Validate() and cpu.NewPolicy() to avoid duplication.
var ValidCPUPolicies = map[string]bool{
	"": true, "fcfs": true, "sjf": true, "srtf": true,
	"priority": true, "priority-preemptive": true, "rr": true,
}

// ValidDiskPolicies is the set of recognized disk scheduling policy names.
var ValidDiskPolicies = map[string]bool{
	"": true, "fifo": true, "lifo": true, "sstf": true,
	"scan": true, "cscan": true, "look": true, "clook": true,
}

// ValidFSStrategies is the set of recognized file-system allocation strategies.
var ValidFSStrategies = map[string]bool{"": true, "contiguous": true, "linked": true, "indexed": true}

// ValidMemoryPolicies is the set of recognized memory placement policies.
var ValidMemoryPolicies = map[string]bool{"": true, "first-fit": true, "best-fit": true, "worst-fit": true}

var validFSOps = map[string]bool{"mkdir": true, "create": true, "resize": true, "remove": true}

// Validate checks policy names and parameter ranges of every present section.
func (s *Scenario) Validate() error {
	if c := s.CPU; c != nil {
		if !ValidCPUPolicies[c.Policy] {
			return fmt.Errorf("unknown cpu policy %q", c.Policy)
		}
		if c.Policy == "rr" && c.Quantum <= 0 {
			return fmt.Errorf("rr policy requires quantum > 0, got %d", c.Quantum)
		}
		if c.Horizon < 0 {
			return fmt.Errorf("cpu horizon must be non-negative, got %d", c.Horizon)
		}
		for i, p := range c.Processes {
			if p.Bursts == "" {
				return fmt.Errorf("cpu process %d (%q): bursts must not be empty", i, p.Name)
			}
			if p.Submission < 0 {
				return fmt.Errorf("cpu process %d (%q): submission must be non-negative", i, p.Name)
			}
		}
		if r := c.Random; r != nil {
			if r.Count < 0 || r.MaxBursts <= 0 {
				return fmt.Errorf("cpu random: count must be >= 0 and max_bursts > 0")
			}
			if r.IOProbability < 0 || r.IOProbability > 1 {
				return fmt.Errorf("cpu random: io_probability must be in [0,1], got %f", r.IOProbability)
			}
		}
	}
	if d := s.Disk; d != nil {
		if !ValidDiskPolicies[d.Policy] {
			return fmt.Errorf("unknown disk policy %q", d.Policy)
		}
		if d.Tracks <= 0 {
			return fmt.Errorf("disk tracks must be > 0, got %d", d.Tracks)
		}
		if d.Head < 0 || d.Head >= d.Tracks {
			return fmt.Errorf("disk head %d outside [0,%d)", d.Head, d.Tracks)
		}
		if d.Direction != "" && d.Direction != "up" && d.Direction != "down" {
			return fmt.Errorf("unknown disk direction %q", d.Direction)
		}
		for i, r := range d.Requests {
			if r.Track < 0 || r.Track >= d.Tracks {
				return fmt.Errorf("disk request %d: track %d outside [0,%d)", i, r.Track, d.Tracks)
			}
			if r.Arrival < 0 {
				return fmt.Errorf("disk request %d: arrival must be non-negative", i)
			}
		}
	}
	if f := s.FS; f != nil {
		if !ValidFSStrategies[f.Strategy] {
			return fmt.Errorf("unknown fs strategy %q", f.Strategy)
		}
		if f.BlockSize <= 0 || f.DeviceSize < f.BlockSize {
			return fmt.Errorf("fs geometry invalid: block_size=%d device_size=%d", f.BlockSize, f.DeviceSize)
		}
		if f.AdminSize <= 0 || f.AdminSize >= f.DeviceSize {
			return fmt.Errorf("fs admin_size must be in (0, device_size), got %d", f.AdminSize)
		}
		if admin, blocks := (f.AdminSize+f.BlockSize-1)/f.BlockSize, f.DeviceSize/f.BlockSize; admin >= blocks {
			return fmt.Errorf("fs admin_size %d takes %d of %d blocks, leaving none for data", f.AdminSize, admin, blocks)
		}
		if (f.Strategy == "" || f.Strategy == "indexed") && f.AdminSize < InodeSize {
			return fmt.Errorf("fs admin_size %d holds no %d-byte inode", f.AdminSize, InodeSize)
		}
		for i, op := range f.Operations {
			if !validFSOps[op.Op] {
				return fmt.Errorf("fs operation %d: unknown op %q", i, op.Op)
			}
			if op.Size < 0 {
				return fmt.Errorf("fs operation %d: size must be non-negative", i)
			}
		}
	}
	if m := s.Memory; m != nil {
		if !ValidMemoryPolicies[m.Policy] {
			return fmt.Errorf("unknown memory policy %q", m.Policy)
		}
		if m.Size <= 0 {
			return fmt.Errorf("memory size must be > 0, got %d", m.Size)
		}
		if m.PageSize < 0 {
			return fmt.Errorf("memory page_size must be non-negative, got %d", m.PageSize)
		}
		if m.Horizon < 0 {
			return fmt.Errorf("memory horizon must be non-negative, got %d", m.Horizon)
		}
		for i, p := range m.Processes {
			if p.Size <= 0 {
				return fmt.Errorf("memory process %d (%q): size must be > 0", i, p.Name)
			}
			if p.Duration < 0 {
				return fmt.Errorf("memory process %d (%q): duration must be non-negative", i, p.Name)
			}
		}
	}
	return nil
}

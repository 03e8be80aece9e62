package sim

import (
	"hash/fnv"
	"math/rand"
)

// SimulationKey is the master seed of a session. Equal keys over the same
// scenario generate the same random processes and requests.
type SimulationKey int64

// NewSimulationKey wraps seed as a SimulationKey.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

// RNG subsystem names.
const (
	// SubsystemCPU seeds random process generation with the master seed itself,
	// so a --seed value alone reproduces a generated process set.
	SubsystemCPU = "cpu"
	// SubsystemDisk seeds random request generation.
	SubsystemDisk = "disk"
)

// PartitionedRNG hands each generator its own *rand.Rand so drawing more
// processes never shifts the disk request stream, and vice versa.
//
// SubsystemCPU is seeded with the key; any other name with key ^ fnv1a64(name).
// Not safe for concurrent use.
type PartitionedRNG struct {
	key    SimulationKey
	byName map[string]*rand.Rand
}

// NewPartitionedRNG returns an empty partition for key.
func NewPartitionedRNG(key SimulationKey) *PartitionedRNG {
	return &PartitionedRNG{key: key, byName: map[string]*rand.Rand{}}
}

// ForSubsystem returns the generator for name, creating it on first use.
// Later calls with the same name return the same instance.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if r := p.byName[name]; r != nil {
		return r
	}
	seed := int64(p.key)
	if name != SubsystemCPU {
		seed ^= fnv1a64(name)
	}
	r := rand.New(rand.NewSource(seed))
	p.byName[name] = r
	return r
}

// Key returns the master key.
func (p *PartitionedRNG) Key() SimulationKey { return p.key }

func fnv1a64(s string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return int64(h.Sum64())
}

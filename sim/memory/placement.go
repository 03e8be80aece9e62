package memory

import (
	"fmt"

	"github.com/ossim/ossim/sim"
)

// Placement picks the hole a unit of size goes into.
type Placement interface {
	Name() string
	// Choose returns the index into parts of the chosen hole, or -1.
	Choose(parts []Partition, size int) int
}

// FirstFit takes the lowest-addressed hole that fits.
type FirstFit struct{}

func (FirstFit) Name() string { return "first-fit" }

func (FirstFit) Choose(parts []Partition, size int) int {
	for i, p := range parts {
		if p.Free() && p.Size >= size {
			return i
		}
	}
	return -1
}

// BestFit takes the smallest hole that fits; ties go to the lower address.
type BestFit struct{}

func (BestFit) Name() string { return "best-fit" }

func (BestFit) Choose(parts []Partition, size int) int {
	best := -1
	for i, p := range parts {
		if p.Free() && p.Size >= size && (best < 0 || p.Size < parts[best].Size) {
			best = i
		}
	}
	return best
}

// WorstFit takes the largest hole; ties go to the lower address.
type WorstFit struct{}

func (WorstFit) Name() string { return "worst-fit" }

func (WorstFit) Choose(parts []Partition, size int) int {
	worst := -1
	for i, p := range parts {
		if p.Free() && p.Size >= size && (worst < 0 || p.Size > parts[worst].Size) {
			worst = i
		}
	}
	return worst
}

// NewPlacement creates a Placement by name. Valid names are the keys of
// sim.ValidMemoryPolicies; empty defaults to first-fit. Panics on
// unrecognized names.
func NewPlacement(name string) Placement {
	if !sim.ValidMemoryPolicies[name] {
		panic(fmt.Sprintf("unknown memory policy %q", name))
	}
	switch name {
	case "", "first-fit":
		return FirstFit{}
	case "best-fit":
		return BestFit{}
	case "worst-fit":
		return WorstFit{}
	default:
		panic(fmt.Sprintf("unhandled memory policy %q", name))
	}
}

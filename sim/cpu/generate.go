package cpu

import (
	"fmt"
	"math/rand"

	"github.com/ossim/ossim/sim"
	"github.com/ossim/ossim/sim/process"
)

// MaxRandomPriority bounds the priority of generated processes.
const MaxRandomPriority = 10

var palette = []sim.Color{
	0xE6194B, 0x3CB44B, 0x4363D8, 0xF58231, 0x911EB4,
	0x46F0F0, 0xF032E6, 0xBCF60C, 0xFABEBE, 0x008080,
}

// ColorFor returns the default display color of pid.
func ColorFor(pid int) sim.Color {
	if pid < 1 {
		return sim.LightGray
	}
	return palette[(pid-1)%len(palette)]
}

// Generate synthesizes cfg.Count processes with pids from ids. Every burst
// cycle starts with a CPU unit; later units are I/O with cfg.IOProbability.
// The result depends only on the rng state.
func Generate(rng *rand.Rand, cfg sim.RandomProcesses, ids *process.IDAllocator) ([]*process.Process, error) {
	if cfg.MaxBursts <= 0 {
		return nil, fmt.Errorf("generate: max bursts must be > 0, got %d", cfg.MaxBursts)
	}
	out := make([]*process.Process, 0, cfg.Count)
	for i := 0; i < cfg.Count; i++ {
		n := 1 + rng.Intn(cfg.MaxBursts)
		bursts := make([]process.Burst, n)
		for j := 1; j < n; j++ {
			if rng.Float64() < cfg.IOProbability {
				bursts[j] = process.IOBurst
			}
		}
		submission := 0
		if cfg.MaxSubmission > 0 {
			submission = rng.Intn(cfg.MaxSubmission + 1)
		}
		pid := ids.Next()
		p, err := process.New(pid, fmt.Sprintf("P%d", pid), rng.Intn(MaxRandomPriority), submission, false, bursts, ColorFor(pid))
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

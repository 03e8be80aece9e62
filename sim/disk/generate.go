package disk

import (
	"math/rand"

	"github.com/ossim/ossim/sim"
)

// Generate synthesizes cfg.Count requests spread uniformly over tracks,
// arriving in [0, cfg.MaxArrival].
func Generate(rng *rand.Rand, cfg sim.RandomRequests, tracks int) []sim.RequestConfig {
	out := make([]sim.RequestConfig, cfg.Count)
	for i := range out {
		out[i].Track = rng.Intn(tracks)
		if cfg.MaxArrival > 0 {
			out[i].Arrival = rng.Intn(cfg.MaxArrival + 1)
		}
	}
	return out
}

package disk

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ossim/ossim/sim"
)

func TestGenerate_WithinBoundsAndDeterministic(t *testing.T) {
	cfg := sim.RandomRequests{Count: 20, MaxArrival: 5}
	a := Generate(rand.New(rand.NewSource(3)), cfg, 50)
	b := Generate(rand.New(rand.NewSource(3)), cfg, 50)
	assert.Equal(t, a, b)
	assert.Len(t, a, 20)
	for _, r := range a {
		if r.Track < 0 || r.Track >= 50 {
			t.Errorf("track %d outside [0,50)", r.Track)
		}
		if r.Arrival < 0 || r.Arrival > 5 {
			t.Errorf("arrival %d outside [0,5]", r.Arrival)
		}
	}
	assert.Empty(t, Generate(rand.New(rand.NewSource(3)), sim.RandomRequests{}, 50))
}

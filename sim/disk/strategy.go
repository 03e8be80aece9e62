package disk

import (
	"fmt"

	"github.com/ossim/ossim/sim"
)

// Direction is the head sweep direction.
type Direction int

const (
	Up   Direction = iota // toward higher tracks
	Down                  // toward track 0
)

func (d Direction) String() string {
	if d == Down {
		return "down"
	}
	return "up"
}

// Reverse returns the opposite direction.
func (d Direction) Reverse() Direction {
	if d == Down {
		return Up
	}
	return Down
}

// ParseDirection maps "up"/"" and "down" to a Direction.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "", "up":
		return Up, nil
	case "down":
		return Down, nil
	}
	return Up, fmt.Errorf("unknown direction %q", s)
}

// Strategy selects the next request to serve.
//
// Selection is sticky: once Next returns a request it keeps returning that
// request until Complete is called, modelling a non-preemptible disk that
// serves one request at a time. Next returns nil iff nothing is in service
// and the queue is empty.
type Strategy interface {
	Name() string
	Info() string
	Next(queue []*Request, head int) *Request
	// Current returns the request in service, or nil.
	Current() *Request
	// Route returns the tracks the head visits, in order, to reach the request
	// in service. The last waypoint is always that request's track.
	Route() []int
	// Complete clears the in-service request.
	Complete()
}

// sticky holds the single in-service pointer every strategy shares.
type sticky struct {
	current *Request
	route   []int
}

func (s *sticky) Current() *Request { return s.current }

func (s *sticky) Route() []int { return append([]int(nil), s.route...) }

func (s *sticky) Complete() {
	s.current = nil
	s.route = nil
}

// serve makes r the in-service request reached through waypoints.
func (s *sticky) serve(r *Request, waypoints ...int) *Request {
	route := make([]int, 0, len(waypoints)+1)
	for _, w := range waypoints {
		if len(route) == 0 || route[len(route)-1] != w {
			route = append(route, w)
		}
	}
	if len(route) == 0 || route[len(route)-1] != r.Track {
		route = append(route, r.Track)
	}
	s.current = r
	s.route = route
	return r
}

// NewStrategy creates a Strategy by name for a device of tracks tracks.
// Valid names are the keys of sim.ValidDiskPolicies; empty defaults to FIFO.
// dir is the initial sweep direction for head-sweeping strategies.
// Panics on unrecognized names.
func NewStrategy(name string, tracks int, dir Direction) Strategy {
	if !sim.ValidDiskPolicies[name] {
		panic(fmt.Sprintf("unknown disk policy %q", name))
	}
	if tracks <= 0 {
		panic(fmt.Sprintf("NewStrategy: tracks must be > 0, got %d", tracks))
	}
	switch name {
	case "", "fifo":
		return &FIFO{}
	case "lifo":
		return &LIFO{}
	case "sstf":
		return &SSTF{}
	case "scan":
		return &SCAN{Tracks: tracks, Dir: dir}
	case "cscan":
		return &CSCAN{Tracks: tracks, Dir: dir}
	case "look":
		return &LOOK{Dir: dir}
	case "clook":
		return &CLOOK{Dir: dir}
	default:
		panic(fmt.Sprintf("unhandled disk policy %q", name))
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// nearest returns the queued request closest to head, restricted to requests
// at or beyond head in dir when directional is set. Ties go to the earliest arrival.
func nearest(queue []*Request, head int, dir Direction, directional bool) *Request {
	var best *Request
	for _, r := range queue {
		if directional {
			if dir == Up && r.Track < head {
				continue
			}
			if dir == Down && r.Track > head {
				continue
			}
		}
		if best == nil || abs(r.Track-head) < abs(best.Track-head) {
			best = r
		}
	}
	return best
}

// extreme returns the request farthest toward the start of a sweep in dir:
// the lowest track for Up, the highest for Down. Ties go to the earliest arrival.
func extreme(queue []*Request, dir Direction) *Request {
	var best *Request
	for _, r := range queue {
		if best == nil || (dir == Up && r.Track < best.Track) || (dir == Down && r.Track > best.Track) {
			best = r
		}
	}
	return best
}

package disk

import "fmt"

// SCAN (elevator) serves requests in the sweep direction nearest first. When
// none remain ahead, the head runs on to the device edge and reverses.
type SCAN struct {
	sticky
	Tracks int
	Dir    Direction
}

func (s *SCAN) Name() string { return "scan" }

func (s *SCAN) Info() string {
	return fmt.Sprintf("SCAN: sweep %s to the edge, then reverse (%d tracks)", s.Dir, s.Tracks)
}

func (s *SCAN) Next(queue []*Request, head int) *Request {
	if s.current != nil || len(queue) == 0 {
		return s.current
	}
	if r := nearest(queue, head, s.Dir, true); r != nil {
		return s.serve(r)
	}
	edge := edgeOf(s.Dir, s.Tracks)
	s.Dir = s.Dir.Reverse()
	return s.serve(nearest(queue, head, s.Dir, true), edge)
}

// LOOK is SCAN turning at the last request instead of the device edge.
type LOOK struct {
	sticky
	Dir Direction
}

func (l *LOOK) Name() string { return "look" }

func (l *LOOK) Info() string {
	return fmt.Sprintf("LOOK: sweep %s to the last request, then reverse", l.Dir)
}

func (l *LOOK) Next(queue []*Request, head int) *Request {
	if l.current != nil || len(queue) == 0 {
		return l.current
	}
	if r := nearest(queue, head, l.Dir, true); r != nil {
		return l.serve(r)
	}
	l.Dir = l.Dir.Reverse()
	return l.serve(nearest(queue, head, l.Dir, true))
}

// CSCAN serves in one direction only. When none remain ahead, the head runs to
// the edge, returns to the opposite edge and continues in the same direction.
// The return travel counts as head movement.
type CSCAN struct {
	sticky
	Tracks int
	Dir    Direction
}

func (c *CSCAN) Name() string { return "cscan" }

func (c *CSCAN) Info() string {
	return fmt.Sprintf("C-SCAN: sweep %s to the edge, then wrap around (%d tracks)", c.Dir, c.Tracks)
}

func (c *CSCAN) Next(queue []*Request, head int) *Request {
	if c.current != nil || len(queue) == 0 {
		return c.current
	}
	if r := nearest(queue, head, c.Dir, true); r != nil {
		return c.serve(r)
	}
	return c.serve(extreme(queue, c.Dir), edgeOf(c.Dir, c.Tracks), edgeOf(c.Dir.Reverse(), c.Tracks))
}

// CLOOK is C-SCAN jumping from the last request straight to the farthest one
// on the other side.
type CLOOK struct {
	sticky
	Dir Direction
}

func (c *CLOOK) Name() string { return "clook" }

func (c *CLOOK) Info() string {
	return fmt.Sprintf("C-LOOK: sweep %s to the last request, then wrap around", c.Dir)
}

func (c *CLOOK) Next(queue []*Request, head int) *Request {
	if c.current != nil || len(queue) == 0 {
		return c.current
	}
	if r := nearest(queue, head, c.Dir, true); r != nil {
		return c.serve(r)
	}
	return c.serve(extreme(queue, c.Dir))
}

func edgeOf(d Direction, tracks int) int {
	if d == Down {
		return 0
	}
	return tracks - 1
}

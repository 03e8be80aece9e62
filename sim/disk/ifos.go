package disk

// FIFO serves the oldest request. Head position is ignored.
type FIFO struct{ sticky }

func (f *FIFO) Name() string { return "fifo" }

func (f *FIFO) Info() string { return "FIFO: requests are served in arrival order" }

func (f *FIFO) Next(queue []*Request, _ int) *Request {
	if f.current == nil && len(queue) > 0 {
		f.serve(queue[0])
	}
	return f.current
}

// LIFO serves the newest request. Head position is ignored.
// Under sustained arrivals old requests starve.
type LIFO struct{ sticky }

func (l *LIFO) Name() string { return "lifo" }

func (l *LIFO) Info() string { return "LIFO: the most recently queued request is served first" }

func (l *LIFO) Next(queue []*Request, _ int) *Request {
	if l.current == nil && len(queue) > 0 {
		l.serve(queue[len(queue)-1])
	}
	return l.current
}

// SSTF serves the request with the shortest seek from the head.
// Ties are broken by arrival order.
type SSTF struct{ sticky }

func (s *SSTF) Name() string { return "sstf" }

func (s *SSTF) Info() string { return "SSTF: the request closest to the head is served first" }

func (s *SSTF) Next(queue []*Request, head int) *Request {
	if s.current == nil && len(queue) > 0 {
		s.serve(nearest(queue, head, Up, false))
	}
	return s.current
}

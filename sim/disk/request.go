// Implements the request Queue, which holds every disk block request waiting
// to be served. Requests are enqueued on arrival; insertion order is meaningful
// to every strategy.

package disk

import (
	"fmt"
	"strings"
)

// Request is a pending access to one track of the device.
type Request struct {
	ID      int // Unique identifier, assigned in submission order
	Track   int // Track (block address) to reach
	Arrival int // Clock at which the request entered the queue
}

// This method returns a human-readable string representation of a Request.
func (r Request) String() string {
	return fmt.Sprintf("Request: (ID: %d, Track: %d, Arrival: %d)", r.ID, r.Track, r.Arrival)
}

// Queue is the arrival-ordered collection of pending requests shared by all strategies.
type Queue struct {
	queue []*Request
}

// Enqueue adds a request to the back of the queue.
func (q *Queue) Enqueue(r *Request) {
	if r == nil {
		panic("Enqueue: r must not be nil")
	}
	q.queue = append(q.queue, r)
}

func (q *Queue) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, val := range q.queue {
		sb.WriteString(fmt.Sprint(val.Track))
		if i < len(q.queue)-1 {
			sb.WriteString(" ")
		}
	}
	sb.WriteString("]")
	return sb.String()
}

// Len returns the number of requests in the queue.
func (q *Queue) Len() int {
	return len(q.queue)
}

// Peek returns the oldest request without removing it, or nil.
func (q *Queue) Peek() *Request {
	if len(q.queue) == 0 {
		return nil
	}
	return q.queue[0]
}

// Last returns the most recent request without removing it, or nil.
func (q *Queue) Last() *Request {
	if len(q.queue) == 0 {
		return nil
	}
	return q.queue[len(q.queue)-1]
}

// Items returns the queue contents in arrival order.
// The returned slice is the queue's internal storage: callers MUST NOT
// append to or reslice it.
func (q *Queue) Items() []*Request {
	return q.queue
}

// Remove deletes r from the queue, preserving the order of the rest.
// It reports whether r was queued.
func (q *Queue) Remove(r *Request) bool {
	for i, v := range q.queue {
		if v == r {
			q.queue = append(q.queue[:i], q.queue[i+1:]...)
			return true
		}
	}
	return false
}

package disk

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/ossim/ossim/sim"
	"github.com/ossim/ossim/sim/trace"
)

// Service records one completed request.
type Service struct {
	Request  *Request
	Selected int // clock at which the strategy picked the request
	Finished int // clock at which the head reached its track
	Seek     int // tracks travelled while serving it
}

// Wait returns the time from arrival to completion.
func (s Service) Wait() int {
	return s.Finished - s.Request.Arrival
}

// Disk is the step-driven disk engine. It owns the head position, the request
// queue and the pending arrivals, and asks its Strategy which request to serve.
// The head moves one track per step.
type Disk struct {
	Tracks int
	Head   int
	Clock  int
	Queue  *Queue

	strategy  Strategy
	pending   []*Request // not yet arrived, sorted by (Arrival, ID)
	nextID    int
	inService *Request
	waypoints []int
	selected  int
	seek      int

	Served   []Service
	Movement int // total tracks travelled

	// Trace records service decisions; nil disables recording.
	Trace *trace.SimulationTrace
}

// New creates a disk of tracks tracks with the head at head.
// Panics on invalid geometry.
func New(tracks, head int, strategy Strategy) *Disk {
	if tracks <= 0 {
		panic(fmt.Sprintf("disk: tracks must be > 0, got %d", tracks))
	}
	if head < 0 || head >= tracks {
		panic(fmt.Sprintf("disk: head %d outside [0,%d)", head, tracks))
	}
	if strategy == nil {
		panic("disk: strategy must not be nil")
	}
	return &Disk{
		Tracks:   tracks,
		Head:     head,
		Queue:    &Queue{},
		strategy: strategy,
	}
}

// Strategy returns the active strategy.
func (d *Disk) Strategy() Strategy { return d.strategy }

// SetStrategy switches policy. The in-service request stays queued and is
// re-selected by the new strategy from the current head position.
func (d *Disk) SetStrategy(s Strategy) {
	if s == nil {
		panic("SetStrategy: strategy must not be nil")
	}
	d.strategy.Complete()
	s.Complete()
	d.strategy = s
	d.inService = nil
	d.waypoints = nil
}

// Submit registers a request for track arriving at clock arrival. Arrivals at
// or before the current clock are queued immediately.
func (d *Disk) Submit(track, arrival int) (*Request, error) {
	if track < 0 || track >= d.Tracks {
		return nil, fmt.Errorf("request track %d outside [0,%d)", track, d.Tracks)
	}
	if arrival < d.Clock {
		arrival = d.Clock
	}
	d.nextID++
	r := &Request{ID: d.nextID, Track: track, Arrival: arrival}
	if arrival <= d.Clock {
		d.Queue.Enqueue(r)
		return r, nil
	}
	d.pending = append(d.pending, r)
	sort.SliceStable(d.pending, func(i, j int) bool {
		if d.pending[i].Arrival != d.pending[j].Arrival {
			return d.pending[i].Arrival < d.pending[j].Arrival
		}
		return d.pending[i].ID < d.pending[j].ID
	})
	return r, nil
}

// Done reports whether no request is queued, pending or in service.
func (d *Disk) Done() bool {
	return d.Queue.Len() == 0 && len(d.pending) == 0
}

func (d *Disk) admit() {
	n := 0
	for n < len(d.pending) && d.pending[n].Arrival <= d.Clock {
		logrus.Debugf("[disk %05d] arrival: request %d track %d", d.Clock, d.pending[n].ID, d.pending[n].Track)
		d.Queue.Enqueue(d.pending[n])
		n++
	}
	d.pending = d.pending[n:]
}

func (d *Disk) dropReached() {
	for len(d.waypoints) > 0 && d.waypoints[0] == d.Head {
		d.waypoints = d.waypoints[1:]
	}
}

// Step advances the simulation one time unit and returns the request served
// during it, or nil.
func (d *Disk) Step() *Service {
	defer func() { d.Clock++ }()

	d.admit()
	r := d.strategy.Next(d.Queue.Items(), d.Head)
	if r == nil {
		logrus.Debugf("[disk %05d] idle at track %d", d.Clock, d.Head)
		return nil
	}
	if r != d.inService {
		d.inService = r
		d.waypoints = d.strategy.Route()
		d.selected = d.Clock
		d.seek = 0
		logrus.Infof("[disk %05d] %s selected request %d (track %d) from head %d via %v",
			d.Clock, d.strategy.Name(), r.ID, r.Track, d.Head, d.waypoints)
	}

	d.dropReached()
	if len(d.waypoints) > 0 {
		if d.waypoints[0] > d.Head {
			d.Head++
		} else {
			d.Head--
		}
		d.Movement++
		d.seek++
		d.dropReached()
	}
	if len(d.waypoints) > 0 || d.Head != r.Track {
		return nil
	}

	svc := Service{Request: r, Selected: d.selected, Finished: d.Clock, Seek: d.seek}
	d.Served = append(d.Served, svc)
	d.Queue.Remove(r)
	d.strategy.Complete()
	d.inService = nil
	logrus.Infof("[disk %05d] served request %d at track %d (seek %d, wait %d)", d.Clock, r.ID, r.Track, svc.Seek, svc.Wait())
	if d.Trace != nil {
		d.Trace.RecordService(trace.ServiceRecord{
			RequestID: r.ID,
			Track:     r.Track,
			Clock:     d.Clock,
			Seek:      svc.Seek,
			Wait:      svc.Wait(),
			Policy:    d.strategy.Name(),
		})
	}
	return &svc
}

// Run steps until every request is served or maxSteps elapse (0 = no limit).
func (d *Disk) Run(maxSteps int) {
	for steps := 0; !d.Done(); steps++ {
		if maxSteps > 0 && steps >= maxSteps {
			logrus.Warnf("[disk %05d] stopped after %d steps with %d requests left", d.Clock, steps, d.Queue.Len()+len(d.pending))
			return
		}
		d.Step()
	}
}

// Order returns the served tracks in service order.
func (d *Disk) Order() []int {
	out := make([]int, len(d.Served))
	for i, s := range d.Served {
		out[i] = s.Request.Track
	}
	return out
}

// MeanWait returns the mean arrival-to-completion time of served requests.
func (d *Disk) MeanWait() float64 {
	if len(d.Served) == 0 {
		return 0
	}
	total := 0
	for _, s := range d.Served {
		total += s.Wait()
	}
	return float64(total) / float64(len(d.Served))
}

// QueueHeader returns the pending-request table header.
func QueueHeader() []string {
	return []string{"ID", "Track", "Arrival", "Distance"}
}

// QueueRows returns one row per queued request. The in-service request is
// highlighted.
func (d *Disk) QueueRows() [][]sim.Cell {
	rows := make([][]sim.Cell, 0, d.Queue.Len())
	for _, r := range d.Queue.Items() {
		color := sim.White
		if r == d.strategy.Current() {
			color = sim.Yellow
		}
		rows = append(rows, []sim.Cell{
			{Value: strconv.Itoa(r.ID), Color: color},
			{Value: strconv.Itoa(r.Track), Color: color},
			{Value: strconv.Itoa(r.Arrival), Color: color},
			{Value: strconv.Itoa(abs(r.Track - d.Head)), Color: color},
		})
	}
	return rows
}

// ServedHeader returns the service history table header.
func ServedHeader() []string {
	return []string{"ID", "Track", "Arrival", "Selected", "Finished", "Seek", "Wait"}
}

// ServedRows returns one row per served request, in service order.
func (d *Disk) ServedRows() [][]sim.Cell {
	rows := make([][]sim.Cell, 0, len(d.Served))
	for _, s := range d.Served {
		rows = append(rows, []sim.Cell{
			sim.NewCell(strconv.Itoa(s.Request.ID)),
			sim.NewCell(strconv.Itoa(s.Request.Track)),
			sim.NewCell(strconv.Itoa(s.Request.Arrival)),
			sim.NewCell(strconv.Itoa(s.Selected)),
			sim.NewCell(strconv.Itoa(s.Finished)),
			sim.NewCell(strconv.Itoa(s.Seek)),
			sim.NewCell(strconv.Itoa(s.Wait())),
		})
	}
	return rows
}

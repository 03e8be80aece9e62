package process

import (
	"fmt"
	"strconv"

	"github.com/ossim/ossim/sim"
)

// Persisted attribute names, in persisted order.
const (
	AttrPID        = "pid"
	AttrName       = "name"
	AttrPriority   = "prio"
	AttrSubmission = "submission"
	AttrPeriodic   = "periodic"
	AttrBursts     = "bursts"
	AttrColor      = "color"
)

// XMLInfo returns the persisted (name, value) pairs of the process definition.
// Run state is not persisted.
func (p *Process) XMLInfo() sim.Attributes {
	return sim.Attributes{
		{Name: AttrPID, Value: strconv.Itoa(p.PID)},
		{Name: AttrName, Value: p.Name},
		{Name: AttrPriority, Value: strconv.Itoa(p.Priority)},
		{Name: AttrSubmission, Value: strconv.Itoa(p.Submission)},
		{Name: AttrPeriodic, Value: strconv.FormatBool(p.Periodic)},
		{Name: AttrBursts, Value: FormatBursts(p.bursts)},
		{Name: AttrColor, Value: p.Color.String()},
	}
}

// FromAttributes rebuilds a process from persisted pairs. The PID is recorded
// in ids so later allocations do not reuse it.
func FromAttributes(attrs sim.Attributes, ids *IDAllocator) (*Process, error) {
	get := func(name string) (string, error) {
		v, ok := attrs.Get(name)
		if !ok {
			return "", fmt.Errorf("process attributes: missing %q", name)
		}
		return v, nil
	}
	atoi := func(name string) (int, error) {
		v, err := get(name)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("process attributes: %s: %w", name, err)
		}
		return n, nil
	}

	pid, err := atoi(AttrPID)
	if err != nil {
		return nil, err
	}
	name, err := get(AttrName)
	if err != nil {
		return nil, err
	}
	prio, err := atoi(AttrPriority)
	if err != nil {
		return nil, err
	}
	submission, err := atoi(AttrSubmission)
	if err != nil {
		return nil, err
	}
	ps, err := get(AttrPeriodic)
	if err != nil {
		return nil, err
	}
	periodic, err := strconv.ParseBool(ps)
	if err != nil {
		return nil, fmt.Errorf("process attributes: periodic: %w", err)
	}
	bs, err := get(AttrBursts)
	if err != nil {
		return nil, err
	}
	bursts, err := ParseBursts(bs)
	if err != nil {
		return nil, fmt.Errorf("process attributes: %w", err)
	}
	cs, err := get(AttrColor)
	if err != nil {
		return nil, err
	}
	color, err := sim.ParseColor(cs)
	if err != nil {
		return nil, err
	}
	if ids != nil {
		ids.Observe(pid)
	}
	return New(pid, name, prio, submission, periodic, bursts, color)
}

// TableHeader returns the process information table header.
func TableHeader() []string {
	return []string{"PID", "Name", "Priority", "Submission", "Periodic", "CPU", "Response", "Waiting", "Turnaround", "CPU rate", "I/O rate"}
}

// TableRow returns the process information row at clock. The PID cell carries
// the process color; metric cells stay blank until the process is submitted.
func (p *Process) TableRow(clock int) []sim.Cell {
	row := []sim.Cell{
		{Value: strconv.Itoa(p.PID), Color: p.Color},
		sim.NewCell(p.Name),
		sim.NewCell(strconv.Itoa(p.Priority)),
		sim.NewCell(strconv.Itoa(p.Submission)),
	}
	if p.Periodic {
		row = append(row, sim.NewCell("✓"))
	} else {
		row = append(row, sim.NewCell("-"))
	}
	if clock > 0 && clock >= p.Submission {
		row = append(row, sim.NewCell(strconv.Itoa(p.cpu)))
		if rt, ok := p.Response(); ok {
			row = append(row, sim.NewCell(strconv.Itoa(rt)))
		} else {
			row = append(row, sim.NewCell(""))
		}
		row = append(row, sim.NewCell(strconv.Itoa(p.waiting)))
		if p.Periodic {
			row = append(row, sim.NewCell("∞"))
		} else if ta, ok := p.Turnaround(); ok {
			row = append(row, sim.NewCell(strconv.Itoa(ta)))
		} else {
			row = append(row, sim.NewCell(""))
		}
		row = append(row, sim.NewCell(strconv.FormatFloat(p.CPURate(), 'f', 2, 64)))
	} else {
		for i := 0; i < 5; i++ {
			row = append(row, sim.NewCell(""))
		}
	}
	return append(row, sim.NewCell(strconv.FormatFloat(p.ioRate, 'f', 2, 64)))
}

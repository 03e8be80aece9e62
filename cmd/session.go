package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ossim/ossim/sim"
	"github.com/ossim/ossim/sim/cpu"
	"github.com/ossim/ossim/sim/disk"
	"github.com/ossim/ossim/sim/fs"
	"github.com/ossim/ossim/sim/memory"
	"github.com/ossim/ossim/sim/process"
	"github.com/ossim/ossim/sim/trace"
)

// buildCPU creates the CPU engine and its processes. Allocated pids skip
// the explicit ones; generated processes come after all of them.
func buildCPU(c *sim.CPUConfig, rng *sim.PartitionedRNG) (*cpu.Engine, error) {
	e := cpu.NewEngine(cpu.NewPolicy(c.Policy, c.Quantum))
	ids := process.NewIDAllocator()
	taken := make(map[int]bool)
	for _, pc := range c.Processes {
		if pc.PID > 0 {
			taken[pc.PID] = true
		}
	}
	for i, pc := range c.Processes {
		bursts, err := process.ParseBursts(pc.Bursts)
		if err != nil {
			return nil, fmt.Errorf("cpu process %d: %w", i, err)
		}
		pid := pc.PID
		for pid <= 0 || (pc.PID <= 0 && taken[pid]) {
			pid = ids.Next()
		}
		color := sim.Color(pc.Color)
		if color == 0 {
			color = cpu.ColorFor(pid)
		}
		p, err := process.New(pid, pc.Name, pc.Priority, pc.Submission, pc.Periodic, bursts, color)
		if err != nil {
			return nil, err
		}
		if err := e.Add(p); err != nil {
			return nil, err
		}
	}
	for pid := range taken {
		ids.Observe(pid)
	}
	if c.Random != nil {
		procs, err := cpu.Generate(rng.ForSubsystem(sim.SubsystemCPU), *c.Random, ids)
		if err != nil {
			return nil, err
		}
		for _, p := range procs {
			if err := e.Add(p); err != nil {
				return nil, err
			}
		}
	}
	return e, nil
}

// buildDisk creates the disk and submits every configured request.
func buildDisk(c *sim.DiskConfig, rng *sim.PartitionedRNG) (*disk.Disk, error) {
	dir, err := disk.ParseDirection(c.Direction)
	if err != nil {
		return nil, err
	}
	d := disk.New(c.Tracks, c.Head, disk.NewStrategy(c.Policy, c.Tracks, dir))
	reqs := append([]sim.RequestConfig(nil), c.Requests...)
	if c.Random != nil {
		reqs = append(reqs, disk.Generate(rng.ForSubsystem(sim.SubsystemDisk), *c.Random, c.Tracks)...)
	}
	for _, r := range reqs {
		if _, err := d.Submit(r.Track, r.Arrival); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// buildFS formats the device and replays every operation. Exhaustion and
// lookup misses are part of the simulation and only reported; anything else
// aborts.
func buildFS(c *sim.FSConfig, tr *trace.SimulationTrace) (*fs.FileSystem, []string, error) {
	g := fs.Geometry{BlockSize: c.BlockSize, DeviceSize: c.DeviceSize, AdminSize: c.AdminSize}
	if err := fs.CheckGeometry(c.Strategy, g); err != nil {
		return nil, nil, err
	}
	f := fs.New(fs.NewStrategy(c.Strategy, g))
	f.Trace = tr
	var failures []string
	for _, op := range c.Operations {
		if err := f.Apply(op.Op, op.Path, op.Size); err != nil {
			failures = append(failures, fmt.Sprintf("%s %s: %v", op.Op, op.Path, err))
		}
	}
	return f, failures, nil
}

// buildMemory loads every configured process, split into segments or pages
// when asked, releases the unload list and then steps the memory Horizon
// times so processes with a Duration expire.
func buildMemory(c *sim.MemoryConfig, tr *trace.SimulationTrace) (*memory.Memory, []string, error) {
	m := memory.New(c.Size, memory.NewPlacement(c.Policy))
	m.Trace = tr
	tbl := memory.NewProcessTable()
	var failures []string
	for i, pc := range c.Processes {
		name := pc.Name
		if name == "" {
			name = "M" + strconv.Itoa(i+1)
		}
		p, err := tbl.New(name, pc.Size, pc.Duration, sim.Color(pc.Color))
		if err != nil {
			return nil, nil, err
		}
		if pc.Color == 0 {
			p.Color = cpu.ColorFor(p.PID())
		}
		units, err := split(tbl, p, pc.Segments, c.PageSize)
		if err != nil {
			return nil, nil, err
		}
		if _, err := m.LoadAll(units); err != nil {
			failures = append(failures, fmt.Sprintf("load %s: %v", name, err))
		}
	}
	for _, pid := range c.Unload {
		m.Unload(pid)
	}
	for i := 0; i < c.Horizon; i++ {
		for _, pid := range m.Step() {
			logrus.Infof("[mem %05d] process %d expired", m.Clock, pid)
		}
	}
	return m, failures, nil
}

func split(tbl *memory.ProcessTable, p *memory.ProcessComplete, segments []int, pageSize int) ([]memory.MemUnit, error) {
	var parts []*memory.ProcessComponent
	var err error
	switch {
	case len(segments) > 0:
		parts, err = tbl.Segment(p.PID(), segments)
	case pageSize > 0:
		parts, err = tbl.Paginate(p.PID(), pageSize)
	default:
		return []memory.MemUnit{p}, nil
	}
	if err != nil {
		return nil, err
	}
	units := make([]memory.MemUnit, len(parts))
	for i, c := range parts {
		units[i] = c
	}
	return units, nil
}

// runScenario runs every configured section and renders its tables to w.
func runScenario(w io.Writer, sc *sim.Scenario, tr *trace.SimulationTrace) error {
	rng := sim.NewPartitionedRNG(sim.NewSimulationKey(sc.Seed))

	if sc.CPU != nil {
		e, err := buildCPU(sc.CPU, rng)
		if err != nil {
			return err
		}
		e.Trace = tr
		if err := e.Run(sc.CPU.Horizon); err != nil {
			return err
		}
		reportCPU(w, e)
	}
	if sc.Disk != nil {
		d, err := buildDisk(sc.Disk, rng)
		if err != nil {
			return err
		}
		d.Trace = tr
		d.Run(0)
		reportDisk(w, d)
	}
	if sc.FS != nil {
		f, failures, err := buildFS(sc.FS, tr)
		if err != nil {
			return err
		}
		reportFS(w, f, failures)
	}
	if sc.Memory != nil {
		m, failures, err := buildMemory(sc.Memory, tr)
		if err != nil {
			return err
		}
		reportMemory(w, m, failures)
	}
	if tr != nil {
		reportTrace(w, trace.Summarize(tr))
	}
	logrus.Info("Simulation complete.")
	return nil
}

func reportCPU(w io.Writer, e *cpu.Engine) {
	renderTable(w, fmt.Sprintf("CPU (%s) at clock %d", e.Policy.Name(), e.Clock), process.TableHeader(), e.TableRows())
	renderTable(w, "Gantt", e.GanttHeader(), [][]sim.Cell{e.GanttRow()})
	avg := e.Averages()
	renderPairs(w, "CPU metrics", [][2]string{
		{"completed", strconv.Itoa(avg.Completed)},
		{"mean waiting", ff(avg.Waiting)},
		{"mean turnaround", ff(avg.Turnaround)},
		{"mean response", ff(avg.Response)},
		{"cpu utilization", ff(e.CPUUtilization())},
		{"io utilization", ff(e.IOUtilization())},
		{"context switches", strconv.Itoa(e.ContextSwitches())},
	})
}

func reportDisk(w io.Writer, d *disk.Disk) {
	renderTable(w, fmt.Sprintf("Disk (%s)", d.Strategy().Info()), disk.ServedHeader(), d.ServedRows())
	order := make([]string, 0, len(d.Served))
	for _, t := range d.Order() {
		order = append(order, strconv.Itoa(t))
	}
	renderPairs(w, "Disk metrics", [][2]string{
		{"service order", strings.Join(order, " ")},
		{"head movement", strconv.Itoa(d.Movement)},
		{"mean wait", ff(d.MeanWait())},
	})
}

func reportFS(w io.Writer, f *fs.FileSystem, failures []string) {
	sep := f.Strategy.PathSeparator()
	var rows [][]sim.Cell
	f.Walk(func(o *fs.LogicalObject, _ int) {
		p := o.Physical()
		rows = append(rows, []sim.Cell{
			{Value: o.Path(sep), Color: o.Color},
			sim.NewCell(o.Kind.String()),
			sim.NewCell(strconv.Itoa(o.Size)),
			sim.NewCell(strconv.Itoa(o.ID())),
			sim.NewCell(strconv.Itoa(len(p.Owned()))),
		})
	})
	renderTable(w, fmt.Sprintf("File system (%s)", f.Strategy.Info()), []string{"Path", "Type", "Size", "ID", "Blocks"}, rows)
	renderTable(w, "Device", f.Strategy.TableHeader(), f.Strategy.TableData(f.Device))
	pairs := [][2]string{
		{"free blocks", strconv.Itoa(f.Device.FreeCount())},
		{"used blocks", strconv.Itoa(f.Device.UsedCount())},
	}
	for _, msg := range failures {
		pairs = append(pairs, [2]string{"failed", msg})
	}
	renderPairs(w, "File system metrics", pairs)
}

func reportMemory(w io.Writer, m *memory.Memory, failures []string) {
	renderTable(w, fmt.Sprintf("Memory (%s)", m.Placement.Name()), m.TableHeader(), m.TableRows())
	pairs := [][2]string{
		{"free", strconv.Itoa(m.FreeSize())},
		{"largest hole", strconv.Itoa(m.LargestHole())},
	}
	for _, msg := range failures {
		pairs = append(pairs, [2]string{"failed", msg})
	}
	renderPairs(w, "Memory metrics", pairs)
}

func reportTrace(w io.Writer, s *trace.TraceSummary) {
	renderPairs(w, "Trace summary", [][2]string{
		{"dispatches", strconv.Itoa(s.Dispatches)},
		{"idle steps", strconv.Itoa(s.IdleSteps)},
		{"context switches", strconv.Itoa(s.ContextSwitches)},
		{"requests served", strconv.Itoa(s.RequestsServed)},
		{"total seek", strconv.Itoa(s.TotalSeek)},
		{"mean seek", ff(s.MeanSeek)},
		{"max wait", strconv.Itoa(s.MaxWait)},
		{"allocations", strconv.Itoa(s.Allocations)},
		{"failed allocations", strconv.Itoa(s.FailedAllocations)},
	})
}

func ff(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

package disk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ossim/ossim/sim/trace"
)

// textbook workload: 200 tracks, head at 53
var textbookQueue = []int{98, 183, 37, 122, 14, 124, 65, 67}

func runTextbook(t *testing.T, policy string, dir Direction) *Disk {
	t.Helper()
	d := New(200, 53, NewStrategy(policy, 200, dir))
	for _, tr := range textbookQueue {
		_, err := d.Submit(tr, 0)
		require.NoError(t, err)
	}
	d.Run(0)
	require.True(t, d.Done())
	return d
}

func TestDisk_TextbookOrdersAndMovement(t *testing.T) {
	tests := []struct {
		policy   string
		dir      Direction
		order    []int
		movement int
	}{
		{"fifo", Up, []int{98, 183, 37, 122, 14, 124, 65, 67}, 640},
		{"lifo", Up, []int{67, 65, 124, 14, 122, 37, 183, 98}, 609},
		{"sstf", Up, []int{65, 67, 37, 14, 98, 122, 124, 183}, 236},
		{"scan", Down, []int{37, 14, 65, 67, 98, 122, 124, 183}, 236},
		{"scan", Up, []int{65, 67, 98, 122, 124, 183, 37, 14}, 331},
		{"look", Up, []int{65, 67, 98, 122, 124, 183, 37, 14}, 299},
		{"cscan", Up, []int{65, 67, 98, 122, 124, 183, 14, 37}, 382},
		{"clook", Up, []int{65, 67, 98, 122, 124, 183, 14, 37}, 322},
	}
	for _, tt := range tests {
		t.Run(tt.policy+"-"+tt.dir.String(), func(t *testing.T) {
			d := runTextbook(t, tt.policy, tt.dir)
			assert.Equal(t, tt.order, d.Order())
			assert.Equal(t, tt.movement, d.Movement)
		})
	}
}

func TestDisk_LIFOIsNotPreemptedByNewArrival(t *testing.T) {
	d := New(100, 0, &LIFO{})
	_, err := d.Submit(50, 0)
	require.NoError(t, err)
	_, err = d.Submit(10, 5)
	require.NoError(t, err)
	d.Run(0)

	require.Len(t, d.Served, 2)
	assert.Equal(t, []int{50, 10}, d.Order())
	assert.Equal(t, 49, d.Served[0].Finished)
	assert.Equal(t, 89, d.Served[1].Finished)
	assert.Equal(t, 84, d.Served[1].Wait())
}

func TestDisk_RequestAtHeadServedWithoutSeek(t *testing.T) {
	d := New(100, 53, &FIFO{})
	_, err := d.Submit(53, 0)
	require.NoError(t, err)
	svc := d.Step()
	require.NotNil(t, svc)
	assert.Equal(t, 0, svc.Seek)
	assert.Equal(t, 0, svc.Finished)
	assert.Equal(t, 1, d.Clock)
}

func TestDisk_IdleUntilArrival(t *testing.T) {
	d := New(100, 0, &FIFO{})
	_, err := d.Submit(1, 3)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		assert.Nil(t, d.Step())
	}
	assert.Equal(t, 0, d.Queue.Len())
	svc := d.Step()
	require.NotNil(t, svc)
	assert.Equal(t, 3, svc.Finished)
	assert.Equal(t, 0, svc.Wait())
}

func TestDisk_SubmitOutOfRange(t *testing.T) {
	d := New(10, 0, &FIFO{})
	_, err := d.Submit(10, 0)
	assert.Error(t, err)
	_, err = d.Submit(-1, 0)
	assert.Error(t, err)
}

func TestDisk_SetStrategyMidService(t *testing.T) {
	d := New(200, 53, &FIFO{})
	for _, tr := range textbookQueue {
		_, err := d.Submit(tr, 0)
		require.NoError(t, err)
	}
	d.Step() // FIFO heads toward 98
	d.SetStrategy(&SSTF{})
	d.Run(0)
	assert.Len(t, d.Served, len(textbookQueue))
	assert.Equal(t, 65, d.Served[0].Request.Track, "SSTF re-selects from the current head")
}

func TestDisk_TraceRecordsServices(t *testing.T) {
	d := New(200, 53, &SSTF{})
	d.Trace = trace.NewSimulationTrace(trace.TraceConfig{Level: trace.TraceLevelDecisions})
	for _, tr := range textbookQueue {
		_, err := d.Submit(tr, 0)
		require.NoError(t, err)
	}
	d.Run(0)

	summary := trace.Summarize(d.Trace)
	assert.Equal(t, len(textbookQueue), summary.RequestsServed)
	assert.Equal(t, d.Movement, summary.TotalSeek)
}

func TestDisk_QueueRowsHighlightInService(t *testing.T) {
	d := New(200, 53, &FIFO{})
	for _, tr := range []int{98, 10} {
		_, err := d.Submit(tr, 0)
		require.NoError(t, err)
	}
	d.Step()
	rows := d.QueueRows()
	require.Len(t, rows, 2)
	assert.Equal(t, "98", rows[0][1].Value)
	assert.NotEqual(t, rows[0][0].Color, rows[1][0].Color)
	assert.Len(t, rows[0], len(QueueHeader()))
}

func TestDisk_RunStopsAtMaxSteps(t *testing.T) {
	d := New(200, 0, &FIFO{})
	_, err := d.Submit(199, 0)
	require.NoError(t, err)
	d.Run(10)
	assert.False(t, d.Done())
	assert.Equal(t, 10, d.Head)
}

func TestNew_InvalidHead_Panics(t *testing.T) {
	assert.Panics(t, func() { New(10, 10, &FIFO{}) })
}

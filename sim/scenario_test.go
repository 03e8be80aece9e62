package sim

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ossim/ossim/sim/internal/testutil"
)

func TestParseScenario_Fixture(t *testing.T) {
	sc, err := ParseScenario(testutil.ReadFixture(t, "scenario.yaml"))
	require.NoError(t, err)
	require.NoError(t, sc.Validate())

	assert.Equal(t, int64(42), sc.Seed)
	require.NotNil(t, sc.CPU)
	assert.Equal(t, "rr", sc.CPU.Policy)
	assert.Len(t, sc.CPU.Processes, 3)
	assert.Equal(t, uint32(0x1E90FF), sc.CPU.Processes[0].Color)
	assert.Equal(t, 9, sc.CPU.Processes[2].PID)
	require.NotNil(t, sc.CPU.Random)
	assert.Equal(t, 2, sc.CPU.Random.Count)

	require.NotNil(t, sc.Disk)
	assert.Len(t, sc.Disk.Requests, 8)
	require.NotNil(t, sc.FS)
	assert.Equal(t, "indexed", sc.FS.Strategy)
	assert.Len(t, sc.FS.Operations, 5)
	require.NotNil(t, sc.Memory)
	assert.Equal(t, []int{100, 400}, sc.Memory.Processes[1].Segments)
	assert.Equal(t, []int{1}, sc.Memory.Unload)
	assert.Equal(t, 3, sc.Memory.Horizon)
	assert.Equal(t, 3, sc.Memory.Processes[2].Duration)
}

func TestParseScenario_RejectsUnknownFields(t *testing.T) {
	_, err := ParseScenario([]byte("seed: 1\ncpu:\n  policy: fcfs\n  quantun: 2\n"))
	assert.Error(t, err)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario("does-not-exist.yaml")
	assert.Error(t, err)
}

func TestScenario_ValidateRejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"unknown cpu policy", "cpu: {policy: lottery}", "cpu policy"},
		{"rr without quantum", "cpu: {policy: rr}", "quantum"},
		{"empty bursts", "cpu: {policy: fcfs, processes: [{name: a}]}", "bursts"},
		{"unknown disk policy", "disk: {policy: elevator, tracks: 10}", "disk policy"},
		{"head outside disk", "disk: {policy: fifo, tracks: 10, head: 10}", "head"},
		{"bad direction", "disk: {policy: scan, tracks: 10, direction: left}", "direction"},
		{"request outside disk", "disk: {policy: fifo, tracks: 10, requests: [{track: 11}]}", "track"},
		{"unknown fs strategy", "fs: {strategy: buddy, block_size: 1, device_size: 8, admin_size: 1}", "fs strategy"},
		{"admin covers device", "fs: {strategy: linked, block_size: 1, device_size: 8, admin_size: 8}", "admin_size"},
		{"admin leaves no data block", "fs: {strategy: linked, block_size: 512, device_size: 1024, admin_size: 600}", "leaving none"},
		{"indexed admin below one inode", "fs: {strategy: indexed, block_size: 512, device_size: 8192, admin_size: 32}", "inode"},
		{"default strategy admin below one inode", "fs: {block_size: 512, device_size: 8192, admin_size: 32}", "inode"},
		{"unknown fs op", "fs: {strategy: linked, block_size: 1, device_size: 8, admin_size: 1, operations: [{op: chmod, path: /a}]}", "op"},
		{"unknown memory policy", "memory: {policy: next-fit, size: 10}", "memory policy"},
		{"zero memory", "memory: {policy: first-fit}", "size"},
		{"negative memory horizon", "memory: {policy: first-fit, size: 10, horizon: -1}", "horizon"},
		{"negative duration", "memory: {policy: first-fit, size: 10, processes: [{name: a, size: 5, duration: -2}]}", "duration"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc, err := ParseScenario([]byte(tt.yaml))
			require.NoError(t, err)
			err = sc.Validate()
			require.Error(t, err)
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Validate() = %q, want it to mention %q", err, tt.want)
			}
		})
	}
}

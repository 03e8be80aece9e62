// Package sim holds what every simulation engine shares: display cells and
// persisted attributes, the error sentinels, the partitioned RNG and the
// YAML scenario with its policy name registries.
//
// # Reading Guide
//
// Each engine lives in its own sub-package and advances in discrete steps:
//   - sim/process/: the process model driven by the CPU engine
//   - sim/cpu/: CPU scheduling policies and the step engine
//   - sim/disk/: disk request scheduling strategies and the disk engine
//   - sim/fs/: block device, file-system allocation strategies and the path facade
//   - sim/memory/: process images, pages and segments, and partition placement
//   - sim/trace/: decision trace recording
//
// # Conventions
//
// Policies are created by name through NewX factories that panic on unknown
// names; the accepted names are the Valid* registries in this package, where
// the empty string selects the default. Engines expose their state as header
// and row pairs of Cell values so any renderer can draw them.
//
// Allocation failures are recoverable and leave all state unchanged. Test
// them with errors.Is against ErrNoFreeSlots, ErrNoSpace or ErrNotFound, or
// with IsExhausted.
package sim

package system

import (
	"fmt"
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// HostStats is a snapshot of the machine a render ran on
type HostStats struct {
	LogicalCPUs   int
	TotalMemory   uint64
	UsedPercent   float64
	GoRoutines    int
	HeapAllocated uint64
}

func ReadHostStats() (HostStats, error) {
	var s HostStats

	n, err := cpu.Counts(true)
	if err != nil {
		return s, fmt.Errorf("cpu counts: %w", err)
	}
	s.LogicalCPUs = n

	vm, err := mem.VirtualMemory()
	if err != nil {
		return s, fmt.Errorf("virtual memory: %w", err)
	}
	s.TotalMemory = vm.Total
	s.UsedPercent = vm.UsedPercent

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	s.HeapAllocated = ms.HeapAlloc
	s.GoRoutines = runtime.NumGoroutine()
	return s, nil
}

func (s HostStats) String() string {
	return fmt.Sprintf("CPU: %d | RAM: %.1f GiB (занято %.0f%%) | Heap: %.1f MiB | Goroutines: %d",
		s.LogicalCPUs,
		float64(s.TotalMemory)/(1<<30),
		s.UsedPercent,
		float64(s.HeapAllocated)/(1<<20),
		s.GoRoutines)
}

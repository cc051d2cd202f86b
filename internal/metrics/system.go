package metrics

import (
	"os"

	"github.com/shirou/gopsutil/v3/process"
)

// processProbe wraps gopsutil introspection of the current process.
// Every accessor is best-effort: on any error the corresponding
// snapshot field stays at zero.
type processProbe struct {
	proc *process.Process
}

func newProcessProbe() *processProbe {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil
	}
	return &processProbe{proc: proc}
}

func (p *processProbe) fill(snap *SystemSnapshot) {
	if cpu, err := p.proc.CPUPercent(); err == nil {
		snap.CPUPercent = cpu
	}
	if mem, err := p.proc.MemoryInfo(); err == nil && mem != nil {
		snap.MemoryMB = float64(mem.RSS) / 1024 / 1024
	}
	if threads, err := p.proc.NumThreads(); err == nil {
		snap.ThreadCount = threads
	}
}

//go:build linux

package tboxtiming

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// LinuxTuner is the Linux ProcessTuner backend: CPU-affinity pinning via
// sched_setaffinity and a raised nice priority via setpriority, both reached
// through golang.org/x/sys/unix rather than cgo or hand-written syscall
// numbers.
type LinuxTuner struct{}

// NewProcessTuner returns the platform's best available ProcessTuner.
func NewProcessTuner() ProcessTuner {
	return LinuxTuner{}
}

// Pin implements ProcessTuner by restricting the current process's CPU
// affinity mask to the single given core. Failure (e.g. insufficient
// permission) is reported but is not a fatal condition for the caller.
func (LinuxTuner) Pin(cpu int) error {
	if cpu < 0 {
		return nil
	}
	var set unix.CPUSet
	set.Zero()
	set.Set(cpu)
	if err := unix.SchedSetaffinity(os.Getpid(), &set); err != nil {
		return fmt.Errorf("tboxtiming: pin to cpu %d: %w", cpu, err)
	}
	return nil
}

// Prioritize implements ProcessTuner by setting the process's nice value
// to -20 with a single setpriority call. The process stays in the normal
// time-sharing class; no realtime class such as SCHED_FIFO is requested.
// Without permission to lower the nice value to -20 (CAP_SYS_NICE or a
// sufficient RLIMIT_NICE), the call fails and its error is returned.
func (LinuxTuner) Prioritize() error {
	if err := unix.Setpriority(unix.PRIO_PROCESS, 0, -20); err != nil {
		return fmt.Errorf("tboxtiming: raise process priority: %w", err)
	}
	return nil
}

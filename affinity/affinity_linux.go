//go:build linux

// File: affinity/affinity_linux.go
// Author: momentics <momentics@gmail.com>
//
// Linux-specific implementation for setting thread CPU affinity.

package affinity

import (
	"fmt"

	"golang.org/x/sys/unix"
)

type threadMask = unix.CPUSet

// pid 0 addresses the calling thread for sched_{get,set}affinity.

func getAffinityPlatform() (threadMask, error) {
	var set unix.CPUSet
	if err := unix.SchedGetaffinity(0, &set); err != nil {
		return set, fmt.Errorf("affinity: sched_getaffinity: %w", err)
	}
	return set, nil
}

// setAffinityPlatform sets the calling thread's affinity to a single CPU.
func setAffinityPlatform(cpuID int) error {
	var set unix.CPUSet
	set.Zero()
	set.Set(cpuID)
	if err := unix.SchedSetaffinity(0, &set); err != nil {
		return fmt.Errorf("affinity: sched_setaffinity cpu %d: %w", cpuID, err)
	}
	return nil
}

func restoreAffinityPlatform(prev threadMask) error {
	if err := unix.SchedSetaffinity(0, &prev); err != nil {
		return fmt.Errorf("affinity: restore mask: %w", err)
	}
	return nil
}

// currentCPUs returns the CPUs the calling thread may run on.
func currentCPUs() ([]int, error) {
	set, err := getAffinityPlatform()
	if err != nil {
		return nil, err
	}
	var cpus []int
	for i := 0; i < len(set)*64; i++ {
		if set.IsSet(i) {
			cpus = append(cpus, i)
		}
	}
	return cpus, nil
}

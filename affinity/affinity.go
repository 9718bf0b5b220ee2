// File: affinity/affinity.go
// Author: momentics <momentics@gmail.com>
//
// Platform-neutral API for CPU affinity. Platform-specific implementations are located
// in separate files guarded by build tags.

package affinity

import (
	"fmt"
	"runtime"

	"github.com/momentics/hioload-echo/api"
)

// NoCPU disables pinning.
const NoCPU = -1

// Pin is a thread pinned by PinCurrentThread. It remembers the mask the
// thread had before so Release can hand the thread back unchanged.
type Pin struct {
	cpu  int
	prev threadMask
}

// CPU is the logical CPU the thread was pinned to.
func (p *Pin) CPU() int { return p.cpu }

// PinCurrentThread locks the calling goroutine to its OS thread and pins that
// thread to the given logical CPU. Release must be called from the same goroutine.
func PinCurrentThread(cpuID int) (*Pin, error) {
	if cpuID < 0 {
		return nil, fmt.Errorf("affinity: cpu %d: %w", cpuID, api.ErrInvalidArgument)
	}
	runtime.LockOSThread()
	prev, err := getAffinityPlatform()
	if err != nil {
		runtime.UnlockOSThread()
		return nil, err
	}
	if err := setAffinityPlatform(cpuID); err != nil {
		runtime.UnlockOSThread()
		return nil, err
	}
	return &Pin{cpu: cpuID, prev: prev}, nil
}

// Release restores the thread's previous CPU mask and unlocks it. If the mask
// cannot be restored the thread stays locked, so the runtime discards it when
// the goroutine exits instead of scheduling other goroutines on it.
func (p *Pin) Release() error {
	if err := restoreAffinityPlatform(p.prev); err != nil {
		return err
	}
	runtime.UnlockOSThread()
	return nil
}

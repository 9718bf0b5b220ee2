//go:build !linux

// File: affinity/affinity_stub.go
// Author: momentics <momentics@gmail.com>
//
// Stub implementation for unsupported platforms.

package affinity

import (
	"fmt"

	"github.com/momentics/hioload-echo/api"
)

type threadMask struct{}

func getAffinityPlatform() (threadMask, error) {
	return threadMask{}, fmt.Errorf("affinity: %w", api.ErrNotSupported)
}

func setAffinityPlatform(cpuID int) error {
	return fmt.Errorf("affinity: %w", api.ErrNotSupported)
}

func restoreAffinityPlatform(threadMask) error {
	return fmt.Errorf("affinity: %w", api.ErrNotSupported)
}

func currentCPUs() ([]int, error) {
	return nil, api.ErrNotSupported
}

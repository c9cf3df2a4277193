package provider

import (
	"fmt"
	"os"
	"os/exec"
	goruntime "runtime"
	"strings"
)

const (
	DeviceAuto = "auto"
	DeviceCUDA = "cuda"
	DeviceMPS  = "mps"
	DeviceCPU  = "cpu"
)

const nvidiaDriverFile = "/proc/driver/nvidia/version"

// Probe reports what accelerators the host exposes.
type Probe struct {
	GOOS   string
	GOARCH string
	CUDA   func() bool
}

// HostProbe inspects the running machine.
func HostProbe() Probe {
	return Probe{GOOS: goruntime.GOOS, GOARCH: goruntime.GOARCH, CUDA: cudaVisible}
}

func cudaVisible() bool {
	if _, err := os.Stat(nvidiaDriverFile); err == nil {
		return true
	}
	_, err := exec.LookPath("nvidia-smi")
	return err == nil
}

// ResolveDevice turns the configured device into a concrete one. Explicit
// values pass through; auto prefers cuda, then mps on Apple silicon, then cpu.
func ResolveDevice(requested string, probe Probe) (string, error) {
	switch strings.ToLower(strings.TrimSpace(requested)) {
	case DeviceCUDA:
		return DeviceCUDA, nil
	case DeviceMPS:
		return DeviceMPS, nil
	case DeviceCPU:
		return DeviceCPU, nil
	case DeviceAuto, "":
		if probe.CUDA != nil && probe.CUDA() {
			return DeviceCUDA, nil
		}
		if probe.GOOS == "darwin" && probe.GOARCH == "arm64" {
			return DeviceMPS, nil
		}
		return DeviceCPU, nil
	default:
		return "", fmt.Errorf("unknown device %q", requested)
	}
}

// SPDX-License-Identifier: MPL-2.0

// Package platform exposes immutable facts about the machine the CLI was
// started on. Facts are constructed exactly once at process startup and
// passed by reference to every component that needs them; there is no
// package-level mutable state.
package platform

import "runtime"

// Machine architecture discriminators, normalized to the values the compose
// stack and the distro image lists key on.
const (
	MachineARM64 = "aarch64"
	MachineAMD64 = "x86_64"
)

// Device types derived from the machine discriminator.
const (
	DeviceRobot   = "robot"
	DeviceDesktop = "desktop"
)

// Facts describes the host platform.
type Facts struct {
	// Machine is the hardware architecture discriminator (aarch64, x86_64).
	Machine string
	// System is the operating system name (linux, darwin, ...).
	System string
}

// Detect builds the platform facts for the current process.
func Detect() Facts {
	return Facts{Machine: machineName(runtime.GOARCH), System: runtime.GOOS}
}

func machineName(goarch string) string {
	switch goarch {
	case "arm64":
		return MachineARM64
	case "amd64":
		return MachineAMD64
	default:
		return goarch
	}
}

// IsRobotHardware reports whether the CLI runs on the robot's own board
// rather than a desktop.
func (f Facts) IsRobotHardware() bool { return f.Machine == MachineARM64 }

// DeviceType returns the device discriminator used for compose profile
// selection and image lists.
func (f Facts) DeviceType() string {
	if f.IsRobotHardware() {
		return DeviceRobot
	}
	return DeviceDesktop
}

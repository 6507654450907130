// SPDX-License-Identifier: MPL-2.0

package platform

import "testing"

func TestMachineName(t *testing.T) {
	tests := []struct {
		goarch string
		want   string
	}{
		{"arm64", MachineARM64},
		{"amd64", MachineAMD64},
		{"riscv64", "riscv64"},
	}
	for _, tt := range tests {
		if got := machineName(tt.goarch); got != tt.want {
			t.Errorf("machineName(%q) = %q, want %q", tt.goarch, got, tt.want)
		}
	}
}

func TestDeviceType(t *testing.T) {
	robot := Facts{Machine: MachineARM64, System: "linux"}
	if !robot.IsRobotHardware() {
		t.Error("aarch64 should be robot hardware")
	}
	if robot.DeviceType() != DeviceRobot {
		t.Errorf("DeviceType() = %q, want %q", robot.DeviceType(), DeviceRobot)
	}

	desktop := Facts{Machine: MachineAMD64, System: "linux"}
	if desktop.IsRobotHardware() {
		t.Error("x86_64 should not be robot hardware")
	}
	if desktop.DeviceType() != DeviceDesktop {
		t.Errorf("DeviceType() = %q, want %q", desktop.DeviceType(), DeviceDesktop)
	}
}

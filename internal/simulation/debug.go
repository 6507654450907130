// SPDX-License-Identifier: MPL-2.0

package simulation

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rnanosaur/nanosaur-cli/internal/config"
	"github.com/rnanosaur/nanosaur-cli/internal/issue"
)

// DebugKey stores the default debug location preference.
const DebugKey = "ws_debug"

// HostROSResolver reports the setup script path of a host ROS installation
// for the given distro, or "" when none is installed.
type HostROSResolver func(distro string) string

// DefaultHostROSResolver looks for the system-wide ROS install under /opt/ros.
func DefaultHostROSResolver(distro string) string {
	setup := filepath.Join("/opt/ros", distro, "setup.bash")
	if info, err := os.Stat(setup); err == nil && !info.IsDir() {
		return setup
	}
	return ""
}

// DebugLocation returns the effective debug location. Without a host ROS
// installation the preference is overridden to docker: there is nothing on
// the host to debug against.
func DebugLocation(store *config.Store, resolve HostROSResolver, distro string) string {
	if resolve == nil || resolve(distro) == "" {
		return LocationDocker
	}
	return store.GetString(DebugKey, "")
}

// SetDebugLocation persists the debug location preference.
func SetDebugLocation(store *config.Store, location string) error {
	if location != LocationHost && location != LocationDocker {
		return fmt.Errorf("%w: debug location %q is not one of host, docker",
			issue.ErrValidation, location)
	}
	return store.Set(DebugKey, location)
}

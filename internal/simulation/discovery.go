// SPDX-License-Identifier: MPL-2.0

// Package simulation discovers installed simulation backends, tracks the
// user's simulation selection, and carries the per-release compatibility
// metadata the selection is filtered against.
package simulation

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/rnanosaur/nanosaur-cli/internal/version"
)

// Backend identifiers.
const (
	ToolIsaacSim = "isaac-sim"
	ToolGazebo   = "gazebo"
)

// Marker files that define a valid Isaac Sim installation. A directory
// qualifies as a candidate only when all three are present at its top level.
const (
	markerVersion  = "VERSION"
	markerLauncher = "isaac-sim.sh"
	markerPython   = "python.sh"
)

// gazeboInstallDir is the well-known Gazebo installation directory checked
// when no gazebo binary is on the path.
const gazeboInstallDir = "/usr/share/gazebo"

// lookPath is swapped in tests to control binary resolution.
var lookPath = exec.LookPath

// DefaultSearchRoots returns the well-known Isaac Sim install locations.
// Scan order is an explicit policy: when two roots hold the same version,
// the candidate from the later root wins.
func DefaultSearchRoots() []string {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	return []string{
		filepath.Join(home, ".local", "share", "ov", "pkg"),
		home,
	}
}

// Scan enumerates the immediate subdirectories of each search root and
// returns the valid installations found, keyed by version. Duplicate
// installations at the same version collapse to one: the last root scanned
// wins. Missing or unreadable roots are skipped.
func Scan(roots []string) map[string]string {
	candidates := make(map[string]string)
	for _, root := range roots {
		entries, err := os.ReadDir(root)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			full := filepath.Join(root, entry.Name())
			if ver, ok := CheckInstall(full); ok {
				candidates[ver] = full
			}
		}
	}
	return candidates
}

// CheckInstall validates that path holds a complete installation and returns
// its base version. Pre-release and build suffixes are handled by truncating
// the version descriptor at the first '-'.
func CheckInstall(path string) (string, bool) {
	for _, marker := range []string{markerLauncher, markerPython} {
		if !isFile(filepath.Join(path, marker)) {
			return "", false
		}
	}
	raw, err := os.ReadFile(filepath.Join(path, markerVersion))
	if err != nil {
		return "", false
	}
	ver := strings.TrimSpace(string(raw))
	ver, _, _ = strings.Cut(ver, "-")
	if ver == "" {
		return "", false
	}
	return ver, true
}

// SortedVersions returns the candidate versions in descending order.
func SortedVersions(candidates map[string]string) []string {
	versions := maps.Keys(candidates)
	slices.SortFunc(versions, func(a, b string) int {
		return version.Compare(b, a)
	})
	return versions
}

// FilterCompatible keeps only the candidates whose version satisfies
// requirement. Each surviving candidate is re-validated against the marker
// files, guarding against directories removed or modified between scan and
// use. An empty result is not an error; the caller decides what a discovery
// miss means.
func FilterCompatible(candidates map[string]string, requirement string) map[string]string {
	compatible := make(map[string]string)
	for ver, path := range candidates {
		if _, ok := CheckInstall(path); !ok {
			continue
		}
		if version.Satisfies(ver, requirement) {
			compatible[ver] = path
		}
	}
	return compatible
}

// IsGazeboInstalled reports whether the alternate backend is present: either
// a gazebo binary resolves on the path, or the well-known install directory
// exists. Either check alone is sufficient.
func IsGazeboInstalled() bool {
	return isGazeboInstalledAt(gazeboInstallDir)
}

func isGazeboInstalledAt(dir string) bool {
	for _, binary := range []string{"gazebo", "gz"} {
		if _, err := lookPath(binary); err == nil {
			return true
		}
	}
	info, err := os.Stat(dir)
	return err == nil && info.IsDir()
}

// AnyToolInstalled reports whether at least one simulation backend is
// available on this machine.
func AnyToolInstalled(roots []string) bool {
	return len(Scan(roots)) > 0 || IsGazeboInstalled()
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

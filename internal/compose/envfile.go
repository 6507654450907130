// SPDX-License-Identifier: MPL-2.0

package compose

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rnanosaur/nanosaur-cli/internal/robot"
	"github.com/rnanosaur/nanosaur-cli/internal/simulation"
)

// EnvFileName returns the env file name for a robot. Each robot owns its own
// file so switching robots never leaks stale variables.
func EnvFileName(name string) string {
	return name + ".env"
}

// DefaultComposeDir returns the directory holding the compose files,
// creating it if needed. Generated env files live in the home directory,
// one per robot.
func DefaultComposeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate home directory: %w", err)
	}
	dir := filepath.Join(home, "nanosaur")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create compose directory %s: %w", dir, err)
	}
	return dir, nil
}

// BuildEnvFile regenerates the env file for rbt under dir and returns its
// path. The file is rewritten wholesale on every call so it always reflects
// the current configuration; partial updates are never attempted.
func BuildEnvFile(dir string, rbt robot.Robot, sel simulation.Selection, tag string) (string, error) {
	vars := map[string]string{
		"USER_UID":      fmt.Sprintf("%d", os.Getuid()),
		"USER_GID":      fmt.Sprintf("%d", os.Getgid()),
		"ROBOT_NAME":    rbt.Name,
		"ROS_DOMAIN_ID": fmt.Sprintf("%d", rbt.DomainID),
		"CORE_TAG":      tag,
	}
	if rbt.Simulation {
		vars["SIMULATION"] = sel.Slug()
		vars["WORLD"] = sel.World
		vars["HEADLESS"] = fmt.Sprintf("%t", sel.Headless)
	}

	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&sb, "%s=%s\n", k, vars[k])
	}

	path := filepath.Join(dir, EnvFileName(rbt.Name))
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return "", fmt.Errorf("failed to write env file %s: %w", path, err)
	}
	return path, nil
}

// SPDX-License-Identifier: MPL-2.0

package simulation

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"mvdan.cc/sh/v3/syntax"

	"github.com/rnanosaur/nanosaur-cli/internal/issue"
	"github.com/rnanosaur/nanosaur-cli/internal/proc"
)

// launchCommands maps each backend to its ROS 2 launch entrypoint.
var launchCommands = map[string]string{
	ToolIsaacSim: "ros2 launch nanosaur_isaac-sim isaac_sim.launch.py",
	ToolGazebo:   "ros2 launch nanosaur_gazebo gazebo.launch.py",
}

// HostCommand builds the bash command line that sources the workspace setup
// script and launches the selected simulator on the host. World and headless
// settings are forwarded as launch arguments; everything user-controlled is
// shell-quoted.
func HostCommand(setupScript string, sel Selection, extraArgs []string) (string, error) {
	launch, ok := launchCommands[sel.Tool]
	if !ok {
		return "", fmt.Errorf("unknown simulation tool %q: %w", sel.Tool, issue.ErrValidation)
	}

	quotedSetup, err := syntax.Quote(setupScript, syntax.LangBash)
	if err != nil {
		return "", fmt.Errorf("quote setup script path: %w", err)
	}

	parts := []string{launch}
	if sel.World != "" {
		world, err := syntax.Quote(sel.World, syntax.LangBash)
		if err != nil {
			return "", fmt.Errorf("quote world name: %w", err)
		}
		parts = append(parts, "world:="+world)
	}
	if sel.Headless {
		parts = append(parts, "headless:=true")
	}
	for _, arg := range extraArgs {
		quoted, err := syntax.Quote(arg, syntax.LangBash)
		if err != nil {
			return "", fmt.Errorf("quote launch argument: %w", err)
		}
		parts = append(parts, quoted)
	}

	return fmt.Sprintf("source %s && %s", quotedSetup, strings.Join(parts, " ")), nil
}

// StartHost launches the selected simulator on the host, sourcing the built
// workspace first and streaming the child's output line by line until it
// exits. The workspace must have been built; a missing setup script is a
// validation failure, not a tool failure.
func StartHost(ctx context.Context, workspacePath string, sel Selection, extraArgs []string, stdout, stderr io.Writer) error {
	setupScript := filepath.Join(workspacePath, "install", "setup.bash")
	if _, err := os.Stat(setupScript); err != nil {
		return fmt.Errorf("workspace not built, build it before launching: %w", issue.ErrValidation)
	}

	command, err := HostCommand(setupScript, sel, extraArgs)
	if err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, "bash", "-c", command)
	if err := proc.Run(cmd, stdout, stderr); err != nil {
		return fmt.Errorf("simulator launch: %w: %w", issue.ErrExternalTool, err)
	}
	return nil
}

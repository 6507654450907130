// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rnanosaur/nanosaur-cli/internal/compose"
	"github.com/rnanosaur/nanosaur-cli/internal/issue"
	"github.com/rnanosaur/nanosaur-cli/internal/simulation"
	"github.com/rnanosaur/nanosaur-cli/internal/version"
)

// newSimulationCommand creates the `nanosaur simulation` command tree.
func newSimulationCommand() *cobra.Command {
	simCmd := &cobra.Command{
		Use:     "simulation",
		Aliases: []string{"sim"},
		Short:   "Select and run the robot simulator",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	var (
		tool         string
		location     string
		isaacSimPath string
	)
	setCmd := &cobra.Command{
		Use:   "set",
		Short: "Select the simulation tool and where it runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			return runSimulationSet(app, tool, location, isaacSimPath)
		},
	}
	setCmd.Flags().StringVar(&tool, "tool", "", "simulation tool (isaac-sim, gazebo)")
	setCmd.Flags().StringVar(&location, "location", simulation.LocationDocker,
		"where the simulator runs (host, docker)")
	setCmd.Flags().StringVar(&isaacSimPath, "isaac-sim-path", "",
		"Isaac Sim install path for host runs (default: newest compatible install)")
	_ = setCmd.MarkFlagRequired("tool")
	simCmd.AddCommand(setCmd)

	simCmd.AddCommand(&cobra.Command{
		Use:   "world [name]",
		Short: "Pick the simulated world",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			if len(args) == 0 {
				sel := simulation.LoadSelection(app.Store)
				for _, world := range simulation.Worlds(app.Store) {
					marker := "  "
					if world == sel.World {
						marker = SuccessStyle.Render("* ")
					}
					app.printf("%s%s\n", marker, world)
				}
				return nil
			}
			if err := simulation.SetWorld(app.Store, args[0]); err != nil {
				return err
			}
			app.printf("World set to %s\n", ValueStyle.Render(args[0]))
			return nil
		},
	})

	simCmd.AddCommand(&cobra.Command{
		Use:       "headless (on|off)",
		Short:     "Toggle headless simulation",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"on", "off"},
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			headless := args[0] == "on"
			if err := simulation.SetHeadless(app.Store, headless); err != nil {
				return err
			}
			app.printf("Headless mode %s\n", ValueStyle.Render(args[0]))
			return nil
		},
	})

	var detach bool
	startCmd := &cobra.Command{
		Use:   "start [-- ros-args...]",
		Short: "Start the selected simulator",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			return runSimulationStart(cmd, app, detach, args)
		},
	}
	startCmd.Flags().BoolVarP(&detach, "detach", "d", false,
		"run the containerized simulator in the background")
	simCmd.AddCommand(startCmd)

	return simCmd
}

func runSimulationSet(app *App, tool, location, isaacSimPath string) error {
	tool = strings.ToLower(tool)
	if location == simulation.LocationHost &&
		!simulation.AnyToolInstalled(simulation.DefaultSearchRoots()) {
		return fmt.Errorf("no simulation tools available; install a simulator first")
	}
	_, rel := app.Release()

	if tool == simulation.ToolIsaacSim && location == simulation.LocationHost {
		path, err := resolveIsaacSimPath(app, isaacSimPath, rel)
		if err != nil {
			return err
		}
		isaacSimPath = path
	}
	if err := simulation.SetTool(app.Store, tool, location, isaacSimPath); err != nil {
		return err
	}
	app.printf("Simulation set to %s on %s\n",
		ValueStyle.Render(tool), ValueStyle.Render(location))
	return nil
}

// resolveIsaacSimPath validates an explicit install path or picks the newest
// compatible discovered one. An install outside the release's tested window
// is accepted with a warning.
func resolveIsaacSimPath(app *App, explicit string, rel simulation.Release) (string, error) {
	if explicit != "" {
		installed, ok := simulation.CheckInstall(explicit)
		if !ok {
			return "", fmt.Errorf("no Isaac Sim installation found at %s", explicit)
		}
		if !version.Satisfies(installed, rel.IsaacSimRequirement) {
			app.errorf("%s\n", WarningStyle.Render(fmt.Sprintf(
				"Isaac Sim %s is not tested with this release (requires %s)",
				installed, rel.IsaacSimRequirement)))
		}
		return explicit, nil
	}

	candidates := simulation.FilterCompatible(
		simulation.Scan(simulation.DefaultSearchRoots()), rel.IsaacSimRequirement)
	versions := simulation.SortedVersions(candidates)
	if len(versions) == 0 {
		return "", fmt.Errorf(
			"no compatible Isaac Sim installation found (requires %s); pass --isaac-sim-path",
			rel.IsaacSimRequirement)
	}
	app.printf("Using Isaac Sim %s\n", ValueStyle.Render(versions[0]))
	return candidates[versions[0]], nil
}

func runSimulationStart(cmd *cobra.Command, app *App, detach bool, extraArgs []string) error {
	sel := simulation.LoadSelection(app.Store)
	if err := sel.Validate(); err != nil {
		return issue.Wrap(err, "start simulation").
			WithSuggestion("Run 'nanosaur simulation set' to pick a simulator")
	}

	if sel.Location == simulation.LocationHost {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		workspace := filepath.Join(home, "nanosaur", "ros_ws")
		return childExitError(
			simulation.StartHost(cmd.Context(), workspace, sel, extraArgs, app.stdout, app.stderr))
	}

	rbt, err := app.currentRobot()
	if err != nil {
		return err
	}
	inv, err := app.invocation(rbt)
	if err != nil {
		return err
	}
	return app.Compose.Up(cmd.Context(), inv, compose.UpOptions{Detach: detach})
}

// childExitError propagates a launched child's exit code through an
// ExitError so the CLI exits with the same status. Other errors pass
// through unchanged.
func childExitError(err error) error {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &ExitError{Code: exitErr.ExitCode(), Err: err}
	}
	return err
}

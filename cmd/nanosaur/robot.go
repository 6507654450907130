// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rnanosaur/nanosaur-cli/internal/compose"
	"github.com/rnanosaur/nanosaur-cli/internal/robot"
)

// newWakeUpCommand creates the `nanosaur wake-up` command.
func newWakeUpCommand() *cobra.Command {
	var detach bool
	wakeCmd := &cobra.Command{
		Use:   "wake-up",
		Short: "Start the robot runtime",
		Long: `Start the robot runtime.

Regenerates the robot's env file from the current configuration and brings
up the containerized stack for this device (or the selected simulator).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			rbt, err := app.currentRobot()
			if err != nil {
				return err
			}
			inv, err := app.invocation(rbt)
			if err != nil {
				return err
			}
			app.printf("Waking up %s\n", ValueStyle.Render(rbt.Name))
			return app.Compose.Up(cmd.Context(), inv, compose.UpOptions{Detach: detach})
		},
	}
	wakeCmd.Flags().BoolVarP(&detach, "detach", "d", true,
		"leave the robot running in the background")
	return wakeCmd
}

// newShutdownCommand creates the `nanosaur shutdown` command.
func newShutdownCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "shutdown",
		Short: "Stop the robot runtime",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			rbt, err := app.currentRobot()
			if err != nil {
				return err
			}
			inv, err := app.invocation(rbt)
			if err != nil {
				return err
			}
			stopped, err := app.Compose.Down(cmd.Context(), inv)
			if err != nil {
				return err
			}
			if !stopped {
				app.printf("%s is not running\n", ValueStyle.Render(rbt.Name))
				return nil
			}
			app.printf("%s\n", SuccessStyle.Render(rbt.Name+" stopped"))
			return nil
		},
	}
}

// newRobotCommand creates the `nanosaur robot` command tree.
func newRobotCommand() *cobra.Command {
	robotCmd := &cobra.Command{
		Use:   "robot",
		Short: "Manage the robot roster",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	robotCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all configured robots",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			current, _ := robot.Current(app.Store)
			for _, rbt := range robot.Load(app.Store) {
				marker := "  "
				if rbt.Name == current.Name {
					marker = SuccessStyle.Render("* ")
				}
				kind := "robot"
				if rbt.Simulation {
					kind = "simulation"
				}
				app.printf("%s%s  domain %d  (%s)\n", marker, rbt.Name, rbt.DomainID, kind)
			}
			return nil
		},
	})

	var asSimulation bool
	newCmd := &cobra.Command{
		Use:   "new <name>",
		Short: "Add a robot to the roster",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			rbt := robot.Robot{Name: args[0], Simulation: asSimulation}
			if err := robot.Add(app.Store, rbt); err != nil {
				return err
			}
			app.printf("Added robot %s\n", ValueStyle.Render(rbt.Name))
			return nil
		},
	}
	newCmd.Flags().BoolVar(&asSimulation, "simulation", false, "mark the robot as simulated")
	robotCmd.AddCommand(newCmd)

	robotCmd.AddCommand(&cobra.Command{
		Use:   "set <name>",
		Short: "Switch the active robot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			idx, ok := robot.IndexByName(app.Store, args[0])
			if !ok {
				return fmt.Errorf("no robot named %q", args[0])
			}
			if err := robot.SetCurrent(app.Store, idx); err != nil {
				return err
			}
			app.printf("Active robot: %s\n", ValueStyle.Render(args[0]))
			return nil
		},
	})

	robotCmd.AddCommand(&cobra.Command{
		Use:   "remove <name>",
		Short: "Remove a robot from the roster",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			idx, ok := robot.IndexByName(app.Store, args[0])
			if !ok {
				return fmt.Errorf("no robot named %q", args[0])
			}
			if err := robot.RemoveAt(app.Store, idx); err != nil {
				return err
			}
			app.printf("Removed robot %s\n", ValueStyle.Render(args[0]))
			return nil
		},
	})

	robotCmd.AddCommand(&cobra.Command{
		Use:   "name <value>",
		Short: "Rename the active robot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			if err := robot.SetName(app.Store, args[0]); err != nil {
				return err
			}
			app.printf("Robot renamed to %s\n", ValueStyle.Render(args[0]))
			return nil
		},
	})

	robotCmd.AddCommand(&cobra.Command{
		Use:   "domain-id <value>",
		Short: "Set the ROS domain id of the active robot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			domainID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("domain id must be a number: %w", err)
			}
			if err := robot.SetDomainID(app.Store, domainID); err != nil {
				return err
			}
			app.printf("Domain id set to %s\n", ValueStyle.Render(args[0]))
			return nil
		},
	})

	return robotCmd
}

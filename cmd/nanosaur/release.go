// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rnanosaur/nanosaur-cli/internal/simulation"
)

// newReleaseCommand creates the `nanosaur release` command tree.
func newReleaseCommand() *cobra.Command {
	releaseCmd := &cobra.Command{
		Use:   "release",
		Short: "Inspect and switch nanosaur releases",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	releaseCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List known releases",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			current, _ := app.Release()
			for _, tag := range simulation.ReleaseTags() {
				rel, _ := simulation.ReleaseFor(tag)
				marker := "  "
				if tag == current {
					marker = SuccessStyle.Render("* ")
				}
				app.printf("%s%s  ROS %s  branch %s  Isaac Sim %s\n",
					marker, tag, rel.ROSDistro, rel.Branch, rel.IsaacSimRequirement)
			}
			return nil
		},
	})

	releaseCmd.AddCommand(&cobra.Command{
		Use:   "set <tag>",
		Short: "Switch to a release",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			tag := args[0]
			if _, ok := simulation.ReleaseFor(tag); !ok {
				return fmt.Errorf("unknown release %q (known: %v)", tag, simulation.ReleaseTags())
			}
			if err := app.Store.Set(simulation.ReleaseKey, tag); err != nil {
				return err
			}
			app.printf("Release set to %s\n", ValueStyle.Render(tag))
			return nil
		},
	})

	return releaseCmd
}

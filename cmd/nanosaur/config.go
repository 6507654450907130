// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/spf13/cobra"

	"github.com/rnanosaur/nanosaur-cli/internal/config"
	"github.com/rnanosaur/nanosaur-cli/internal/simulation"
)

// newConfigCommand creates the `nanosaur config` command tree.
func newConfigCommand() *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the nanosaur configuration",
		Long: `Manage the nanosaur configuration.

Configuration is stored in $HOME/.config/nanosaur/params.yml and keeps
every key it does not recognize, so newer fields survive older CLIs.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			data, err := yaml.Marshal(app.Store.Snapshot())
			if err != nil {
				return err
			}
			app.printf("%s", data)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show the configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := cfgFile
			if path == "" {
				var err error
				if path, err = config.DefaultPath(); err != nil {
					return err
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:       "debug (host|docker)",
		Short:     "Set the default debug location",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"host", "docker"},
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			_, rel := app.Release()
			if args[0] == simulation.LocationHost && app.HostROS(rel.ROSDistro) == "" {
				return fmt.Errorf("no host ROS %s installation found; debug stays on docker",
					rel.ROSDistro)
			}
			if err := simulation.SetDebugLocation(app.Store, args[0]); err != nil {
				return err
			}
			app.printf("Default debug location: %s\n", ValueStyle.Render(args[0]))
			return nil
		},
	})

	return cfgCmd
}

// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/rnanosaur/nanosaur-cli/internal/install"
	"github.com/rnanosaur/nanosaur-cli/internal/robot"
	"github.com/rnanosaur/nanosaur-cli/internal/simulation"
)

// newInfoCommand creates the `nanosaur info` command.
func newInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show the current nanosaur configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			return runInfo(app)
		},
	}
}

func runInfo(app *App) error {
	tag, rel := app.Release()

	app.printf("%s\n", TitleStyle.Render("nanosaur"))
	app.printf("  release:  %s (ROS %s, branch %s)\n",
		ValueStyle.Render(tag), rel.ROSDistro, rel.Branch)
	app.printf("  device:   %s (%s)\n", app.Facts.DeviceType(), app.Facts.Machine)

	if mode := app.Store.GetString(install.Key, ""); mode != "" {
		app.printf("  mode:     %s\n", ValueStyle.Render(mode))
	}
	if debug := simulation.DebugLocation(app.Store, app.HostROS, rel.ROSDistro); debug != "" {
		app.printf("  debug:    %s\n", debug)
	}

	app.printf("\n%s\n", TitleStyle.Render("Robots"))
	current, _ := robot.Current(app.Store)
	robots := robot.Load(app.Store)
	if len(robots) == 0 {
		app.printf("  %s\n", SubtitleStyle.Render("none configured"))
	}
	for _, rbt := range robots {
		marker := "  "
		if rbt.Name == current.Name {
			marker = SuccessStyle.Render("* ")
		}
		app.printf("%s%s  domain %d\n", marker, rbt.Name, rbt.DomainID)
	}

	app.printf("\n%s\n", TitleStyle.Render("Simulation"))
	sel := simulation.LoadSelection(app.Store)
	if sel.Tool == "" {
		app.printf("  %s\n", SubtitleStyle.Render("no simulator selected"))
	} else {
		app.printf("  tool:     %s on %s\n", ValueStyle.Render(sel.Tool), sel.Location)
		app.printf("  world:    %s  headless: %t\n", sel.World, sel.Headless)
		if sel.IsaacSimPath != "" {
			app.printf("  path:     %s\n", sel.IsaacSimPath)
		}
	}

	candidates := simulation.Scan(simulation.DefaultSearchRoots())
	compatible := simulation.FilterCompatible(candidates, rel.IsaacSimRequirement)
	for _, installed := range simulation.SortedVersions(candidates) {
		note := ""
		if _, ok := compatible[installed]; !ok {
			note = WarningStyle.Render("  (untested with this release)")
		}
		app.printf("  isaac-sim %s%s\n", installed, note)
	}
	if simulation.IsGazeboInstalled() {
		app.printf("  gazebo installed\n")
	}

	return nil
}

// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/rnanosaur/nanosaur-cli/internal/config"
	"github.com/rnanosaur/nanosaur-cli/internal/install"
	"github.com/rnanosaur/nanosaur-cli/internal/robot"
)

// newInstallCommand creates the `nanosaur install` command.
func newInstallCommand() *cobra.Command {
	installCmd := &cobra.Command{
		Use:   "install [mode]",
		Short: "Install the nanosaur environment on this machine",
		Long: `Install the nanosaur environment on this machine.

Installation is tiered: each mode builds on the ones below it.

  simple      robot user install (images, default robot)
  developer   adds the source workspaces for package development
  maintainer  adds the infrastructure for maintaining releases

Re-running a lower tier after a higher one refreshes that tier without
downgrading the recorded mode.`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"simple", "developer", "maintainer"},
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			target := install.ModeSimple
			if len(args) > 0 {
				target = install.Mode(args[0])
			}
			return runInstall(cmd.Context(), app, target)
		},
	}
	return installCmd
}

// installOperations maps every mode to the work its tier performs. The
// lattice runs only the target's operation; cumulative tiers chain the
// lower ones explicitly.
func installOperations(app *App) map[install.Mode]install.Operation {
	return map[install.Mode]install.Operation{
		install.ModeSimple:    app.installSimple,
		install.ModeDeveloper: install.Chain(app.installSimple, app.installDeveloper),
		install.ModeMaintainer: install.Chain(
			app.installSimple, app.installDeveloper, app.installMaintainer),
		install.ModeSuperuser: install.Chain(
			app.installSimple, app.installDeveloper, app.installMaintainer),
	}
}

func runInstall(ctx context.Context, app *App, target install.Mode) error {
	lattice := install.NewLattice(app.Store, installOperations(app))
	if current := lattice.Current(); current != install.ModeNone {
		app.printf("Current mode: %s\n", ValueStyle.Render(string(current)))
	}
	if err := lattice.Apply(ctx, target); err != nil {
		return err
	}
	app.printf("%s\n", SuccessStyle.Render(
		fmt.Sprintf("nanosaur %s installation complete", target)))
	return nil
}

// installSimple sets up everything a robot user needs: the config
// directory, a default robot, and the runtime images.
func (app *App) installSimple(ctx context.Context) error {
	if err := config.EnsureConfigDir(); err != nil {
		return err
	}
	if robots := robot.Load(app.Store); len(robots) == 0 {
		rbt := robot.Default(!app.Facts.IsRobotHardware())
		if err := robot.Add(app.Store, rbt); err != nil {
			return err
		}
		app.printf("Created robot %s\n", ValueStyle.Render(rbt.Name))
	}
	return app.pullImages(ctx, nil)
}

// installDeveloper adds the source workspace images on top of the simple tier.
func (app *App) installDeveloper(ctx context.Context) error {
	return app.pullImages(ctx, []string{"developer"})
}

// installMaintainer adds the release maintenance tooling.
func (app *App) installMaintainer(ctx context.Context) error {
	return app.pullImages(ctx, []string{"maintainer"})
}

// pullImages refreshes the compose images for the given profiles. A pull
// failure is reported but never blocks the install: a stale image still runs.
func (app *App) pullImages(ctx context.Context, profiles []string) error {
	if !app.Compose.Available() {
		app.errorf("%s\n", WarningStyle.Render(
			"docker compose not available, skipping image pull"))
		return nil
	}
	rbt, err := app.currentRobot()
	if err != nil {
		return err
	}
	inv, err := app.invocation(rbt)
	if err != nil {
		return err
	}
	if len(profiles) > 0 {
		inv.Profiles = profiles
	}
	if err := app.Compose.Pull(ctx, inv); err != nil {
		slog.Warn("image pull failed", "error", err)
		app.errorf("%s\n", WarningStyle.Render("image pull failed, continuing with local images"))
	}
	return nil
}

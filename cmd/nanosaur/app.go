// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for the nanosaur robot environment.
package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rnanosaur/nanosaur-cli/internal/compose"
	"github.com/rnanosaur/nanosaur-cli/internal/config"
	"github.com/rnanosaur/nanosaur-cli/internal/issue"
	"github.com/rnanosaur/nanosaur-cli/internal/platform"
	"github.com/rnanosaur/nanosaur-cli/internal/robot"
	"github.com/rnanosaur/nanosaur-cli/internal/simulation"
)

// App wires CLI services and shared dependencies. It is the composition root
// for the CLI layer: every Cobra handler receives an App reference and
// delegates through it rather than touching globals.
type App struct {
	Store   *config.Store
	Facts   platform.Facts
	Compose *compose.Client
	HostROS simulation.HostROSResolver

	composeDir string
	envDir     string
	stdout     io.Writer
	stderr     io.Writer
}

// Dependencies defines the injection points for building an App. Nil fields
// are replaced with production defaults by NewApp; tests supply fakes.
type Dependencies struct {
	Store      *config.Store
	Compose    *compose.Client
	HostROS    simulation.HostROSResolver
	ComposeDir string
	EnvDir     string
	Stdout     io.Writer
	Stderr     io.Writer
}

// defaultParams seeds a first-run configuration file.
func defaultParams() map[string]any {
	return map[string]any{
		simulation.ReleaseKey: simulation.CurrentRelease,
	}
}

// NewApp builds the production App, loading the persisted configuration.
func NewApp(deps Dependencies) (*App, error) {
	app := &App{
		Store:   deps.Store,
		Facts:   platform.Detect(),
		Compose: deps.Compose,
		HostROS: deps.HostROS,

		composeDir: deps.ComposeDir,
		envDir:     deps.EnvDir,
		stdout:     deps.Stdout,
		stderr:     deps.Stderr,
	}
	if app.stdout == nil {
		app.stdout = os.Stdout
	}
	if app.stderr == nil {
		app.stderr = os.Stderr
	}
	if app.Store == nil {
		path := cfgFile
		if path == "" {
			var err error
			if path, err = config.DefaultPath(); err != nil {
				return nil, err
			}
		}
		store, err := config.Load(defaultParams(), path)
		if err != nil {
			return nil, issue.Wrap(err, "load configuration").
				WithResource(path).
				WithSuggestion("Check the YAML syntax in " + path).
				WithSuggestion("Move the file aside to start over from defaults")
		}
		app.Store = store
	}
	if app.Compose == nil {
		app.Compose = compose.NewClient(compose.WithOutput(app.stdout, app.stderr))
	}
	if app.HostROS == nil {
		app.HostROS = simulation.DefaultHostROSResolver
	}
	return app, nil
}

// Release returns the active release metadata, falling back to the current
// release when the stored tag is unknown.
func (app *App) Release() (string, simulation.Release) {
	tag := app.Store.GetString(simulation.ReleaseKey, simulation.CurrentRelease)
	rel, ok := simulation.ReleaseFor(tag)
	if !ok {
		tag = simulation.CurrentRelease
		rel, _ = simulation.ReleaseFor(tag)
	}
	return tag, rel
}

// invocation assembles the compose invocation for the current robot,
// regenerating its env file so the stack always starts from the persisted
// configuration. The env file lives in the home directory; compose files
// live in the compose directory.
func (app *App) invocation(rbt robot.Robot) (compose.Invocation, error) {
	dir := app.composeDir
	if dir == "" {
		var err error
		if dir, err = compose.DefaultComposeDir(); err != nil {
			return compose.Invocation{}, err
		}
	}
	envDir := app.envDir
	if envDir == "" {
		var err error
		if envDir, err = os.UserHomeDir(); err != nil {
			return compose.Invocation{}, err
		}
	}
	tag, _ := app.Release()
	sel := simulation.LoadSelection(app.Store)
	envFile, err := compose.BuildEnvFile(envDir, rbt, sel, tag)
	if err != nil {
		return compose.Invocation{}, err
	}

	inv := compose.Invocation{
		ComposeFiles: []string{filepath.Join(dir, "docker-compose.yml")},
		EnvFile:      envFile,
	}
	if rbt.Simulation {
		if profile, ok := compose.ProfileFor(sel.Tool, simulation.LocationDocker); ok {
			inv.Profiles = []string{profile}
		}
	} else {
		inv.Profiles = []string{app.Facts.DeviceType()}
	}
	return inv, nil
}

// currentRobot loads the active robot, failing with guidance when the
// roster is empty.
func (app *App) currentRobot() (robot.Robot, error) {
	rbt, ok := robot.Current(app.Store)
	if !ok {
		return robot.Robot{}, issue.Wrap(errors.New("no robot configured"), "select a robot").
			WithSuggestion("Run 'nanosaur install' to create the default robot")
	}
	return rbt, nil
}

func (app *App) printf(format string, a ...any) {
	fmt.Fprintf(app.stdout, format, a...)
}

func (app *App) errorf(format string, a ...any) {
	fmt.Fprintf(app.stderr, format, a...)
}

// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/rnanosaur/nanosaur-cli/internal/config"
	"github.com/rnanosaur/nanosaur-cli/internal/install"
	"github.com/rnanosaur/nanosaur-cli/internal/issue"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// cfgFile allows specifying a custom config file
	cfgFile string
	// modeOverride applies a mode for this invocation without persisting it
	modeOverride string
	// logLevel sets the log verbosity
	logLevel string

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "nanosaur",
		Short: "Manage the nanosaur robot runtime environment",
		Long: TitleStyle.Render("nanosaur") + SubtitleStyle.Render(" - robot runtime environment") + `

nanosaur drives the full lifecycle of the nanosaur robot: installation
tiers, simulator discovery and selection, and the containerized runtime
started through Docker Compose.

` + SubtitleStyle.Render("Quick Start:") + `
  1. Run 'nanosaur install' to set up this machine
  2. Pick a simulator with 'nanosaur simulation set'
  3. Start the robot with 'nanosaur wake-up'`,
	}
)

func init() {
	cobra.OnInitialize(initLogging)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is $HOME/.config/nanosaur/params.yml)")
	rootCmd.PersistentFlags().StringVar(&modeOverride, "mode", "",
		"run with a different mode for this invocation only")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info",
		"set the log level (debug, info, warn, error)")
	_ = rootCmd.PersistentFlags().MarkHidden("log-level")

	rootCmd.AddCommand(newInstallCommand())
	rootCmd.AddCommand(newSimulationCommand())
	rootCmd.AddCommand(newWakeUpCommand())
	rootCmd.AddCommand(newShutdownCommand())
	rootCmd.AddCommand(newRobotCommand())
	rootCmd.AddCommand(newInfoCommand())
	rootCmd.AddCommand(newReleaseCommand())
	rootCmd.AddCommand(newConfigCommand())
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		renderErrorHints(err, os.Stderr)
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// renderErrorHints prints the fix suggestions attached anywhere in err's
// chain. The error message itself is already rendered by the dispatcher.
func renderErrorHints(err error, w io.Writer) {
	suggestions := issue.SuggestionsFrom(err)
	if len(suggestions) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s\n", ErrorStyle.Render("To fix:"))
	for _, s := range suggestions {
		fmt.Fprintf(w, "  %s\n", SubtitleStyle.Render("- "+s))
	}
}

// initLogging installs the styled logger as the slog default so internal
// packages log through the same sink as the CLI layer. The hidden superuser
// mode surfaces the log-level flag and runs at debug unless the flag says
// otherwise.
func initLogging() {
	level, err := log.ParseLevel(logLevel)
	if err != nil {
		level = log.InfoLevel
	}
	if storedMode() == install.ModeSuperuser {
		if f := rootCmd.PersistentFlags().Lookup("log-level"); f != nil {
			f.Hidden = false
		}
		if !rootCmd.PersistentFlags().Changed("log-level") {
			level = log.DebugLevel
		}
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		ReportTimestamp: false,
	})
	slog.SetDefault(slog.New(logger))
}

// storedMode reads the persisted mode without building the full App. The
// --mode override applies here too; any read failure means no mode.
func storedMode() install.Mode {
	if modeOverride != "" {
		return install.Mode(modeOverride)
	}
	path := cfgFile
	if path == "" {
		var err error
		if path, err = config.DefaultPath(); err != nil {
			return install.ModeNone
		}
	}
	store, err := config.Load(nil, path)
	if err != nil {
		return install.ModeNone
	}
	return install.Mode(store.GetString(install.Key, ""))
}

// newApp builds the App for a command run, applying the --mode override
// without persisting it.
func newApp() (*App, error) {
	app, err := NewApp(Dependencies{})
	if err != nil {
		return nil, err
	}
	if modeOverride != "" {
		if !install.Known(install.Mode(modeOverride)) {
			return nil, fmt.Errorf("unknown mode %q", modeOverride)
		}
		ephemeral, err := config.Load(app.Store.Snapshot(), "")
		if err != nil {
			return nil, err
		}
		if err := ephemeral.Set(install.Key, modeOverride); err != nil {
			return nil, err
		}
		app.Store = ephemeral
	}
	return app, nil
}

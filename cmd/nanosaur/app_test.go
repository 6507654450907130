// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rnanosaur/nanosaur-cli/internal/compose"
	"github.com/rnanosaur/nanosaur-cli/internal/config"
	"github.com/rnanosaur/nanosaur-cli/internal/install"
	"github.com/rnanosaur/nanosaur-cli/internal/platform"
	"github.com/rnanosaur/nanosaur-cli/internal/robot"
)

// fakeExec records compose invocations and answers them with no-op commands.
type fakeExec struct {
	calls [][]string
}

func (f *fakeExec) command(ctx context.Context, name string, arg ...string) *exec.Cmd {
	f.calls = append(f.calls, append([]string{name}, arg...))
	return exec.CommandContext(ctx, "true")
}

// verb extracts the compose subcommand from a recorded call.
func verb(call []string) string {
	for i := 1; i < len(call); i++ {
		switch call[i] {
		case "compose":
			continue
		case "-f", "--env-file", "--profile":
			i++
		default:
			return call[i]
		}
	}
	return ""
}

func newTestApp(t *testing.T, fake *fakeExec) *App {
	t.Helper()
	store, err := config.Load(defaultParams(), filepath.Join(t.TempDir(), "params.yml"))
	if err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	return &App{
		Store: store,
		Facts: platform.Detect(),
		Compose: compose.NewClient(
			compose.WithBinaryPath("docker"),
			compose.WithExecCommand(fake.command),
			compose.WithOutput(&out, &out),
		),
		HostROS:    func(string) string { return "" },
		composeDir: t.TempDir(),
		envDir:     t.TempDir(),
		stdout:     &out,
		stderr:     &out,
	}
}

func TestInstallRecordsModeAndSeedsRobot(t *testing.T) {
	fake := &fakeExec{}
	app := newTestApp(t, fake)

	if err := runInstall(context.Background(), app, install.ModeMaintainer); err != nil {
		t.Fatalf("install: %v", err)
	}
	if mode := app.Store.GetString(install.Key, ""); mode != "maintainer" {
		t.Errorf("mode = %q, want maintainer", mode)
	}
	if robots := robot.Load(app.Store); len(robots) != 1 {
		t.Fatalf("expected one seeded robot, got %d", len(robots))
	}
}

func TestRerunLowerTierKeepsMode(t *testing.T) {
	fake := &fakeExec{}
	app := newTestApp(t, fake)

	if err := runInstall(context.Background(), app, install.ModeMaintainer); err != nil {
		t.Fatal(err)
	}
	if err := runInstall(context.Background(), app, install.ModeDeveloper); err != nil {
		t.Fatalf("re-running a lower tier must be accepted: %v", err)
	}
	if mode := app.Store.GetString(install.Key, ""); mode != "maintainer" {
		t.Errorf("mode downgraded to %q", mode)
	}
}

func TestWakeUpRegeneratesEnvFileWithOneComposeCall(t *testing.T) {
	fake := &fakeExec{}
	app := newTestApp(t, fake)

	if err := runInstall(context.Background(), app, install.ModeSimple); err != nil {
		t.Fatal(err)
	}
	rbt, err := app.currentRobot()
	if err != nil {
		t.Fatal(err)
	}

	fake.calls = nil
	inv, err := app.invocation(rbt)
	if err != nil {
		t.Fatal(err)
	}
	if err := app.Compose.Up(context.Background(), inv, compose.UpOptions{Detach: true}); err != nil {
		t.Fatalf("up: %v", err)
	}

	if len(fake.calls) != 1 || verb(fake.calls[0]) != "up" {
		t.Errorf("expected exactly one compose up call, got %v", fake.calls)
	}
	data, err := os.ReadFile(inv.EnvFile)
	if err != nil {
		t.Fatalf("env file not regenerated: %v", err)
	}
	if !strings.Contains(string(data), "ROBOT_NAME="+rbt.Name) {
		t.Errorf("env file missing robot name:\n%s", data)
	}
}

func TestInvocationUsesDeviceProfileForHardwareRobot(t *testing.T) {
	fake := &fakeExec{}
	app := newTestApp(t, fake)

	if err := robot.Add(app.Store, robot.Robot{Name: "metal", DomainID: 5}); err != nil {
		t.Fatal(err)
	}
	rbt, _ := app.currentRobot()
	inv, err := app.invocation(rbt)
	if err != nil {
		t.Fatal(err)
	}
	if len(inv.Profiles) != 1 || inv.Profiles[0] != app.Facts.DeviceType() {
		t.Errorf("profiles = %v, want device profile %q", inv.Profiles, app.Facts.DeviceType())
	}
}

func TestInfoRenders(t *testing.T) {
	fake := &fakeExec{}
	app := newTestApp(t, fake)
	out := app.stdout.(*bytes.Buffer)

	if err := runInfo(app); err != nil {
		t.Fatalf("info: %v", err)
	}
	if !strings.Contains(out.String(), "release") {
		t.Errorf("info output missing release line:\n%s", out.String())
	}
}

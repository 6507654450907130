// SPDX-License-Identifier: MPL-2.0

package compose

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rnanosaur/nanosaur-cli/internal/issue"
	"github.com/rnanosaur/nanosaur-cli/internal/robot"
	"github.com/rnanosaur/nanosaur-cli/internal/simulation"
)

// fakeExec records every invocation and plays back canned behavior keyed by
// the compose subcommand.
type fakeExec struct {
	calls   [][]string
	fail    map[string]bool
	psLines string
}

func (f *fakeExec) command(ctx context.Context, name string, arg ...string) *exec.Cmd {
	f.calls = append(f.calls, append([]string{name}, arg...))
	sub := subcommand(arg)
	if f.fail[sub] {
		return exec.CommandContext(ctx, "false")
	}
	if sub == "ps" {
		return exec.CommandContext(ctx, "echo", f.psLines)
	}
	return exec.CommandContext(ctx, "true")
}

// subcommand extracts the compose verb from an argument list, skipping the
// shared -f/--env-file/--profile flags.
func subcommand(args []string) string {
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "compose":
			continue
		case "-f", "--env-file", "--profile":
			i++
		default:
			return args[i]
		}
	}
	return ""
}

func newTestClient(fake *fakeExec) *Client {
	return NewClient(
		WithBinaryPath("docker"),
		WithExecCommand(fake.command),
		WithOutput(io.Discard, io.Discard),
	)
}

func TestInvocationArgs(t *testing.T) {
	inv := Invocation{
		ComposeFiles: []string{"a.yml", "b.yml"},
		EnvFile:      "robot.env",
		Profiles:     []string{"simulation"},
	}
	got := strings.Join(inv.args("up", "-d"), " ")
	want := "compose -f a.yml -f b.yml --env-file robot.env --profile simulation up -d"
	if got != want {
		t.Errorf("args = %q, want %q", got, want)
	}
}

func TestUpDetached(t *testing.T) {
	fake := &fakeExec{}
	c := newTestClient(fake)
	inv := Invocation{ComposeFiles: []string{"docker-compose.yml"}}

	if err := c.Up(context.Background(), inv, UpOptions{Detach: true}); err != nil {
		t.Fatalf("Up: %v", err)
	}
	if len(fake.calls) != 1 {
		t.Fatalf("expected exactly one compose call, got %d: %v", len(fake.calls), fake.calls)
	}
	if sub := subcommand(fake.calls[0][1:]); sub != "up" {
		t.Errorf("subcommand = %q, want up", sub)
	}
}

func TestUpForegroundTearsDown(t *testing.T) {
	fake := &fakeExec{}
	c := newTestClient(fake)
	inv := Invocation{ComposeFiles: []string{"docker-compose.yml"}}

	if err := c.Up(context.Background(), inv, UpOptions{}); err != nil {
		t.Fatalf("Up: %v", err)
	}
	if len(fake.calls) != 2 {
		t.Fatalf("expected up then down, got %v", fake.calls)
	}
	if sub := subcommand(fake.calls[1][1:]); sub != "down" {
		t.Errorf("second call = %q, want down", sub)
	}
}

func TestUpFailureWrapsExternalTool(t *testing.T) {
	fake := &fakeExec{fail: map[string]bool{"up": true}}
	c := newTestClient(fake)

	err := c.Up(context.Background(), Invocation{}, UpOptions{Detach: true})
	if !errors.Is(err, issue.ErrExternalTool) {
		t.Errorf("expected ErrExternalTool, got %v", err)
	}
	var toolErr *ToolError
	if !errors.As(err, &toolErr) {
		t.Fatalf("expected *ToolError, got %T", err)
	}
	if toolErr.Op != "up" {
		t.Errorf("Op = %q, want up", toolErr.Op)
	}
}

func TestDownSkipsWhenNotRunning(t *testing.T) {
	fake := &fakeExec{psLines: ""}
	c := newTestClient(fake)

	stopped, err := c.Down(context.Background(), Invocation{})
	if err != nil {
		t.Fatalf("Down: %v", err)
	}
	if stopped {
		t.Error("Down reported a stop for an idle stack")
	}
	for _, call := range fake.calls {
		if sub := subcommand(call[1:]); sub == "down" {
			t.Errorf("teardown issued for an idle stack: %v", call)
		}
	}
}

func TestDownStopsRunningStack(t *testing.T) {
	fake := &fakeExec{psLines: "abc123\ndef456"}
	c := newTestClient(fake)

	envFile := filepath.Join(t.TempDir(), "nanosaur.env")
	if err := os.WriteFile(envFile, []byte("ROBOT_NAME=nanosaur\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	stopped, err := c.Down(context.Background(), Invocation{EnvFile: envFile})
	if err != nil {
		t.Fatalf("Down: %v", err)
	}
	if !stopped {
		t.Error("Down did not report the stop")
	}
	last := fake.calls[len(fake.calls)-1]
	if sub := subcommand(last[1:]); sub != "down" {
		t.Errorf("last call = %v, want down", last)
	}
	if !strings.Contains(strings.Join(last, " "), "--volumes") {
		t.Errorf("down missing --volumes: %v", last)
	}
	if _, statErr := os.Stat(envFile); !os.IsNotExist(statErr) {
		t.Error("env file survived the stop")
	}
}

func TestRunOnceUniqueNames(t *testing.T) {
	fake := &fakeExec{}
	c := newTestClient(fake)

	if err := c.RunOnce(context.Background(), Invocation{}, "nanosaur", RunOnceOptions{}, "bash"); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if err := c.RunOnce(context.Background(), Invocation{}, "nanosaur", RunOnceOptions{}, "bash"); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}

	name := func(call []string) string {
		for i, a := range call {
			if a == "--name" && i+1 < len(call) {
				return call[i+1]
			}
		}
		return ""
	}
	first, second := name(fake.calls[0]), name(fake.calls[1])
	if first == "" || first == second {
		t.Errorf("expected distinct container names, got %q and %q", first, second)
	}
	for _, call := range fake.calls {
		if !strings.Contains(strings.Join(call, " "), "--rm") {
			t.Errorf("run missing --rm: %v", call)
		}
	}
}

func TestUnavailableBinary(t *testing.T) {
	c := NewClient(WithBinaryPath(""), WithOutput(io.Discard, io.Discard))
	err := c.Up(context.Background(), Invocation{}, UpOptions{Detach: true})
	if err == nil {
		t.Fatal("expected an error for a missing docker binary")
	}
}

func TestProfileFor(t *testing.T) {
	tests := []struct {
		tool, location string
		want           string
		ok             bool
	}{
		{"isaac-sim", "docker", "isaac-sim", true},
		{"Isaac Sim", "docker", "isaac_sim", true},
		{"gazebo", "docker", "gazebo", true},
		{"isaac-sim", "host", "", false},
		{"", "docker", "", false},
	}
	for _, tt := range tests {
		got, ok := ProfileFor(tt.tool, tt.location)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ProfileFor(%q, %q) = %q, %t; want %q, %t",
				tt.tool, tt.location, got, ok, tt.want, tt.ok)
		}
	}
}

func TestBuildEnvFileRegenerates(t *testing.T) {
	dir := t.TempDir()
	rbt := robot.Robot{Name: "nanosaur", DomainID: 42, Simulation: true}
	sel := simulation.Selection{Tool: "Isaac Sim", Location: "docker", World: "lab", Headless: true}

	path, err := BuildEnvFile(dir, rbt, sel, "2.0.0")
	if err != nil {
		t.Fatalf("BuildEnvFile: %v", err)
	}
	if filepath.Base(path) != "nanosaur.env" {
		t.Errorf("env file name = %s", filepath.Base(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)
	for _, want := range []string{
		"ROBOT_NAME=nanosaur\n",
		"ROS_DOMAIN_ID=42\n",
		"CORE_TAG=2.0.0\n",
		"SIMULATION=isaac_sim\n",
		"WORLD=lab\n",
		"HEADLESS=true\n",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("env file missing %q:\n%s", want, content)
		}
	}

	// A second build must rewrite the file from scratch.
	rbt.DomainID = 7
	rbt.Simulation = false
	if _, err := BuildEnvFile(dir, rbt, sel, "2.0.0"); err != nil {
		t.Fatal(err)
	}
	data, _ = os.ReadFile(path)
	if strings.Contains(string(data), "ROS_DOMAIN_ID=42") {
		t.Error("stale domain id survived the rewrite")
	}
	if strings.Contains(string(data), "SIMULATION=") {
		t.Error("simulation variables leaked into a hardware env file")
	}
}

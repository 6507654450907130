// SPDX-License-Identifier: MPL-2.0

package compose

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/rnanosaur/nanosaur-cli/internal/issue"
	"github.com/rnanosaur/nanosaur-cli/internal/proc"
)

// UpOptions tunes the Up lifecycle operation.
type UpOptions struct {
	// Detach leaves the stack running after Up returns. In foreground mode
	// the stack is torn down (volumes included) once the attached run ends.
	Detach bool
	// Build forces image rebuilds before starting.
	Build bool
	// Services limits the operation to the named services. Empty means all
	// services enabled by the active profiles.
	Services []string
}

// Up starts the stack described by inv, streaming tool output as it runs.
// In foreground mode the attached session blocks until the stack exits or
// the context is cancelled; teardown afterwards is best-effort and does not
// mask the primary result.
func (c *Client) Up(ctx context.Context, inv Invocation, opts UpOptions) error {
	args := []string{"up"}
	if opts.Detach {
		args = append(args, "-d")
	}
	if opts.Build {
		args = append(args, "--build")
	}
	args = append(args, opts.Services...)

	err := c.stream(ctx, inv.args(args...))
	if err != nil {
		return &ToolError{Op: "up", Err: fmt.Errorf("%w: %v", issue.ErrExternalTool, err)}
	}
	if !opts.Detach {
		// The attached session ended normally; clear leftovers so the next
		// start begins from a clean slate.
		_ = c.stream(context.WithoutCancel(ctx), inv.args("down", "--volumes"))
	}
	return nil
}

// Down stops the stack and removes its volumes. It first checks whether any
// service is actually running; a stack that is already down is reported via
// the boolean without issuing a teardown command. The generated env file is
// removed after a successful stop so a later start regenerates it.
func (c *Client) Down(ctx context.Context, inv Invocation) (bool, error) {
	services, err := c.Services(ctx, inv)
	if err != nil {
		return false, err
	}
	if len(services) == 0 {
		return false, nil
	}
	if err := c.stream(ctx, inv.args("down", "--volumes")); err != nil {
		return false, &ToolError{Op: "down", Err: fmt.Errorf("%w: %v", issue.ErrExternalTool, err)}
	}
	if inv.EnvFile != "" {
		_ = os.Remove(inv.EnvFile)
	}
	return true, nil
}

// Services lists the container IDs of the currently running services.
func (c *Client) Services(ctx context.Context, inv Invocation) ([]string, error) {
	out, err := c.output(ctx, inv.args("ps", "--quiet"))
	if err != nil {
		return nil, &ToolError{Op: "ps", Err: fmt.Errorf("%w: %v", issue.ErrExternalTool, err)}
	}
	return splitLines(out), nil
}

// Pull refreshes the images referenced by the active profiles. Failures are
// reported but callers commonly treat them as advisory: a stale local image
// still starts.
func (c *Client) Pull(ctx context.Context, inv Invocation) error {
	if err := c.stream(ctx, inv.args("pull")); err != nil {
		return &ToolError{Op: "pull", Err: fmt.Errorf("%w: %v", issue.ErrExternalTool, err)}
	}
	return nil
}

// RunOnceOptions tunes a one-shot service run.
type RunOnceOptions struct {
	// Name is the container name; empty picks a unique one so concurrent
	// invocations never collide.
	Name string
	// Volumes holds extra bind mounts in docker -v syntax.
	Volumes []string
}

// RunOnce executes a single service command in a throwaway container. The
// container is removed on exit.
func (c *Client) RunOnce(ctx context.Context, inv Invocation, service string, opts RunOnceOptions, command ...string) error {
	name := opts.Name
	if name == "" {
		name = fmt.Sprintf("%s-%s", service, uuid.NewString()[:8])
	}
	args := []string{"run", "--rm", "--name", name}
	for _, vol := range opts.Volumes {
		args = append(args, "-v", vol)
	}
	args = append(append(args, service), command...)
	if err := c.stream(ctx, inv.args(args...)); err != nil {
		return &ToolError{Op: "run " + service, Err: fmt.Errorf("%w: %v", issue.ErrExternalTool, err)}
	}
	return nil
}

// stream runs a compose command forwarding its output line by line.
func (c *Client) stream(ctx context.Context, args []string) error {
	if c.binaryPath == "" {
		return ErrToolUnavailable
	}
	cmd := c.execCommand(ctx, c.binaryPath, args...)
	return proc.Run(cmd, c.stdout, c.stderr)
}

// ProfileFor maps a backend selection to the compose profile that carries
// its services. The separator matches the slug written into env files.
// Host-side tools have no containerized profile.
func ProfileFor(tool, location string) (string, bool) {
	if tool == "" || location != "docker" {
		return "", false
	}
	return strings.ToLower(strings.ReplaceAll(tool, " ", "_")), true
}

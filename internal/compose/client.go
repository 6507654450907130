// SPDX-License-Identifier: MPL-2.0

// Package compose drives Docker Compose for the resolved configuration. The
// client never mutates domain state: it reads fully-resolved inputs and
// issues process-level operations against the docker CLI.
package compose

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// ExecCommandFunc is the function signature for creating exec.Cmd. It allows
// injection of fake implementations for testing.
type ExecCommandFunc func(ctx context.Context, name string, arg ...string) *exec.Cmd

// ErrToolUnavailable is returned when the docker binary cannot be resolved.
var ErrToolUnavailable = errors.New("docker binary not found in PATH")

// Client shells out to the docker CLI for compose operations.
type Client struct {
	binaryPath  string
	execCommand ExecCommandFunc
	stdout      io.Writer
	stderr      io.Writer
}

// Option configures a Client.
type Option func(*Client)

// WithExecCommand injects the command constructor, used by tests.
func WithExecCommand(fn ExecCommandFunc) Option {
	return func(c *Client) { c.execCommand = fn }
}

// WithBinaryPath overrides docker binary resolution.
func WithBinaryPath(path string) Option {
	return func(c *Client) { c.binaryPath = path }
}

// WithOutput redirects the forwarded child output.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(c *Client) {
		c.stdout = stdout
		c.stderr = stderr
	}
}

// NewClient resolves the docker binary and builds a client. A missing binary
// is not an error here; every operation reports ErrToolUnavailable instead.
func NewClient(opts ...Option) *Client {
	path, _ := exec.LookPath("docker")
	c := &Client{
		binaryPath:  path,
		execCommand: exec.CommandContext,
		stdout:      os.Stdout,
		stderr:      os.Stderr,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Available reports whether the docker CLI with the compose plugin is
// usable on this machine.
func (c *Client) Available() bool {
	if c.binaryPath == "" {
		return false
	}
	cmd := c.execCommand(context.Background(), c.binaryPath, "compose", "version")
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard
	return cmd.Run() == nil
}

// Invocation pins the compose file set, the generated env file, and the
// profile selection for one lifecycle operation. Profiles carry zero or one
// entries: the device profile or a backend-derived slug; the device fact is
// received from the caller, never computed here.
type Invocation struct {
	ComposeFiles []string
	EnvFile      string
	Profiles     []string
}

// args prepends the shared compose flags to a subcommand.
func (inv Invocation) args(command ...string) []string {
	args := []string{"compose"}
	for _, file := range inv.ComposeFiles {
		args = append(args, "-f", file)
	}
	if inv.EnvFile != "" {
		args = append(args, "--env-file", inv.EnvFile)
	}
	for _, profile := range inv.Profiles {
		args = append(args, "--profile", profile)
	}
	return append(args, command...)
}

// ToolError reports a compose subprocess failure with the underlying tool
// message attached. It is returned, never panicked; the caller decides how
// to surface it. No retry is attempted.
type ToolError struct {
	Op  string
	Err error
}

// Error implements the error interface.
func (e *ToolError) Error() string {
	return fmt.Sprintf("docker compose %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error so the taxonomy sentinel stays
// reachable through errors.Is.
func (e *ToolError) Unwrap() error { return e.Err }

// output runs a compose command capturing stdout.
func (c *Client) output(ctx context.Context, args []string) (string, error) {
	if c.binaryPath == "" {
		return "", ErrToolUnavailable
	}
	cmd := c.execCommand(ctx, c.binaryPath, args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = io.Discard
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("command %s %v failed: %w", c.binaryPath, args, err)
	}
	return out.String(), nil
}

// splitLines returns the non-empty lines of s.
func splitLines(s string) []string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

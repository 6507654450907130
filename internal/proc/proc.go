// SPDX-License-Identifier: MPL-2.0

// Package proc runs external commands while forwarding their output to the
// caller line by line, so long-running children (compose up in foreground, a
// simulator launch) show live output instead of a buffered result.
package proc

import (
	"bufio"
	"fmt"
	"io"
	"os/exec"
	"sync"
)

// maxLineSize bounds a single forwarded line; compose build output can emit
// very long progress lines.
const maxLineSize = 1024 * 1024

// Run executes cmd and blocks until the child exits, forwarding stdout and
// stderr one line at a time as they arrive. Cancelling the command's context
// (e.g. on an interrupt signal) terminates the child; the resulting nonzero
// exit is reported as an ordinary error, never as a crash.
func Run(cmd *exec.Cmd, stdout, stderr io.Writer) error {
	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("attach stdout pipe: %w", err)
	}
	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("attach stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", cmd.Path, err)
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go forward(&wg, stdoutPipe, stdout)
	go forward(&wg, stderrPipe, stderr)
	wg.Wait()

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("command %s failed: %w", cmd.Path, err)
	}
	return nil
}

func forward(wg *sync.WaitGroup, r io.Reader, w io.Writer) {
	defer wg.Done()
	if w == nil {
		w = io.Discard
	}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		fmt.Fprintln(w, scanner.Text())
	}
}

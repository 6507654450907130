// SPDX-License-Identifier: MPL-2.0

// Package issue defines the error taxonomy shared by the configuration and
// orchestration core, plus a small builder for user-facing error context.
//
// Expected failure modes (no compatible backend found, compose reporting an
// empty service list, a missing selection) are never modeled as errors; they
// are returned as empty results the caller handles. The sentinels below cover
// the cases that must abort a command.
package issue

import "errors"

var (
	// ErrConfigLoad marks a malformed persisted configuration. Fatal to the
	// running command; there is no local recovery.
	ErrConfigLoad = errors.New("configuration load failed")

	// ErrValidation marks a requested mode transition or backend selection
	// that violates an invariant. The command aborts cleanly and the
	// configuration is left unchanged.
	ErrValidation = errors.New("validation failed")

	// ErrExternalTool marks a nonzero exit (or spawn failure) of an
	// orchestrated subprocess. The underlying tool message is attached by the
	// wrapping error; no retry is attempted.
	ErrExternalTool = errors.New("external tool failed")
)

// SPDX-License-Identifier: MPL-2.0

package install

import (
	"context"
	"fmt"

	"github.com/rnanosaur/nanosaur-cli/internal/config"
	"github.com/rnanosaur/nanosaur-cli/internal/issue"
)

// Operation performs the installation work for one tier. Operations are
// injected by the caller; a tier's operation may itself be a composition
// that silently performs its prerequisite tiers' work first.
type Operation func(ctx context.Context) error

// TransitionError reports a mode transition that violates the lattice.
type TransitionError struct {
	From Mode
	To   Mode
}

// Error implements the error interface.
func (e *TransitionError) Error() string {
	if !Known(e.To) {
		return fmt.Sprintf("unknown installation mode %q", e.To)
	}
	return fmt.Sprintf("cannot move from mode %q to %q", e.From, e.To)
}

// Unwrap returns issue.ErrValidation so callers can use errors.Is for
// programmatic detection.
func (e *TransitionError) Unwrap() error { return issue.ErrValidation }

// Lattice validates and applies installation-mode transitions against the
// stored mode.
type Lattice struct {
	store *config.Store
	ops   map[Mode]Operation
}

// NewLattice builds a lattice over the given store. ops may omit modes whose
// installation is a no-op.
func NewLattice(store *config.Store, ops map[Mode]Operation) *Lattice {
	return &Lattice{store: store, ops: ops}
}

// Current returns the stored mode, ModeNone when nothing is stored yet.
func (l *Lattice) Current() Mode {
	return Mode(l.store.GetString(Key, ""))
}

// Apply runs target's install operation and advances the stored mode.
//
// The transition is valid on a first install (no stored mode), when the
// stored mode is target itself, when the stored mode is one of target's
// prerequisites (an upgrade), or when target is one of the stored mode's
// prerequisites (re-running a lower tier, which never moves the mode
// backward). Anything else fails with a *TransitionError and leaves the
// configuration unchanged.
//
// The stored mode is only updated after the operation reports success, and
// only for upgrades; re-runs leave it as is.
func (l *Lattice) Apply(ctx context.Context, target Mode) error {
	current := l.Current()
	if !allowed(current, target) {
		return &TransitionError{From: current, To: target}
	}

	if op := l.ops[target]; op != nil {
		if err := op(ctx); err != nil {
			return fmt.Errorf("install %s: %w", target, err)
		}
	}

	if covers(current, target) {
		// Re-run of an already satisfied tier; no downgrade.
		return nil
	}
	return l.store.Set(Key, string(target))
}

// allowed reports whether the lattice permits moving from current to target.
func allowed(current, target Mode) bool {
	if !Known(target) {
		return false
	}
	if current == ModeNone || current == target {
		return true
	}
	if !Known(current) {
		// A stored mode outside the enumeration never satisfies a
		// prerequisite; reject rather than guess.
		return false
	}
	if containsMode(Prerequisites(target), current) {
		return true
	}
	return containsMode(Prerequisites(current), target)
}

// covers reports whether the stored mode already subsumes target: target is
// the stored mode itself or one of its prerequisites.
func covers(stored, target Mode) bool {
	if stored == target {
		return true
	}
	return Known(stored) && containsMode(Prerequisites(stored), target)
}

// Chain composes operations into one that runs them in order, stopping at
// the first failure. Higher tiers use it to perform their prerequisite
// tiers' work first.
func Chain(ops ...Operation) Operation {
	return func(ctx context.Context) error {
		for _, op := range ops {
			if op == nil {
				continue
			}
			if err := op(ctx); err != nil {
				return err
			}
		}
		return nil
	}
}

// SPDX-License-Identifier: MPL-2.0

// Package install implements the installation-mode lattice: a closed set of
// maturity tiers with declared prerequisites, monotonic progression, and one
// registered install operation per tier.
package install

import "fmt"

// Mode is one installation maturity tier.
type Mode string

// The closed mode enumeration. ModeNone is the initial "nothing installed"
// state and is never stored.
const (
	ModeNone       Mode = ""
	ModeSimple     Mode = "simple"
	ModeDeveloper  Mode = "developer"
	ModeMaintainer Mode = "maintainer"
	// ModeSuperuser is excluded from listings surfaced to the user but is
	// otherwise a first-class mode with its own prerequisite set.
	ModeSuperuser Mode = "superuser"
)

// Key is the configuration key the stored mode lives under.
const Key = "mode"

// Rule describes one tier: the modes it may be reached from and how it is
// presented.
type Rule struct {
	// Prerequisites are the tiers subsumed by this one. A stored mode whose
	// prerequisite set contains the requested tier already covers it.
	Prerequisites []Mode
	// Description is the one-line help shown next to the tier.
	Description string
	// Hidden keeps the tier out of user-facing listings.
	Hidden bool
}

// listed is the presentation order for user-facing listings.
var listed = []Mode{ModeSimple, ModeDeveloper, ModeMaintainer, ModeSuperuser}

var rules = map[Mode]Rule{
	ModeSimple: {
		Description: "Simple setup with the basic tools",
	},
	ModeDeveloper: {
		Prerequisites: []Mode{ModeSimple},
		Description:   "Developer setup with additional tools",
	},
	ModeMaintainer: {
		Prerequisites: []Mode{ModeSimple, ModeDeveloper},
		Description:   "Maintainer setup with the full toolchain",
	},
	ModeSuperuser: {
		Prerequisites: []Mode{ModeSimple, ModeDeveloper, ModeMaintainer},
		Description:   "Maintainer setup plus diagnostics defaults",
		Hidden:        true,
	},
}

func init() {
	if err := validateRules(); err != nil {
		panic(err)
	}
}

// validateRules rejects prerequisite references to unknown modes and cycles
// in the declared partial order. It runs once at startup so a malformed rule
// table can never reach a user command.
func validateRules() error {
	for mode := range rules {
		if !containsMode(listed, mode) {
			return fmt.Errorf("install: mode %q missing from presentation order", mode)
		}
	}
	for mode, rule := range rules {
		for _, prereq := range rule.Prerequisites {
			if _, ok := rules[prereq]; !ok {
				return fmt.Errorf("install: mode %q references unknown prerequisite %q", mode, prereq)
			}
		}
		if err := checkAcyclic(mode, nil); err != nil {
			return err
		}
	}
	return nil
}

func checkAcyclic(mode Mode, trail []Mode) error {
	for _, seen := range trail {
		if seen == mode {
			return fmt.Errorf("install: prerequisite cycle through mode %q", mode)
		}
	}
	trail = append(trail, mode)
	for _, prereq := range rules[mode].Prerequisites {
		if err := checkAcyclic(prereq, trail); err != nil {
			return err
		}
	}
	return nil
}

// Known reports whether mode is part of the closed enumeration.
func Known(mode Mode) bool {
	_, ok := rules[mode]
	return ok
}

// Hidden reports whether mode is excluded from user-facing listings.
func Hidden(mode Mode) bool {
	return rules[mode].Hidden
}

// Prerequisites returns the declared prerequisite set of mode.
func Prerequisites(mode Mode) []Mode {
	return rules[mode].Prerequisites
}

// Description returns the one-line help for mode.
func Description(mode Mode) string {
	return rules[mode].Description
}

// Listed returns the user-selectable modes in presentation order, hidden
// tiers excluded.
func Listed() []Mode {
	out := make([]Mode, 0, len(listed))
	for _, mode := range listed {
		if rules[mode].Hidden {
			continue
		}
		out = append(out, mode)
	}
	return out
}

func containsMode(list []Mode, mode Mode) bool {
	for _, m := range list {
		if m == mode {
			return true
		}
	}
	return false
}

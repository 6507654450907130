// SPDX-License-Identifier: MPL-2.0

package simulation

import (
	"fmt"
	"strings"

	"github.com/spf13/cast"

	"github.com/rnanosaur/nanosaur-cli/internal/config"
	"github.com/rnanosaur/nanosaur-cli/internal/issue"
)

// Key is the configuration key holding the nested simulation block.
const Key = "simulation"

// Execution locations for the selected backend.
const (
	LocationHost   = "host"
	LocationDocker = "docker"
)

// DefaultWorlds are the built-in scene identifiers; user-added worlds are
// carried in the selection itself.
var DefaultWorlds = []string{"empty", "lab", "office", "warehouse"}

// Selection is the resolved simulation choice read back from the store.
// Backend-specific sub-fields (IsaacSimPath) are only meaningful while that
// backend is the selected one; stale values from a previous selection are
// tolerated in the persisted block but never read here once the tool changes.
type Selection struct {
	Tool         string
	Location     string
	IsaacSimPath string
	World        string
	Headless     bool
}

// LoadSelection reads the simulation block from the store. An absent block
// yields the zero Selection.
func LoadSelection(store *config.Store) Selection {
	block := store.GetStringMap(Key)
	sel := Selection{
		Tool:     cast.ToString(block["tool"]),
		Location: cast.ToString(block["location"]),
		World:    cast.ToString(block["world"]),
		Headless: cast.ToBool(block["headless"]),
	}
	if sel.Tool == ToolIsaacSim {
		sel.IsaacSimPath = cast.ToString(block["isaac_sim_path"])
	}
	return sel
}

// Slug returns the identifier for the selected tool as written into env
// files and compose profiles: lowercased, spaces replaced with underscores.
func (s Selection) Slug() string {
	return strings.ReplaceAll(strings.ToLower(s.Tool), " ", "_")
}

// Validate checks the selection is launchable. Violations wrap
// issue.ErrValidation.
func (s Selection) Validate() error {
	if s.Tool == "" {
		return fmt.Errorf("no simulation tool selected: %w", issue.ErrValidation)
	}
	if s.Tool != ToolIsaacSim && s.Tool != ToolGazebo {
		return fmt.Errorf("unknown simulation tool %q: %w", s.Tool, issue.ErrValidation)
	}
	if s.Location != LocationHost && s.Location != LocationDocker {
		return fmt.Errorf("unknown execution location %q: %w", s.Location, issue.ErrValidation)
	}
	if s.Tool == ToolIsaacSim && s.Location == LocationHost && s.IsaacSimPath == "" {
		return fmt.Errorf("no Isaac Sim installation selected: %w", issue.ErrValidation)
	}
	return nil
}

// SetTool records the chosen backend, where it runs, and the host install
// path when one was resolved. The rest of the block is preserved, so worlds
// and headless settings survive a backend switch.
func SetTool(store *config.Store, tool, location, installPath string) error {
	tool = strings.ReplaceAll(strings.ToLower(tool), " ", "-")
	if tool != ToolIsaacSim && tool != ToolGazebo {
		return fmt.Errorf("unknown simulation tool %q: %w", tool, issue.ErrValidation)
	}
	if location != LocationHost && location != LocationDocker {
		return fmt.Errorf("unknown execution location %q: %w", location, issue.ErrValidation)
	}

	block := blockOf(store)
	block["tool"] = tool
	block["location"] = location
	if installPath != "" {
		block["isaac_sim_path"] = installPath
	}
	return store.Record(Key, block)
}

// SetWorld records the world identifier. A world outside the built-in set is
// accepted and becomes selectable from then on.
func SetWorld(store *config.Store, world string) error {
	if world == "" {
		return fmt.Errorf("empty world name: %w", issue.ErrValidation)
	}
	block := blockOf(store)
	block["world"] = world
	return store.Record(Key, block)
}

// SetHeadless records the headless flag.
func SetHeadless(store *config.Store, headless bool) error {
	block := blockOf(store)
	block["headless"] = headless
	return store.Record(Key, block)
}

// Worlds returns the selectable worlds: the built-in set plus the currently
// stored world when it is a custom one.
func Worlds(store *config.Store) []string {
	worlds := append([]string(nil), DefaultWorlds...)
	current := cast.ToString(store.GetStringMap(Key)["world"])
	if current != "" && !contains(worlds, current) {
		worlds = append(worlds, current)
	}
	return worlds
}

func blockOf(store *config.Store) map[string]any {
	block := store.GetStringMap(Key)
	if block == nil {
		block = map[string]any{}
	}
	return block
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

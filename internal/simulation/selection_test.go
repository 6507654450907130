// SPDX-License-Identifier: MPL-2.0

package simulation

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/rnanosaur/nanosaur-cli/internal/config"
	"github.com/rnanosaur/nanosaur-cli/internal/issue"
)

func newStore(t *testing.T) *config.Store {
	t.Helper()
	store, err := config.Load(nil, filepath.Join(t.TempDir(), "params.yml"))
	if err != nil {
		t.Fatal(err)
	}
	return store
}

func TestSetToolIncremental(t *testing.T) {
	store := newStore(t)

	if err := SetTool(store, "Isaac-Sim", LocationHost, "/opt/isaac-sim-4.2"); err != nil {
		t.Fatalf("SetTool() returned error: %v", err)
	}
	if err := SetWorld(store, "lab"); err != nil {
		t.Fatalf("SetWorld() returned error: %v", err)
	}
	if err := SetHeadless(store, true); err != nil {
		t.Fatalf("SetHeadless() returned error: %v", err)
	}

	sel := LoadSelection(store)
	if sel.Tool != ToolIsaacSim {
		t.Errorf("Tool = %q, want normalized %q", sel.Tool, ToolIsaacSim)
	}
	if sel.Location != LocationHost {
		t.Errorf("Location = %q, want %q", sel.Location, LocationHost)
	}
	if sel.IsaacSimPath != "/opt/isaac-sim-4.2" {
		t.Errorf("IsaacSimPath = %q", sel.IsaacSimPath)
	}
	if sel.World != "lab" || !sel.Headless {
		t.Errorf("World = %q, Headless = %v", sel.World, sel.Headless)
	}
}

func TestSetToolRejectsUnknown(t *testing.T) {
	store := newStore(t)
	if err := SetTool(store, "unreal", LocationHost, ""); !errors.Is(err, issue.ErrValidation) {
		t.Errorf("unknown tool should wrap ErrValidation, got %v", err)
	}
	if err := SetTool(store, ToolGazebo, "cloud", ""); !errors.Is(err, issue.ErrValidation) {
		t.Errorf("unknown location should wrap ErrValidation, got %v", err)
	}
	if store.Contains(Key) {
		t.Error("rejected selection must leave the configuration unchanged")
	}
}

func TestStaleSubfieldNotRead(t *testing.T) {
	store := newStore(t)
	if err := SetTool(store, ToolIsaacSim, LocationHost, "/opt/isaac-sim-4.2"); err != nil {
		t.Fatal(err)
	}
	// Switching backends leaves the stale isaac_sim_path in the block.
	if err := SetTool(store, ToolGazebo, LocationHost, ""); err != nil {
		t.Fatal(err)
	}

	sel := LoadSelection(store)
	if sel.Tool != ToolGazebo {
		t.Fatalf("Tool = %q", sel.Tool)
	}
	if sel.IsaacSimPath != "" {
		t.Error("stale isaac_sim_path must not be surfaced once the tool changes")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		sel  Selection
		ok   bool
	}{
		{"empty", Selection{}, false},
		{"unknown tool", Selection{Tool: "unreal", Location: LocationHost}, false},
		{"isaac host without path", Selection{Tool: ToolIsaacSim, Location: LocationHost}, false},
		{"isaac host with path", Selection{Tool: ToolIsaacSim, Location: LocationHost, IsaacSimPath: "/opt/isaac"}, true},
		{"isaac docker without path", Selection{Tool: ToolIsaacSim, Location: LocationDocker}, true},
		{"gazebo host", Selection{Tool: ToolGazebo, Location: LocationHost}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.sel.Validate()
			if tt.ok && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
			if !tt.ok {
				if !errors.Is(err, issue.ErrValidation) {
					t.Errorf("Validate() = %v, want ErrValidation", err)
				}
			}
		})
	}
}

func TestWorlds(t *testing.T) {
	store := newStore(t)
	worlds := Worlds(store)
	if len(worlds) != len(DefaultWorlds) {
		t.Fatalf("Worlds() = %v", worlds)
	}

	if err := SetWorld(store, "museum"); err != nil {
		t.Fatal(err)
	}
	worlds = Worlds(store)
	if worlds[len(worlds)-1] != "museum" {
		t.Errorf("custom world should become selectable, got %v", worlds)
	}

	// A built-in world does not get duplicated.
	if err := SetWorld(store, "lab"); err != nil {
		t.Fatal(err)
	}
	if len(Worlds(store)) != len(DefaultWorlds) {
		t.Errorf("built-in world duplicated: %v", Worlds(store))
	}
}

func TestSlug(t *testing.T) {
	tests := []struct{ tool, want string }{
		{"Isaac Sim", "isaac_sim"},
		{ToolIsaacSim, "isaac-sim"},
		{ToolGazebo, "gazebo"},
	}
	for _, tt := range tests {
		if got := (Selection{Tool: tt.tool}).Slug(); got != tt.want {
			t.Errorf("Slug(%q) = %q, want %q", tt.tool, got, tt.want)
		}
	}
}

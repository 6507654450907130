// SPDX-License-Identifier: MPL-2.0

// Package robot stores the robot roster inside the persisted configuration
// and resolves the current robot for launch-time consumers.
package robot

import (
	"fmt"

	"github.com/spf13/cast"

	"github.com/rnanosaur/nanosaur-cli/internal/config"
	"github.com/rnanosaur/nanosaur-cli/internal/issue"
)

const (
	// ListKey holds the roster.
	ListKey = "robots"
	// IndexKey selects the current robot within the roster.
	IndexKey = "robot_idx"
)

// Robot is one configured robot.
type Robot struct {
	Name     string
	DomainID int
	// Simulation marks a robot that exists only inside a simulator.
	Simulation bool
}

// ROSArgs renders the robot configuration as ROS 2 launch arguments.
func (r Robot) ROSArgs() []string {
	return []string{
		fmt.Sprintf("robot_name:=%s", r.Name),
		fmt.Sprintf("domain_id:=%d", r.DomainID),
	}
}

// Default returns the robot created on first install. Desktops get a
// simulated robot; the board itself gets a real one.
func Default(simulation bool) Robot {
	return Robot{Name: "nanosaur", DomainID: 0, Simulation: simulation}
}

// Load reads the roster from the store. An absent roster is empty, not an
// error.
func Load(store *config.Store) []Robot {
	raw, ok := store.Get(ListKey, nil).([]any)
	if !ok {
		return nil
	}
	robots := make([]Robot, 0, len(raw))
	for _, item := range raw {
		fields := cast.ToStringMap(item)
		if fields == nil {
			continue
		}
		robots = append(robots, Robot{
			Name:       cast.ToString(fields["name"]),
			DomainID:   cast.ToInt(fields["domain_id"]),
			Simulation: cast.ToBool(fields["simulation"]),
		})
	}
	return robots
}

// Current resolves the robot selected by the stored index. The second return
// is false when the roster is empty; an out-of-range index falls back to the
// first robot.
func Current(store *config.Store) (Robot, bool) {
	robots := Load(store)
	if len(robots) == 0 {
		return Robot{}, false
	}
	idx := store.GetInt(IndexKey, 0)
	if idx < 0 || idx >= len(robots) {
		idx = 0
	}
	return robots[idx], true
}

// Add appends a robot to the roster. A duplicate name is a validation
// failure and leaves the roster unchanged.
func Add(store *config.Store, r Robot) error {
	if r.Name == "" {
		return fmt.Errorf("empty robot name: %w", issue.ErrValidation)
	}
	robots := Load(store)
	for _, existing := range robots {
		if existing.Name == r.Name {
			return fmt.Errorf("robot %q already configured: %w", r.Name, issue.ErrValidation)
		}
	}
	return save(store, append(robots, r))
}

// RemoveAt deletes the robot at idx and clamps the stored index.
func RemoveAt(store *config.Store, idx int) error {
	robots := Load(store)
	if idx < 0 || idx >= len(robots) {
		return fmt.Errorf("robot index %d out of range: %w", idx, issue.ErrValidation)
	}
	robots = append(robots[:idx], robots[idx+1:]...)
	if err := save(store, robots); err != nil {
		return err
	}
	if store.GetInt(IndexKey, 0) >= len(robots) {
		return store.Record(IndexKey, 0)
	}
	return nil
}

// IndexByName returns the roster position of the named robot.
func IndexByName(store *config.Store, name string) (int, bool) {
	for i, r := range Load(store) {
		if r.Name == name {
			return i, true
		}
	}
	return 0, false
}

// SetCurrent stores idx as the current robot index.
func SetCurrent(store *config.Store, idx int) error {
	if robots := Load(store); idx < 0 || idx >= len(robots) {
		return fmt.Errorf("robot index %d out of range: %w", idx, issue.ErrValidation)
	}
	return store.Record(IndexKey, idx)
}

// SetName renames the current robot.
func SetName(store *config.Store, name string) error {
	return updateCurrent(store, func(r *Robot) { r.Name = name })
}

// SetDomainID changes the ROS domain of the current robot.
func SetDomainID(store *config.Store, domainID int) error {
	return updateCurrent(store, func(r *Robot) { r.DomainID = domainID })
}

func updateCurrent(store *config.Store, apply func(*Robot)) error {
	robots := Load(store)
	if len(robots) == 0 {
		return fmt.Errorf("no robot configured: %w", issue.ErrValidation)
	}
	idx := store.GetInt(IndexKey, 0)
	if idx < 0 || idx >= len(robots) {
		idx = 0
	}
	apply(&robots[idx])
	return save(store, robots)
}

func save(store *config.Store, robots []Robot) error {
	raw := make([]any, 0, len(robots))
	for _, r := range robots {
		raw = append(raw, map[string]any{
			"name":       r.Name,
			"domain_id":  r.DomainID,
			"simulation": r.Simulation,
		})
	}
	return store.Record(ListKey, raw)
}

// SPDX-License-Identifier: MPL-2.0

package simulation

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/rnanosaur/nanosaur-cli/internal/version"
)

// ReleaseKey is the configuration key holding the selected release tag.
const ReleaseKey = "nanosaur_version"

// CurrentRelease is the release tag assumed when none is stored.
const CurrentRelease = "2.0.0"

// Release pins the external requirements of one distribution tag.
type Release struct {
	// Branch is the source branch the release ships from.
	Branch string
	// ROSDistro is the ROS 2 distribution the release targets.
	ROSDistro string
	// IsaacSimRequirement is the compatibility window for host-installed
	// Isaac Sim, in comparison-operator form.
	IsaacSimRequirement string
}

// Releases maps each supported release tag to its requirements.
var Releases = map[string]Release{
	"2.0.0": {
		Branch:              "nanosaur2",
		ROSDistro:           "humble",
		IsaacSimRequirement: ">=4.1, <=4.5",
	},
}

// ReleaseFor returns the metadata for tag.
func ReleaseFor(tag string) (Release, bool) {
	r, ok := Releases[tag]
	return r, ok
}

// ReleaseTags returns the supported tags, newest first.
func ReleaseTags() []string {
	tags := maps.Keys(Releases)
	slices.SortFunc(tags, func(a, b string) int {
		return version.Compare(b, a)
	})
	return tags
}

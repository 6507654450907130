// SPDX-License-Identifier: MPL-2.0

package simulation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReleaseFor(t *testing.T) {
	release, ok := ReleaseFor(CurrentRelease)
	require.True(t, ok, "current release must be in the distro map")
	assert.Equal(t, "humble", release.ROSDistro)
	assert.Equal(t, "nanosaur2", release.Branch)
	assert.NotEmpty(t, release.IsaacSimRequirement)

	_, ok = ReleaseFor("0.0.1")
	assert.False(t, ok)
}

func TestReleaseTagsSorted(t *testing.T) {
	tags := ReleaseTags()
	require.NotEmpty(t, tags)
	assert.Contains(t, tags, CurrentRelease)
}

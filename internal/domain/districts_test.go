package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupDistrict_ExactMatch(t *testing.T) {
	d, ok := LookupDistrict("中西區")
	require.True(t, ok)
	assert.Equal(t, "Central & Western", d.EnglishName)
	assert.InDelta(t, 22.2855, d.Centre.Lat, 1e-9)
	assert.InDelta(t, 114.1577, d.Centre.Lon, 1e-9)
}

func TestLookupDistrict_SubstringMatch(t *testing.T) {
	// The bulletin grammar can emit 離島 without the trailing 區.
	d, ok := LookupDistrict("離島")
	require.True(t, ok)
	assert.Equal(t, "Islands", d.EnglishName)
}

func TestLookupDistrict_Unmapped(t *testing.T) {
	// Unknown regions resolve to an explicit miss, never a guessed
	// coordinate.
	_, ok := LookupDistrict("長洲")
	assert.False(t, ok)

	_, ok = LookupDistrict("")
	assert.False(t, ok)
}

func TestLookupDistrict_Deterministic(t *testing.T) {
	first, ok := LookupDistrict("西貢")
	require.True(t, ok)
	for i := 0; i < 5; i++ {
		d, ok := LookupDistrict("西貢")
		require.True(t, ok)
		assert.Equal(t, first, d)
	}
}

func TestDistrictCoordinates_CopyAndOrder(t *testing.T) {
	a := DistrictCoordinates()
	require.Len(t, a, 18)
	assert.Equal(t, "中西區", a[0].Name)

	a[0].Name = "mutated"
	b := DistrictCoordinates()
	assert.Equal(t, "中西區", b[0].Name, "callers must not be able to mutate the table")
}

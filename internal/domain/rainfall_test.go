package domain

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func frozenClock(t *testing.T) time.Time {
	t.Helper()
	now := time.Date(2025, 9, 20, 8, 30, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(now))
	t.Cleanup(func() { SetClock(nil) })
	return now
}

func TestParseRainfall_ExactReading(t *testing.T) {
	frozenClock(t)

	report := ParseRainfall("中西區1毫米")

	require.Len(t, report.Regions, 1)
	got := report.Regions["中西區"]
	assert.Equal(t, 1.0, got.MinRainfall)
	assert.Equal(t, 1.0, got.MaxRainfall)
	assert.Equal(t, 1.0, got.AverageRainfall)
	assert.Equal(t, 1.0, report.AverageRainfall)
}

func TestParseRainfall_RangeReading(t *testing.T) {
	frozenClock(t)

	report := ParseRainfall("西貢0至5毫米")

	require.Len(t, report.Regions, 1)
	got := report.Regions["西貢"]
	assert.Equal(t, 0.0, got.MinRainfall)
	assert.Equal(t, 5.0, got.MaxRainfall)
	assert.Equal(t, 2.5, got.AverageRainfall)
}

func TestParseRainfall_MixedBulletin(t *testing.T) {
	frozenClock(t)

	report := ParseRainfall("中西區1毫米，西貢0至5毫米。")

	want := map[string]RegionReading{
		"中西區": {MinRainfall: 1, MaxRainfall: 1, AverageRainfall: 1},
		"西貢":  {MinRainfall: 0, MaxRainfall: 5, AverageRainfall: 2.5},
	}
	if diff := cmp.Diff(want, report.Regions); diff != "" {
		t.Fatalf("regions mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 1.75, report.AverageRainfall)
}

func TestParseRainfall_NamedDistricts(t *testing.T) {
	frozenClock(t)

	text := "沙田3毫米，荃灣10至15毫米，屯門0毫米"
	report := ParseRainfall(text)

	want := map[string]RegionReading{
		"沙田": {MinRainfall: 3, MaxRainfall: 3, AverageRainfall: 3},
		"荃灣": {MinRainfall: 10, MaxRainfall: 15, AverageRainfall: 12.5},
		"屯門": {MinRainfall: 0, MaxRainfall: 0, AverageRainfall: 0},
	}
	if diff := cmp.Diff(want, report.Regions); diff != "" {
		t.Fatalf("regions mismatch (-want +got):\n%s", diff)
	}
	assert.InDelta(t, (3.0+12.5+0.0)/3.0, report.AverageRainfall, 1e-9)
}

func TestParseRainfall_LaterGrammarOverwrites(t *testing.T) {
	frozenClock(t)

	// The exact grammar reads 東區 as 2mm from the first mention; the range
	// grammar, applied later, reads the second mention as 2-to-6. The
	// later grammar's reading must win.
	report := ParseRainfall("東區2毫米（過去一小時東區2至6毫米）")

	require.Len(t, report.Regions, 1)
	got := report.Regions["東區"]
	assert.Equal(t, 2.0, got.MinRainfall)
	assert.Equal(t, 6.0, got.MaxRainfall)
	assert.Equal(t, 4.0, got.AverageRainfall)
}

func TestParseRainfall_EmptyBulletin(t *testing.T) {
	frozenClock(t)

	for _, text := range []string{"", "本港地區今日天晴。", "毫米"} {
		report := ParseRainfall(text)
		assert.Empty(t, report.Regions, "text %q", text)
		assert.Zero(t, report.AverageRainfall, "text %q", text)
	}
}

func TestParseRainfall_WhitespaceInsideUnits(t *testing.T) {
	frozenClock(t)

	// The text-only bulletin sometimes spaces out the unit characters.
	report := ParseRainfall("大埔 7 毫 米")

	require.Len(t, report.Regions, 1)
	assert.Equal(t, 7.0, report.Regions["大埔"].AverageRainfall)
}

func TestParseRainfall_Timestamp(t *testing.T) {
	now := frozenClock(t)

	report := ParseRainfall("元朗2毫米")
	assert.Equal(t, now, report.Timestamp)
}

func TestRainfallReport_RegionNames(t *testing.T) {
	frozenClock(t)

	report := ParseRainfall("中西區1毫米，西貢0至5毫米")
	assert.Equal(t, []string{"中西區", "西貢"}, report.RegionNames())
}

func TestParseRainfall_SingleValueInvariant(t *testing.T) {
	frozenClock(t)

	report := ParseRainfall("九龍城4毫米，黃大仙11毫米，南區0毫米")
	require.NotEmpty(t, report.Regions)
	for name, r := range report.Regions {
		assert.Equal(t, r.MinRainfall, r.MaxRainfall, "region %s", name)
		assert.Equal(t, r.MinRainfall, r.AverageRainfall, "region %s", name)
	}
}

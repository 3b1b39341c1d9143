package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshot_FacetFailure(t *testing.T) {
	snap := Snapshot{
		FetchTime: time.Date(2025, 9, 20, 8, 30, 0, 0, time.UTC),
		Rainfall:  &RainfallReport{Regions: map[string]RegionReading{}},
		Failures: []FacetError{
			{Facet: FacetWarnings, Message: "fetch warnings: timeout"},
		},
	}

	fe, ok := snap.FacetFailure(FacetWarnings)
	require.True(t, ok)
	assert.Equal(t, FacetWarnings, fe.Facet)
	assert.Contains(t, fe.Message, "timeout")

	_, ok = snap.FacetFailure(FacetRainfall)
	assert.False(t, ok)
	assert.False(t, snap.Complete())
}

func TestSnapshot_JSONRoundTrip(t *testing.T) {
	temp := 26.5
	hum := 85
	snap := Snapshot{
		FetchTime: time.Date(2025, 9, 20, 8, 30, 0, 0, time.UTC),
		Weather: &WeatherConditions{
			Timestamp:   time.Date(2025, 9, 20, 8, 30, 0, 0, time.UTC),
			Temperature: &temp,
			Humidity:    &hum,
			Status:      StatusRaining,
		},
		Failures: []FacetError{{Facet: FacetRainfall, Message: "unavailable"}},
	}

	data, err := json.Marshal(snap)
	require.NoError(t, err)

	var got Snapshot
	require.NoError(t, json.Unmarshal(data, &got))

	assert.Equal(t, snap.FetchTime, got.FetchTime)
	require.NotNil(t, got.Weather)
	assert.Equal(t, 26.5, *got.Weather.Temperature)
	assert.Nil(t, got.Rainfall, "failed facet must stay absent, not default")
	_, failed := got.FacetFailure(FacetRainfall)
	assert.True(t, failed)
}

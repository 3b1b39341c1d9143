package domain

import (
	"sort"
	"time"
)

// Facet names one of the three data categories inside a Snapshot. Facet names
// double as the fetcher resource identifiers.
type Facet string

const (
	FacetWeather  Facet = "weather"
	FacetRainfall Facet = "rainfall"
	FacetWarnings Facet = "warnings"
)

// WeatherStatus is the normalized sky condition on the HKO main page.
type WeatherStatus string

const (
	StatusRaining WeatherStatus = "raining"
	StatusCloudy  WeatherStatus = "cloudy"
	StatusSunny   WeatherStatus = "sunny"
	StatusUnknown WeatherStatus = "unknown"
)

// WarningKind identifies one active weather warning signal.
type WarningKind string

const (
	WarningThunderstorm WarningKind = "thunderstorm"
	WarningHeavyRain    WarningKind = "heavy_rain"
	WarningStrongWind   WarningKind = "strong_wind"
)

// WarningLevel is the overall severity implied by the active warning set.
type WarningLevel string

const (
	LevelNone   WarningLevel = "none"
	LevelMedium WarningLevel = "medium"
	LevelHigh   WarningLevel = "high"
)

// RegionReading is the rainfall measurement for one district. An exact
// bulletin reading has Min == Max == Average; a range reading has
// Average == (Min+Max)/2.
type RegionReading struct {
	MinRainfall     float64 `json:"min_rainfall"`
	MaxRainfall     float64 `json:"max_rainfall"`
	AverageRainfall float64 `json:"average_rainfall"`
}

// RainfallReport holds all district readings extracted from one rainfall
// bulletin. AverageRainfall is the equal-weight mean of every region's
// average, 0 when no region matched.
type RainfallReport struct {
	Timestamp       time.Time                `json:"timestamp"`
	Regions         map[string]RegionReading `json:"regions"`
	AverageRainfall float64                  `json:"average_rainfall"`
}

// RegionNames returns the extracted district names in sorted order.
func (r RainfallReport) RegionNames() []string {
	names := make([]string, 0, len(r.Regions))
	for name := range r.Regions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// WeatherConditions is the current-conditions reading from the HKO main page.
// Temperature and Humidity are nil when the page yielded no plausible match.
type WeatherConditions struct {
	Timestamp   time.Time     `json:"timestamp"`
	Temperature *float64      `json:"temperature,omitempty"`
	Humidity    *int          `json:"humidity,omitempty"`
	Status      WeatherStatus `json:"status"`
}

// WarningSet is the set of active warnings and the overall level they imply.
// ActiveWarnings is sorted and duplicate free.
type WarningSet struct {
	Timestamp      time.Time     `json:"timestamp"`
	ActiveWarnings []WarningKind `json:"active_warnings"`
	Level          WarningLevel  `json:"level"`
}

// Contains reports whether kind is in the active set.
func (w WarningSet) Contains(kind WarningKind) bool {
	for _, k := range w.ActiveWarnings {
		if k == kind {
			return true
		}
	}
	return false
}

// FacetError marks one facet of a Snapshot as unavailable. It distinguishes
// "no rain" from "rainfall data could not be fetched".
type FacetError struct {
	Facet   Facet  `json:"facet"`
	Message string `json:"message"`
}

// Snapshot is one immutable bundle of weather, rainfall, and warning data for
// a single fetch cycle. Each facet is either populated or listed in Failures,
// never both; a Snapshot may mix successes and failures.
type Snapshot struct {
	FetchTime time.Time          `json:"fetch_time"`
	Weather   *WeatherConditions `json:"weather,omitempty"`
	Rainfall  *RainfallReport    `json:"rainfall,omitempty"`
	Warnings  *WarningSet        `json:"warnings,omitempty"`
	Failures  []FacetError       `json:"failures,omitempty"`
}

// FacetFailure returns the failure marker for the named facet, if any.
func (s Snapshot) FacetFailure(f Facet) (FacetError, bool) {
	for _, fe := range s.Failures {
		if fe.Facet == f {
			return fe, true
		}
	}
	return FacetError{}, false
}

// Complete reports whether all three facets carry data.
func (s Snapshot) Complete() bool {
	return s.Weather != nil && s.Rainfall != nil && s.Warnings != nil
}

// HistoryEntry is one stored snapshot keyed by its insertion time.
type HistoryEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Snapshot  Snapshot  `json:"data"`
}

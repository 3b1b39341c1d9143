package domain

import "strings"

// Coordinate is a WGS-84 latitude/longitude pair.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// District pairs a Hong Kong district with its approximate centre.
type District struct {
	Name        string     `json:"name"`
	EnglishName string     `json:"english_name"`
	Centre      Coordinate `json:"centre"`
}

// hkDistricts lists the 18 Hong Kong districts in a fixed order so lookups
// and API responses are deterministic.
var hkDistricts = []District{
	{Name: "中西區", EnglishName: "Central & Western", Centre: Coordinate{Lat: 22.2855, Lon: 114.1577}},
	{Name: "東區", EnglishName: "Eastern", Centre: Coordinate{Lat: 22.2783, Lon: 114.2367}},
	{Name: "南區", EnglishName: "Southern", Centre: Coordinate{Lat: 22.2461, Lon: 114.1628}},
	{Name: "灣仔", EnglishName: "Wan Chai", Centre: Coordinate{Lat: 22.2767, Lon: 114.1759}},
	{Name: "九龍城", EnglishName: "Kowloon City", Centre: Coordinate{Lat: 22.3251, Lon: 114.1944}},
	{Name: "觀塘", EnglishName: "Kwun Tong", Centre: Coordinate{Lat: 22.3127, Lon: 114.2267}},
	{Name: "深水埗", EnglishName: "Sham Shui Po", Centre: Coordinate{Lat: 22.3309, Lon: 114.1639}},
	{Name: "黃大仙", EnglishName: "Wong Tai Sin", Centre: Coordinate{Lat: 22.3418, Lon: 114.1946}},
	{Name: "油尖旺", EnglishName: "Yau Tsim Mong", Centre: Coordinate{Lat: 22.3093, Lon: 114.1694}},
	{Name: "離島區", EnglishName: "Islands", Centre: Coordinate{Lat: 22.2587, Lon: 113.9447}},
	{Name: "葵青", EnglishName: "Kwai Tsing", Centre: Coordinate{Lat: 22.3573, Lon: 114.1378}},
	{Name: "北區", EnglishName: "North", Centre: Coordinate{Lat: 22.4964, Lon: 114.1476}},
	{Name: "西貢", EnglishName: "Sai Kung", Centre: Coordinate{Lat: 22.3816, Lon: 114.2723}},
	{Name: "沙田", EnglishName: "Sha Tin", Centre: Coordinate{Lat: 22.3817, Lon: 114.1973}},
	{Name: "大埔", EnglishName: "Tai Po", Centre: Coordinate{Lat: 22.4455, Lon: 114.1645}},
	{Name: "荃灣", EnglishName: "Tsuen Wan", Centre: Coordinate{Lat: 22.3736, Lon: 114.1177}},
	{Name: "屯門", EnglishName: "Tuen Mun", Centre: Coordinate{Lat: 22.3943, Lon: 113.9766}},
	{Name: "元朗", EnglishName: "Yuen Long", Centre: Coordinate{Lat: 22.4473, Lon: 114.0305}},
}

// DistrictCoordinates returns the district table in its fixed order. The
// returned slice is a copy.
func DistrictCoordinates() []District {
	out := make([]District, len(hkDistricts))
	copy(out, hkDistricts)
	return out
}

// LookupDistrict resolves a bulletin region name to a district. An exact name
// match is preferred, then the first district (in table order) whose name is
// contained in the region name or vice versa. Region names that match nothing
// return ok == false; callers must treat such regions as unmapped rather than
// guessing a coordinate.
func LookupDistrict(region string) (District, bool) {
	region = strings.TrimSpace(region)
	if region == "" {
		return District{}, false
	}

	for _, d := range hkDistricts {
		if d.Name == region {
			return d, true
		}
	}
	for _, d := range hkDistricts {
		if strings.Contains(region, d.Name) || strings.Contains(d.Name, region) {
			return d, true
		}
	}
	return District{}, false
}

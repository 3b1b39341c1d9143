package domain

import (
	"regexp"
	"strconv"
	"strings"
)

// regionGrammar extracts district readings with one pattern. Grammars are
// applied in list order over the whole bulletin; a later grammar's reading
// for a district overwrites an earlier one, so the list order is also the
// conflict-resolution order.
type regionGrammar struct {
	name  string
	re    *regexp.Regexp
	parse func(m []string) (string, RegionReading, bool)
}

// regionGrammars covers the three bulletin shapes: compass-district exact
// readings, compass-district range readings, and the named districts that the
// compass character class cannot reach (either shape).
var regionGrammars = []regionGrammar{
	{
		name:  "compass-exact",
		re:    regexp.MustCompile(`([中西東南北]+\s*區?)\s*(\d+)\s*毫\s*米`),
		parse: parseExactMatch,
	},
	{
		name:  "compass-range",
		re:    regexp.MustCompile(`([中西東南北]+\s*區?)\s*(\d+)\s*至\s*(\d+)\s*毫\s*米`),
		parse: parseRangeMatch,
	},
	{
		name:  "named-district",
		re:    regexp.MustCompile(`(九龍城|觀塘|深水埗|黃大仙|油尖旺|葵青|荃灣|灣仔|離島區?|西貢|沙田|大埔|屯門|元朗)\s*(\d+)\s*至?\s*(\d+)?\s*毫\s*米`),
		parse: parseOptionalRangeMatch,
	},
}

// ParseRainfall extracts all district readings from a rainfall bulletin and
// computes the report aggregate: the equal-weight mean of every region's
// average, 0 when no region matched.
func ParseRainfall(text string) RainfallReport {
	report := RainfallReport{
		Timestamp: clock.Now().UTC(),
		Regions:   make(map[string]RegionReading),
	}

	for _, g := range regionGrammars {
		for _, m := range g.re.FindAllStringSubmatch(text, -1) {
			region, reading, ok := g.parse(m)
			if !ok {
				continue
			}
			report.Regions[strings.TrimSpace(region)] = reading
		}
	}

	if len(report.Regions) > 0 {
		var sum float64
		for _, r := range report.Regions {
			sum += r.AverageRainfall
		}
		report.AverageRainfall = sum / float64(len(report.Regions))
	}

	return report
}

// parseExactMatch handles "<district><n>毫米".
func parseExactMatch(m []string) (string, RegionReading, bool) {
	if len(m) != 3 {
		return "", RegionReading{}, false
	}
	v, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return "", RegionReading{}, false
	}
	return m[1], RegionReading{
		MinRainfall:     v,
		MaxRainfall:     v,
		AverageRainfall: v,
	}, true
}

// parseRangeMatch handles "<district><a>至<b>毫米".
func parseRangeMatch(m []string) (string, RegionReading, bool) {
	if len(m) != 4 {
		return "", RegionReading{}, false
	}
	lo, errLo := strconv.ParseFloat(m[2], 64)
	hi, errHi := strconv.ParseFloat(m[3], 64)
	if errLo != nil || errHi != nil {
		return "", RegionReading{}, false
	}
	return m[1], RegionReading{
		MinRainfall:     lo,
		MaxRainfall:     hi,
		AverageRainfall: (lo + hi) / 2,
	}, true
}

// parseOptionalRangeMatch handles named districts where the upper bound may
// be absent: "<district><a>毫米" or "<district><a>至<b>毫米".
func parseOptionalRangeMatch(m []string) (string, RegionReading, bool) {
	if len(m) != 4 {
		return "", RegionReading{}, false
	}
	lo, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return "", RegionReading{}, false
	}
	if m[3] == "" {
		return m[1], RegionReading{
			MinRainfall:     lo,
			MaxRainfall:     lo,
			AverageRainfall: lo,
		}, true
	}
	hi, err := strconv.ParseFloat(m[3], 64)
	if err != nil {
		return "", RegionReading{}, false
	}
	return m[1], RegionReading{
		MinRainfall:     lo,
		MaxRainfall:     hi,
		AverageRainfall: (lo + hi) / 2,
	}, true
}

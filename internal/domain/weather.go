package domain

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// temperatureRe matches readings like "26°C" or "31.5°C".
	temperatureRe = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*°C`)

	// humidityRe matches relative humidity percentages like "85%".
	humidityRe = regexp.MustCompile(`(\d+)\s*%`)
)

// statusKeywords classifies the sky condition from page text. Scanned in
// order; the first matching class wins, so rain outranks cloudy outranks
// sunny.
var statusKeywords = []struct {
	keywords []string
	status   WeatherStatus
}{
	{keywords: []string{"驟雨", "雨"}, status: StatusRaining},
	{keywords: []string{"多雲"}, status: StatusCloudy},
	{keywords: []string{"天晴"}, status: StatusSunny},
}

// ParseWeather extracts current conditions from the HKO main page text. The
// first temperature and the first in-range humidity found are used; fields
// with no plausible match are left nil rather than zeroed.
func ParseWeather(text string) WeatherConditions {
	cond := WeatherConditions{
		Timestamp: clock.Now().UTC(),
		Status:    classifyStatus(text),
	}

	if m := temperatureRe.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			cond.Temperature = &v
		}
	}

	for _, m := range humidityRe.FindAllStringSubmatch(text, -1) {
		v, err := strconv.Atoi(m[1])
		if err != nil || v < 0 || v > 100 {
			continue
		}
		cond.Humidity = &v
		break
	}

	return cond
}

func classifyStatus(text string) WeatherStatus {
	for _, class := range statusKeywords {
		for _, kw := range class.keywords {
			if strings.Contains(text, kw) {
				return class.status
			}
		}
	}
	return StatusUnknown
}

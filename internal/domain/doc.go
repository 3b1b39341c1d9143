// Package domain models Hong Kong Observatory (HKO) weather and rainfall data.
//
// # Data Source
//
// Readings are scraped from the public HKO website rather than a structured
// API. Three resources are polled: the main page (current conditions), the
// text-only regional rainfall bulletin, and the warnings panel of the main
// page. The pages are bilingual and loosely structured, so extraction is
// pattern based.
//
// # Rainfall Bulletin Conventions
//
// The regional rainfall bulletin reports accumulated rainfall per district in
// Traditional Chinese, in one of two shapes:
//
//	"<district><n>毫米"       →  exact reading, e.g. "中西區1毫米" = 1 mm in Central & Western
//	"<district><a>至<b>毫米"  →  range reading, e.g. "西貢0至5毫米" = 0 to 5 mm in Sai Kung
//
// Values are whole millimetres. A range reading is summarized as its
// midpoint; an exact reading has min == max == average. Districts are
// extracted by an ordered list of grammars (see [ParseRainfall]); when two
// grammars produce a reading for the same district, the later grammar wins.
// The grammar order is therefore a priority order and must not be reordered.
//
// # Current Conditions
//
// Temperature appears as "<n>°C" and relative humidity as "<n>%" somewhere in
// the page text; the first plausible occurrence of each is used. The sky
// status is classified from keywords with fixed priority: rain terms
// (雨, 驟雨) over 多雲 (cloudy) over 天晴 (sunny), defaulting to unknown.
//
// # Warnings
//
// Active warnings are detected on two independent channels and unioned:
// warning icon filenames in the page markup (warn*.png, classified by the
// ts / rain / wind fragment in the name) and announcement phrases in the text
// (雷暴警告 = thunderstorm warning, 暴雨警告 = rainstorm warning). The overall
// level is the strongest signal seen: a thunderstorm from either channel or a
// keyword-confirmed rainstorm is high, any other active warning is medium, an
// empty set is none.
//
// # District Coordinates
//
// [DistrictCoordinates] maps the 18 Hong Kong districts to approximate
// centre coordinates for map rendering. Region names that match no district
// resolve to an explicit unmapped result rather than a guessed coordinate.
package domain

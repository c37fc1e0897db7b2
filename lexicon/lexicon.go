// Package lexicon maps WMO weather codes, as reported by Open-Meteo, to a
// display glyph and a label.
package lexicon

const (
	UnknownGlyph = "❓"
	UnknownLabel = "Unknown"
)

type Condition struct {
	Glyph string
	Label string
}

var conditions = map[int]Condition{
	0:  {"☀️", "Clear Sky"},
	1:  {"🌤️", "Mainly Clear"},
	2:  {"⛅", "Partly Cloudy"},
	3:  {"☁️", "Overcast"},
	45: {"🌫️", "Foggy"},
	48: {"🌫️", "Rime Fog"},
	51: {"🌦️", "Light Drizzle"},
	53: {"🌧️", "Moderate Drizzle"},
	55: {"🌧️", "Heavy Drizzle"},
	56: {"🌧️❄️", "Freezing Drizzle"},
	57: {"🌧️❄️", "Heavy Freezing Drizzle"},
	61: {"🌧️", "Light Rain"},
	63: {"🌧️", "Moderate Rain"},
	65: {"🌧️", "Heavy Rain"},
	66: {"🌧️❄️", "Freezing Rain"},
	67: {"🌧️❄️", "Heavy Freezing Rain"},
	71: {"❄️", "Light Snow"},
	73: {"❄️", "Moderate Snow"},
	75: {"❄️", "Heavy Snow"},
	77: {"❄️", "Snow Grains"},
	80: {"🌦️", "Rain Showers"},
	81: {"🌦️", "Moderate Rain Showers"},
	82: {"🌦️", "Heavy Rain Showers"},
	85: {"❄️", "Light Snow Showers"},
	86: {"❄️", "Heavy Snow Showers"},
	95: {"⛈️", "Thunderstorm"},
	96: {"⛈️", "Thunderstorm with Hail"},
	99: {"⛈️", "Severe Thunderstorm"},
}

// Lookup returns the condition for code. A nil code is never known.
func Lookup(code *int) (Condition, bool) {
	if code == nil {
		return Condition{}, false
	}
	c, ok := conditions[*code]
	return c, ok
}

// Describe returns glyph and label for code, falling back to UnknownGlyph
// and fallbackLabel.
func Describe(code *int, fallbackLabel string) (glyph, label string) {
	c, ok := Lookup(code)
	if !ok {
		return UnknownGlyph, fallbackLabel
	}
	return c.Glyph, c.Label
}

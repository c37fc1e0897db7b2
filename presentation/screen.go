// Package presentation turns a forecast snapshot into display text and draws
// it on a terminal.
package presentation

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"weatherdash/lexicon"
	"weatherdash/manager"
)

const (
	HourlySlots = 12
	DailySlots  = 7

	hourlyStride = 2
)

type Screen struct {
	Location    string
	Temperature string
	Condition   string
	Time        string
	Sun         string
	Hourly      [HourlySlots]Slot
	Daily       [DailySlots]Slot
}

// Slot is one card of the hourly or daily strip.
type Slot struct {
	Label       string
	Condition   string
	Temperature string
}

var (
	emptyHourly = Slot{Label: "--:--", Condition: " ", Temperature: "--°C"}
	emptyDaily  = Slot{Label: "Day", Condition: " ", Temperature: "--° / --°"}
)

var timeLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// Build derives everything shown for one search. Every series is
// bounds-checked on its own, so short or ragged arrays only blank the
// affected cells.
func Build(snapshot manager.Snapshot, displayName string) Screen {
	cw := snapshot.Current
	glyph, label := lexicon.Describe(cw.WeatherCode, lexicon.UnknownLabel)

	s := Screen{
		Location:    displayName,
		Temperature: number(cw.Temperature, "--") + "°C",
		Condition:   fmt.Sprintf("%s  %s", glyph, label),
		Time:        localTime(cw.Time),
		Sun:         sunLine(snapshot.Daily),
	}

	h := snapshot.Hourly
	for i := range s.Hourly {
		idx := i * hourlyStride
		if idx >= len(h.Time) {
			s.Hourly[i] = emptyHourly
			continue
		}
		temp := "--"
		if idx < len(h.Temperature) {
			temp = number(h.Temperature[idx], "--")
		}
		s.Hourly[i] = Slot{
			Label:       afterT(h.Time[idx]),
			Condition:   condition(h.WeatherCode, idx),
			Temperature: temp + "°C",
		}
	}

	d := snapshot.Daily
	for i := range s.Daily {
		if i >= len(d.Time) {
			s.Daily[i] = emptyDaily
			continue
		}
		s.Daily[i] = Slot{
			Label:       d.Time[i],
			Condition:   condition(d.WeatherCode, i),
			Temperature: fmt.Sprintf("%s° / %s°", at(d.TemperatureMax, i), at(d.TemperatureMin, i)),
		}
	}

	return s
}

func condition(codes []*int, i int) string {
	var code *int
	if i < len(codes) {
		code = codes[i]
	}
	glyph, label := lexicon.Describe(code, "")
	return strings.TrimSpace(glyph + " " + label)
}

func at(values []json.Number, i int) string {
	if i >= len(values) {
		return "--"
	}
	return number(values[i], "--")
}

func number(n json.Number, fallback string) string {
	if n == "" {
		return fallback
	}
	return n.String()
}

func localTime(raw string) string {
	if raw == "" {
		return ""
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("2006-01-02 15:04")
		}
	}
	return strings.ReplaceAll(raw, "T", " ")
}

func sunLine(d manager.Daily) string {
	var sunrise, sunset string
	if len(d.Sunrise) > 0 {
		sunrise = afterT(d.Sunrise[0])
	}
	if len(d.Sunset) > 0 {
		sunset = afterT(d.Sunset[0])
	}
	if sunrise == "" && sunset == "" {
		return ""
	}
	return fmt.Sprintf("Sunrise: %s | Sunset: %s", sunrise, sunset)
}

// afterT returns the text after the last date/time separator.
func afterT(s string) string {
	return s[strings.LastIndex(s, "T")+1:]
}

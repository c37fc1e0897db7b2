package manager

import (
	"context"
	"encoding/json"
)

// Weather is the search pipeline as seen by the interactive surface.
type Weather interface {
	Init()
	Recent() []string
	Search(ctx context.Context, text string) error
	SearchHistory(ctx context.Context, index int) error
	Dictate(ctx context.Context) error
	Wait()
}

type Geocoding interface {
	Get(ctx context.Context, city string) (Location, error)
}

type Forecast interface {
	Get(ctx context.Context, location Location) (Snapshot, error)
}

type History interface {
	Load() []string
	Record(city string) error
}

// Dictation turns speech into a city query. Available is resolved once at
// startup; Listen is only called when it reported true.
type Dictation interface {
	Available() bool
	Listen(ctx context.Context) (string, error)
}

// View is the interactive surface. Its methods are only ever called from the
// goroutine running the UI loop.
type View interface {
	SetStatus(status string)
	SetSearchEnabled(enabled bool)
	SetQuery(text string)
	SetHistory(cities []string)
	Render(snapshot Snapshot, displayName string) error
}

// Poster schedules fn on the UI loop without waiting for it to run.
type Poster interface {
	Post(fn func()) bool
}

type Location struct {
	Latitude    float64
	Longitude   float64
	Timezone    string
	DisplayName string
}

type Snapshot struct {
	Current CurrentWeather `json:"current_weather"`
	Hourly  Hourly         `json:"hourly"`
	Daily   Daily          `json:"daily"`
}

type CurrentWeather struct {
	Temperature json.Number `json:"temperature"`
	WeatherCode *int        `json:"weathercode"`
	Time        string      `json:"time"`
}

// Hourly and Daily hold index-aligned series; any of them may be shorter
// than the others.
type Hourly struct {
	Time        []string      `json:"time"`
	Temperature []json.Number `json:"temperature_2m"`
	WeatherCode []*int        `json:"weathercode"`
}

type Daily struct {
	Time           []string      `json:"time"`
	TemperatureMax []json.Number `json:"temperature_2m_max"`
	TemperatureMin []json.Number `json:"temperature_2m_min"`
	WeatherCode    []*int        `json:"weathercode"`
	Sunrise        []string      `json:"sunrise"`
	Sunset         []string      `json:"sunset"`
}

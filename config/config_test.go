package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

const sample = `
geocoding:
  endpoint: ${WEATHER_TEST_GEO:https://geo.example.com/v1/search}
  count: 5
  timeout: 2s
forecast:
  endpoint: https://forecast.example.com/v1/forecast
  timeout: 3s
history:
  path: ${WEATHER_TEST_HISTORY:history.txt}
dictation:
  command: ${WEATHER_TEST_DICTATION:}
log:
  level: debug
`

func TestLoad(t *testing.T) {
	t.Setenv("WEATHER_TEST_HISTORY", "/tmp/cities.txt")
	t.Setenv("WEATHER_TEST_DICTATION", "whisper-cli --lang en")

	cfg, err := Load([]byte(sample))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Geocoding.Endpoint != "https://geo.example.com/v1/search" {
		t.Errorf("geocoding endpoint = %q", cfg.Geocoding.Endpoint)
	}
	if cfg.Geocoding.Timeout != 2*time.Second || cfg.Forecast.Timeout != 3*time.Second {
		t.Errorf("timeouts = %s, %s", cfg.Geocoding.Timeout, cfg.Forecast.Timeout)
	}
	if cfg.History.Path != "/tmp/cities.txt" {
		t.Errorf("history path = %q", cfg.History.Path)
	}
	if cfg.History.MaxEntries != 30 {
		t.Errorf("max entries default lost: %d", cfg.History.MaxEntries)
	}
	if got := cfg.Dictation.Argv(); !reflect.DeepEqual(got, []string{"whisper-cli", "--lang", "en"}) {
		t.Errorf("dictation argv = %v", got)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log level = %q", cfg.Log.Level)
	}
}

func TestLoadEmptyDictationDisables(t *testing.T) {
	cfg, err := Load([]byte(sample))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if argv := cfg.Dictation.Argv(); len(argv) != 0 {
		t.Fatalf("expected no dictation command, got %v", argv)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"bad yaml", "geocoding: [", "parse config"},
		{"bad endpoint", "forecast:\n  endpoint: not a url\n", "invalid config"},
		{"bad level", "log:\n  level: loud\n", "invalid config"},
		{"zero timeout", "geocoding:\n  timeout: 0s\n", "invalid config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load([]byte(tt.raw))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected %q error, got %v", tt.want, err)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("history:\n  maxEntries: 10\n"), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	cfg, err := LoadFile(path, nil)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if cfg.History.MaxEntries != 10 || cfg.Forecast.Endpoint != Default().Forecast.Endpoint {
		t.Fatalf("unexpected config %+v", cfg)
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"), nil); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadKeepsYAMLSyntaxInEnvValues(t *testing.T) {
	t.Setenv("WEATHER_TEST_HISTORY", "/data/my notes #2/history.txt")
	t.Setenv("WEATHER_TEST_DICTATION", "stt --prompt: city")

	cfg, err := Load([]byte(sample))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.History.Path != "/data/my notes #2/history.txt" {
		t.Errorf("history path = %q", cfg.History.Path)
	}
	if got := cfg.Dictation.Argv(); !reflect.DeepEqual(got, []string{"stt", "--prompt:", "city"}) {
		t.Errorf("dictation argv = %v", got)
	}
}

func TestLoadEnvTypedValues(t *testing.T) {
	t.Setenv("WEATHER_TEST_COUNT", "7")
	t.Setenv("WEATHER_TEST_TIMEOUT", "250ms")

	raw := "geocoding:\n  count: ${WEATHER_TEST_COUNT:5}\n  timeout: ${WEATHER_TEST_TIMEOUT:10s}\n"
	cfg, err := Load([]byte(raw))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Geocoding.Count != 7 || cfg.Geocoding.Timeout != 250*time.Millisecond {
		t.Fatalf("geocoding = %+v", cfg.Geocoding)
	}
}

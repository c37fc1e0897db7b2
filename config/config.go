package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Geocoding Geocoding `yaml:"geocoding"`
	Forecast  Forecast  `yaml:"forecast"`
	History   History   `yaml:"history"`
	Dictation Dictation `yaml:"dictation"`
	Log       Log       `yaml:"log"`
}

type Geocoding struct {
	Endpoint string        `yaml:"endpoint" validate:"required,url"`
	Count    int           `yaml:"count" validate:"min=1,max=100"`
	Timeout  time.Duration `yaml:"timeout" validate:"gt=0"`
}

type Forecast struct {
	Endpoint string        `yaml:"endpoint" validate:"required,url"`
	Timeout  time.Duration `yaml:"timeout" validate:"gt=0"`
}

type History struct {
	Path       string `yaml:"path" validate:"required"`
	MaxEntries int    `yaml:"maxEntries" validate:"min=1"`
}

type Dictation struct {
	// Command is split on whitespace; empty disables dictation.
	Command string        `yaml:"command"`
	Timeout time.Duration `yaml:"timeout" validate:"gte=0"`
}

type Log struct {
	Level string `yaml:"level" validate:"oneof=debug info warn error"`
}

func Default() Config {
	return Config{
		Geocoding: Geocoding{
			Endpoint: "https://geocoding-api.open-meteo.com/v1/search",
			Count:    5,
			Timeout:  10 * time.Second,
		},
		Forecast: Forecast{
			Endpoint: "https://api.open-meteo.com/v1/forecast",
			Timeout:  15 * time.Second,
		},
		History: History{
			Path:       "history.txt",
			MaxEntries: 30,
		},
		Dictation: Dictation{
			Timeout: 5 * time.Second,
		},
		Log: Log{
			Level: "info",
		},
	}
}

var validate = validator.New()

// Load decodes raw YAML over the defaults. ${NAME} and ${NAME:default}
// references inside scalar values are resolved from the environment after
// parsing, so the substituted text is never read as YAML.
func Load(raw []byte) (Config, error) {
	cfg := Default()

	var root yaml.Node
	if err := yaml.Unmarshal(raw, &root); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if root.Kind != 0 {
		resolveEnv(&root)
		if err := root.Decode(&cfg); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := validate.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// LoadFile reads path, or falls back to fallback when path is empty.
func LoadFile(path string, fallback []byte) (Config, error) {
	if path == "" {
		return Load(fallback)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return Load(raw)
}

func (d Dictation) Argv() []string {
	return strings.Fields(d.Command)
}

var envPattern = regexp.MustCompile(`\$\{([^}:]+)(?::([^}]*))?\}`)

// resolveEnv rewrites every scalar holding an env reference. The result is
// retagged so it resolves as a plain scalar of the target field's type.
func resolveEnv(n *yaml.Node) {
	if n.Kind == yaml.ScalarNode && envPattern.MatchString(n.Value) {
		n.Value = envPattern.ReplaceAllStringFunc(n.Value, resolveEnvVariable)
		n.Tag = ""
		n.Style = 0
		return
	}
	for _, c := range n.Content {
		resolveEnv(c)
	}
}

func resolveEnvVariable(ref string) string {
	matches := envPattern.FindStringSubmatch(ref)
	if v, ok := os.LookupEnv(matches[1]); ok && v != "" {
		return v
	}
	return matches[2]
}

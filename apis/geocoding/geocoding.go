package geocoding

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"weatherdash/manager"
)

const (
	DefaultEndpoint = "https://geocoding-api.open-meteo.com/v1/search"
	DefaultTimeout  = 10 * time.Second
	DefaultCount    = 5
)

type Config struct {
	Endpoint string
	Count    int
	Timeout  time.Duration
}

func New(cfg Config, log *zap.Logger) *geocoding {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.Count <= 0 {
		cfg.Count = DefaultCount
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if log == nil {
		log = zap.NewNop()
	}

	client := resty.New().SetTimeout(cfg.Timeout)
	client.OnAfterResponse(func(c *resty.Client, resp *resty.Response) error {
		log.Debug("geocoding response",
			zap.String("url", resp.Request.URL),
			zap.Int("status", resp.StatusCode()),
			zap.Duration("latency", resp.Time()))
		return nil
	})

	return &geocoding{
		client:   client,
		endpoint: cfg.Endpoint,
		count:    cfg.Count,
	}
}

type geocoding struct {
	client   *resty.Client
	endpoint string
	count    int
}

// Get resolves city to coordinates. Every failure, including an empty
// result set, is reported as manager.ErrLocationNotFound.
func (g geocoding) Get(ctx context.Context, city string) (manager.Location, error) {
	params := map[string]string{
		"name":  city,
		"count": strconv.Itoa(g.count),
	}

	candidates, err := processRequest(ctx, g.client, g.endpoint, params)
	if err != nil {
		return manager.Location{}, fmt.Errorf("%w: %v", manager.ErrLocationNotFound, err)
	}
	if len(candidates) == 0 {
		return manager.Location{}, manager.ErrLocationNotFound
	}

	best := candidates[0]
	for _, c := range candidates {
		if strings.EqualFold(c.Name, city) {
			best = c
			break
		}
	}

	timezone := best.Timezone
	if timezone == "" {
		timezone = "UTC"
	}

	return manager.Location{
		Latitude:    best.Latitude,
		Longitude:   best.Longitude,
		Timezone:    timezone,
		DisplayName: strings.Trim(fmt.Sprintf("%s, %s", best.Name, best.Country), ", "),
	}, nil
}

type candidate struct {
	Name      string  `json:"name"`
	Country   string  `json:"country"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timezone  string  `json:"timezone"`
}

func processRequest(ctx context.Context, client *resty.Client, path string, params map[string]string) ([]candidate, error) {
	type responseStruct struct {
		Results []candidate `json:"results"`
	}

	response, err := client.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get(path)
	if err != nil {
		return nil, err
	}

	if !response.IsSuccess() {
		return nil, fmt.Errorf("status code: %d", response.StatusCode())
	}

	var r responseStruct
	if err := json.Unmarshal(response.Body(), &r); err != nil {
		return nil, err
	}

	return r.Results, nil
}

package openmeteo

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"weatherdash/manager"
)

const (
	DefaultEndpoint = "https://api.open-meteo.com/v1/forecast"
	DefaultTimeout  = 15 * time.Second

	hourlySeries = "temperature_2m,weathercode"
	dailySeries  = "temperature_2m_max,temperature_2m_min,weathercode,sunrise,sunset"
)

type Config struct {
	Endpoint string
	Timeout  time.Duration
}

func New(cfg Config, log *zap.Logger) *forecast {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if log == nil {
		log = zap.NewNop()
	}

	client := resty.New().SetTimeout(cfg.Timeout)
	client.OnAfterResponse(func(c *resty.Client, resp *resty.Response) error {
		log.Debug("forecast response",
			zap.String("url", resp.Request.URL),
			zap.Int("status", resp.StatusCode()),
			zap.Duration("latency", resp.Time()),
			zap.Int("bytes", len(resp.Body())))
		return nil
	})

	return &forecast{
		client:   client,
		endpoint: cfg.Endpoint,
	}
}

type forecast struct {
	client   *resty.Client
	endpoint string
}

// Get fetches current conditions plus hourly and daily series for location,
// localized to its timezone. Failures wrap manager.ErrWeatherUnavailable.
func (f forecast) Get(ctx context.Context, location manager.Location) (manager.Snapshot, error) {
	params := map[string]string{
		"latitude":        strconv.FormatFloat(location.Latitude, 'f', -1, 64),
		"longitude":       strconv.FormatFloat(location.Longitude, 'f', -1, 64),
		"current_weather": "true",
		"hourly":          hourlySeries,
		"daily":           dailySeries,
		"timezone":        location.Timezone,
	}

	snapshot, err := processRequest(ctx, f.client, f.endpoint, params)
	if err != nil {
		return manager.Snapshot{}, fmt.Errorf("%w: %v", manager.ErrWeatherUnavailable, err)
	}

	return snapshot, nil
}

func processRequest(ctx context.Context, client *resty.Client, path string, params map[string]string) (manager.Snapshot, error) {
	response, err := client.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get(path)
	if err != nil {
		return manager.Snapshot{}, err
	}

	if !response.IsSuccess() {
		var apiErr struct {
			Reason string `json:"reason"`
		}
		if json.Unmarshal(response.Body(), &apiErr) == nil && apiErr.Reason != "" {
			return manager.Snapshot{}, fmt.Errorf("status code: %d: %s", response.StatusCode(), apiErr.Reason)
		}
		return manager.Snapshot{}, fmt.Errorf("status code: %d", response.StatusCode())
	}

	var snapshot manager.Snapshot
	if err := json.Unmarshal(response.Body(), &snapshot); err != nil {
		return manager.Snapshot{}, err
	}

	return snapshot, nil
}

package openmeteo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/couchcryptid/weather-risk-etl/internal/config"
	"github.com/sony/gobreaker"
)

// dailyMetrics is the comma-separated daily series requested from the API.
// The transform stage requires every one of them.
const dailyMetrics = "temperature_2m_min,temperature_2m_max,temperature_2m_mean," +
	"precipitation_probability_max,wind_speed_10m_max,wind_gusts_10m_max,weathercode"

// Client fetches daily forecasts from the Open-Meteo API behind a circuit
// breaker, so a flapping provider trips fast instead of hanging the fetcher.
type Client struct {
	baseURL    string
	httpClient *http.Client
	circuit    *gobreaker.CircuitBreaker
	logger     *slog.Logger
}

// NewClient creates an Open-Meteo client from the configured base URL and
// timeout.
func NewClient(cfg *config.Config, logger *slog.Logger) *Client {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openmeteo",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &Client{
		baseURL: cfg.WeatherAPIBaseURL,
		httpClient: &http.Client{
			Timeout: cfg.FetchTimeout,
		},
		circuit: cb,
		logger:  logger,
	}
}

// FetchDaily requests the daily forecast series for the given coordinates and
// returns the raw provider response untouched, ready for capture.
func (c *Client) FetchDaily(ctx context.Context, lat, lon float64, timezone string, days int) (json.RawMessage, error) {
	params := url.Values{
		"latitude":      {strconv.FormatFloat(lat, 'f', -1, 64)},
		"longitude":     {strconv.FormatFloat(lon, 'f', -1, 64)},
		"daily":         {dailyMetrics},
		"timezone":      {timezone},
		"forecast_days": {strconv.Itoa(days)},
	}
	fullURL := c.baseURL + "?" + params.Encode()

	result, err := c.circuit.Execute(func() (interface{}, error) {
		body, reqErr := c.doRequest(ctx, fullURL)
		return body, reqErr
	})
	if err != nil {
		return nil, err
	}
	return result.(json.RawMessage), nil
}

func (c *Client) doRequest(ctx context.Context, fullURL string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("forecast request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("open-meteo API error: status %d: %s", resp.StatusCode, body)
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("open-meteo API returned invalid JSON")
	}
	return json.RawMessage(body), nil
}

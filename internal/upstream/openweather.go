package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/projectavishkar/krishimitra/internal/config"
	"github.com/projectavishkar/krishimitra/pkg/telemetry"
	"go.uber.org/zap"
)

const openWeatherProvider = "openweathermap"

// CurrentConditions is the raw OpenWeatherMap current-weather payload,
// limited to the fields the normalizer consumes.
type CurrentConditions struct {
	Name       string `json:"name"`
	Visibility int    `json:"visibility"`
	Dt         int64  `json:"dt"`
	Weather    []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		TempMin   float64 `json:"temp_min"`
		TempMax   float64 `json:"temp_max"`
		Pressure  int     `json:"pressure"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
		Deg   int     `json:"deg"`
	} `json:"wind"`
	Sys struct {
		Sunrise int64 `json:"sunrise"`
		Sunset  int64 `json:"sunset"`
	} `json:"sys"`
}

// ForecastEntry is one 3-hour slot of the OpenWeatherMap forecast payload.
type ForecastEntry struct {
	Dt   int64 `json:"dt"`
	Main struct {
		Temp     float64 `json:"temp"`
		TempMin  float64 `json:"temp_min"`
		TempMax  float64 `json:"temp_max"`
		Humidity int     `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
}

type ForecastResponse struct {
	List []ForecastEntry `json:"list"`
	City struct {
		Name     string `json:"name"`
		Timezone int    `json:"timezone"`
	} `json:"city"`
}

// apiStatus holds the provider's error-code envelope. The provider reports
// auth failures through the cod field of the JSON body, encoded as either a
// number or a string depending on the endpoint.
type apiStatus struct {
	Cod     json.RawMessage `json:"cod"`
	Message string          `json:"message"`
}

func (s apiStatus) code() int {
	if len(s.Cod) == 0 {
		return 0
	}
	var n int
	if err := json.Unmarshal(s.Cod, &n); err == nil {
		return n
	}
	var str string
	if err := json.Unmarshal(s.Cod, &str); err == nil {
		fmt.Sscanf(str, "%d", &n)
	}
	return n
}

// OpenWeatherClient issues the read-only current-conditions and forecast
// calls against the OpenWeatherMap API.
type OpenWeatherClient struct {
	baseURL string
	apiKey  string
	units   string
	client  *http.Client
	logger  *zap.Logger
	tele    *telemetry.Telemetry
}

func NewOpenWeatherClientWithConfig(cfg config.WeatherConfig, logger *zap.Logger, tele *telemetry.Telemetry) *OpenWeatherClient {
	return &OpenWeatherClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		units:   cfg.Units,
		client: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
		logger: logger,
		tele:   tele,
	}
}

func (c *OpenWeatherClient) Name() string {
	return openWeatherProvider
}

// CurrentWeather fetches current conditions for the given coordinates.
func (c *OpenWeatherClient) CurrentWeather(ctx context.Context, lat, lon float64) (*CurrentConditions, error) {
	tracer := c.tele.GetTracer()
	ctx, span := tracer.Start(ctx, "openweather.CurrentWeather")
	defer span.End()

	span.SetAttributes(
		attribute.Float64("lat", lat),
		attribute.Float64("lon", lon),
	)

	var out CurrentConditions
	if err := c.get(ctx, "/weather", lat, lon, &out); err != nil {
		span.SetAttributes(attribute.Bool("success", false))
		return nil, err
	}

	span.SetAttributes(attribute.Bool("success", true))
	return &out, nil
}

// Forecast fetches the 3-hour-resolution multi-day forecast.
func (c *OpenWeatherClient) Forecast(ctx context.Context, lat, lon float64) (*ForecastResponse, error) {
	tracer := c.tele.GetTracer()
	ctx, span := tracer.Start(ctx, "openweather.Forecast")
	defer span.End()

	span.SetAttributes(
		attribute.Float64("lat", lat),
		attribute.Float64("lon", lon),
	)

	var out ForecastResponse
	if err := c.get(ctx, "/forecast", lat, lon, &out); err != nil {
		span.SetAttributes(attribute.Bool("success", false))
		return nil, err
	}

	span.SetAttributes(
		attribute.Bool("success", true),
		attribute.Int("entries", len(out.List)),
	)
	return &out, nil
}

func (c *OpenWeatherClient) get(ctx context.Context, path string, lat, lon float64, out interface{}) error {
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return &Error{Kind: KindHTTP, Provider: openWeatherProvider, Err: err}
	}

	q := u.Query()
	q.Set("lat", fmt.Sprintf("%.6f", lat))
	q.Set("lon", fmt.Sprintf("%.6f", lon))
	q.Set("appid", c.apiKey)
	q.Set("units", c.units)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return &Error{Kind: KindHTTP, Provider: openWeatherProvider, Err: err}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn("OpenWeatherMap request failed",
			zap.String("path", path),
			zap.Error(err))
		return &Error{Kind: KindNetwork, Provider: openWeatherProvider, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Kind: KindNetwork, Provider: openWeatherProvider, Err: err}
	}

	// The provider signals auth failures in the body's cod field rather
	// than relying on the HTTP status.
	var status apiStatus
	_ = json.Unmarshal(body, &status)
	code := status.code()

	if code == http.StatusUnauthorized || resp.StatusCode == http.StatusUnauthorized {
		c.logger.Warn("OpenWeatherMap rejected API key", zap.String("path", path))
		return &Error{
			Kind:     KindAuth,
			Provider: openWeatherProvider,
			Status:   http.StatusUnauthorized,
			Message:  status.Message,
		}
	}

	if resp.StatusCode != http.StatusOK {
		return &Error{
			Kind:     KindHTTP,
			Provider: openWeatherProvider,
			Status:   resp.StatusCode,
			Message:  status.Message,
		}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return &Error{Kind: KindHTTP, Provider: openWeatherProvider, Message: "malformed response body", Err: err}
	}

	return nil
}

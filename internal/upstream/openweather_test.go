package upstream

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/projectavishkar/krishimitra/internal/config"
	"github.com/projectavishkar/krishimitra/pkg/telemetry"
	"go.uber.org/zap/zaptest"
)

func newOpenWeatherClient(t *testing.T, baseURL string) *OpenWeatherClient {
	cfg := config.WeatherConfig{
		BaseURL: baseURL,
		APIKey:  "test-key",
		Units:   "metric",
		Timeout: 5,
	}
	return NewOpenWeatherClientWithConfig(cfg, zaptest.NewLogger(t), &telemetry.Telemetry{})
}

func TestOpenWeatherCurrentWeather(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/weather" {
			t.Errorf("Expected path /weather, got %s", r.URL.Path)
		}
		if r.URL.Query().Get("appid") != "test-key" {
			t.Errorf("Expected appid test-key, got %s", r.URL.Query().Get("appid"))
		}
		if r.URL.Query().Get("units") != "metric" {
			t.Errorf("Expected metric units, got %s", r.URL.Query().Get("units"))
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"cod": 200,
			"name": "Nagpur",
			"visibility": 8000,
			"weather": [{"main": "Clouds", "description": "scattered clouds", "icon": "03d"}],
			"main": {"temp": 31.2, "feels_like": 34.0, "pressure": 1008, "humidity": 62},
			"wind": {"speed": 4.1, "deg": 220},
			"sys": {"sunrise": 1700000000, "sunset": 1700040000}
		}`))
	}))
	defer srv.Close()

	client := newOpenWeatherClient(t, srv.URL)

	current, err := client.CurrentWeather(context.Background(), 21.1458, 79.0882)
	if err != nil {
		t.Fatalf("CurrentWeather returned error: %v", err)
	}

	if current.Name != "Nagpur" {
		t.Errorf("Expected location Nagpur, got %s", current.Name)
	}
	if current.Main.Temp != 31.2 {
		t.Errorf("Expected temp 31.2, got %f", current.Main.Temp)
	}
	if current.Wind.Deg != 220 {
		t.Errorf("Expected wind direction 220, got %d", current.Wind.Deg)
	}
	if len(current.Weather) != 1 || current.Weather[0].Main != "Clouds" {
		t.Errorf("Expected Clouds condition, got %+v", current.Weather)
	}
}

func TestOpenWeatherAuthErrorInBody(t *testing.T) {
	// The provider reports bad keys through the cod field, sometimes with a
	// 200 status and sometimes with the cod encoded as a string.
	cases := []struct {
		name   string
		status int
		body   string
	}{
		{"numeric cod", http.StatusOK, `{"cod": 401, "message": "Invalid API key"}`},
		{"string cod", http.StatusUnauthorized, `{"cod": "401", "message": "Invalid API key"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			client := newOpenWeatherClient(t, srv.URL)

			_, err := client.CurrentWeather(context.Background(), 21.0, 79.0)
			if err == nil {
				t.Fatal("Expected error for auth failure")
			}

			var ue *Error
			if !errors.As(err, &ue) {
				t.Fatalf("Expected *Error, got %T", err)
			}
			if ue.Kind != KindAuth {
				t.Errorf("Expected auth kind, got %s", ue.Kind)
			}
		})
	}
}

func TestOpenWeatherHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"cod": 500, "message": "internal error"}`))
	}))
	defer srv.Close()

	client := newOpenWeatherClient(t, srv.URL)

	_, err := client.Forecast(context.Background(), 21.0, 79.0)
	if KindOf(err) != KindHTTP {
		t.Errorf("Expected http kind, got %s (%v)", KindOf(err), err)
	}
}

func TestOpenWeatherNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := newOpenWeatherClient(t, srv.URL)

	_, err := client.CurrentWeather(context.Background(), 21.0, 79.0)
	if KindOf(err) != KindNetwork {
		t.Errorf("Expected network kind, got %s (%v)", KindOf(err), err)
	}
}

func TestOpenWeatherForecastEntries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/forecast" {
			t.Errorf("Expected path /forecast, got %s", r.URL.Path)
		}
		w.Write([]byte(`{
			"cod": "200",
			"list": [
				{"dt": 1700100000, "main": {"temp": 29.4, "temp_min": 24.0, "temp_max": 30.1, "humidity": 55}, "weather": [{"main": "Clear", "icon": "01d"}], "wind": {"speed": 3.2}},
				{"dt": 1700110800, "main": {"temp": 30.6, "temp_min": 25.0, "temp_max": 31.0, "humidity": 50}, "weather": [{"main": "Clouds", "icon": "02d"}], "wind": {"speed": 2.8}}
			],
			"city": {"name": "Nagpur", "timezone": 19800}
		}`))
	}))
	defer srv.Close()

	client := newOpenWeatherClient(t, srv.URL)

	forecast, err := client.Forecast(context.Background(), 21.0, 79.0)
	if err != nil {
		t.Fatalf("Forecast returned error: %v", err)
	}

	if len(forecast.List) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(forecast.List))
	}
	if forecast.List[0].Weather[0].Main != "Clear" {
		t.Errorf("Expected Clear, got %s", forecast.List[0].Weather[0].Main)
	}
	if forecast.City.Name != "Nagpur" {
		t.Errorf("Expected city Nagpur, got %s", forecast.City.Name)
	}
}

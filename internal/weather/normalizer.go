package weather

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/projectavishkar/krishimitra/internal/config"
	"github.com/projectavishkar/krishimitra/internal/upstream"
	"github.com/projectavishkar/krishimitra/pkg/telemetry"
	"go.uber.org/zap"
)

// Fetcher is the slice of the upstream client the normalizer depends on.
type Fetcher interface {
	CurrentWeather(ctx context.Context, lat, lon float64) (*upstream.CurrentConditions, error)
	Forecast(ctx context.Context, lat, lon float64) (*upstream.ForecastResponse, error)
}

// MetricsRecorder interface for recording metrics
type MetricsRecorder interface {
	RecordUpstreamCall(ctx context.Context, provider string, success bool)
	RecordFallback(ctx context.Context, component string)
}

// Service is the weather resilience boundary: GetWeather never fails, every
// upstream error degrades to a synthetic snapshot.
type Service struct {
	fetcher        Fetcher
	uvIndexDefault int
	logger         *zap.Logger
	tele           *telemetry.Telemetry
	metrics        MetricsRecorder

	now    func() time.Time
	jitter JitterFunc
}

func NewService(fetcher Fetcher, cfg config.WeatherConfig, logger *zap.Logger, tele *telemetry.Telemetry) *Service {
	return &Service{
		fetcher:        fetcher,
		uvIndexDefault: cfg.DefaultUVIndex,
		logger:         logger,
		tele:           tele,
		now:            time.Now,
		jitter:         DefaultJitter,
	}
}

// SetMetricsRecorder sets the metrics recorder for the service
func (s *Service) SetMetricsRecorder(metrics MetricsRecorder) {
	s.metrics = metrics
}

// SetClock overrides the time source. Tests only.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// SetJitter overrides the randomness source. Tests only.
func (s *Service) SetJitter(jitter JitterFunc) {
	s.jitter = jitter
}

// GetWeather fetches current conditions and the forecast concurrently and
// normalizes them into a Snapshot. Any upstream failure, auth errors
// included, produces a fully synthetic snapshot instead of an error.
func (s *Service) GetWeather(ctx context.Context, lat, lon float64) *Snapshot {
	tracer := s.tele.GetTracer()
	ctx, span := tracer.Start(ctx, "weather.GetWeather")
	defer span.End()

	span.SetAttributes(
		attribute.Float64("lat", lat),
		attribute.Float64("lon", lon),
	)

	var (
		wg          sync.WaitGroup
		current     *upstream.CurrentConditions
		forecast    *upstream.ForecastResponse
		currentErr  error
		forecastErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		current, currentErr = s.fetcher.CurrentWeather(ctx, lat, lon)
	}()
	go func() {
		defer wg.Done()
		forecast, forecastErr = s.fetcher.Forecast(ctx, lat, lon)
	}()
	wg.Wait()

	if s.metrics != nil {
		s.metrics.RecordUpstreamCall(ctx, "openweathermap", currentErr == nil && forecastErr == nil)
	}

	if currentErr != nil || forecastErr != nil {
		err := currentErr
		if err == nil {
			err = forecastErr
		}
		s.logger.Warn("Weather upstream failed, serving synthetic snapshot",
			zap.Float64("lat", lat),
			zap.Float64("lon", lon),
			zap.String("kind", string(upstream.KindOf(err))),
			zap.Error(err))

		span.SetAttributes(attribute.Bool("synthetic", true))

		if s.metrics != nil {
			s.metrics.RecordFallback(ctx, "weather")
		}

		return SyntheticSnapshot(s.now(), s.uvIndexDefault, s.jitter)
	}

	span.SetAttributes(attribute.Bool("synthetic", false))

	snapshot := &Snapshot{
		Current:  s.normalizeCurrent(current),
		Forecast: s.selectForecastDays(forecast),
	}

	s.logger.Debug("Weather snapshot built",
		zap.String("location", snapshot.Current.LocationName),
		zap.Int("forecast_days", len(snapshot.Forecast)))

	return snapshot
}

func (s *Service) normalizeCurrent(raw *upstream.CurrentConditions) CurrentWeather {
	condition := ""
	description := ""
	icon := ""
	if len(raw.Weather) > 0 {
		condition = raw.Weather[0].Main
		description = raw.Weather[0].Description
		icon = raw.Weather[0].Icon
	}

	visibility := raw.Visibility
	if visibility == 0 {
		visibility = 10000
	}

	return CurrentWeather{
		Temperature:   roundInt(raw.Main.Temp),
		Condition:     condition,
		Description:   description,
		Icon:          icon,
		Humidity:      raw.Main.Humidity,
		WindSpeed:     windKmh(raw.Wind.Speed),
		WindDirection: raw.Wind.Deg,
		Pressure:      raw.Main.Pressure,
		Visibility:    roundInt(float64(visibility) / 1000),
		FeelsLike:     roundInt(raw.Main.FeelsLike),
		DewPoint:      dewPoint(raw.Main.Temp, raw.Main.Humidity),
		UVIndex:       s.uvIndexDefault,
		Sunrise:       raw.Sys.Sunrise,
		Sunset:        raw.Sys.Sunset,
		LocationName:  raw.Name,
	}
}

// selectForecastDays collapses the 3-hourly forecast into 5 distinct future
// calendar days: entries dated today are skipped, the first entry seen per
// future date wins, and missing days are synthesized on dates no real entry
// claimed. The result is chronological.
func (s *Service) selectForecastDays(raw *upstream.ForecastResponse) []ForecastDay {
	now := s.now()
	loc := now.Location()
	today := now.In(loc).Format("2006-01-02")

	days := make([]ForecastDay, 0, 5)
	seen := make(map[string]bool)

	for _, entry := range raw.List {
		if len(days) == 5 {
			break
		}

		ts := time.Unix(entry.Dt, 0).In(loc)
		dateKey := ts.Format("2006-01-02")
		if dateKey == today || seen[dateKey] {
			continue
		}
		seen[dateKey] = true

		condition := ""
		icon := ""
		if len(entry.Weather) > 0 {
			condition = entry.Weather[0].Main
			icon = entry.Weather[0].Icon
		}

		days = append(days, ForecastDay{
			Timestamp: entry.Dt,
			Temp:      roundInt(entry.Main.Temp),
			TempMin:   roundInt(entry.Main.TempMin),
			TempMax:   roundInt(entry.Main.TempMax),
			Condition: condition,
			IconCode:  icon,
			DayLabel:  ts.Format("Mon"),
			Humidity:  entry.Main.Humidity,
			WindSpeed: windKmh(entry.Wind.Speed),
		})
	}

	// Fill the remaining slots, skipping dates a real entry already covers
	// so a gapped upstream list cannot produce duplicate calendar days.
	for offset := 1; len(days) < 5; offset++ {
		key := now.AddDate(0, 0, offset).Format("2006-01-02")
		if seen[key] {
			continue
		}
		seen[key] = true
		days = append(days, SyntheticDay(now, offset, s.jitter))
	}

	sort.Slice(days, func(i, j int) bool { return days[i].Timestamp < days[j].Timestamp })

	return days
}

// dewPoint uses the standard linear approximation.
func dewPoint(temp float64, humidity int) int {
	return roundInt(temp - float64(100-humidity)/5)
}

// windKmh converts the provider's m/s wind speed to km/h.
func windKmh(metersPerSecond float64) int {
	return roundInt(metersPerSecond * 3.6)
}

func roundInt(v float64) int {
	return int(math.Round(v))
}

package weather

import (
	"math/rand"
	"time"
)

// JitterFunc supplies the pseudo-random variation applied to synthetic
// forecast values. It must return an int in [0, n). Injecting it keeps the
// fallback path deterministic in tests.
type JitterFunc func(n int) int

// DefaultJitter is the production randomness source.
func DefaultJitter(n int) int {
	return rand.Intn(n)
}

// NoJitter removes all variation from synthetic data.
func NoJitter(int) int {
	return 0
}

var conditionPalette = []struct {
	condition string
	icon      string
}{
	{"Clear", "01d"},
	{"Clouds", "02d"},
	{"Rain", "10d"},
	{"Thunderstorm", "11d"},
	{"Drizzle", "09d"},
}

const syntheticBaseTemp = 28

// SyntheticDay builds one plausible forecast day for base+dayOffset. The
// condition cycles through a fixed palette and the temperature drops about
// one degree per day so consecutive synthetic days look like a real outlook.
func SyntheticDay(base time.Time, dayOffset int, jitter JitterFunc) ForecastDay {
	date := base.AddDate(0, 0, dayOffset)
	p := conditionPalette[(dayOffset-1+len(conditionPalette))%len(conditionPalette)]
	baseTemp := syntheticBaseTemp - (dayOffset - 1)

	return ForecastDay{
		Timestamp: date.Unix(),
		Temp:      baseTemp + jitter(3),
		TempMin:   baseTemp - 3 - jitter(3),
		TempMax:   baseTemp + 2 + jitter(3),
		Condition: p.condition,
		IconCode:  p.icon,
		DayLabel:  date.Format("Mon"),
		Humidity:  45 + jitter(30),
		WindSpeed: 3 + jitter(8),
	}
}

// SyntheticSnapshot builds a complete fallback snapshot: fixed clear-sky
// current conditions plus five synthetic days starting tomorrow. The
// location name is set to the fallback sentinel.
func SyntheticSnapshot(now time.Time, uvIndex int, jitter JitterFunc) *Snapshot {
	forecast := make([]ForecastDay, 0, 5)
	for offset := 1; offset <= 5; offset++ {
		forecast = append(forecast, SyntheticDay(now, offset, jitter))
	}

	sunrise := time.Date(now.Year(), now.Month(), now.Day(), 6, 30, 0, 0, now.Location())
	sunset := time.Date(now.Year(), now.Month(), now.Day(), 18, 30, 0, 0, now.Location())

	return &Snapshot{
		Current: CurrentWeather{
			Temperature:   28,
			Condition:     "Clear",
			Description:   "clear sky",
			Icon:          "01d",
			Humidity:      45,
			WindSpeed:     5,
			WindDirection: 180,
			Pressure:      1013,
			Visibility:    10,
			FeelsLike:     30,
			DewPoint:      18,
			UVIndex:       uvIndex,
			Sunrise:       sunrise.Unix(),
			Sunset:        sunset.Unix(),
			LocationName:  FallbackLocationName,
		},
		Forecast: forecast,
	}
}

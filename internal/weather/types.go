package weather

// FallbackLocationName marks a snapshot that was synthesized because the
// upstream provider could not be reached. Callers and tests use it to tell
// real data from demo data.
const FallbackLocationName = "Demo Location (API Error)"

// CurrentWeather is the normalized current-conditions block. Every field is
// always populated; missing upstream fields are defaulted during
// normalization.
type CurrentWeather struct {
	Temperature   int    `json:"temperature"`
	Condition     string `json:"condition"`
	Description   string `json:"description"`
	Icon          string `json:"icon"`
	Humidity      int    `json:"humidity"`
	WindSpeed     int    `json:"wind_speed"`
	WindDirection int    `json:"wind_direction"`
	Pressure      int    `json:"pressure"`
	Visibility    int    `json:"visibility"`
	FeelsLike     int    `json:"feels_like"`
	DewPoint      int    `json:"dew_point"`
	UVIndex       int    `json:"uv_index"`
	Sunrise       int64  `json:"sunrise"`
	Sunset        int64  `json:"sunset"`
	LocationName  string `json:"location_name"`
}

// ForecastDay is one normalized day of the 5-day outlook.
type ForecastDay struct {
	Timestamp int64  `json:"timestamp"`
	Temp      int    `json:"temp"`
	TempMin   int    `json:"temp_min"`
	TempMax   int    `json:"temp_max"`
	Condition string `json:"condition"`
	IconCode  string `json:"icon_code"`
	DayLabel  string `json:"day_label"`
	Humidity  int    `json:"humidity"`
	WindSpeed int    `json:"wind_speed"`
}

// Snapshot is the normalized weather result for one location. Forecast
// always holds exactly 5 entries with distinct ascending calendar dates.
type Snapshot struct {
	Current  CurrentWeather `json:"current"`
	Forecast []ForecastDay  `json:"forecast"`
}

// IsSynthetic reports whether the snapshot was built from fallback data.
func (s *Snapshot) IsSynthetic() bool {
	return s.Current.LocationName == FallbackLocationName
}

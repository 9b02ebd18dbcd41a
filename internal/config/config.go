package config

import (
	"sync/atomic"
)

var configValue atomic.Value

func GetConfig() *Config {
	return configValue.Load().(*Config)
}

func SetConfig(cfg *Config) {
	configValue.Store(cfg)
}

type Config struct {
	Version     string           `mapstructure:"version"`
	Environment string           `mapstructure:"environment"`
	Server      ServerConfig     `mapstructure:"server"`
	Weather     WeatherConfig    `mapstructure:"weather"`
	Gemini      GeminiConfig     `mapstructure:"gemini"`
	LocalModel  LocalModelConfig `mapstructure:"local_model"`
	Logging     LoggingConfig    `mapstructure:"logging"`
	Telemetry   TelemetryConfig  `mapstructure:"telemetry"`
}

type ServerConfig struct {
	Port         int    `mapstructure:"port"`
	Host         string `mapstructure:"host"`
	ReadTimeout  int    `mapstructure:"read_timeout"`
	WriteTimeout int    `mapstructure:"write_timeout"`
	IdleTimeout  int    `mapstructure:"idle_timeout"`
}

// WeatherConfig configures the OpenWeatherMap upstream.
type WeatherConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	APIKey         string `mapstructure:"api_key"`
	Units          string `mapstructure:"units"`
	Timeout        int    `mapstructure:"timeout"`
	DefaultUVIndex int    `mapstructure:"default_uv_index"`
}

// GeminiConfig configures the generative-AI upstream used for disease
// detection and the farming assistant.
type GeminiConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	Timeout int    `mapstructure:"timeout"`
}

// LocalModelConfig configures the optional on-premise plant-disease
// classifier. When disabled, disease detection runs on the vision model alone.
type LocalModelConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	BaseURL string `mapstructure:"base_url"`
	Timeout int    `mapstructure:"timeout"`
}

type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type TelemetryConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
}

func NewDefaultConfig() *Config {
	return &Config{
		Version:     "1.0.0",
		Environment: "development",
		Server: ServerConfig{
			Port:         8080,
			Host:         "0.0.0.0",
			ReadTimeout:  30,
			WriteTimeout: 30,
			IdleTimeout:  60,
		},
		Weather: WeatherConfig{
			BaseURL:        "https://api.openweathermap.org/data/2.5",
			APIKey:         "",
			Units:          "metric",
			Timeout:        10,
			DefaultUVIndex: 6,
		},
		Gemini: GeminiConfig{
			BaseURL: "https://generativelanguage.googleapis.com/v1beta",
			APIKey:  "",
			Model:   "gemini-2.0-flash",
			Timeout: 30,
		},
		LocalModel: LocalModelConfig{
			Enabled: false,
			BaseURL: "http://localhost:9000",
			Timeout: 15,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			OutputPath: "",
		},
		Telemetry: TelemetryConfig{
			Enabled:  false,
			Endpoint: "tempo:4317",
		},
	}
}

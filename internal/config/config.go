package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Provider names selectable via WEATHER_PROVIDER.
const (
	ProviderQWeather  = "qweather"
	ProviderOpenMeteo = "openmeteo"
)

type AppConfig struct {
	// QWeather credentials for the token-based history provider.
	QWeatherAPIKey  string
	QWeatherAPIHost string

	// DefaultLocation is the fallback location token when a request
	// carries neither project nor location nor coordinates.
	DefaultLocation string

	// Provider selects the upstream history source.
	Provider string

	// GeocoderAPIKey enables city-name geocoding for the Open-Meteo
	// provider (Google key, optional).
	GeocoderAPIKey string

	// HTTPTimeout bounds each outbound provider call.
	HTTPTimeout time.Duration

	Port string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.QWeatherAPIKey = os.Getenv("QWEATHER_API_KEY")
	cfg.QWeatherAPIHost = getenvDefault("QWEATHER_API_HOST", "https://devapi.qweather.com")
	cfg.DefaultLocation = os.Getenv("WEATHER_DEFAULT_LOCATION")
	cfg.GeocoderAPIKey = os.Getenv("GEOCODER_API_KEY")

	provider := getenvDefault("WEATHER_PROVIDER", ProviderQWeather)
	if provider != ProviderQWeather && provider != ProviderOpenMeteo {
		return nil, fmt.Errorf("invalid WEATHER_PROVIDER: %q", provider)
	}
	cfg.Provider = provider

	timeoutStr := getenvDefault("HTTP_TIMEOUT", "15s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	cfg.Port = getenvDefault("PORT", "8080")

	if cfg.Provider == ProviderQWeather && cfg.QWeatherAPIKey == "" {
		log.Println("WARN: QWEATHER_API_KEY is not set; history queries will fail")
	}

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

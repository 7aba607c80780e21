package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/kelvins/geocoder"
	"github.com/sony/gobreaker"

	"github.com/Rockson98/ShuZhiYuanHistoryWeather-api/internal/weather"
)

const openMeteoHourlyFields = "temperature_2m,relative_humidity_2m,windspeed_10m,cloudcover,shortwave_radiation"

// OpenMeteoProvider implements weather.HistoryProvider for the
// Open-Meteo archive API (no API key required). It queries by
// coordinates with a single-day range and zips the parallel hourly
// arrays into row records for the normalizer. When a location has no
// coordinates, the city name is geocoded (needs a Google API key).
type OpenMeteoProvider struct {
	name        string
	baseURL     string
	geocoderKey string
	client      *http.Client
	circuit     *gobreaker.CircuitBreaker
}

func NewOpenMeteoProvider(client *http.Client, geocoderAPIKey string) *OpenMeteoProvider {
	return &OpenMeteoProvider{
		name:        "openmeteo",
		baseURL:     "https://archive-api.open-meteo.com/v1/archive",
		geocoderKey: geocoderAPIKey,
		client:      client,
		circuit:     newBreaker("openmeteo"),
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

func (p *OpenMeteoProvider) FetchHistory(ctx context.Context, loc weather.ResolvedLocation, date string) ([]weather.RawHourlyRecord, error) {
	lat, lon := loc.Lat, loc.Lon
	if lat == nil || lon == nil {
		glat, glon, err := p.geocode(loc)
		if err != nil {
			return nil, err
		}
		lat, lon = &glat, &glon
	}

	values := url.Values{}
	values.Set("latitude", fmt.Sprintf("%f", *lat))
	values.Set("longitude", fmt.Sprintf("%f", *lon))
	values.Set("start_date", date)
	values.Set("end_date", date)
	values.Set("hourly", openMeteoHourlyFields)
	values.Set("timezone", "Asia/Shanghai")

	req, err := http.NewRequest(http.MethodGet, fmt.Sprintf("%s?%s", p.baseURL, values.Encode()), nil)
	if err != nil {
		return nil, err
	}

	resp, err := doRequest(ctx, p.client, p.circuit, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload struct {
		Error  bool   `json:"error"`
		Reason string `json:"reason"`
		Hourly struct {
			Time        []string   `json:"time"`
			Temperature []*float64 `json:"temperature_2m"`
			Humidity    []*float64 `json:"relative_humidity_2m"`
			WindSpeed   []*float64 `json:"windspeed_10m"`
			Cloud       []*float64 `json:"cloudcover"`
			Radiation   []*float64 `json:"shortwave_radiation"`
		} `json:"hourly"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: openmeteo response parse failed (status %d): %v", weather.ErrUpstream, resp.StatusCode, err)
	}

	if payload.Error || resp.StatusCode != http.StatusOK {
		reason := payload.Reason
		if reason == "" {
			reason = fmt.Sprintf("http %d", resp.StatusCode)
		}
		return nil, fmt.Errorf("%w: openmeteo archive request failed: %s", weather.ErrUpstream, reason)
	}

	h := payload.Hourly
	records := make([]weather.RawHourlyRecord, 0, len(h.Time))
	for i, t := range h.Time {
		rec := weather.RawHourlyRecord{"fxTime": t}
		if v := at(h.Temperature, i); v != nil {
			rec["temp"] = *v
		}
		if v := at(h.Humidity, i); v != nil {
			rec["humidity"] = *v
		}
		if v := at(h.WindSpeed, i); v != nil {
			rec["windSpeed"] = *v
		}
		if v := at(h.Cloud, i); v != nil {
			rec["cloud"] = *v
		}
		if v := at(h.Radiation, i); v != nil {
			rec["shortwave_radiation"] = *v
		}
		records = append(records, rec)
	}
	return records, nil
}

// geocode resolves a city-name location to coordinates. The geocoder key
// is process-wide in the kelvins library, set once per call site.
func (p *OpenMeteoProvider) geocode(loc weather.ResolvedLocation) (float64, float64, error) {
	if p.geocoderKey == "" {
		return 0, 0, fmt.Errorf("%w: openmeteo requires latitude and longitude", weather.ErrInvalidRequest)
	}

	city := loc.Token
	if loc.Project != nil && loc.Project.City != "" {
		city = loc.Project.City
	}
	if city == "" {
		return 0, 0, fmt.Errorf("%w: openmeteo requires latitude and longitude or a city name", weather.ErrInvalidRequest)
	}

	geocoder.ApiKey = p.geocoderKey
	coords, err := geocoder.Geocoding(geocoder.Address{City: city})
	if err != nil {
		return 0, 0, fmt.Errorf("%w: geocoding %q failed: %v", weather.ErrUpstream, city, err)
	}
	return coords.Latitude, coords.Longitude, nil
}

func at(vals []*float64, i int) *float64 {
	if i < len(vals) {
		return vals[i]
	}
	return nil
}

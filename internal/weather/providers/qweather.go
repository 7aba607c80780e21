package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/sony/gobreaker"

	"github.com/Rockson98/ShuZhiYuanHistoryWeather-api/internal/weather"
)

const qweatherHistoryPath = "/v7/historical/weather"

// QWeatherProvider implements weather.HistoryProvider for the QWeather
// historical API. It needs an API key and a location token; the date
// travels in compact YYYYMMDD form.
type QWeatherProvider struct {
	name    string
	apiKey  string
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

func NewQWeatherProvider(client *http.Client, apiKey, host string) *QWeatherProvider {
	return &QWeatherProvider{
		name:    "qweather",
		apiKey:  apiKey,
		baseURL: normalizeHost(host),
		client:  client,
		circuit: newBreaker("qweather"),
	}
}

// normalizeHost tolerates env values without a scheme or with a
// trailing slash.
func normalizeHost(host string) string {
	host = strings.TrimRight(strings.TrimSpace(host), "/")
	if host == "" {
		host = "https://devapi.qweather.com"
	}
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "https://" + host
	}
	return host
}

func (p *QWeatherProvider) Name() string {
	return p.name
}

func (p *QWeatherProvider) FetchHistory(ctx context.Context, loc weather.ResolvedLocation, date string) ([]weather.RawHourlyRecord, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("%w: qweather api key is not configured", weather.ErrUpstream)
	}

	token := loc.Token
	if token == "" && loc.Lat != nil && loc.Lon != nil {
		// QWeather accepts "lon,lat" as a location identifier.
		token = fmt.Sprintf("%.2f,%.2f", *loc.Lon, *loc.Lat)
	}
	if token == "" {
		return nil, fmt.Errorf("%w: qweather requires a location token", weather.ErrInvalidRequest)
	}

	values := url.Values{}
	values.Set("location", token)
	values.Set("date", strings.ReplaceAll(date, "-", ""))
	values.Set("key", p.apiKey)

	req, err := http.NewRequest(http.MethodGet, fmt.Sprintf("%s%s?%s", p.baseURL, qweatherHistoryPath, values.Encode()), nil)
	if err != nil {
		return nil, err
	}

	resp, err := doRequest(ctx, p.client, p.circuit, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload struct {
		Code    string                    `json:"code"`
		Message string                    `json:"message"`
		Hourly  []weather.RawHourlyRecord `json:"hourly"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: qweather response parse failed (status %d): %v", weather.ErrUpstream, resp.StatusCode, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: qweather history request failed: %s", weather.ErrUpstream, upstreamDetail(payload.Message, payload.Code, resp.StatusCode))
	}
	if payload.Code != "200" {
		return nil, fmt.Errorf("%w: qweather returned code=%s: %s", weather.ErrUpstream, payload.Code, upstreamDetail(payload.Message, payload.Code, resp.StatusCode))
	}

	return payload.Hourly, nil
}

func upstreamDetail(message, code string, status int) string {
	if message != "" {
		return message
	}
	if code != "" {
		return "code=" + code
	}
	return fmt.Sprintf("http %d", status)
}

package weather

import "context"

// RawHourlyRecord is one untyped hourly row as handed over by a provider.
// Keys follow the QWeather naming (fxTime/obsTime, temp, humidity,
// windSpeed, cloud, shortwave_radiation); values may be missing, null,
// or of the wrong type — the normalizer coerces them.
type RawHourlyRecord map[string]any

// HistoryProvider abstracts an upstream historical-weather source
// (e.g. QWeather, Open-Meteo). Implementations perform exactly one
// outbound call per invocation and do not retry. A successful response
// with no hourly entries yields an empty slice, not an error.
type HistoryProvider interface {
	Name() string
	FetchHistory(ctx context.Context, loc ResolvedLocation, date string) ([]RawHourlyRecord, error)
}

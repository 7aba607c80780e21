package weather

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// Irradiance fallback model: a flat clear-sky base of 1000 W/m² between
// local hours 6 and 18 inclusive, reduced linearly by cloud cover.
// Upstream direct shortwave radiation, when present, wins verbatim.
const (
	sunriseHour        = 6
	sunsetHour         = 18
	clearSkyIrradiance = 1000.0
)

// tzUTC8 is the fixed civil timezone all timestamps are normalized to.
var tzUTC8 = time.FixedZone("UTC+8", 8*60*60)

// timestampLayouts lists accepted upstream encodings. Layouts without an
// offset are parsed directly in UTC+8: both upstreams are asked for
// Asia/Shanghai local times, so a naive timestamp is already civil UTC+8.
var timestampLayouts = []struct {
	layout string
	naive  bool
}{
	{time.RFC3339, false},
	{"2006-01-02T15:04Z07:00", false},
	{"2006-01-02T15:04:05", true},
	{"2006-01-02T15:04", true},
	{"2006-01-02 15:04:05", true},
}

// Normalize converts raw hourly rows into the uniform item sequence and
// computes the daily average irradiance. Malformed records are skipped,
// never failing the whole batch; a record without a parseable timestamp
// cannot be placed in the sequence and is dropped. Returns
// ErrEmptyHistory when nothing usable remains.
//
// The two passes are deliberate: items are built first while irradiance
// values accumulate, then the batch average is back-filled into every
// item, so each item carries the same daily figure.
func Normalize(records []RawHourlyRecord) ([]HourlyItem, float64, error) {
	items := make([]HourlyItem, 0, len(records))
	irrVals := make([]float64, 0, len(records))

	for _, rec := range records {
		ts, ok := recordTime(rec)
		if !ok {
			continue
		}
		local := ts.In(tzUTC8)

		temp := toFloat(rec["temp"])
		hum := toFloat(rec["humidity"])
		if hum != nil {
			scaled := *hum / 100.0
			hum = &scaled
		}
		wind := toFloat(rec["windSpeed"])
		cloud := toFloat(rec["cloud"])
		radiation := toFloat(rec["shortwave_radiation"])

		irr := estimateIrradiance(radiation, local.Hour(), cloud)
		irrVals = append(irrVals, irr)

		items = append(items, HourlyItem{
			Timestamp:            local.Format(time.RFC3339),
			Temperature:          temp,
			Humidity:             hum,
			WindSpeed:            wind,
			Cloud:                cloud,
			RealTimeIrradiance:   irr,
			HorizontalIrradiance: irr,
			TiltedIrradiance:     irr,
			Sunshine:             sunshineRatio(cloud),
		})
	}

	var dailyAvg float64
	if len(irrVals) > 0 {
		var sum float64
		for _, v := range irrVals {
			sum += v
		}
		dailyAvg = sum / float64(len(irrVals))
	}
	for i := range items {
		items[i].DailyAvgIrradiance = dailyAvg
	}

	if len(items) == 0 {
		return nil, 0, ErrEmptyHistory
	}
	return items, dailyAvg, nil
}

// estimateIrradiance derives one hour's irradiance in W/m². Upstream
// direct radiation is used verbatim when non-negative; otherwise the
// flat cloud-reduction fallback applies inside daylight hours.
func estimateIrradiance(direct *float64, hourLocal int, cloud *float64) float64 {
	if direct != nil && *direct >= 0 {
		return *direct
	}
	if hourLocal < sunriseHour || hourLocal > sunsetHour {
		return 0.0
	}
	return clearSkyIrradiance * (1.0 - cloudRatio(cloud))
}

// cloudRatio clamps cloud cover into [0,100] and scales to [0,1].
// Unknown cloud counts as clear sky.
func cloudRatio(cloud *float64) float64 {
	if cloud == nil {
		return 0.0
	}
	return math.Min(math.Max(*cloud, 0), 100) / 100.0
}

func sunshineRatio(cloud *float64) *float64 {
	if cloud == nil {
		return nil
	}
	v := math.Max(0.0, 1.0-cloudRatio(cloud))
	return &v
}

// recordTime reads the forecast-style field first, then the
// observation-style one.
func recordTime(rec RawHourlyRecord) (time.Time, bool) {
	raw, _ := rec["fxTime"].(string)
	if raw == "" {
		raw, _ = rec["obsTime"].(string)
	}
	if raw == "" {
		return time.Time{}, false
	}
	return parseTimestamp(raw)
}

func parseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, l := range timestampLayouts {
		if l.naive {
			if t, err := time.ParseInLocation(l.layout, s, tzUTC8); err == nil {
				return t, true
			}
			continue
		}
		if t, err := time.Parse(l.layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// toFloat coerces an untyped upstream value to a float, returning nil on
// anything it cannot interpret. QWeather delivers numbers as strings;
// Open-Meteo delivers JSON numbers.
func toFloat(v any) *float64 {
	switch n := v.(type) {
	case float64:
		return &n
	case float32:
		f := float64(n)
		return &f
	case int:
		f := float64(n)
		return &f
	case int64:
		f := float64(n)
		return &f
	case json.Number:
		if f, err := n.Float64(); err == nil {
			return &f
		}
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil {
			return &f
		}
	}
	return nil
}

package weather

import (
	"errors"
	"fmt"
	"math"
	"testing"
)

func fptr(v float64) *float64 {
	return &v
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestEstimateIrradianceUsesDirectRadiation(t *testing.T) {
	// Upstream radiation wins verbatim, regardless of hour and cloud.
	for _, v := range []float64{0, 15.5, 123.4, 987} {
		got := estimateIrradiance(fptr(v), 3, fptr(100))
		if got != v {
			t.Fatalf("expected %v, got %v", v, got)
		}
	}
}

func TestEstimateIrradianceNegativeRadiationFallsBack(t *testing.T) {
	got := estimateIrradiance(fptr(-1), 12, nil)
	if got != 1000.0 {
		t.Fatalf("expected fallback 1000, got %v", got)
	}
}

func TestEstimateIrradianceNightHoursZero(t *testing.T) {
	for _, hour := range []int{0, 3, 5, 19, 23} {
		if got := estimateIrradiance(nil, hour, fptr(0)); got != 0 {
			t.Fatalf("hour %d: expected 0, got %v", hour, got)
		}
	}
}

func TestEstimateIrradianceDaylightFallback(t *testing.T) {
	cases := []struct {
		hour  int
		cloud *float64
		want  float64
	}{
		{12, nil, 1000},       // unknown cloud counts as clear sky
		{12, fptr(0), 1000},   // clear
		{12, fptr(50), 500},   // half cover
		{12, fptr(100), 0},    // overcast
		{12, fptr(150), 0},    // clamped high
		{12, fptr(-20), 1000}, // clamped low
		{6, fptr(0), 1000},    // window boundaries are inclusive
		{18, fptr(0), 1000},
	}
	for _, tc := range cases {
		got := estimateIrradiance(nil, tc.hour, tc.cloud)
		if !almostEqual(got, tc.want) {
			t.Fatalf("hour=%d cloud=%v: expected %v, got %v", tc.hour, tc.cloud, tc.want, got)
		}
	}
}

func TestNormalizeHumidityScaling(t *testing.T) {
	items, _, err := Normalize([]RawHourlyRecord{
		{"fxTime": "2024-11-28T10:00+08:00", "humidity": "75", "temp": "25.5"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if items[0].Humidity == nil || !almostEqual(*items[0].Humidity, 0.75) {
		t.Fatalf("expected humidity 0.75, got %v", items[0].Humidity)
	}
	if items[0].Temperature == nil || *items[0].Temperature != 25.5 {
		t.Fatalf("expected temperature 25.5, got %v", items[0].Temperature)
	}
}

func TestNormalizeDropsRecordsWithoutTimestamp(t *testing.T) {
	items, avg, err := Normalize([]RawHourlyRecord{
		{"temp": "20"},                                   // no timestamp at all
		{"fxTime": "definitely not a time", "temp": "21"}, // unparseable
		{"fxTime": "2024-11-28T10:00+08:00", "cloud": float64(0)},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 surviving item, got %d", len(items))
	}
	// Average reflects only the surviving record.
	if !almostEqual(avg, 1000.0) {
		t.Fatalf("expected average 1000, got %v", avg)
	}
}

func TestNormalizeCoercionFailureKeepsRecord(t *testing.T) {
	items, _, err := Normalize([]RawHourlyRecord{
		{"fxTime": "2024-11-28T10:00+08:00", "temp": "not-a-number", "windSpeed": "12"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if items[0].Temperature != nil {
		t.Fatalf("expected nil temperature, got %v", *items[0].Temperature)
	}
	if items[0].WindSpeed == nil || *items[0].WindSpeed != 12 {
		t.Fatalf("expected wind speed 12, got %v", items[0].WindSpeed)
	}
}

func TestNormalizeObsTimeFallback(t *testing.T) {
	items, _, err := Normalize([]RawHourlyRecord{
		{"obsTime": "2024-11-28T10:00+08:00"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if items[0].Timestamp != "2024-11-28T10:00:00+08:00" {
		t.Fatalf("unexpected timestamp %q", items[0].Timestamp)
	}
}

func TestNormalizeConvertsOffsetsToUTC8(t *testing.T) {
	// 04:00 UTC is noon in UTC+8, so the daylight fallback applies.
	items, _, err := Normalize([]RawHourlyRecord{
		{"fxTime": "2024-11-28T04:00+00:00"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if items[0].Timestamp != "2024-11-28T12:00:00+08:00" {
		t.Fatalf("unexpected timestamp %q", items[0].Timestamp)
	}
	if items[0].RealTimeIrradiance != 1000.0 {
		t.Fatalf("expected noon irradiance 1000, got %v", items[0].RealTimeIrradiance)
	}
}

func TestNormalizeNaiveTimestampIsLocal(t *testing.T) {
	// Open-Meteo returns naive Asia/Shanghai local times.
	items, _, err := Normalize([]RawHourlyRecord{
		{"fxTime": "2024-11-28T07:00"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if items[0].Timestamp != "2024-11-28T07:00:00+08:00" {
		t.Fatalf("unexpected timestamp %q", items[0].Timestamp)
	}
	if items[0].RealTimeIrradiance != 1000.0 {
		t.Fatalf("expected hour 7 in the daylight window, got irradiance %v", items[0].RealTimeIrradiance)
	}
}

func TestNormalizeCloudyDayScenario(t *testing.T) {
	// 13 hourly records for local hours 0-12 with half cloud cover and
	// no radiation: hours 6-12 estimate at 500, hours 0-5 at zero.
	records := make([]RawHourlyRecord, 0, 13)
	for h := 0; h <= 12; h++ {
		records = append(records, RawHourlyRecord{
			"fxTime": fmt.Sprintf("2024-11-28T%02d:00+08:00", h),
			"cloud":  float64(50),
		})
	}

	items, avg, err := Normalize(records)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 13 {
		t.Fatalf("expected 13 items, got %d", len(items))
	}

	for i, item := range items {
		want := 0.0
		if i >= 6 {
			want = 500.0
		}
		if !almostEqual(item.RealTimeIrradiance, want) {
			t.Fatalf("hour %d: expected irradiance %v, got %v", i, want, item.RealTimeIrradiance)
		}
		if item.HorizontalIrradiance != item.RealTimeIrradiance || item.TiltedIrradiance != item.RealTimeIrradiance {
			t.Fatalf("hour %d: horizontal/tilted must mirror real-time irradiance", i)
		}
		if item.Sunshine == nil || !almostEqual(*item.Sunshine, 0.5) {
			t.Fatalf("hour %d: expected sunshine 0.5, got %v", i, item.Sunshine)
		}
	}

	wantAvg := (7*500.0 + 6*0.0) / 13.0
	if !almostEqual(avg, wantAvg) {
		t.Fatalf("expected daily average %v, got %v", wantAvg, avg)
	}
	for i, item := range items {
		if !almostEqual(item.DailyAvgIrradiance, wantAvg) {
			t.Fatalf("item %d: expected back-filled average %v, got %v", i, wantAvg, item.DailyAvgIrradiance)
		}
	}
}

func TestNormalizeSingleItemAverage(t *testing.T) {
	items, avg, err := Normalize([]RawHourlyRecord{
		{"fxTime": "2024-11-28T10:00+08:00", "shortwave_radiation": 321.5},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if items[0].RealTimeIrradiance != 321.5 {
		t.Fatalf("expected direct radiation 321.5, got %v", items[0].RealTimeIrradiance)
	}
	if avg != 321.5 || items[0].DailyAvgIrradiance != 321.5 {
		t.Fatalf("single-item average must equal the value, got avg=%v item=%v", avg, items[0].DailyAvgIrradiance)
	}
}

func TestNormalizeEmptyInput(t *testing.T) {
	if _, _, err := Normalize(nil); !errors.Is(err, ErrEmptyHistory) {
		t.Fatalf("expected ErrEmptyHistory, got %v", err)
	}
	// All records malformed collapses to empty as well.
	_, _, err := Normalize([]RawHourlyRecord{
		{"temp": "20"},
		{"fxTime": "garbage"},
	})
	if !errors.Is(err, ErrEmptyHistory) {
		t.Fatalf("expected ErrEmptyHistory, got %v", err)
	}
}

func TestNormalizeSunshineUnknownCloud(t *testing.T) {
	items, _, err := Normalize([]RawHourlyRecord{
		{"fxTime": "2024-11-28T10:00+08:00"},
		{"fxTime": "2024-11-28T11:00+08:00", "cloud": float64(25)},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if items[0].Sunshine != nil {
		t.Fatalf("expected nil sunshine for unknown cloud, got %v", *items[0].Sunshine)
	}
	if items[1].Sunshine == nil || !almostEqual(*items[1].Sunshine, 0.75) {
		t.Fatalf("expected sunshine 0.75, got %v", items[1].Sunshine)
	}
}

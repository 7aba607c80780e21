package weather

// HourlyItem is one normalized hour of historical weather for a site.
// Optional fields are nil when the upstream value was missing or
// malformed. Humidity is scaled to [0,1], cloud stays in [0,100].
type HourlyItem struct {
	Timestamp   string   `json:"timestamp"` // ISO-8601, fixed UTC+8 offset
	Temperature *float64 `json:"temperature"`
	Humidity    *float64 `json:"humidity"`
	WindSpeed   *float64 `json:"wind_speed"`
	Cloud       *float64 `json:"cloud"`

	// RealTimeIrradiance is the derived irradiance in W/m².
	// DailyAvgIrradiance carries the same batch-level average on
	// every item of a response; it is back-filled after the whole
	// batch has been built.
	RealTimeIrradiance   float64 `json:"real_time_irradiance"`
	DailyAvgIrradiance   float64 `json:"daily_avg_irradiance"`
	HorizontalIrradiance float64 `json:"horizontal_irradiance"`
	TiltedIrradiance     float64 `json:"tilted_irradiance"`

	Sunshine *float64 `json:"sunshine"` // 1 - cloud/100, in [0,1]
}

// HistoryResponse is the outward shape of one site-day query.
// Items preserve upstream chronological order.
type HistoryResponse struct {
	Location           string       `json:"location"`
	Date               string       `json:"date"` // YYYY-MM-DD
	Count              int          `json:"count"`
	Items              []HourlyItem `json:"items"`
	DailyAvgIrradiance float64      `json:"daily_avg_irradiance"`
}

package weather

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Rockson98/ShuZhiYuanHistoryWeather-api/internal/catalog"
)

// Service answers site-day history queries: resolve the location, fetch
// raw hourly records from the configured provider, normalize them, and
// assemble the response. Request-scoped; no state is shared across
// requests beyond the read-only catalog.
type Service struct {
	catalog         *catalog.Catalog
	provider        HistoryProvider
	defaultLocation string
}

// NewService creates a new Service.
func NewService(cat *catalog.Catalog, provider HistoryProvider, defaultLocation string) *Service {
	return &Service{
		catalog:         cat,
		provider:        provider,
		defaultLocation: defaultLocation,
	}
}

// HistoryParams carries one query's inputs. Date defaults to yesterday
// in UTC+8 when empty.
type HistoryParams struct {
	LocationParams
	Date string
}

// History runs the full pipeline for one request.
func (s *Service) History(ctx context.Context, p HistoryParams) (HistoryResponse, error) {
	date := p.Date
	if date == "" {
		date = time.Now().In(tzUTC8).AddDate(0, 0, -1).Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", date); err != nil {
		return HistoryResponse{}, fmt.Errorf("%w: invalid date %q, expected YYYY-MM-DD", ErrInvalidRequest, p.Date)
	}

	loc, err := Resolve(s.catalog, s.defaultLocation, p.LocationParams)
	if err != nil {
		return HistoryResponse{}, err
	}

	log.Printf("history query: location=%s date=%s provider=%s", loc.Label, date, s.provider.Name())

	records, err := s.provider.FetchHistory(ctx, loc, date)
	if err != nil {
		return HistoryResponse{}, err
	}

	items, dailyAvg, err := Normalize(records)
	if err != nil {
		return HistoryResponse{}, err
	}

	return HistoryResponse{
		Location:           loc.Label,
		Date:               date,
		Count:              len(items),
		Items:              items,
		DailyAvgIrradiance: dailyAvg,
	}, nil
}

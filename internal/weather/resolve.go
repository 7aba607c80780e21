package weather

import (
	"fmt"

	"github.com/Rockson98/ShuZhiYuanHistoryWeather-api/internal/catalog"
)

// LocationParams carries the caller's optional location inputs.
type LocationParams struct {
	ProjectID string
	Location  string
	Latitude  *float64
	Longitude *float64
}

// ResolvedLocation is the effective location a provider should query.
// Token is an upstream location identifier (QWeather location ID or a
// city name); Lat/Lon are set when coordinates are known. Label is the
// display name used in responses.
type ResolvedLocation struct {
	Label   string
	Token   string
	Lat     *float64
	Lon     *float64
	Project *catalog.Project
}

// Resolve determines the effective location for a request. Catalog
// projects take precedence; explicit coordinates override a project's.
// With no project, explicit inputs or the configured default location
// must supply something to query, else ErrInvalidRequest.
func Resolve(cat *catalog.Catalog, defaultLocation string, p LocationParams) (ResolvedLocation, error) {
	loc := ResolvedLocation{
		Lat: p.Latitude,
		Lon: p.Longitude,
	}

	if proj := cat.Find(p.ProjectID); proj != nil {
		loc.Project = proj
		loc.Label = proj.Name
		switch {
		case proj.LocationToken != "":
			loc.Token = proj.LocationToken
		case proj.City != "":
			loc.Token = proj.City
		default:
			loc.Token = proj.Name
		}
		if loc.Lat == nil {
			lat := proj.Latitude
			loc.Lat = &lat
		}
		if loc.Lon == nil {
			lon := proj.Longitude
			loc.Lon = &lon
		}
		return loc, nil
	}

	if p.Location != "" {
		loc.Token = p.Location
	} else if loc.Lat == nil || loc.Lon == nil {
		loc.Token = defaultLocation
	}

	if loc.Token == "" && (loc.Lat == nil || loc.Lon == nil) {
		return ResolvedLocation{}, fmt.Errorf(
			"%w: location is required (set location, latitude+longitude, project_id, or WEATHER_DEFAULT_LOCATION)",
			ErrInvalidRequest)
	}

	switch {
	case loc.Lat != nil && loc.Lon != nil && p.Location == "":
		loc.Label = fmt.Sprintf("%g,%g", *loc.Lat, *loc.Lon)
	default:
		loc.Label = loc.Token
	}
	return loc, nil
}

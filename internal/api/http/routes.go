package httpapi

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/Rockson98/ShuZhiYuanHistoryWeather-api/internal/weather"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *weather.Service) {
	app.Get("/weather/history", func(c *fiber.Ctx) error {
		var req historyQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		resp, err := service.History(c.Context(), req.toParams())
		if err != nil {
			switch {
			case errors.Is(err, weather.ErrInvalidRequest):
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			case errors.Is(err, weather.ErrEmptyHistory):
				return fiber.NewError(fiber.StatusNotFound, err.Error())
			case errors.Is(err, weather.ErrUpstream):
				return fiber.NewError(fiber.StatusBadGateway, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}

		return c.JSON(resp)
	})
}

// historyQuery holds query parameters for the history endpoint.
// All parameters are optional; the resolver decides whether enough
// location information was supplied.
type historyQuery struct {
	Date      string `validate:"omitempty,datetime=2006-01-02"`
	Location  string
	ProjectID string
	Latitude  *float64
	Longitude *float64
}

func (h *historyQuery) bind(c *fiber.Ctx) error {
	h.Date = c.Query("date")
	h.Location = c.Query("location")
	h.ProjectID = c.Query("project_id")

	lat, err := parseFloatQuery(c, "latitude")
	if err != nil {
		return err
	}
	lon, err := parseFloatQuery(c, "longitude")
	if err != nil {
		return err
	}
	h.Latitude = lat
	h.Longitude = lon
	return nil
}

func (h historyQuery) toParams() weather.HistoryParams {
	return weather.HistoryParams{
		LocationParams: weather.LocationParams{
			ProjectID: h.ProjectID,
			Location:  h.Location,
			Latitude:  h.Latitude,
			Longitude: h.Longitude,
		},
		Date: h.Date,
	}
}

func parseFloatQuery(c *fiber.Ctx, name string) (*float64, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %q", name, raw)
	}
	return &v, nil
}

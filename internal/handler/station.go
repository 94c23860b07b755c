package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/coolie-booking/internal/repository"
)

// PublicHandler exposes unauthenticated reference-data reads.
type PublicHandler struct {
	Stations *repository.StationRepo
}

func NewPublicHandler(st *repository.StationRepo) *PublicHandler {
	return &PublicHandler{Stations: st}
}

type stationView struct {
	ID       uint64  `json:"id"`
	Code     string  `json:"code"`
	Name     string  `json:"name"`
	Location *string `json:"location,omitempty"`
}

// ListStations handles GET /v1/stations. The route sits behind the
// Redis response cache; station data changes rarely.
func (h *PublicHandler) ListStations(c echo.Context) error {
	stations, err := h.Stations.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	views := make([]stationView, 0, len(stations))
	for _, s := range stations {
		views = append(views, stationView{ID: s.ID, Code: s.Code, Name: s.Name, Location: s.Location})
	}
	return c.JSON(http.StatusOK, echo.Map{"stations": views})
}

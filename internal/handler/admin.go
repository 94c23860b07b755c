package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/coolie-booking/internal/repository"
)

// AdminHandler serves the admin panel surfaces with real backing
// logic: coolie KYC verification and station management. Routes
// using it sit behind RequireRole(ADMIN).
type AdminHandler struct {
	Coolies  *repository.CoolieRepo
	Stations *repository.StationRepo
}

func NewAdminHandler(co *repository.CoolieRepo, st *repository.StationRepo) *AdminHandler {
	return &AdminHandler{Coolies: co, Stations: st}
}

type coolieAdminView struct {
	ID          uint64  `json:"id"`
	Name        string  `json:"name"`
	Phone       string  `json:"phone"`
	IsAvailable bool    `json:"is_available"`
	KYCVerified bool    `json:"kyc_verified"`
	Earnings    float64 `json:"earnings"`
}

type stationReq struct {
	Code     string  `json:"code"`
	Name     string  `json:"name"`
	Location *string `json:"location"`
}

// ListCoolies handles GET /v1/admin/coolies. The optional
// ?verified=true|false query narrows the list, which is how the
// verification screen fetches its pending queue.
func (h *AdminHandler) ListCoolies(c echo.Context) error {
	var verified *bool
	if q := c.QueryParam("verified"); q != "" {
		v, err := strconv.ParseBool(q)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid verified filter"})
		}
		verified = &v
	}
	coolies, err := h.Coolies.List(c.Request().Context(), verified)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	views := make([]coolieAdminView, 0, len(coolies))
	for _, co := range coolies {
		views = append(views, coolieAdminView{
			ID:          co.ID,
			Name:        co.Name,
			Phone:       co.Phone,
			IsAvailable: co.IsAvailable,
			KYCVerified: co.KYCVerified,
			Earnings:    co.Earnings,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"coolies": views})
}

// VerifyCoolie handles POST /v1/admin/coolies/:id/verify. Clearing
// KYC is what admits a coolie into the assignment pool.
func (h *AdminHandler) VerifyCoolie(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid coolie id"})
	}
	if err := h.Coolies.Verify(c.Request().Context(), id); err != nil {
		if err == repository.ErrCoolieNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Coolie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Coolie verified"})
}

// CreateStation handles POST /v1/admin/stations.
func (h *AdminHandler) CreateStation(c echo.Context) error {
	var req stationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Code = strings.TrimSpace(req.Code)
	req.Name = strings.TrimSpace(req.Name)
	if req.Code == "" || req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "code and name are required"})
	}
	id, err := h.Stations.Create(c.Request().Context(), req.Code, req.Name, req.Location)
	if err != nil {
		if err == repository.ErrStationExists {
			return c.JSON(http.StatusConflict, echo.Map{"error": "station code already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"station_id": id})
}

// UpdateStation handles PUT /v1/admin/stations/:id.
func (h *AdminHandler) UpdateStation(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid station id"})
	}
	var req stationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	if err := h.Stations.Update(c.Request().Context(), id, req.Name, req.Location); err != nil {
		if err == repository.ErrStationNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Station not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Station updated"})
}

// DeleteStation handles DELETE /v1/admin/stations/:id.
func (h *AdminHandler) DeleteStation(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid station id"})
	}
	if err := h.Stations.Delete(c.Request().Context(), id); err != nil {
		if err == repository.ErrStationNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Station not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.NoContent(http.StatusNoContent)
}

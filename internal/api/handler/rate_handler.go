package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/carparking/parking-system/internal/core/domain"
	"github.com/carparking/parking-system/internal/core/ports"
)

// RateHandler handles HTTP requests for the rate registry.
type RateHandler struct {
	service ports.RateService
}

func NewRateHandler(service ports.RateService) *RateHandler {
	return &RateHandler{service: service}
}

type addRateRequest struct {
	HourlyRate float64 `json:"hourly_rate" validate:"required,gt=0"`
}

type rateResponse struct {
	ID         int64     `json:"id"`
	HourlyRate float64   `json:"hourly_rate"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
}

func toRateResponse(r domain.Rate) rateResponse {
	return rateResponse{
		ID:         r.ID,
		HourlyRate: domain.FloatFromCents(r.HourlyRateCents),
		IsActive:   r.IsActive,
		CreatedAt:  r.CreatedAt,
	}
}

// Create handles POST /v1/rates, activating a new hourly rate.
//
// @Summary      Set a new hourly rate
// @Tags         rates
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      addRateRequest  true  "Hourly rate in dollars"
// @Success      201   {object}  rateResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /v1/rates [post]
func (h *RateHandler) Create(c echo.Context) error {
	var req addRateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	rate, err := h.service.AddRate(c.Request().Context(), domain.CentsFromFloat(req.HourlyRate))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, toRateResponse(*rate))
}

// Current handles GET /v1/rates/current.
//
// @Summary      Get the active hourly rate
// @Tags         rates
// @Produce      json
// @Success      200  {object}  rateResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/rates/current [get]
func (h *RateHandler) Current(c echo.Context) error {
	rate, err := h.service.CurrentRate(c.Request().Context())
	if err != nil {
		// The registry being empty is a missing resource here, unlike the
		// exit path where the same condition is a validation failure.
		if errors.Is(err, domain.ErrRateNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return err
	}
	return c.JSON(http.StatusOK, toRateResponse(*rate))
}

// List handles GET /v1/rates, the full rate history, newest first.
//
// @Summary      List all rates
// @Tags         rates
// @Produce      json
// @Success      200  {array}  rateResponse
// @Router       /v1/rates [get]
func (h *RateHandler) List(c echo.Context) error {
	rates, err := h.service.ListRates(c.Request().Context())
	if err != nil {
		return err
	}

	out := make([]rateResponse, 0, len(rates))
	for _, r := range rates {
		out = append(out, toRateResponse(r))
	}
	return c.JSON(http.StatusOK, out)
}

package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/carparking/parking-system/internal/core/domain"
	"github.com/carparking/parking-system/internal/core/ports"
)

// MovementHandler handles vehicle entry/exit and the operator views.
type MovementHandler struct {
	service ports.MovementService
}

func NewMovementHandler(service ports.MovementService) *MovementHandler {
	return &MovementHandler{service: service}
}

type entryRequest struct {
	Plate string `json:"plate" validate:"required"`
	Zone  string `json:"zone"`
}

type activeVehicleResponse struct {
	SessionID     int64     `json:"session_id"`
	Plate         string    `json:"plate"`
	EntryTime     time.Time `json:"entry_time"`
	DurationHours float64   `json:"duration_hours"`
	Zone          string    `json:"zone,omitempty"`
	CustomerName  string    `json:"customer_name"`
}

type exitLogEntryResponse struct {
	SessionID     int64     `json:"session_id"`
	Plate         string    `json:"plate"`
	EntryTime     time.Time `json:"entry_time"`
	ExitTime      time.Time `json:"exit_time"`
	DurationHours float64   `json:"duration_hours"`
	Fee           *float64  `json:"fee,omitempty"`
	IsPaid        bool      `json:"is_paid"`
	CustomerName  string    `json:"customer_name"`
}

type exitResponse struct {
	Session       sessionResponse `json:"session"`
	DurationHours float64         `json:"duration_hours"`
}

// Entry handles POST /v1/sessions/entry.
//
// @Summary      Record a vehicle entry
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      entryRequest  true  "Plate and optional zone"
// @Success      201   {object}  sessionResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /v1/sessions/entry [post]
func (h *MovementHandler) Entry(c echo.Context) error {
	userID, role, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req entryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.service.RecordEntry(c.Request().Context(), ports.EntryInput{
		Plate:     req.Plate,
		Zone:      req.Zone,
		ActorID:   userID,
		ActorRole: role,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, toSessionResponse(result.Session, result.CustomerName))
}

// Exit handles POST /v1/sessions/:plate/exit.
//
// @Summary      Record a vehicle exit
// @Tags         sessions
// @Produce      json
// @Security     BearerAuth
// @Param        plate  path      string  true  "License plate"
// @Success      200    {object}  exitResponse
// @Failure      400    {object}  errorResponse
// @Failure      404    {object}  errorResponse
// @Router       /v1/sessions/{plate}/exit [post]
func (h *MovementHandler) Exit(c echo.Context) error {
	result, err := h.service.RecordExit(c.Request().Context(), c.Param("plate"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, exitResponse{
		Session:       toSessionResponse(result.Session, ""),
		DurationHours: durationHours(result.Duration),
	})
}

// Active handles GET /v1/sessions/active.
//
// @Summary      List currently parked vehicles
// @Tags         sessions
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   activeVehicleResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/sessions/active [get]
func (h *MovementHandler) Active(c echo.Context) error {
	userID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	vehicles, err := h.service.ListActive(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	out := make([]activeVehicleResponse, 0, len(vehicles))
	for _, v := range vehicles {
		out = append(out, activeVehicleResponse{
			SessionID:     v.SessionID,
			Plate:         domain.DisplayPlate(v.Plate),
			EntryTime:     v.EntryTime,
			DurationHours: durationHours(v.Duration),
			Zone:          string(v.Zone),
			CustomerName:  v.CustomerName,
		})
	}
	return c.JSON(http.StatusOK, out)
}

// ExitLog handles GET /v1/sessions/exit-log.
//
// @Summary      List recent exits
// @Tags         sessions
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query     int  false  "Maximum rows (default 50)"
// @Success      200    {array}   exitLogEntryResponse
// @Failure      401    {object}  errorResponse
// @Router       /v1/sessions/exit-log [get]
func (h *MovementHandler) ExitLog(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	entries, err := h.service.ExitLog(c.Request().Context(), limit)
	if err != nil {
		return err
	}

	out := make([]exitLogEntryResponse, 0, len(entries))
	for _, e := range entries {
		resp := exitLogEntryResponse{
			SessionID:     e.SessionID,
			Plate:         domain.DisplayPlate(e.Plate),
			EntryTime:     e.EntryTime,
			ExitTime:      e.ExitTime,
			DurationHours: durationHours(e.Duration),
			IsPaid:        e.IsPaid,
			CustomerName:  e.CustomerName,
		}
		if e.FeeCents != nil {
			fee := domain.FloatFromCents(*e.FeeCents)
			resp.Fee = &fee
		}
		out = append(out, resp)
	}
	return c.JSON(http.StatusOK, out)
}

// RecomputeFee handles POST /v1/sessions/:id/recompute-fee.
//
// @Summary      Recompute a missing fee
// @Tags         sessions
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      int  true  "Session ID"
// @Success      200  {object}  exitResponse
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /v1/sessions/{id}/recompute-fee [post]
func (h *MovementHandler) RecomputeFee(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid session id")
	}

	result, err := h.service.RecomputeFee(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, exitResponse{
		Session:       toSessionResponse(result.Session, ""),
		DurationHours: durationHours(result.Duration),
	})
}

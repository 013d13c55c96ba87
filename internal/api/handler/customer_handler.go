package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/carparking/parking-system/internal/core/domain"
	"github.com/carparking/parking-system/internal/core/ports"
)

// CustomerHandler handles the customer self-service surface.
type CustomerHandler struct {
	service ports.CustomerService
}

func NewCustomerHandler(service ports.CustomerService) *CustomerHandler {
	return &CustomerHandler{service: service}
}

type addCreditRequest struct {
	Amount            float64 `json:"amount"              validate:"required,gt=0"`
	BankAccountNumber string  `json:"bank_account_number" validate:"required"`
	CardNumber        string  `json:"card_number"         validate:"required"`
}

type registerPlateRequest struct {
	Plate string `json:"plate" validate:"required"`
}

type balanceResponse struct {
	Balance float64 `json:"balance"`
}

type platesResponse struct {
	Plates []string `json:"plates"`
}

type currentParkingResponse struct {
	IsParked      bool       `json:"is_parked"`
	SessionID     int64      `json:"session_id,omitempty"`
	Plate         string     `json:"plate,omitempty"`
	EntryTime     *time.Time `json:"entry_time,omitempty"`
	Zone          string     `json:"zone,omitempty"`
	DurationHours float64    `json:"duration_hours,omitempty"`
	EstimatedFee  float64    `json:"estimated_fee,omitempty"`
}

type historyEntryResponse struct {
	SessionID     int64     `json:"session_id"`
	Plate         string    `json:"plate"`
	EntryTime     time.Time `json:"entry_time"`
	ExitTime      time.Time `json:"exit_time"`
	DurationHours float64   `json:"duration_hours"`
	Fee           *float64  `json:"fee,omitempty"`
	IsPaid        bool      `json:"is_paid"`
	Zone          string    `json:"zone,omitempty"`
	PaymentMethod string    `json:"payment_method,omitempty"`
}

type customerStatsResponse struct {
	TotalVisits     int64   `json:"total_visits"`
	TotalSpent      float64 `json:"total_spent"`
	CurrentlyParked bool    `json:"currently_parked"`
	UnpaidAmount    float64 `json:"unpaid_amount"`
}

// AddCredit handles POST /v1/customers/me/credit.
//
// @Summary      Top up account credit
// @Tags         customers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      addCreditRequest  true  "Amount and funding source"
// @Success      200   {object}  balanceResponse
// @Failure      400   {object}  errorResponse
// @Router       /v1/customers/me/credit [post]
func (h *CustomerHandler) AddCredit(c echo.Context) error {
	userID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req addCreditRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	balance, err := h.service.AddCredit(c.Request().Context(), ports.AddCreditInput{
		CustomerID:        userID,
		AmountCents:       domain.CentsFromFloat(req.Amount),
		BankAccountNumber: req.BankAccountNumber,
		CardNumber:        req.CardNumber,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, balanceResponse{Balance: domain.FloatFromCents(balance)})
}

// Balance handles GET /v1/customers/me/balance.
//
// @Summary      Get account credit balance
// @Tags         customers
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  balanceResponse
// @Router       /v1/customers/me/balance [get]
func (h *CustomerHandler) Balance(c echo.Context) error {
	userID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	balance, err := h.service.Balance(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, balanceResponse{Balance: domain.FloatFromCents(balance)})
}

// RegisterPlate handles POST /v1/customers/me/plates.
//
// @Summary      Register a plate to the account
// @Tags         customers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      registerPlateRequest  true  "License plate"
// @Success      201   {object}  platesResponse
// @Failure      400   {object}  errorResponse
// @Router       /v1/customers/me/plates [post]
func (h *CustomerHandler) RegisterPlate(c echo.Context) error {
	userID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req registerPlateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	plates, err := h.service.RegisterPlate(c.Request().Context(), userID, req.Plate)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, platesResponse{Plates: plates})
}

// UnregisterPlate handles DELETE /v1/customers/me/plates/:plate.
//
// @Summary      Remove a registered plate
// @Tags         customers
// @Produce      json
// @Security     BearerAuth
// @Param        plate  path      string  true  "License plate"
// @Success      200    {object}  platesResponse
// @Failure      404    {object}  errorResponse
// @Router       /v1/customers/me/plates/{plate} [delete]
func (h *CustomerHandler) UnregisterPlate(c echo.Context) error {
	userID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	plates, err := h.service.UnregisterPlate(c.Request().Context(), userID, c.Param("plate"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, platesResponse{Plates: plates})
}

// ListPlates handles GET /v1/customers/me/plates.
//
// @Summary      List registered plates
// @Tags         customers
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  platesResponse
// @Router       /v1/customers/me/plates [get]
func (h *CustomerHandler) ListPlates(c echo.Context) error {
	userID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	plates, err := h.service.ListPlates(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, platesResponse{Plates: plates})
}

// CurrentParking handles GET /v1/customers/me/current-parking.
//
// @Summary      Current parking status
// @Tags         customers
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  currentParkingResponse
// @Router       /v1/customers/me/current-parking [get]
func (h *CustomerHandler) CurrentParking(c echo.Context) error {
	userID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	parking, err := h.service.CurrentParking(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	resp := currentParkingResponse{IsParked: parking.IsParked}
	if parking.IsParked {
		entry := parking.EntryTime
		resp.SessionID = parking.SessionID
		resp.Plate = domain.DisplayPlate(parking.Plate)
		resp.EntryTime = &entry
		resp.Zone = string(parking.Zone)
		resp.DurationHours = durationHours(parking.Duration)
		resp.EstimatedFee = domain.FloatFromCents(parking.EstimatedFeeCents)
	}
	return c.JSON(http.StatusOK, resp)
}

// History handles GET /v1/customers/me/parking-history.
//
// @Summary      Parking history
// @Tags         customers
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  historyEntryResponse
// @Router       /v1/customers/me/parking-history [get]
func (h *CustomerHandler) History(c echo.Context) error {
	userID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	entries, err := h.service.ParkingHistory(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	out := make([]historyEntryResponse, 0, len(entries))
	for _, e := range entries {
		resp := historyEntryResponse{
			SessionID:     e.SessionID,
			Plate:         domain.DisplayPlate(e.Plate),
			EntryTime:     e.EntryTime,
			ExitTime:      e.ExitTime,
			DurationHours: durationHours(e.Duration),
			IsPaid:        e.IsPaid,
			Zone:          string(e.Zone),
		}
		if e.FeeCents != nil {
			fee := domain.FloatFromCents(*e.FeeCents)
			resp.Fee = &fee
		}
		if e.PaymentMethod != nil {
			resp.PaymentMethod = string(*e.PaymentMethod)
		}
		out = append(out, resp)
	}
	return c.JSON(http.StatusOK, out)
}

// Stats handles GET /v1/customers/me/stats.
//
// @Summary      Account activity summary
// @Tags         customers
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  customerStatsResponse
// @Router       /v1/customers/me/stats [get]
func (h *CustomerHandler) Stats(c echo.Context) error {
	userID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	stats, err := h.service.Stats(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, customerStatsResponse{
		TotalVisits:     stats.TotalVisits,
		TotalSpent:      domain.FloatFromCents(stats.TotalSpentCents),
		CurrentlyParked: stats.CurrentlyParked,
		UnpaidAmount:    domain.FloatFromCents(stats.UnpaidCents),
	})
}

package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/carparking/parking-system/internal/core/domain"
	"github.com/carparking/parking-system/internal/core/ports"
)

// PaymentHandler handles the two settlement paths and receipt lookup.
type PaymentHandler struct {
	service ports.PaymentService
}

func NewPaymentHandler(service ports.PaymentService) *PaymentHandler {
	return &PaymentHandler{service: service}
}

type onSpotPaymentRequest struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
	Method string  `json:"method" validate:"required"`
}

type paymentReceiptResponse struct {
	PaymentID int64     `json:"payment_id"`
	SessionID int64     `json:"session_id"`
	Amount    float64   `json:"amount"`
	Method    string    `json:"method"`
	PaidAt    time.Time `json:"paid_at"`
}

type creditReceiptResponse struct {
	paymentReceiptResponse
	RemainingBalance float64 `json:"remaining_balance"`
}

type paymentResponse struct {
	ID        int64     `json:"id"`
	SessionID int64     `json:"session_id"`
	Amount    float64   `json:"amount"`
	Method    string    `json:"method"`
	Type      string    `json:"type"`
	PaidAt    time.Time `json:"paid_at"`
}

// PayOnSpot handles POST /v1/payments/:plate, the cashier-collected settlement.
//
// @Summary      Settle a parking fee on the spot
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        plate  path      string                true  "License plate"
// @Param        body   body      onSpotPaymentRequest  true  "Amount and method"
// @Success      200    {object}  paymentReceiptResponse
// @Failure      400    {object}  errorResponse
// @Failure      404    {object}  errorResponse
// @Router       /v1/payments/{plate} [post]
func (h *PaymentHandler) PayOnSpot(c echo.Context) error {
	var req onSpotPaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	receipt, err := h.service.ProcessOnSpot(c.Request().Context(), ports.OnSpotPaymentInput{
		Plate:       c.Param("plate"),
		AmountCents: domain.CentsFromFloat(req.Amount),
		Method:      req.Method,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toReceiptResponse(receipt))
}

// PayWithCredit handles POST /v1/sessions/:id/pay-with-credit.
//
// @Summary      Settle a parking fee from account credit
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      int  true  "Session ID"
// @Success      200  {object}  creditReceiptResponse
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/sessions/{id}/pay-with-credit [post]
func (h *PaymentHandler) PayWithCredit(c echo.Context) error {
	userID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	sessionID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid session id")
	}

	receipt, err := h.service.PayWithCredit(c.Request().Context(), userID, sessionID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, creditReceiptResponse{
		paymentReceiptResponse: toReceiptResponse(&receipt.PaymentReceipt),
		RemainingBalance:       domain.FloatFromCents(receipt.RemainingBalanceCents),
	})
}

// Get handles GET /v1/payments/:id for receipt lookup.
//
// @Summary      Get a payment receipt
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      int  true  "Payment ID"
// @Success      200  {object}  paymentResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/payments/{id} [get]
func (h *PaymentHandler) Get(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payment id")
	}

	p, err := h.service.GetPayment(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, paymentResponse{
		ID:        p.ID,
		SessionID: p.SessionID,
		Amount:    domain.FloatFromCents(p.AmountCents),
		Method:    string(p.Method),
		Type:      string(p.Type),
		PaidAt:    p.PaidAt,
	})
}

func toReceiptResponse(r *ports.PaymentReceipt) paymentReceiptResponse {
	return paymentReceiptResponse{
		PaymentID: r.PaymentID,
		SessionID: r.SessionID,
		Amount:    domain.FloatFromCents(r.AmountCents),
		Method:    string(r.Method),
		PaidAt:    r.PaidAt,
	}
}

package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/carparking/parking-system/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors. Detail
// fields are populated only for the typed payment errors.
type errorResponse struct {
	Error          string   `json:"error"`
	ExpectedAmount *float64 `json:"expected_amount,omitempty"`
	ProvidedAmount *float64 `json:"provided_amount,omitempty"`
	Required       *float64 `json:"required,omitempty"`
	Available      *float64 `json:"available,omitempty"`
	Shortfall      *float64 `json:"shortfall,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message)}
	}

	// Typed payment errors carry detail fields alongside the message.
	var mismatch *domain.AmountMismatchError
	if errors.As(err, &mismatch) {
		return http.StatusBadRequest, errorResponse{
			Error:          mismatch.Error(),
			ExpectedAmount: centsPtr(mismatch.ExpectedCents),
			ProvidedAmount: centsPtr(mismatch.ProvidedCents),
		}
	}
	var shortfall *domain.InsufficientBalanceError
	if errors.As(err, &shortfall) {
		return http.StatusBadRequest, errorResponse{
			Error:     shortfall.Error(),
			Required:  centsPtr(shortfall.RequiredCents),
			Available: centsPtr(shortfall.AvailableCents),
			Shortfall: centsPtr(shortfall.ShortfallCents()),
		}
	}

	// Known domain errors, deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrPaymentNotFound),
		errors.Is(err, domain.ErrCustomerNotFound),
		errors.Is(err, domain.ErrPlateNotFound),
		errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, errorResponse{Error: err.Error()}

	case errors.Is(err, domain.ErrRateNotFound),
		errors.Is(err, domain.ErrInvalidRate),
		errors.Is(err, domain.ErrInvalidZone),
		errors.Is(err, domain.ErrInvalidMethod),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrNotExited),
		errors.Is(err, domain.ErrNoFee),
		errors.Is(err, domain.ErrAlreadyPaid),
		errors.Is(err, domain.ErrEmptyPlate),
		errors.Is(err, domain.ErrPlateTaken),
		errors.Is(err, domain.ErrPlateRegistered),
		errors.Is(err, domain.ErrWrongPassword):
		return http.StatusBadRequest, errorResponse{Error: err.Error()}

	case errors.Is(err, domain.ErrFeeAlreadySet),
		errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict, errorResponse{Error: err.Error()}

	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrAccountInactive):
		return http.StatusUnauthorized, errorResponse{Error: err.Error()}

	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, errorResponse{Error: err.Error()}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Error: "internal server error"}
}

func centsPtr(cents int64) *float64 {
	v := domain.FloatFromCents(cents)
	return &v
}

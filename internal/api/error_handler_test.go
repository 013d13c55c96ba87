package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/carparking/parking-system/internal/core/domain"
)

func renderError(t *testing.T, err error) (int, map[string]any) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop())(err, c)

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	return rec.Code, body
}

func TestErrorHandler_DomainErrorCodes(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{domain.ErrSessionNotFound, http.StatusNotFound},
		{domain.ErrPaymentNotFound, http.StatusNotFound},
		{domain.ErrCustomerNotFound, http.StatusNotFound},
		{domain.ErrRateNotFound, http.StatusBadRequest},
		{domain.ErrAlreadyPaid, http.StatusBadRequest},
		{domain.ErrNotExited, http.StatusBadRequest},
		{domain.ErrInvalidMethod, http.StatusBadRequest},
		{domain.ErrPlateTaken, http.StatusBadRequest},
		{domain.ErrPlateRegistered, http.StatusBadRequest},
		{domain.ErrFeeAlreadySet, http.StatusConflict},
		{domain.ErrUserExists, http.StatusConflict},
		{domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{domain.ErrAccountInactive, http.StatusUnauthorized},
		{domain.ErrForbidden, http.StatusForbidden},
	}

	for _, tc := range cases {
		code, body := renderError(t, tc.err)
		if code != tc.code {
			t.Errorf("%v: code = %d, want %d", tc.err, code, tc.code)
		}
		if body["error"] != tc.err.Error() {
			t.Errorf("%v: body = %v", tc.err, body)
		}
	}
}

func TestErrorHandler_WrappedDomainError(t *testing.T) {
	code, _ := renderError(t, fmt.Errorf("gate event north-1/exit: %w", domain.ErrSessionNotFound))
	if code != http.StatusNotFound {
		t.Errorf("wrapped error code = %d, want 404", code)
	}
}

func TestErrorHandler_AmountMismatchDetail(t *testing.T) {
	code, body := renderError(t, &domain.AmountMismatchError{ExpectedCents: 15_00, ProvidedCents: 10_00})
	if code != http.StatusBadRequest {
		t.Fatalf("code = %d, want 400", code)
	}
	if body["expected_amount"] != 15.0 || body["provided_amount"] != 10.0 {
		t.Errorf("detail fields = %v", body)
	}
}

func TestErrorHandler_InsufficientBalanceDetail(t *testing.T) {
	code, body := renderError(t, &domain.InsufficientBalanceError{RequiredCents: 15_00, AvailableCents: 10_00})
	if code != http.StatusBadRequest {
		t.Fatalf("code = %d, want 400", code)
	}
	if body["required"] != 15.0 || body["available"] != 10.0 || body["shortfall"] != 5.0 {
		t.Errorf("detail fields = %v", body)
	}
}

func TestErrorHandler_EchoErrorPassthrough(t *testing.T) {
	code, body := renderError(t, echo.NewHTTPError(http.StatusUnprocessableEntity, "direction must be one of: entry exit"))
	if code != http.StatusUnprocessableEntity {
		t.Errorf("code = %d, want 422", code)
	}
	if body["error"] != "direction must be one of: entry exit" {
		t.Errorf("body = %v", body)
	}
}

func TestErrorHandler_UnknownErrorHidden(t *testing.T) {
	code, body := renderError(t, errors.New("pq: connection reset"))
	if code != http.StatusInternalServerError {
		t.Errorf("code = %d, want 500", code)
	}
	if body["error"] != "internal server error" {
		t.Errorf("internal detail leaked: %v", body)
	}
}

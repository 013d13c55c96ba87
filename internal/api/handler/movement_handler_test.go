package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/carparking/parking-system/internal/core/domain"
	"github.com/carparking/parking-system/internal/core/ports"
)

type stubMovementService struct {
	entryFn     func(ctx context.Context, input ports.EntryInput) (*ports.EntryResult, error)
	exitFn      func(ctx context.Context, plate string) (*ports.ExitResult, error)
	activeFn    func(ctx context.Context, ownerID int64) ([]ports.ActiveVehicle, error)
	exitLogFn   func(ctx context.Context, limit int) ([]ports.ExitLogEntry, error)
	recomputeFn func(ctx context.Context, sessionID int64) (*ports.ExitResult, error)
}

func (s *stubMovementService) RecordEntry(ctx context.Context, input ports.EntryInput) (*ports.EntryResult, error) {
	return s.entryFn(ctx, input)
}

func (s *stubMovementService) RecordExit(ctx context.Context, plate string) (*ports.ExitResult, error) {
	return s.exitFn(ctx, plate)
}

func (s *stubMovementService) ListActive(ctx context.Context, ownerID int64) ([]ports.ActiveVehicle, error) {
	return s.activeFn(ctx, ownerID)
}

func (s *stubMovementService) ExitLog(ctx context.Context, limit int) ([]ports.ExitLogEntry, error) {
	return s.exitLogFn(ctx, limit)
}

func (s *stubMovementService) RecomputeFee(ctx context.Context, sessionID int64) (*ports.ExitResult, error) {
	return s.recomputeFn(ctx, sessionID)
}

func TestMovementHandler_Entry_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubMovementService{
		entryFn: func(_ context.Context, input ports.EntryInput) (*ports.EntryResult, error) {
			if input.Plate != "ABC123" || input.Zone != "A" || input.ActorID != 1 || input.ActorRole != domain.RoleOwner {
				t.Fatalf("unexpected input: %+v", input)
			}
			return &ports.EntryResult{
				Session:      domain.Session{ID: 4, Plate: "abc123", EntryTime: time.Now().UTC(), Zone: domain.ZoneA},
				CustomerName: "Dana Cole",
			}, nil
		},
	}
	handler := NewMovementHandler(stub)

	c, rec := jsonRequest(e, http.MethodPost, "/v1/sessions/entry", `{"plate":"ABC123","zone":"A"}`)
	c.Set("user_id", int64(1))
	c.Set("role", domain.RoleOwner)

	if err := handler.Entry(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["plate"] != "ABC123" || resp["customer_name"] != "Dana Cole" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestMovementHandler_Entry_MissingClaims(t *testing.T) {
	e := newTestEcho()
	handler := NewMovementHandler(&stubMovementService{
		entryFn: func(context.Context, ports.EntryInput) (*ports.EntryResult, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	})

	c, _ := jsonRequest(e, http.MethodPost, "/v1/sessions/entry", `{"plate":"ABC123"}`)
	if code := httpErrorCode(handler.Entry(c)); code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", code)
	}
}

func TestMovementHandler_Exit_Success(t *testing.T) {
	e := newTestEcho()
	fee := int64(15_00)
	exit := time.Now().UTC()
	entry := exit.Add(-(2*time.Hour + 5*time.Minute))
	stub := &stubMovementService{
		exitFn: func(_ context.Context, plate string) (*ports.ExitResult, error) {
			if plate != "ABC123" {
				t.Fatalf("plate = %q", plate)
			}
			return &ports.ExitResult{
				Session:  domain.Session{ID: 4, Plate: "abc123", EntryTime: entry, ExitTime: &exit, FeeCents: &fee},
				Duration: exit.Sub(entry),
			}, nil
		},
	}
	handler := NewMovementHandler(stub)

	c, rec := jsonRequest(e, http.MethodPost, "/v1/sessions/ABC123/exit", "")
	c.SetParamNames("plate")
	c.SetParamValues("ABC123")

	if err := handler.Exit(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	session, ok := resp["session"].(map[string]any)
	if !ok || session["fee"] != 15.0 {
		t.Fatalf("unexpected session payload: %+v", resp["session"])
	}
	if resp["duration_hours"] != 2.08 {
		t.Errorf("duration_hours = %v, want 2.08", resp["duration_hours"])
	}
}

func TestMovementHandler_ExitLog_LimitPassthrough(t *testing.T) {
	e := newTestEcho()
	var gotLimit int
	handler := NewMovementHandler(&stubMovementService{
		exitLogFn: func(_ context.Context, limit int) ([]ports.ExitLogEntry, error) {
			gotLimit = limit
			return nil, nil
		},
	})

	c, rec := jsonRequest(e, http.MethodGet, "/v1/sessions/exit-log?limit=10", "")
	if err := handler.ExitLog(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if gotLimit != 10 {
		t.Errorf("limit = %d, want 10", gotLimit)
	}
	if rec.Body.String() != "[]\n" {
		t.Errorf("empty log must render as [], got %q", rec.Body.String())
	}
}

func TestMovementHandler_RecomputeFee_BadID(t *testing.T) {
	e := newTestEcho()
	handler := NewMovementHandler(&stubMovementService{
		recomputeFn: func(context.Context, int64) (*ports.ExitResult, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	})

	c, _ := jsonRequest(e, http.MethodPost, "/v1/sessions/abc/recompute-fee", "")
	c.SetParamNames("id")
	c.SetParamValues("abc")

	if code := httpErrorCode(handler.RecomputeFee(c)); code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", code)
	}
}

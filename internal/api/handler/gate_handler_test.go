package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/carparking/parking-system/internal/core/ports"
)

type stubDispatcher struct {
	events []ports.GateEventInput
}

func (d *stubDispatcher) Enqueue(event ports.GateEventInput) {
	d.events = append(d.events, event)
}

func (d *stubDispatcher) EnqueueBatch(events []ports.GateEventInput) {
	d.events = append(d.events, events...)
}

func TestGateHandler_Receive_Accepted(t *testing.T) {
	e := newTestEcho()
	dispatcher := &stubDispatcher{}
	handler := NewGateHandler(dispatcher)

	body := `{"plate":"ABC123","direction":"entry","timestamp":"2025-06-04T08:00:00Z","gate_id":"north-1","zone":"A"}`
	c, rec := jsonRequest(e, http.MethodPost, "/v1/gate-events", body)

	if err := handler.Receive(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rec.Code)
	}
	if len(dispatcher.events) != 1 {
		t.Fatalf("enqueued = %d, want 1", len(dispatcher.events))
	}
	if dispatcher.events[0].Plate != "ABC123" || dispatcher.events[0].GateID != "north-1" {
		t.Errorf("unexpected event: %+v", dispatcher.events[0])
	}
}

func TestGateHandler_Receive_Validation(t *testing.T) {
	e := newTestEcho()
	dispatcher := &stubDispatcher{}
	handler := NewGateHandler(dispatcher)

	body := `{"plate":"ABC123","direction":"sideways","timestamp":"2025-06-04T08:00:00Z","gate_id":"north-1"}`
	c, _ := jsonRequest(e, http.MethodPost, "/v1/gate-events", body)

	if code := httpErrorCode(handler.Receive(c)); code != http.StatusUnprocessableEntity {
		t.Errorf("bad direction status = %d, want 422", code)
	}
	if len(dispatcher.events) != 0 {
		t.Errorf("nothing should be enqueued on validation failure")
	}
}

func TestGateHandler_ReceiveBatch(t *testing.T) {
	e := newTestEcho()
	dispatcher := &stubDispatcher{}
	handler := NewGateHandler(dispatcher)

	body := `[
		{"plate":"ABC123","direction":"entry","timestamp":"2025-06-04T08:00:00Z","gate_id":"north-1"},
		{"plate":"XYZ987","direction":"exit","timestamp":"2025-06-04T08:00:01Z","gate_id":"south-2"}
	]`
	c, rec := jsonRequest(e, http.MethodPost, "/v1/gate-events/batch", body)

	if err := handler.ReceiveBatch(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["count"] != 2.0 {
		t.Errorf("count = %v, want 2", resp["count"])
	}
	if len(dispatcher.events) != 2 {
		t.Errorf("enqueued = %d, want 2", len(dispatcher.events))
	}
}

func TestGateHandler_ReceiveBatch_Empty(t *testing.T) {
	e := newTestEcho()
	handler := NewGateHandler(&stubDispatcher{})

	c, _ := jsonRequest(e, http.MethodPost, "/v1/gate-events/batch", `[]`)
	if code := httpErrorCode(handler.ReceiveBatch(c)); code != http.StatusBadRequest {
		t.Errorf("empty batch status = %d, want 400", code)
	}
}

func TestGateHandler_ReceiveBatch_OneBadEvent(t *testing.T) {
	e := newTestEcho()
	dispatcher := &stubDispatcher{}
	handler := NewGateHandler(dispatcher)

	body := `[
		{"plate":"ABC123","direction":"entry","timestamp":"2025-06-04T08:00:00Z","gate_id":"north-1"},
		{"plate":"","direction":"exit","timestamp":"2025-06-04T08:00:01Z","gate_id":"south-2"}
	]`
	c, _ := jsonRequest(e, http.MethodPost, "/v1/gate-events/batch", body)

	if code := httpErrorCode(handler.ReceiveBatch(c)); code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", code)
	}
	if len(dispatcher.events) != 0 {
		t.Errorf("a bad event must reject the whole batch")
	}
}

package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/carparking/parking-system/internal/core/ports"
)

// GateDispatcher is the interface the handler uses to enqueue gate events.
type GateDispatcher interface {
	Enqueue(event ports.GateEventInput)
	EnqueueBatch(events []ports.GateEventInput)
}

// GateHandler ingests barrier-controller events. Processing is asynchronous:
// events are acknowledged with 202 and applied by the worker pool.
type GateHandler struct {
	dispatcher GateDispatcher
}

func NewGateHandler(dispatcher GateDispatcher) *GateHandler {
	return &GateHandler{dispatcher: dispatcher}
}

type gateEventRequest struct {
	Plate     string    `json:"plate"     validate:"required"`
	Direction string    `json:"direction" validate:"required,oneof=entry exit"`
	Timestamp time.Time `json:"timestamp" validate:"required"`
	GateID    string    `json:"gate_id"   validate:"required"`
	Zone      string    `json:"zone"`
}

// Receive handles POST /v1/gate-events.
//
// @Summary      Ingest a single gate event
// @Tags         gate
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      gateEventRequest  true  "Gate event"
// @Success      202   {object}  acceptedResponse
// @Failure      400   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/gate-events [post]
func (h *GateHandler) Receive(c echo.Context) error {
	var req gateEventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	h.dispatcher.Enqueue(toGateInput(req))
	return c.JSON(http.StatusAccepted, acceptedResponse{Message: "event accepted"})
}

// ReceiveBatch handles POST /v1/gate-events/batch.
//
// @Summary      Ingest a batch of gate events
// @Tags         gate
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      []gateEventRequest  true  "Array of gate events"
// @Success      202   {object}  acceptedResponse
// @Failure      400   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/gate-events/batch [post]
func (h *GateHandler) ReceiveBatch(c echo.Context) error {
	var reqs []gateEventRequest
	if err := c.Bind(&reqs); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if len(reqs) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "batch cannot be empty")
	}

	inputs := make([]ports.GateEventInput, 0, len(reqs))
	for i, req := range reqs {
		if err := c.Validate(&req); err != nil {
			return echo.NewHTTPError(http.StatusUnprocessableEntity,
				fmt.Sprintf("event[%d]: %s", i, err.Error()))
		}
		inputs = append(inputs, toGateInput(req))
	}

	h.dispatcher.EnqueueBatch(inputs)
	return c.JSON(http.StatusAccepted, acceptedResponse{
		Message: "events accepted",
		Count:   len(inputs),
	})
}

func toGateInput(r gateEventRequest) ports.GateEventInput {
	return ports.GateEventInput{
		Plate:     r.Plate,
		Direction: r.Direction,
		Timestamp: r.Timestamp,
		GateID:    r.GateID,
		Zone:      r.Zone,
	}
}

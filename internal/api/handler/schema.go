package handler

import (
	"time"

	"github.com/carparking/parking-system/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// messageResponse is the envelope for operations that only confirm success.
type messageResponse struct {
	Message string `json:"message"`
}

// acceptedResponse acknowledges asynchronous ingestion.
type acceptedResponse struct {
	Message string `json:"message"`
	Count   int    `json:"count,omitempty"`
}

// Money crosses the JSON boundary as dollars with two decimals; everything
// behind the handlers is int64 cents.

// sessionResponse is the canonical session rendering.
type sessionResponse struct {
	ID           int64      `json:"id"`
	Plate        string     `json:"plate"`
	EntryTime    time.Time  `json:"entry_time"`
	ExitTime     *time.Time `json:"exit_time,omitempty"`
	Fee          *float64   `json:"fee,omitempty"`
	IsPaid       bool       `json:"is_paid"`
	Zone         string     `json:"zone,omitempty"`
	CustomerName string     `json:"customer_name,omitempty"`
}

func toSessionResponse(s domain.Session, customerName string) sessionResponse {
	resp := sessionResponse{
		ID:           s.ID,
		Plate:        domain.DisplayPlate(s.Plate),
		EntryTime:    s.EntryTime,
		ExitTime:     s.ExitTime,
		IsPaid:       s.IsPaid,
		Zone:         string(s.Zone),
		CustomerName: customerName,
	}
	if s.FeeCents != nil {
		fee := domain.FloatFromCents(*s.FeeCents)
		resp.Fee = &fee
	}
	return resp
}

// durationHours renders a stay length as fractional hours with two decimals.
func durationHours(d time.Duration) float64 {
	return float64(int(d.Hours()*100)) / 100
}

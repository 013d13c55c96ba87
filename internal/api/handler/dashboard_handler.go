package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/carparking/parking-system/internal/core/domain"
	"github.com/carparking/parking-system/internal/core/ports"
)

// DashboardHandler serves the owner reporting views.
type DashboardHandler struct {
	service ports.DashboardService
}

func NewDashboardHandler(service ports.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

type dashboardStatsResponse struct {
	ActiveVehicles   int64   `json:"active_vehicles"`
	TotalCapacity    int64   `json:"total_capacity"`
	OccupancyPercent float64 `json:"occupancy_percent"`
	RevenueToday     float64 `json:"revenue_today"`
	AvgDurationHours float64 `json:"avg_duration_hours"`
}

type dailyRevenueResponse struct {
	Day     string  `json:"day"`
	Revenue float64 `json:"revenue"`
}

type paymentSummaryRowResponse struct {
	Status   string  `json:"status"`
	Amount   float64 `json:"amount"`
	Quantity int64   `json:"quantity"`
}

// Stats handles GET /v1/dashboard/stats.
//
// @Summary      Dashboard headline figures
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dashboardStatsResponse
// @Failure      403  {object}  errorResponse
// @Router       /v1/dashboard/stats [get]
func (h *DashboardHandler) Stats(c echo.Context) error {
	stats, err := h.service.Stats(c.Request().Context(), time.Now().UTC())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dashboardStatsResponse{
		ActiveVehicles:   stats.ActiveVehicles,
		TotalCapacity:    stats.TotalCapacity,
		OccupancyPercent: stats.OccupancyPercent,
		RevenueToday:     domain.FloatFromCents(stats.RevenueTodayCents),
		AvgDurationHours: stats.AvgDurationHours,
	})
}

// WeeklyRevenue handles GET /v1/dashboard/weekly-revenue.
//
// @Summary      Revenue per day since start of week
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   dailyRevenueResponse
// @Failure      403  {object}  errorResponse
// @Router       /v1/dashboard/weekly-revenue [get]
func (h *DashboardHandler) WeeklyRevenue(c echo.Context) error {
	days, err := h.service.WeeklyRevenue(c.Request().Context(), time.Now().UTC())
	if err != nil {
		return err
	}

	out := make([]dailyRevenueResponse, 0, len(days))
	for _, d := range days {
		out = append(out, dailyRevenueResponse{
			Day:     d.Day,
			Revenue: domain.FloatFromCents(d.RevenueCents),
		})
	}
	return c.JSON(http.StatusOK, out)
}

// PaymentSummary handles GET /v1/dashboard/payment-summary.
//
// @Summary      Payment totals by status for today
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   paymentSummaryRowResponse
// @Failure      403  {object}  errorResponse
// @Router       /v1/dashboard/payment-summary [get]
func (h *DashboardHandler) PaymentSummary(c echo.Context) error {
	rows, err := h.service.PaymentSummary(c.Request().Context(), time.Now().UTC())
	if err != nil {
		return err
	}

	out := make([]paymentSummaryRowResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, paymentSummaryRowResponse{
			Status:   r.Status,
			Amount:   domain.FloatFromCents(r.AmountCents),
			Quantity: r.Quantity,
		})
	}
	return c.JSON(http.StatusOK, out)
}

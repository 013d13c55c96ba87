package service

import (
	"context"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/carparking/parking-system/internal/core/ports"
)

// DashboardService computes the owner's operational reports from aggregate
// queries. Capacity comes from configuration; occupancy is derived.
type DashboardService struct {
	stats    ports.StatsRepository
	capacity int64
	logger   zerolog.Logger
}

func NewDashboardService(stats ports.StatsRepository, capacity int64, logger zerolog.Logger) *DashboardService {
	if capacity <= 0 {
		capacity = 200
	}
	return &DashboardService{stats: stats, capacity: capacity, logger: logger}
}

// Stats returns the headline dashboard block for the day containing now.
func (s *DashboardService) Stats(ctx context.Context, now time.Time) (*ports.DashboardStats, error) {
	dayStart, dayEnd := dayBounds(now)

	active, err := s.stats.ActiveVehicleCount(ctx)
	if err != nil {
		return nil, err
	}

	revenue, err := s.stats.RevenueBetween(ctx, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	avgHours, err := s.stats.AvgDurationHours(ctx, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	return &ports.DashboardStats{
		ActiveVehicles:    active,
		TotalCapacity:     s.capacity,
		OccupancyPercent:  math.Round(float64(active) / float64(s.capacity) * 100),
		RevenueTodayCents: revenue,
		AvgDurationHours:  math.Round(avgHours*10) / 10,
	}, nil
}

// WeeklyRevenue returns one revenue bucket per day of the current week,
// starting Sunday.
func (s *DashboardService) WeeklyRevenue(ctx context.Context, now time.Time) ([]ports.DailyRevenue, error) {
	dayStart, _ := dayBounds(now)
	weekStart := dayStart.AddDate(0, 0, -int(dayStart.Weekday()))

	out := make([]ports.DailyRevenue, 0, 7)
	for i := 0; i < 7; i++ {
		from := weekStart.AddDate(0, 0, i)
		to := from.AddDate(0, 0, 1)

		revenue, err := s.stats.RevenueBetween(ctx, from, to)
		if err != nil {
			return nil, err
		}
		out = append(out, ports.DailyRevenue{
			Day:          from.Weekday().String(),
			RevenueCents: revenue,
		})
	}
	return out, nil
}

// PaymentSummary buckets today's money into paid, pending and failed. The
// failed bucket is always empty: failed settlement attempts are never
// persisted.
func (s *DashboardService) PaymentSummary(ctx context.Context, now time.Time) ([]ports.PaymentSummaryRow, error) {
	dayStart, dayEnd := dayBounds(now)

	paidAmount, paidCount, err := s.stats.PaidBetween(ctx, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	pendingAmount, pendingCount, err := s.stats.PendingBetween(ctx, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	return []ports.PaymentSummaryRow{
		{Status: "Paid", AmountCents: paidAmount, Quantity: paidCount},
		{Status: "Pending", AmountCents: pendingAmount, Quantity: pendingCount},
		{Status: "Failed", AmountCents: 0, Quantity: 0},
	}, nil
}

func dayBounds(now time.Time) (time.Time, time.Time) {
	t := now.UTC()
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 1)
}

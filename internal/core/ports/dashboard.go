package ports

import (
	"context"
	"time"
)

// StatsRepository defines the aggregate queries behind the owner dashboard.
type StatsRepository interface {
	ActiveVehicleCount(ctx context.Context) (int64, error)
	// RevenueBetween sums settled payment amounts in [from, to).
	RevenueBetween(ctx context.Context, from, to time.Time) (int64, error)
	// AvgDurationHours averages the stay length of sessions that both
	// entered and exited on the given day; zero when none.
	AvgDurationHours(ctx context.Context, dayStart, dayEnd time.Time) (float64, error)
	// PaidBetween returns settled amount and receipt count in [from, to).
	PaidBetween(ctx context.Context, from, to time.Time) (int64, int64, error)
	// PendingBetween returns fee total and count of exited-but-unpaid
	// sessions whose exit falls in [from, to).
	PendingBetween(ctx context.Context, from, to time.Time) (int64, int64, error)
}

// DashboardStats is the owner dashboard headline block.
type DashboardStats struct {
	ActiveVehicles    int64
	TotalCapacity     int64
	OccupancyPercent  float64
	RevenueTodayCents int64
	AvgDurationHours  float64
}

// DailyRevenue is one bucket of the weekly revenue chart.
type DailyRevenue struct {
	Day          string // weekday name
	RevenueCents int64
}

// PaymentSummaryRow is one status bucket of the payment summary.
type PaymentSummaryRow struct {
	Status      string // Paid | Pending | Failed
	AmountCents int64
	Quantity    int64
}

// DashboardService defines the owner reporting operations.
type DashboardService interface {
	Stats(ctx context.Context, now time.Time) (*DashboardStats, error)
	WeeklyRevenue(ctx context.Context, now time.Time) ([]DailyRevenue, error)
	PaymentSummary(ctx context.Context, now time.Time) ([]PaymentSummaryRow, error)
}

package domain

import (
	"fmt"
	"math"
)

// Monetary amounts are carried as integer cents throughout the core and the
// database; float64 with two decimal places appears only at the JSON edge.

// CentsFromFloat converts a currency amount (e.g. 15.00) to cents, rounding
// to the nearest cent to absorb float representation noise.
func CentsFromFloat(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// FloatFromCents converts cents back to a currency amount for responses.
func FloatFromCents(cents int64) float64 {
	return float64(cents) / 100
}

// FormatCents renders cents as a dollar string for error messages.
func FormatCents(cents int64) string {
	return fmt.Sprintf("$%.2f", FloatFromCents(cents))
}

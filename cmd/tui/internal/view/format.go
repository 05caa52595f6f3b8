package view

import (
	"fmt"
	"time"
)

// FormatUSD formats a positive dollar amount.
func FormatUSD(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

// FormatSigned renders an amount with its sign, expenses first-class.
func FormatSigned(v float64) string {
	if v < 0 {
		return fmt.Sprintf("-$%.2f", -v)
	}

	return fmt.Sprintf("+$%.2f", v)
}

// FormatDate formats a time.Time into YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// FormatMonth renders a (year, month) pair like "May 2025".
func FormatMonth(year, month int) string {
	return fmt.Sprintf("%s %d", time.Month(month).String()[:3], year)
}

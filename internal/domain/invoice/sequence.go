package invoice

import (
	"fmt"
	"time"
)

// NumberDateLayout is the date part of an invoice number
const NumberDateLayout = "20060102"

// NumberPrefix returns the per-day prefix shared by every invoice number issued on day
func NumberPrefix(day time.Time) string {
	return day.UTC().Format(NumberDateLayout) + "-"
}

// NextNumber formats the invoice number following existingCountForDay
// invoices already numbered on the same UTC day, e.g. 20240115-0004.
// Uniqueness is not guaranteed here; the store rejects duplicates.
func NextNumber(day time.Time, existingCountForDay int) string {
	if existingCountForDay < 0 {
		existingCountForDay = 0
	}
	return fmt.Sprintf("%s%04d", NumberPrefix(day), existingCountForDay+1)
}

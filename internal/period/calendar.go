// Package period provides the canonical month ordering and the fixed
// quarter partition used everywhere months are grouped or pivoted.
package period

import "salesdash/internal/models"

var monthOrder = []string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

var quarterMap = map[string][]string{
	"Q1": {"Jan", "Feb", "Mar"},
	"Q2": {"Apr", "May", "Jun"},
	"Q3": {"Jul", "Aug", "Sep"},
	"Q4": {"Oct", "Nov", "Dec"},
}

var quarterOrder = []string{"Q1", "Q2", "Q3", "Q4"}

var monthIndex = func() map[string]int {
	idx := make(map[string]int, len(monthOrder))
	for i, m := range monthOrder {
		idx[m] = i
	}
	return idx
}()

// MonthOrder returns the 12 canonical month abbreviations in calendar
// order. Callers must not mutate the returned slice.
func MonthOrder() []string {
	return monthOrder
}

// Quarters returns the quarter labels in calendar order.
func Quarters() []string {
	return quarterOrder
}

// MonthIndex returns the calendar position of m (0-based) and whether m
// is a canonical month abbreviation.
func MonthIndex(m string) (int, bool) {
	i, ok := monthIndex[m]
	return i, ok
}

// QuarterOf returns the quarter label containing m. ok is false for any
// input that is not one of the 12 canonical months.
func QuarterOf(m string) (string, bool) {
	i, ok := monthIndex[m]
	if !ok {
		return "", false
	}
	return quarterOrder[i/3], true
}

// QuarterMonths returns the 3 constituent months of quarter q, or false
// for an unknown quarter label.
func QuarterMonths(q string) ([]string, bool) {
	months, ok := quarterMap[q]
	return months, ok
}

// InQuarter reports whether month m belongs to quarter q.
func InQuarter(m, q string) bool {
	quarter, ok := QuarterOf(m)
	return ok && quarter == q
}

// PresentMonths returns the distinct months occurring in data, sorted by
// calendar position. Months that are not canonical abbreviations are
// ignored; the loader rejects them before the pipeline runs.
func PresentMonths(data []models.Transaction) []string {
	var seen [12]bool
	for _, t := range data {
		if i, ok := monthIndex[t.Month]; ok {
			seen[i] = true
		}
	}
	months := make([]string, 0, 12)
	for i, m := range monthOrder {
		if seen[i] {
			months = append(months, m)
		}
	}
	return months
}

// PresentQuarters returns the distinct quarters covered by data, in
// calendar order.
func PresentQuarters(data []models.Transaction) []string {
	var seen [4]bool
	for _, t := range data {
		if i, ok := monthIndex[t.Month]; ok {
			seen[i/3] = true
		}
	}
	quarters := make([]string, 0, 4)
	for i, q := range quarterOrder {
		if seen[i] {
			quarters = append(quarters, q)
		}
	}
	return quarters
}

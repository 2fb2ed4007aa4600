package services

import (
	"fmt"

	"salesdash/internal/models"
	"salesdash/internal/period"
)

// ApplyFilters restricts data to rows matching every active selection in
// sel. All predicates are exact, case-sensitive equality, so application
// order is immaterial except for the month/quarter pair:
//
//   - month set, quarter unset: filter by month
//   - quarter set, month unset: filter by the quarter's 3 months
//   - both set and consistent: the month wins (more specific)
//   - both set and inconsistent: the month is dropped, the quarter is
//     applied, and a warning describing the recovery is returned
//
// The returned warning is empty in every other case.
func ApplyFilters(data []models.Transaction, sel models.FilterSelection) ([]models.Transaction, string) {
	subset := data
	warning := ""

	if models.IsSet(sel.Area) {
		subset = keep(subset, func(t models.Transaction) bool { return t.Area == sel.Area })
	}

	month := sel.Month
	if models.IsSet(month) && models.IsSet(sel.Quarter) && !period.InQuarter(month, sel.Quarter) {
		warning = fmt.Sprintf("month %q is not in quarter %s; month selection ignored", month, sel.Quarter)
		month = ""
	}
	switch {
	case models.IsSet(month):
		subset = keep(subset, func(t models.Transaction) bool { return t.Month == month })
	case models.IsSet(sel.Quarter):
		subset = keep(subset, func(t models.Transaction) bool { return period.InQuarter(t.Month, sel.Quarter) })
	}

	if models.IsSet(sel.CustomerCategory) {
		subset = keep(subset, func(t models.Transaction) bool { return t.CustomerCategory == sel.CustomerCategory })
	}
	if models.IsSet(sel.Salesman) {
		subset = keep(subset, func(t models.Transaction) bool { return t.Salesman == sel.Salesman })
	}
	if models.IsSet(sel.ItemCategory) {
		subset = keep(subset, func(t models.Transaction) bool { return t.ItemCategory == sel.ItemCategory })
	}
	if models.IsSet(sel.CustomerName) {
		subset = keep(subset, func(t models.Transaction) bool { return t.CustomerName == sel.CustomerName })
	}
	if models.IsSet(sel.ItemDescription) {
		subset = keep(subset, func(t models.Transaction) bool { return t.ItemDescription == sel.ItemDescription })
	}

	return subset, warning
}

func keep(data []models.Transaction, pred func(models.Transaction) bool) []models.Transaction {
	out := make([]models.Transaction, 0, len(data))
	for _, t := range data {
		if pred(t) {
			out = append(out, t)
		}
	}
	return out
}

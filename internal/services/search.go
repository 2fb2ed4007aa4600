package services

import (
	"regexp"
	"strings"

	"salesdash/internal/models"
)

// searchColumns yields the lower-cased string form of every searchable
// column of t, in schema order.
func searchColumns(t models.Transaction) []string {
	return []string{
		strings.ToLower(t.CustomerCode),
		strings.ToLower(t.CustomerName),
		strings.ToLower(t.CustomerCategory),
		strings.ToLower(t.Salesman),
		strings.ToLower(t.ItemCode),
		strings.ToLower(t.ItemDescription),
		strings.ToLower(t.ItemCategory),
		strings.ToLower(t.Month),
		strings.ToLower(t.Area),
	}
}

// Search applies a free-text filter across the fixed searchable column
// set. The query is matched case-insensitively as a regular expression
// when it compiles, and as a literal substring otherwise; a row matches
// when any column matches.
//
// An empty query returns data unchanged with found=true. Otherwise
// found reports whether the subset is non-empty; callers must surface
// found=false as an explicit not-found state, not as an empty result.
func Search(data []models.Transaction, query string) ([]models.Transaction, bool) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return data, true
	}

	match := func(s string) bool { return strings.Contains(s, query) }
	if re, err := regexp.Compile(query); err == nil {
		match = func(s string) bool { return re.MatchString(s) }
	}

	subset := make([]models.Transaction, 0, len(data))
	for _, t := range data {
		for _, col := range searchColumns(t) {
			if match(col) {
				subset = append(subset, t)
				break
			}
		}
	}

	return subset, len(subset) > 0
}

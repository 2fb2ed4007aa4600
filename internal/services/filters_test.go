package services

import (
	"reflect"
	"testing"

	"salesdash/internal/models"
)

func TestApplyFiltersUnsetIsNoOp(t *testing.T) {
	data := salesData()

	for _, sel := range []models.FilterSelection{
		{},
		{Area: models.NoSelection, Month: models.NoSelection, Quarter: models.NoSelection},
	} {
		subset, warning := ApplyFilters(data, sel)
		if warning != "" {
			t.Errorf("no-op selection produced warning %q", warning)
		}
		if !reflect.DeepEqual(subset, data) {
			t.Errorf("selection %+v should leave the dataset unchanged", sel)
		}
	}
}

func TestApplyFiltersEquality(t *testing.T) {
	subset, _ := ApplyFilters(salesData(), models.FilterSelection{Area: "North"})
	if len(subset) != 3 {
		t.Fatalf("North rows = %d, want 3", len(subset))
	}
	for _, tx := range subset {
		if tx.Area != "North" {
			t.Errorf("row with area %s leaked through", tx.Area)
		}
	}

	// Equality is exact and case-sensitive, never substring.
	subset, _ = ApplyFilters(salesData(), models.FilterSelection{Area: "north"})
	if len(subset) != 0 {
		t.Errorf("case-mismatched value must match nothing, got %d rows", len(subset))
	}
	subset, _ = ApplyFilters(salesData(), models.FilterSelection{CustomerName: "Alpha"})
	if len(subset) != 0 {
		t.Errorf("partial value must match nothing, got %d rows", len(subset))
	}
}

func TestApplyFiltersIdempotent(t *testing.T) {
	sel := models.FilterSelection{Area: "North", Quarter: "Q1", CustomerCategory: "Retail"}

	once, w1 := ApplyFilters(salesData(), sel)
	twice, w2 := ApplyFilters(once, sel)

	if !reflect.DeepEqual(once, twice) {
		t.Error("reapplying the same selection must not change the result")
	}
	if w1 != w2 {
		t.Errorf("warnings differ: %q vs %q", w1, w2)
	}
}

func TestApplyFiltersMonthOnly(t *testing.T) {
	subset, warning := ApplyFilters(salesData(), models.FilterSelection{Month: "Feb"})
	if warning != "" {
		t.Errorf("unexpected warning %q", warning)
	}
	if len(subset) != 2 {
		t.Errorf("Feb rows = %d, want 2", len(subset))
	}
}

func TestApplyFiltersQuarterOnly(t *testing.T) {
	subset, warning := ApplyFilters(salesData(), models.FilterSelection{Quarter: "Q1"})
	if warning != "" {
		t.Errorf("unexpected warning %q", warning)
	}
	if len(subset) != 4 {
		t.Errorf("Q1 rows = %d, want 4 (Jan+Feb)", len(subset))
	}
}

func TestApplyFiltersMonthInsideQuarterWins(t *testing.T) {
	// May is in Q2: the more specific month constraint applies alone.
	data := []models.Transaction{
		{CustomerCode: "C1", ItemCode: "I1", Month: "Apr", Total: 1},
		{CustomerCode: "C1", ItemCode: "I1", Month: "May", Total: 2},
	}

	subset, warning := ApplyFilters(data, models.FilterSelection{Month: "May", Quarter: "Q2"})
	if warning != "" {
		t.Errorf("consistent month/quarter must not warn, got %q", warning)
	}
	if len(subset) != 1 || subset[0].Month != "May" {
		t.Errorf("expected only the May row, got %+v", subset)
	}
}

func TestApplyFiltersConflictingMonthDropped(t *testing.T) {
	// Feb is not in Q2: the month selection is dropped, Q2 applies, and
	// the caller gets a warning.
	data := []models.Transaction{
		{CustomerCode: "C1", ItemCode: "I1", Month: "Feb", Total: 1},
		{CustomerCode: "C1", ItemCode: "I1", Month: "Apr", Total: 2},
		{CustomerCode: "C1", ItemCode: "I1", Month: "Jun", Total: 3},
	}

	subset, warning := ApplyFilters(data, models.FilterSelection{Month: "Feb", Quarter: "Q2"})
	if warning == "" {
		t.Error("conflicting month/quarter must surface a warning")
	}
	if len(subset) != 2 {
		t.Fatalf("expected the 2 Q2 rows, got %d", len(subset))
	}
	for _, tx := range subset {
		if tx.Month == "Feb" {
			t.Error("dropped month selection still filtered")
		}
	}
}

func TestApplyFiltersCombination(t *testing.T) {
	subset, _ := ApplyFilters(salesData(), models.FilterSelection{
		Area:             "North",
		CustomerCategory: "Retail",
		Salesman:         "Said",
	})
	if len(subset) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(subset))
	}
	for _, tx := range subset {
		if tx.CustomerCode != "C001" {
			t.Errorf("unexpected row: %+v", tx)
		}
	}
}

func TestApplyFiltersEmptyResultIsNotAnError(t *testing.T) {
	subset, warning := ApplyFilters(salesData(), models.FilterSelection{
		Area:  "North",
		Month: "Apr",
		// No North rows in Apr exist with Retail category.
		CustomerCategory: "Retail",
	})
	if warning != "" {
		t.Errorf("unexpected warning %q", warning)
	}
	if len(subset) != 0 {
		t.Errorf("expected empty subset, got %d rows", len(subset))
	}

	// The engine still runs over the empty subset.
	res := Aggregate(subset, kpiOptions())
	if res.RecordCount != 0 || res.Summary.TotalSales != 0 {
		t.Error("empty selection must aggregate to zeros")
	}
}

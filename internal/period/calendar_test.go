package period

import (
	"slices"
	"testing"

	"salesdash/internal/models"
)

func TestMonthOrder(t *testing.T) {
	months := MonthOrder()
	if len(months) != 12 {
		t.Fatalf("expected 12 months, got %d", len(months))
	}
	if months[0] != "Jan" || months[11] != "Dec" {
		t.Errorf("unexpected ordering: first=%s last=%s", months[0], months[11])
	}
}

func TestQuarterOf(t *testing.T) {
	tests := []struct {
		month   string
		quarter string
		ok      bool
	}{
		{"Jan", "Q1", true},
		{"Mar", "Q1", true},
		{"Apr", "Q2", true},
		{"Sep", "Q3", true},
		{"Dec", "Q4", true},
		{"January", "", false},
		{"", "", false},
		{"q1", "", false},
	}

	for _, tt := range tests {
		q, ok := QuarterOf(tt.month)
		if ok != tt.ok || q != tt.quarter {
			t.Errorf("QuarterOf(%q) = (%q, %v), want (%q, %v)", tt.month, q, ok, tt.quarter, tt.ok)
		}
	}
}

func TestQuarterMonths(t *testing.T) {
	months, ok := QuarterMonths("Q2")
	if !ok {
		t.Fatal("Q2 should be a known quarter")
	}
	if !slices.Equal(months, []string{"Apr", "May", "Jun"}) {
		t.Errorf("Q2 months = %v", months)
	}

	if _, ok := QuarterMonths("Q5"); ok {
		t.Error("Q5 should not be a known quarter")
	}
}

func TestInQuarter(t *testing.T) {
	if !InQuarter("May", "Q2") {
		t.Error("May should be in Q2")
	}
	if InQuarter("Feb", "Q2") {
		t.Error("Feb should not be in Q2")
	}
	if InQuarter("bogus", "Q1") {
		t.Error("unknown month should never match a quarter")
	}
}

func TestPresentMonths(t *testing.T) {
	// Deliberately out of calendar order to prove sorting is positional,
	// not first-occurrence.
	data := []models.Transaction{
		{Month: "Nov"},
		{Month: "Feb"},
		{Month: "Nov"},
		{Month: "Jun"},
	}

	got := PresentMonths(data)
	want := []string{"Feb", "Jun", "Nov"}
	if !slices.Equal(got, want) {
		t.Errorf("PresentMonths = %v, want %v", got, want)
	}
}

func TestPresentMonthsEmpty(t *testing.T) {
	if got := PresentMonths(nil); len(got) != 0 {
		t.Errorf("PresentMonths(nil) = %v, want empty", got)
	}
}

func TestPresentQuarters(t *testing.T) {
	data := []models.Transaction{
		{Month: "Oct"},
		{Month: "Jan"},
		{Month: "Mar"},
	}

	got := PresentQuarters(data)
	want := []string{"Q1", "Q4"}
	if !slices.Equal(got, want) {
		t.Errorf("PresentQuarters = %v, want %v", got, want)
	}
}

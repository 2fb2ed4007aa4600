package services

import (
	"context"
	"slices"
	"testing"

	"salesdash/internal/models"
)

func newTestAnalytics() *Analytics {
	a := NewAnalytics(nil)
	a.SetData(salesData())
	return a
}

func TestNewAnalytics(t *testing.T) {
	a := NewAnalytics(nil)
	if a == nil {
		t.Fatal("NewAnalytics() returned nil")
	}
	if a.logger == nil || a.loader == nil {
		t.Error("logger and loader should be initialized")
	}
}

func TestAnalyticsRunFullPipeline(t *testing.T) {
	a := newTestAnalytics()

	res := a.Run(context.Background(), Request{Options: kpiOptions()})
	if !res.Found {
		t.Error("no search means found=true")
	}
	if res.Warning != "" {
		t.Errorf("unexpected warning %q", res.Warning)
	}
	if res.RecordCount != 5 {
		t.Errorf("RecordCount = %d, want 5", res.RecordCount)
	}
	if res.Summary.TotalSales != 800 {
		t.Errorf("TotalSales = %v, want 800", res.Summary.TotalSales)
	}
}

func TestAnalyticsRunSearchMiss(t *testing.T) {
	a := newTestAnalytics()

	res := a.Run(context.Background(), Request{Search: "nothing-matches-this"})
	if res.Found {
		t.Error("search miss must surface found=false")
	}
	if res.RecordCount != 0 {
		t.Errorf("search miss RecordCount = %d, want 0", res.RecordCount)
	}
}

func TestAnalyticsRunSearchThenFilter(t *testing.T) {
	a := newTestAnalytics()

	// Search narrows to Alpha's 2 rows, then the month filter keeps Feb.
	res := a.Run(context.Background(), Request{
		Search:  "alpha",
		Filters: models.FilterSelection{Month: "Feb"},
	})
	if !res.Found {
		t.Fatal("alpha should be found")
	}
	if res.RecordCount != 1 {
		t.Errorf("RecordCount = %d, want 1", res.RecordCount)
	}
	if res.Summary.TotalSales != 150 {
		t.Errorf("TotalSales = %v, want 150", res.Summary.TotalSales)
	}
}

func TestAnalyticsRunConflictWarning(t *testing.T) {
	a := newTestAnalytics()

	res := a.Run(context.Background(), Request{
		Filters: models.FilterSelection{Month: "Feb", Quarter: "Q2"},
	})
	if res.Warning == "" {
		t.Error("month/quarter conflict must carry a warning")
	}
	// Q2 of the fixture is the single Apr row.
	if res.RecordCount != 1 {
		t.Errorf("RecordCount = %d, want 1", res.RecordCount)
	}
}

func TestAnalyticsFilterOptions(t *testing.T) {
	a := newTestAnalytics()

	opts := a.FilterOptions("")
	if !slices.Equal(opts.Months, []string{"Jan", "Feb", "Apr"}) {
		t.Errorf("months = %v, want calendar order", opts.Months)
	}
	if !slices.Equal(opts.Quarters, []string{"Q1", "Q2", "Q3", "Q4"}) {
		t.Errorf("quarters = %v", opts.Quarters)
	}
	if !slices.Equal(opts.Areas, []string{"North", "South"}) {
		t.Errorf("areas = %v", opts.Areas)
	}
	if !slices.Equal(opts.Salesmen, []string{"Omar", "Said"}) {
		t.Errorf("salesmen = %v", opts.Salesmen)
	}
}

func TestAnalyticsFilterOptionsRespectSearch(t *testing.T) {
	a := newTestAnalytics()

	opts := a.FilterOptions("alpha")
	if !slices.Equal(opts.Areas, []string{"North"}) {
		t.Errorf("areas = %v, want only North", opts.Areas)
	}
	if !slices.Equal(opts.Months, []string{"Jan", "Feb"}) {
		t.Errorf("months = %v", opts.Months)
	}
}

func TestAnalyticsStats(t *testing.T) {
	a := newTestAnalytics()

	stats := a.Stats()
	if stats["record_count"] != 5 {
		t.Errorf("record_count = %v, want 5", stats["record_count"])
	}
	if stats["customers"] != 3 {
		t.Errorf("customers = %v, want 3", stats["customers"])
	}
	if stats["months"] != 3 {
		t.Errorf("months = %v, want 3", stats["months"])
	}
}

func TestAnalyticsRunEmptyDataset(t *testing.T) {
	a := NewAnalytics(nil)

	res := a.Run(context.Background(), Request{})
	// An empty query is "no filter applied", so found stays true even
	// over an empty dataset; emptiness shows up in RecordCount.
	if !res.Found {
		t.Error("empty query must report found=true")
	}
	if res.RecordCount != 0 || res.Summary.CustomerCount != 0 {
		t.Error("empty dataset must aggregate to zeros")
	}
}

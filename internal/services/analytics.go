package services

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"salesdash/internal/models"
	"salesdash/internal/observability"
	"salesdash/internal/period"
)

// Request describes one dashboard pass: a free-text search, the
// attribute selections, and the aggregation options.
type Request struct {
	Search  string
	Filters models.FilterSelection
	Options Options
}

// Analytics owns the in-memory dataset and runs the pipeline over it.
// The dataset is replaced wholesale on load and treated as read-only by
// every stage, so a plain RWMutex around the slice reference suffices.
type Analytics struct {
	mu       sync.RWMutex
	data     []models.Transaction
	source   string
	loadedAt time.Time

	loader *Loader
	logger *slog.Logger
}

func NewAnalytics(logger *slog.Logger) *Analytics {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analytics{
		loader: NewLoader(logger),
		logger: logger,
	}
}

// SetData installs an already-materialized dataset. Used by tests and by
// upload handlers that parse elsewhere.
func (a *Analytics) SetData(data []models.Transaction) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.data = data
	a.source = "inline"
	a.loadedAt = time.Now()
}

// LoadFile loads the dataset file at path, replacing the current
// dataset on success. Failures keep the previous dataset intact and are
// classified as ErrFileNotFound, ErrEmptyFile, or ErrMalformed.
func (a *Analytics) LoadFile(ctx context.Context, path string) error {
	start := time.Now()
	data, err := a.loader.LoadFile(ctx, path)
	if err != nil {
		return err
	}

	a.mu.Lock()
	a.data = data
	a.source = path
	a.loadedAt = time.Now()
	a.mu.Unlock()

	a.logger.Info("dataset ready",
		"source", path,
		"records", len(data),
		"duration", time.Since(start))
	return nil
}

func (a *Analytics) snapshot() []models.Transaction {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.data
}

// Run executes one full pass: text search, attribute filter chain, then
// aggregation, each stage feeding the next a fresh filtered view. The
// result carries the search outcome and any month/quarter conflict
// warning alongside the aggregates.
func (a *Analytics) Run(ctx context.Context, req Request) *models.DashboardResult {
	_, span := observability.StartSpan(ctx, "analytics.run")
	defer span.Finish()

	data := a.snapshot()
	start := time.Now()

	subset, found := Search(data, req.Search)
	filtered, warning := ApplyFilters(subset, req.Filters)

	result := Aggregate(filtered, req.Options)
	result.Found = found
	result.Warning = warning

	span.SetTag("metric", string(result.Metric))
	if !found {
		span.SetTag("outcome", "search_miss")
	}

	a.logger.Debug("pipeline run",
		"search", req.Search,
		"found", found,
		"input_records", len(data),
		"filtered_records", result.RecordCount,
		"duration", time.Since(start))

	return result
}

// FilterOptions returns the distinct selection values per filterable
// attribute, drawn from the search-filtered dataset. Months come back in
// calendar order; the quarter list is the static partition.
func (a *Analytics) FilterOptions(search string) *models.FilterOptions {
	data, _ := Search(a.snapshot(), search)

	opts := &models.FilterOptions{
		Months:   period.PresentMonths(data),
		Quarters: period.Quarters(),
	}
	opts.Areas = distinct(data, func(t models.Transaction) string { return t.Area })
	opts.CustomerCategories = distinct(data, func(t models.Transaction) string { return t.CustomerCategory })
	opts.Salesmen = distinct(data, func(t models.Transaction) string { return t.Salesman })
	opts.ItemCategories = distinct(data, func(t models.Transaction) string { return t.ItemCategory })
	opts.CustomerNames = distinct(data, func(t models.Transaction) string { return t.CustomerName })
	opts.ItemDescriptions = distinct(data, func(t models.Transaction) string { return t.ItemDescription })
	return opts
}

// Stats reports dataset-level counters for the admin endpoint.
func (a *Analytics) Stats() map[string]any {
	a.mu.RLock()
	data, source, loadedAt := a.data, a.source, a.loadedAt
	a.mu.RUnlock()

	customers := make(map[string]struct{})
	for _, t := range data {
		customers[t.CustomerCode] = struct{}{}
	}

	return map[string]any{
		"record_count": len(data),
		"source":       source,
		"loaded_at":    loadedAt,
		"months":       len(period.PresentMonths(data)),
		"customers":    len(customers),
	}
}

func distinct(data []models.Transaction, key func(models.Transaction) string) []string {
	set := make(map[string]struct{})
	for _, t := range data {
		if v := key(t); v != "" {
			set[v] = struct{}{}
		}
	}
	values := make([]string, 0, len(set))
	for v := range set {
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}

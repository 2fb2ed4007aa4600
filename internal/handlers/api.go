package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"salesdash/internal/config"
	"salesdash/internal/errors"
	"salesdash/internal/models"
	"salesdash/internal/observability"
	"salesdash/internal/services"
)

const cacheControl = "no-store"

type APIHandlers struct {
	analytics *services.Analytics
	defaults  config.AnalyticsConfig
	logger    *slog.Logger
}

func NewAPIHandlers(analytics *services.Analytics, defaults config.AnalyticsConfig, logger *slog.Logger) *APIHandlers {
	return &APIHandlers{
		analytics: analytics,
		defaults:  defaults,
		logger:    logger,
	}
}

// buildRequest translates query parameters into one pipeline request.
// Filter parameters mirror the dataset column names; "q" is the free
// text search; "metric" and "target" override the configured defaults.
func buildRequest(defaults config.AnalyticsConfig, r *http.Request) (services.Request, *errors.AppError) {
	q := r.URL.Query()

	req := services.Request{
		Search: q.Get("q"),
		Filters: models.FilterSelection{
			Area:             q.Get("area"),
			Month:            q.Get("month"),
			Quarter:          q.Get("quarter"),
			CustomerCategory: q.Get("customer_category"),
			Salesman:         q.Get("salesman"),
			ItemCategory:     q.Get("item_category"),
			CustomerName:     q.Get("customer_name"),
			ItemDescription:  q.Get("item_description"),
		},
		Options: services.Options{
			Metric:           models.MainVariable(defaults.DefaultMetric),
			NewCustomers:     defaults.NewCustomers,
			NewlyListedItems: defaults.NewlyListedItems,
			ProgressTarget:   defaults.ProgressTarget,
		},
	}

	if metric := q.Get("metric"); metric != "" {
		m := models.MainVariable(metric)
		if !m.Valid() {
			return req, errors.BadRequest(fmt.Sprintf("unknown metric %q, expected %q or %q", metric, models.MetricTotal, models.MetricWeight))
		}
		req.Options.Metric = m
	}

	if target := q.Get("target"); target != "" {
		t, err := strconv.ParseFloat(target, 64)
		if err != nil || t <= 0 {
			return req, errors.BadRequest(fmt.Sprintf("invalid progress target %q", target))
		}
		req.Options.ProgressTarget = t
	}

	return req, nil
}

func (h *APIHandlers) run(w http.ResponseWriter, r *http.Request) (*models.DashboardResult, bool) {
	req, appErr := buildRequest(h.defaults, r)
	if appErr != nil {
		errors.WriteError(w, h.logger, appErr, observability.GetRequestID(r.Context()))
		return nil, false
	}
	return h.analytics.Run(r.Context(), req), true
}

func writeSection(w http.ResponseWriter, data any) {
	errors.WriteSuccessWithHeaders(w, data, map[string]string{"Cache-Control": cacheControl})
}

func (h *APIHandlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	res, ok := h.run(w, r)
	if !ok {
		return
	}
	writeSection(w, res)
}

func (h *APIHandlers) HandleSummary(w http.ResponseWriter, r *http.Request) {
	res, ok := h.run(w, r)
	if !ok {
		return
	}
	writeSection(w, map[string]any{
		"found":   res.Found,
		"warning": res.Warning,
		"summary": res.Summary,
	})
}

func (h *APIHandlers) HandleSalesByArea(w http.ResponseWriter, r *http.Request) {
	res, ok := h.run(w, r)
	if !ok {
		return
	}
	writeSection(w, res.SalesByArea)
}

func (h *APIHandlers) HandleSalesByMonth(w http.ResponseWriter, r *http.Request) {
	res, ok := h.run(w, r)
	if !ok {
		return
	}
	writeSection(w, res.SalesByMonth)
}

func (h *APIHandlers) HandleSalesByQuarter(w http.ResponseWriter, r *http.Request) {
	res, ok := h.run(w, r)
	if !ok {
		return
	}
	writeSection(w, res.SalesByQuarter)
}

func (h *APIHandlers) HandleSalesmanAreas(w http.ResponseWriter, r *http.Request) {
	res, ok := h.run(w, r)
	if !ok {
		return
	}
	writeSection(w, res.SalesmanAreas)
}

func (h *APIHandlers) HandlePivot(w http.ResponseWriter, r *http.Request) {
	res, ok := h.run(w, r)
	if !ok {
		return
	}

	var pivot *models.Pivot
	switch key := r.PathValue("key"); key {
	case "item_category":
		pivot = res.CategoryPivot
	case "item_description":
		pivot = res.DescriptionPivot
	case "customer_name":
		pivot = res.CustomerPivot
	default:
		errors.WriteError(w, h.logger,
			errors.NotFound(fmt.Sprintf("unknown pivot key %q", key)),
			observability.GetRequestID(r.Context()))
		return
	}
	writeSection(w, pivot)
}

func (h *APIHandlers) HandleMonthlyKPIs(w http.ResponseWriter, r *http.Request) {
	res, ok := h.run(w, r)
	if !ok {
		return
	}
	writeSection(w, map[string]any{
		"found":   res.Found,
		"warning": res.Warning,
		"rows":    res.MonthlyKPIs,
	})
}

func (h *APIHandlers) HandleFilterOptions(w http.ResponseWriter, r *http.Request) {
	writeSection(w, h.analytics.FilterOptions(r.URL.Query().Get("q")))
}

func (h *APIHandlers) HandleExportNewCustomers(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, func(res *models.DashboardResult) services.ExportTable {
		return services.NewCustomerEventTable(res.NewCustomerEvents)
	})
}

func (h *APIHandlers) HandleExportNewlyListed(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, func(res *models.DashboardResult) services.ExportTable {
		return services.NewItemEventTable(res.NewItemEvents)
	})
}

func (h *APIHandlers) export(w http.ResponseWriter, r *http.Request, table func(*models.DashboardResult) services.ExportTable) {
	req, appErr := buildRequest(h.defaults, r)
	if appErr != nil {
		errors.WriteError(w, h.logger, appErr, observability.GetRequestID(r.Context()))
		return
	}
	req.Options.NewCustomers = true
	req.Options.NewlyListedItems = true
	req.Options.CollectEvents = true

	res := h.analytics.Run(r.Context(), req)
	t := table(res)

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", t.Filename))
	if err := services.WriteCSV(w, t, true); err != nil {
		h.logger.Error("csv export failed", "file", t.Filename, "error", err)
	}
}

func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccess(w, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   "1.0.0",
	})
}

func (h *APIHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccess(w, h.analytics.Stats())
}

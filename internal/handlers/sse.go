package handlers

import (
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/starfederation/datastar-go/datastar"

	"salesdash/internal/config"
	"salesdash/internal/models"
	"salesdash/internal/services"
)

const maxKPIRows = 24

var summaryTemplate = template.Must(template.New("summary").Funcs(template.FuncMap{
	"pct": func(share float64) float64 { return share * 100 },
}).Parse(`
<div id="summary-strip">
<div class="stat-card"><h4>Total Sales</h4><strong>{{printf "%.0f" .Summary.TotalSales}}</strong></div>
<div class="stat-card"><h4>Customer Count</h4><strong>{{.Summary.CustomerCount}}</strong></div>
<div class="stat-card"><h4>Total Weight</h4><strong>{{printf "%.0f" .Summary.TotalWeight}} kg</strong></div>
<div class="stat-card"><h4>Payment Type</h4>
<span>Cash: {{.Summary.CashCustomers}} ({{printf "%.1f%%" (pct .Summary.CashShare)}})</span>
<span>Credit: {{.Summary.CreditCustomers}} ({{printf "%.1f%%" (pct .Summary.CreditShare)}})</span>
</div>
</div>`))

var kpiTableTemplate = template.Must(template.New("kpiTable").Funcs(template.FuncMap{
	"blankable": func(v *float64) string {
		if v == nil {
			return ""
		}
		return fmt.Sprintf("%.1f", *v)
	},
	"optional": func(v *int) string {
		if v == nil {
			return "-"
		}
		return fmt.Sprintf("%d", *v)
	},
}).Parse(`
<div id="kpi-content">
<table class="modern-table">
<thead><tr><th>Month</th><th>Value</th><th>Customers</th><th>Categories</th><th>New Customers</th><th>Newly Listed</th><th>Change %</th><th>Progress %</th></tr></thead>
<tbody>
{{range $i, $row := .Rows}}{{if lt $i $.MaxRows}}<tr>
<td>{{.Month}}</td>
<td>{{printf "%.0f" .Value}}</td>
<td>{{.Customers}}</td>
<td>{{.Categories}}</td>
<td>{{optional .NewCustomers}}</td>
<td>{{optional .NewlyListed}}</td>
<td>{{blankable .PctChange}}</td>
<td>{{printf "%.1f" .ProgressPct}}</td>
</tr>{{end}}{{end}}
</tbody>
</table>
</div>`))

type SSEHandlers struct {
	analytics *services.Analytics
	defaults  config.AnalyticsConfig
	logger    *slog.Logger
}

func NewSSEHandlers(analytics *services.Analytics, defaults config.AnalyticsConfig, logger *slog.Logger) *SSEHandlers {
	return &SSEHandlers{
		analytics: analytics,
		defaults:  defaults,
		logger:    logger,
	}
}

func (h *SSEHandlers) renderSummary(res *models.DashboardResult) (string, error) {
	var buf strings.Builder
	err := summaryTemplate.Execute(&buf, res)
	return buf.String(), err
}

func (h *SSEHandlers) renderKPITable(rows []models.KPIRow) (string, error) {
	var buf strings.Builder
	err := kpiTableTemplate.Execute(&buf, struct {
		Rows    []models.KPIRow
		MaxRows int
	}{Rows: rows, MaxRows: maxKPIRows})
	return buf.String(), err
}

// statusElement renders the explicit empty states the presentation layer
// must distinguish: a search miss is not the same as filters combining
// to an empty subset, and neither is an error.
func statusElement(res *models.DashboardResult) string {
	switch {
	case !res.Found:
		return `<div id="dashboard-status" class="status-warning">No records match your search.</div>`
	case res.RecordCount == 0:
		return `<div id="dashboard-status" class="status-warning">No data for this selection.</div>`
	case res.Warning != "":
		return fmt.Sprintf(`<div id="dashboard-status" class="status-notice">%s</div>`, template.HTMLEscapeString(res.Warning))
	default:
		return `<div id="dashboard-status"></div>`
	}
}

// HandleDashboard recomputes the full bundle for the current selections
// and pushes it as one SSE exchange: a status patch, the summary strip,
// the KPI table, and chart data signals.
func (h *SSEHandlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	req, appErr := buildRequest(h.defaults, r)
	if appErr != nil {
		h.logger.Warn("sse request rejected", "error", appErr)
		sse.PatchElements(fmt.Sprintf(`<div id="dashboard-status" class="status-error">%s</div>`,
			template.HTMLEscapeString(appErr.Message)))
		return
	}

	res := h.analytics.Run(r.Context(), req)

	sse.PatchElements(statusElement(res))
	if !res.Found {
		flush(w)
		return
	}

	summaryHTML, err := h.renderSummary(res)
	if err != nil {
		h.logger.Error("render summary strip", "error", err)
		return
	}
	sse.PatchElements(summaryHTML)

	kpiHTML, err := h.renderKPITable(res.MonthlyKPIs)
	if err != nil {
		h.logger.Error("render kpi table", "error", err)
		return
	}
	sse.PatchElements(kpiHTML)

	signals, err := json.Marshal(map[string]any{
		"salesByArea":    res.SalesByArea,
		"salesByMonth":   res.SalesByMonth,
		"salesByQuarter": res.SalesByQuarter,
		"salesmanAreas":  res.SalesmanAreas,
		"categoryPivot":  res.CategoryPivot,
	})
	if err != nil {
		h.logger.Error("marshal dashboard signals", "error", err)
		return
	}
	sse.PatchSignals(signals)

	flush(w)
}

// HandleMonthlyKPIs pushes only the KPI table, for cheap refreshes while
// the rest of the dashboard is unchanged.
func (h *SSEHandlers) HandleMonthlyKPIs(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	req, appErr := buildRequest(h.defaults, r)
	if appErr != nil {
		h.logger.Warn("sse request rejected", "error", appErr)
		return
	}

	res := h.analytics.Run(r.Context(), req)

	html, err := h.renderKPITable(res.MonthlyKPIs)
	if err != nil {
		h.logger.Error("render kpi table", "error", err)
		return
	}
	sse.PatchElements(html)

	flush(w)
}

func flush(w http.ResponseWriter) {
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

package server

import (
	"log/slog"
	"net/http"

	"salesdash/internal/config"
	"salesdash/internal/handlers"
	"salesdash/internal/services"
)

type Server struct {
	mux         *http.ServeMux
	logger      *slog.Logger
	apiHandlers *handlers.APIHandlers
	sseHandlers *handlers.SSEHandlers
}

func NewServer(analytics *services.Analytics, cfg config.AnalyticsConfig, logger *slog.Logger) *Server {
	s := &Server{
		mux:         http.NewServeMux(),
		logger:      logger,
		apiHandlers: handlers.NewAPIHandlers(analytics, cfg, logger),
		sseHandlers: handlers.NewSSEHandlers(analytics, cfg, logger),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.mux.HandleFunc("GET /health", s.apiHandlers.HandleHealth)
	s.mux.HandleFunc("GET /admin/stats", s.apiHandlers.HandleStats)

	// REST API: every endpoint accepts the same filter query parameters
	// (q, area, month, quarter, customer_category, salesman,
	// item_category, customer_name, item_description, metric, target).
	s.mux.HandleFunc("GET /api/dashboard", s.apiHandlers.HandleDashboard)
	s.mux.HandleFunc("GET /api/summary", s.apiHandlers.HandleSummary)
	s.mux.HandleFunc("GET /api/sales-by-area", s.apiHandlers.HandleSalesByArea)
	s.mux.HandleFunc("GET /api/sales-by-month", s.apiHandlers.HandleSalesByMonth)
	s.mux.HandleFunc("GET /api/sales-by-quarter", s.apiHandlers.HandleSalesByQuarter)
	s.mux.HandleFunc("GET /api/salesman-performance", s.apiHandlers.HandleSalesmanAreas)
	s.mux.HandleFunc("GET /api/pivot/{key}", s.apiHandlers.HandlePivot)
	s.mux.HandleFunc("GET /api/monthly-kpis", s.apiHandlers.HandleMonthlyKPIs)
	s.mux.HandleFunc("GET /api/filter-options", s.apiHandlers.HandleFilterOptions)

	// CSV exports of the novelty event tables.
	s.mux.HandleFunc("GET /api/export/new-customers", s.apiHandlers.HandleExportNewCustomers)
	s.mux.HandleFunc("GET /api/export/newly-listed", s.apiHandlers.HandleExportNewlyListed)

	// Datastar SSE endpoints for live dashboard refresh.
	s.mux.HandleFunc("GET /sse/dashboard", s.sseHandlers.HandleDashboard)
	s.mux.HandleFunc("GET /sse/monthly-kpis", s.sseHandlers.HandleMonthlyKPIs)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

package server

import (
	"net/http"

	"github.com/bobmcallan/dart-portal/internal/app"
	"github.com/bobmcallan/dart-portal/internal/handlers"
)

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// UI page routes (HTML templates)
	mux.HandleFunc("/", s.app.PageHandler.ServePage("index.html", "home"))
	mux.HandleFunc("/company", s.app.PageHandler.ServeCompany)
	mux.HandleFunc("/mcp-info", s.app.PageHandler.ServeMCP(app.MCPCatalog))

	// Static files (CSS, JS, images)
	mux.HandleFunc("/static/", s.app.PageHandler.StaticFileHandler)

	// MCP endpoint (JSON-RPC over HTTP)
	if s.app.MCPHandler != nil {
		mux.Handle("/mcp", s.app.MCPHandler)
	}

	// API routes
	mux.HandleFunc("/api/health", s.app.HealthHandler.ServeHTTP)
	mux.HandleFunc("/api/version", s.app.VersionHandler.ServeHTTP)

	api := s.app.APIHandler
	mux.HandleFunc("/api/companies/search", api.HandleSearch)
	mux.HandleFunc("/api/companies/stock/{stockCode}", api.HandleStockCode)
	mux.HandleFunc("/api/financial-analysis", api.HandleAnalysis)
	mux.HandleFunc("/api/financial-statements", api.HandleStatements)
	mux.HandleFunc("/api/financial-trend", api.HandleTrend)
	mux.HandleFunc("/api/disclosure-list", api.HandleDisclosures)
	mux.HandleFunc("/api/ai-financial-analysis", api.HandleNarrative)

	// 404 handler for unmatched API routes
	mux.HandleFunc("/api/", s.handleNotFound)

	return mux
}

// handleNotFound returns a JSON 404 for unmatched API routes.
func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	handlers.WriteError(w, http.StatusNotFound, "요청한 API 경로가 존재하지 않습니다.")
}

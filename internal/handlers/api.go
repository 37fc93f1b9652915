package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/bobmcallan/dart-portal/internal/common"
	"github.com/bobmcallan/dart-portal/internal/financial"
	"github.com/bobmcallan/dart-portal/internal/models"
	"github.com/bobmcallan/dart-portal/internal/narrative"
)

// FinancialService is the subset of financial.Service the handlers use.
type FinancialService interface {
	SearchCompanies(ctx context.Context, keyword string) ([]models.Company, error)
	CompanyByStockCode(ctx context.Context, stockCode string) (*models.Company, error)
	Analyze(ctx context.Context, req financial.AnalysisRequest) (*models.Analysis, error)
	Statements(ctx context.Context, req financial.AnalysisRequest) (map[models.StatementDivision][]models.LineItem, error)
	ParseTrendRequest(corpCode, account, years string) (financial.TrendRequest, error)
	Trend(ctx context.Context, req financial.TrendRequest) (*models.Trend, error)
	Disclosures(ctx context.Context, corpCode string) ([]models.Disclosure, error)
}

// NarrativeService produces the AI commentary.
type NarrativeService interface {
	Analyze(ctx context.Context, in narrative.Input) (*narrative.Result, error)
}

// maxNarrativeBody caps the narrative request body.
const maxNarrativeBody = 256 << 10

// APIHandler serves the JSON API.
type APIHandler struct {
	logger    *common.Logger
	financial FinancialService
	narrative NarrativeService
}

// NewAPIHandler creates a new API handler.
func NewAPIHandler(logger *common.Logger, fin FinancialService, nar NarrativeService) *APIHandler {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &APIHandler{logger: logger, financial: fin, narrative: nar}
}

// HandleSearch handles GET /api/companies/search?keyword=.
func (h *APIHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	companies, err := h.financial.SearchCompanies(r.Context(), r.URL.Query().Get("keyword"))
	if err != nil {
		writeServiceError(w, h.logger, "search", err)
		return
	}
	WriteSuccess(w, companies)
}

// HandleStockCode handles GET /api/companies/stock/{stockCode}.
func (h *APIHandler) HandleStockCode(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	company, err := h.financial.CompanyByStockCode(r.Context(), r.PathValue("stockCode"))
	if err != nil {
		writeServiceError(w, h.logger, "stock_code", err)
		return
	}
	WriteSuccess(w, company)
}

func analysisRequest(r *http.Request) (financial.AnalysisRequest, error) {
	q := r.URL.Query()
	return financial.ParseAnalysisRequest(q.Get("corp_code"), q.Get("bsns_year"), q.Get("reprt_code"))
}

// HandleAnalysis handles GET /api/financial-analysis.
func (h *APIHandler) HandleAnalysis(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	req, err := analysisRequest(r)
	if err != nil {
		writeServiceError(w, h.logger, "financial_analysis", err)
		return
	}

	result, err := h.financial.Analyze(r.Context(), req)
	if err != nil {
		writeServiceError(w, h.logger, "financial_analysis", err)
		return
	}
	WriteSuccess(w, result)
}

// HandleStatements handles GET /api/financial-statements.
func (h *APIHandler) HandleStatements(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	req, err := analysisRequest(r)
	if err != nil {
		writeServiceError(w, h.logger, "financial_statements", err)
		return
	}

	grouped, err := h.financial.Statements(r.Context(), req)
	if err != nil {
		writeServiceError(w, h.logger, "financial_statements", err)
		return
	}
	WriteSuccess(w, grouped)
}

// HandleTrend handles GET /api/financial-trend.
func (h *APIHandler) HandleTrend(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	q := r.URL.Query()
	req, err := h.financial.ParseTrendRequest(q.Get("corp_code"), q.Get("account_nm"), q.Get("years"))
	if err != nil {
		writeServiceError(w, h.logger, "financial_trend", err)
		return
	}

	trend, err := h.financial.Trend(r.Context(), req)
	if err != nil {
		writeServiceError(w, h.logger, "financial_trend", err)
		return
	}
	WriteSuccess(w, trend)
}

// HandleDisclosures handles GET /api/disclosure-list.
func (h *APIHandler) HandleDisclosures(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	list, err := h.financial.Disclosures(r.Context(), r.URL.Query().Get("corp_code"))
	if err != nil {
		writeServiceError(w, h.logger, "disclosure_list", err)
		return
	}
	WriteSuccess(w, list)
}

// HandleNarrative handles POST /api/ai-financial-analysis.
func (h *APIHandler) HandleNarrative(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var in narrative.Input
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxNarrativeBody))
	if err := dec.Decode(&in); err != nil {
		WriteError(w, http.StatusBadRequest, narrative.MsgMissingInput)
		return
	}

	result, err := h.narrative.Analyze(r.Context(), in)
	if err != nil {
		var ve *narrative.ValidationError
		if errors.As(err, &ve) {
			WriteError(w, http.StatusBadRequest, ve.Message)
			return
		}
		h.logger.Error().Err(err).Str("company", in.CompanyName).Msg("AI financial analysis failed")
		WriteError(w, http.StatusInternalServerError, "AI 재무분석 중 오류가 발생했습니다: "+strings.TrimSpace(err.Error()))
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"status":   "success",
		"analysis": result.Text,
		"html":     result.HTML,
	})
}

package handlers

import (
	"encoding/json"
	"html/template"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/bobmcallan/dart-portal/internal/analysis"
	"github.com/bobmcallan/dart-portal/internal/common"
	"github.com/bobmcallan/dart-portal/internal/config"
	"github.com/bobmcallan/dart-portal/internal/financial"
	"github.com/bobmcallan/dart-portal/internal/models"
	"github.com/bobmcallan/dart-portal/internal/narrative"
)

// PageHandler serves HTML pages rendered with Go templates.
type PageHandler struct {
	logger           *common.Logger
	templates        *template.Template
	devMode          bool
	financial        FinancialService
	narrativeEnabled bool
}

// NewPageHandler creates a new page handler that loads templates from the pages directory.
func NewPageHandler(logger *common.Logger, devMode bool, fin FinancialService, narrativeEnabled bool) *PageHandler {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	pagesDir := FindPagesDir()

	templates := template.New("").Funcs(templateFuncs)
	template.Must(templates.ParseGlob(filepath.Join(pagesDir, "*.html")))
	template.Must(templates.ParseGlob(filepath.Join(pagesDir, "partials", "*.html")))

	return &PageHandler{
		logger:           logger,
		templates:        templates,
		devMode:          devMode,
		financial:        fin,
		narrativeEnabled: narrativeEnabled,
	}
}

var templateFuncs = template.FuncMap{
	"krw":    formatKRW,
	"number": common.FormatNumber,
	"date":   common.FormatDate,
}

func formatKRW(n int64) string {
	return common.FormatKRW(n, common.FormatOptions{})
}

// FindPagesDir locates the pages directory.
func FindPagesDir() string {
	dirs := []string{
		"./pages",
		"../pages",
		"../../pages",
		".",
	}

	for _, dir := range dirs {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			abs, _ := filepath.Abs(dir)
			return abs
		}
	}

	return "."
}

func (h *PageHandler) baseData(pageName string) map[string]interface{} {
	return map[string]interface{}{
		"Page":          pageName,
		"DevMode":       h.devMode,
		"PortalVersion": config.GetVersion(),
	}
}

func (h *PageHandler) render(w http.ResponseWriter, status int, templateName string, data map[string]interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.templates.ExecuteTemplate(w, templateName, data); err != nil {
		h.logger.Error().Str("template", templateName).Str("error", err.Error()).Msg("failed to render page")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// ServePage creates a handler function for serving a specific page template.
func (h *PageHandler) ServePage(templateName string, pageName string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		h.render(w, http.StatusOK, templateName, h.baseData(pageName))
	}
}

// StatementRow is one account line on the company page.
type StatementRow struct {
	Account    string
	Current    int64
	Previous   int64
	ChangeRate string
	Direction  string
}

// RatioRow is one ratio line on the company page.
type RatioRow struct {
	Name     string
	Current  string
	Previous string
}

func statementRows(division models.StatementDivision, pairs map[string]models.AmountPair) []StatementRow {
	var rows []StatementRow
	for _, name := range analysis.Accounts(division) {
		p, ok := pairs[name]
		if !ok {
			continue
		}
		row := StatementRow{Account: name, Current: p.Current, Previous: p.Previous}
		if rate, ok := common.ChangeRate(p.Current, p.Previous); ok {
			row.ChangeRate = rate + "%"
		}
		switch {
		case p.Current > p.Previous:
			row.Direction = "positive"
		case p.Current < p.Previous:
			row.Direction = "negative"
		default:
			row.Direction = "neutral"
		}
		rows = append(rows, row)
	}
	return rows
}

func ratioRows(ratios map[string]models.RatioValue) []RatioRow {
	var rows []RatioRow
	for _, name := range analysis.RatioNames() {
		if v, ok := ratios[name]; ok {
			rows = append(rows, RatioRow{Name: name, Current: v.Current, Previous: v.Previous})
		}
	}
	return rows
}

// ServeCompany renders GET /company?corp_code=&year=&reprt_code=[&name=].
// The analysis is computed for exactly the requested parameters.
func (h *PageHandler) ServeCompany(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	q := r.URL.Query()
	data := h.baseData("company")
	data["CorpCode"] = q.Get("corp_code")
	data["CorpName"] = q.Get("name")
	data["Year"] = q.Get("year")
	data["ReprtCode"] = q.Get("reprt_code")
	data["ReportCodes"] = []models.ReportCode{models.ReportAnnual, models.ReportHalfYear, models.ReportQ1, models.ReportQ3}
	data["NarrativeEnabled"] = h.narrativeEnabled

	req, err := financial.ParseAnalysisRequest(q.Get("corp_code"), q.Get("year"), q.Get("reprt_code"))
	if err != nil {
		data["Error"] = financial.UserMessage(err)
		h.render(w, http.StatusBadRequest, "company.html", data)
		return
	}

	result, err := h.financial.Analyze(r.Context(), req)
	if err != nil {
		status := statusFor(err)
		if status >= http.StatusInternalServerError {
			h.logger.Error().Err(err).Str("corp_code", req.CorpCode).Msg("company page analysis failed")
		}
		data["Error"] = financial.UserMessage(err)
		h.render(w, status, "company.html", data)
		return
	}

	name := q.Get("name")
	if name == "" {
		name = req.CorpCode
	}
	data["PeriodLabel"] = models.PeriodLabel(req.Year, req.ReprtCode)
	data["PreviousPeriodLabel"] = models.PreviousPeriodLabel(req.Year, req.ReprtCode)
	data["BalanceSheet"] = statementRows(models.BalanceSheet, result.BalanceSheet)
	data["IncomeStatement"] = statementRows(models.IncomeStatement, result.IncomeStatement)
	data["Ratios"] = ratioRows(result.Ratio)
	data["NarrativeInput"] = narrative.Input{
		CompanyName:     name,
		Year:            json.Number(strconv.Itoa(req.Year)),
		PreviousYear:    json.Number(strconv.Itoa(req.Year - 1)),
		BalanceSheet:    result.BalanceSheet,
		IncomeStatement: result.IncomeStatement,
		Ratio:           result.Ratio,
	}

	h.render(w, http.StatusOK, "company.html", data)
}

// StaticFileHandler serves static files (CSS, JS, images).
func (h *PageHandler) StaticFileHandler(w http.ResponseWriter, r *http.Request) {
	pagesDir := FindPagesDir()
	staticDir := filepath.Join(pagesDir, "static")

	// Remove /static/ prefix from URL path
	path := r.URL.Path[len("/static/"):]
	fullPath := filepath.Join(staticDir, path)

	// Security: prevent directory traversal
	absStaticDir, _ := filepath.Abs(staticDir)
	absFullPath, _ := filepath.Abs(fullPath)
	if len(absFullPath) < len(absStaticDir) || absFullPath[:len(absStaticDir)] != absStaticDir {
		http.NotFound(w, r)
		return
	}

	http.ServeFile(w, r, fullPath)
}

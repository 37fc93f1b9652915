package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bobmcallan/dart-portal/internal/app"
	"github.com/bobmcallan/dart-portal/internal/common"
	"github.com/bobmcallan/dart-portal/internal/config"
	"github.com/bobmcallan/dart-portal/internal/models"
)

const statementsOK = `{
  "status": "000",
  "message": "정상",
  "list": [
    {"bsns_year":"2023","corp_code":"00126380","reprt_code":"11011","account_nm":"유동자산","fs_div":"CFS","sj_div":"BS","thstrm_amount":"200","frmtrm_amount":"150"},
    {"bsns_year":"2023","corp_code":"00126380","reprt_code":"11011","account_nm":"유동부채","fs_div":"CFS","sj_div":"BS","thstrm_amount":"300","frmtrm_amount":"100"},
    {"bsns_year":"2023","corp_code":"00126380","reprt_code":"11011","account_nm":"매출액","fs_div":"CFS","sj_div":"IS","thstrm_amount":"1,000","frmtrm_amount":"800"}
  ]
}`

// newDARTStub serves fnlttSinglAcnt.json for corp 00126380 and "no data" for
// everything else.
func newDARTStub(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/fnlttSinglAcnt.json" && r.URL.Query().Get("corp_code") == "00126380" {
			w.Write([]byte(statementsOK))
			return
		}
		w.Write([]byte(`{"status":"013","message":"조회된 데이타가 없습니다."}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestApp(t *testing.T) *app.App {
	t.Helper()

	cfg := config.NewDefaultConfig()
	cfg.Storage.Path = filepath.Join(t.TempDir(), "dart.db")
	cfg.DART.BaseURL = newDARTStub(t).URL
	cfg.DART.APIKey = "test-key"
	cfg.DART.RatePerSecond = 0

	application, err := app.New(cfg, common.NewSilentLogger())
	if err != nil {
		t.Fatalf("failed to create test app: %v", err)
	}

	t.Cleanup(func() {
		application.Close()
	})

	_, err = application.Storage.CompanyStore().ReplaceAll(context.Background(), []models.Company{
		{CorpCode: "00126380", CorpName: "삼성전자", CorpEngName: "SAMSUNG ELECTRONICS CO,.LTD", StockCode: "005930", ModifyDate: "20240101"},
		{CorpCode: "00164779", CorpName: "에스케이하이닉스", CorpEngName: "SK hynix Inc.", StockCode: "000660", ModifyDate: "20231201"},
	})
	if err != nil {
		t.Fatalf("failed to seed companies: %v", err)
	}

	return application
}

func serve(srv *Server, method, target string, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func TestRoutes_HealthEndpoint(t *testing.T) {
	srv := New(newTestApp(t))

	w := serve(srv, "GET", "/api/health", "")
	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status ok, got %v", body["status"])
	}
	if body["companies"] != float64(2) {
		t.Errorf("expected 2 companies, got %v", body["companies"])
	}
}

func TestRoutes_VersionEndpoint(t *testing.T) {
	srv := New(newTestApp(t))

	w := serve(srv, "GET", "/api/version", "")
	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	if body["version"] == "" {
		t.Error("expected version field")
	}
}

func TestRoutes_APINotFound(t *testing.T) {
	srv := New(newTestApp(t))

	w := serve(srv, "GET", "/api/nonexistent", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	if body["status"] != "error" {
		t.Errorf("expected status error, got %s", body["status"])
	}
}

func TestRoutes_CompanySearch(t *testing.T) {
	srv := New(newTestApp(t))

	w := serve(srv, "GET", "/api/companies/search?keyword=hynix", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var body struct {
		Status string           `json:"status"`
		Data   []models.Company `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	if len(body.Data) != 1 || body.Data[0].CorpCode != "00164779" {
		t.Errorf("expected hynix, got %+v", body.Data)
	}
}

func TestRoutes_CompanySearchTooShort(t *testing.T) {
	srv := New(newTestApp(t))

	w := serve(srv, "GET", "/api/companies/search?keyword="+url.QueryEscape("삼"), "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

func TestRoutes_StockCode(t *testing.T) {
	srv := New(newTestApp(t))

	w := serve(srv, "GET", "/api/companies/stock/005930", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "00126380") {
		t.Errorf("expected samsung corp code, got %s", w.Body.String())
	}

	w = serve(srv, "GET", "/api/companies/stock/999999", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
}

func TestRoutes_FinancialAnalysis(t *testing.T) {
	srv := New(newTestApp(t))

	w := serve(srv, "GET", "/api/financial-analysis?corp_code=00126380&bsns_year=2023&reprt_code=11011", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var body struct {
		Status string          `json:"status"`
		Data   models.Analysis `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	if got := body.Data.Ratio["유동비율"].Current; got != "66.67" {
		t.Errorf("expected 유동비율 66.67, got %s", got)
	}
	if got := body.Data.IncomeStatement["매출액"].Current; got != 1000 {
		t.Errorf("expected 매출액 1000, got %d", got)
	}
}

func TestRoutes_FinancialAnalysisNoData(t *testing.T) {
	srv := New(newTestApp(t))

	w := serve(srv, "GET", "/api/financial-analysis?corp_code=00164779&bsns_year=2023&reprt_code=11011", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRoutes_NarrativeWithoutKey(t *testing.T) {
	srv := New(newTestApp(t))

	body := `{"companyName":"삼성전자","year":2023,"balanceSheet":{"유동자산":{"current":200,"previous":150}},"incomeStatement":{"매출액":{"current":1000,"previous":800}},"ratio":{}}`
	w := serve(srv, "POST", "/api/ai-financial-analysis", body)
	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected status 500 without a Gemini key, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRoutes_MCPInitialize(t *testing.T) {
	srv := New(newTestApp(t))

	req := httptest.NewRequest("POST", "/mcp", strings.NewReader(
		`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2025-03-26","capabilities":{},"clientInfo":{"name":"test","version":"1.0"}}}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, text/event-stream")
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "dart-portal") {
		t.Errorf("expected server name in initialize result, got %s", w.Body.String())
	}
}

func TestRoutes_IndexPage(t *testing.T) {
	srv := New(newTestApp(t))

	w := serve(srv, "GET", "/", "")
	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "text/html") {
		t.Errorf("expected text/html content type, got %s", ct)
	}
	if !strings.Contains(w.Body.String(), "기업 검색") {
		t.Error("expected search heading in index page")
	}
}

func TestRoutes_CompanyPage(t *testing.T) {
	srv := New(newTestApp(t))

	w := serve(srv, "GET", "/company?corp_code=00126380&year=2023&reprt_code=11011&name="+url.QueryEscape("삼성전자"), "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "66.67") {
		t.Error("expected ratio value in company page")
	}
}

func TestRoutes_MCPInfoPage(t *testing.T) {
	srv := New(newTestApp(t))

	w := serve(srv, "GET", "/mcp-info", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "http://example.com/mcp") {
		t.Error("expected MCP endpoint derived from the request host")
	}
	if !strings.Contains(body, `data-tool="get_financial_analysis"`) {
		t.Error("expected get_financial_analysis in tool list")
	}
}

func TestRoutes_MiddlewareApplied(t *testing.T) {
	srv := New(newTestApp(t))

	w := serve(srv, "GET", "/api/health", "")
	if w.Header().Get("X-Correlation-ID") == "" {
		t.Error("expected X-Correlation-ID header from middleware")
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("expected CORS header from middleware")
	}
	if w.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("expected security headers from middleware")
	}
}

func TestRoutes_PagesSetNoCookies(t *testing.T) {
	srv := New(newTestApp(t))

	for _, path := range []string{"/", "/mcp-info", "/company?corp_code=00126380&year=2023&reprt_code=11011"} {
		w := serve(srv, "GET", path, "")
		if w.Code != http.StatusOK {
			t.Errorf("%s: expected status 200, got %d", path, w.Code)
		}
		if cookies := w.Result().Cookies(); len(cookies) != 0 {
			t.Errorf("%s: expected no cookies, got %v", path, cookies)
		}
	}
}

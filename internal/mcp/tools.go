package mcp

import (
	"context"
	"sort"

	"github.com/bobmcallan/dart-portal/internal/config"
	"github.com/bobmcallan/dart-portal/internal/financial"
	"github.com/bobmcallan/dart-portal/internal/models"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// FinancialService is the subset of financial.Service exposed as tools.
type FinancialService interface {
	SearchCompanies(ctx context.Context, keyword string) ([]models.Company, error)
	CompanyByStockCode(ctx context.Context, stockCode string) (*models.Company, error)
	Analyze(ctx context.Context, req financial.AnalysisRequest) (*models.Analysis, error)
	ParseTrendRequest(corpCode, account, years string) (financial.TrendRequest, error)
	Trend(ctx context.Context, req financial.TrendRequest) (*models.Trend, error)
	Disclosures(ctx context.Context, corpCode string) ([]models.Disclosure, error)
}

// NewServer creates an MCP server with every tool registered.
func NewServer(fin FinancialService) *server.MCPServer {
	s := server.NewMCPServer(
		"dart-portal",
		config.GetVersion(),
		server.WithToolCapabilities(true),
	)
	RegisterTools(s, fin)
	return s
}

// RegisterTools registers all MCP tools on the server.
func RegisterTools(s *server.MCPServer, fin FinancialService) {
	for _, t := range tools(fin) {
		s.AddTool(t.Tool, t.Handler)
	}
}

func tools(fin FinancialService) []server.ServerTool {
	return []server.ServerTool{
		{Tool: VersionTool(), Handler: VersionToolHandler()},
		{Tool: createSearchCompaniesTool(), Handler: handleSearchCompanies(fin)},
		{Tool: createCompanyByStockCodeTool(), Handler: handleCompanyByStockCode(fin)},
		{Tool: createFinancialAnalysisTool(), Handler: handleFinancialAnalysis(fin)},
		{Tool: createFinancialTrendTool(), Handler: handleFinancialTrend(fin)},
		{Tool: createListDisclosuresTool(), Handler: handleListDisclosures(fin)},
	}
}

// ToolInfo describes one registered tool for display.
type ToolInfo struct {
	Name        string
	Description string
	Params      []string
}

// Catalog lists the registered tools in registration order.
func Catalog() []ToolInfo {
	defs := tools(nil)
	out := make([]ToolInfo, len(defs))
	for i, t := range defs {
		info := ToolInfo{Name: t.Tool.Name, Description: t.Tool.Description}
		for name := range t.Tool.InputSchema.Properties {
			info.Params = append(info.Params, name)
		}
		sort.Strings(info.Params)
		out[i] = info
	}
	return out
}

func createSearchCompaniesTool() mcp.Tool {
	return mcp.NewTool("search_companies",
		mcp.WithDescription("Search Korean companies registered with OpenDART by Korean or English name. Returns corp_code values for the other tools."),
		mcp.WithString("keyword", mcp.Required(), mcp.Description("Company name fragment, at least 2 characters (e.g. 삼성, hynix)")),
	)
}

func createCompanyByStockCodeTool() mcp.Tool {
	return mcp.NewTool("get_company_by_stock_code",
		mcp.WithDescription("Look up a listed company by its 6-digit KRX stock code."),
		mcp.WithString("stock_code", mcp.Required(), mcp.Description("KRX stock code (e.g. 005930)")),
	)
}

func createFinancialAnalysisTool() mcp.Tool {
	return mcp.NewTool("get_financial_analysis",
		mcp.WithDescription("Fetch a periodic filing from OpenDART and return the key balance sheet and income statement accounts with derived ratios (유동비율, 부채비율, ROE, ROA, ...)."),
		mcp.WithString("corp_code", mcp.Required(), mcp.Description("8-digit OpenDART corporation code")),
		mcp.WithString("bsns_year", mcp.Required(), mcp.Description("Business year, 4 digits")),
		mcp.WithString("reprt_code", mcp.Description("11011 annual (default), 11012 half-year, 11013 Q1, 11014 Q3")),
	)
}

func createFinancialTrendTool() mcp.Tool {
	return mcp.NewTool("get_financial_trend",
		mcp.WithDescription("Get one account's current-period amount across several years. Each year uses the most complete report available."),
		mcp.WithString("corp_code", mcp.Required(), mcp.Description("8-digit OpenDART corporation code")),
		mcp.WithString("account_nm", mcp.Required(), mcp.Description("Account name exactly as filed (e.g. 매출액, 당기순이익)")),
		mcp.WithString("years", mcp.Description("Comma-separated years (default: last five)")),
	)
}

func createListDisclosuresTool() mcp.Tool {
	return mcp.NewTool("list_disclosures",
		mcp.WithDescription("List the company's periodic reports (annual, half-year, quarterly) filed in the last three years, newest first."),
		mcp.WithString("corp_code", mcp.Required(), mcp.Description("8-digit OpenDART corporation code")),
	)
}

package mcp

import (
	"context"

	"github.com/bobmcallan/dart-portal/internal/financial"
	"github.com/bobmcallan/dart-portal/internal/models"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// errorResult creates an MCP error result.
func errorResult(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(message),
		},
		IsError: true,
	}
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(text)},
	}
}

// serviceError turns a service error into a tool error. Tool errors are
// results, not protocol errors.
func serviceError(err error) (*mcp.CallToolResult, error) {
	return errorResult(financial.UserMessage(err)), nil
}

func handleSearchCompanies(fin FinancialService) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		companies, err := fin.SearchCompanies(ctx, r.GetString("keyword", ""))
		if err != nil {
			return serviceError(err)
		}
		return textResult(FormatCompanies(companies)), nil
	}
}

func handleCompanyByStockCode(fin FinancialService) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		company, err := fin.CompanyByStockCode(ctx, r.GetString("stock_code", ""))
		if err != nil {
			return serviceError(err)
		}
		return textResult(FormatCompanies([]models.Company{*company})), nil
	}
}

func handleFinancialAnalysis(fin FinancialService) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		req, err := financial.ParseAnalysisRequest(
			r.GetString("corp_code", ""),
			r.GetString("bsns_year", ""),
			r.GetString("reprt_code", string(models.ReportAnnual)),
		)
		if err != nil {
			return serviceError(err)
		}

		result, err := fin.Analyze(ctx, req)
		if err != nil {
			return serviceError(err)
		}
		return textResult(FormatAnalysis(req, result)), nil
	}
}

func handleFinancialTrend(fin FinancialService) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		req, err := fin.ParseTrendRequest(
			r.GetString("corp_code", ""),
			r.GetString("account_nm", ""),
			r.GetString("years", ""),
		)
		if err != nil {
			return serviceError(err)
		}

		trend, err := fin.Trend(ctx, req)
		if err != nil {
			return serviceError(err)
		}
		return textResult(FormatTrend(trend)), nil
	}
}

func handleListDisclosures(fin FinancialService) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		list, err := fin.Disclosures(ctx, r.GetString("corp_code", ""))
		if err != nil {
			return serviceError(err)
		}
		return textResult(FormatDisclosures(list)), nil
	}
}

package mcp

import (
	"fmt"
	"strings"

	"github.com/bobmcallan/dart-portal/internal/analysis"
	"github.com/bobmcallan/dart-portal/internal/common"
	"github.com/bobmcallan/dart-portal/internal/financial"
	"github.com/bobmcallan/dart-portal/internal/models"
)

func formatKRW(v int64) string { return common.FormatKRW(v, common.FormatOptions{}) }

// FormatCompanies formats directory entries as a markdown table.
func FormatCompanies(companies []models.Company) string {
	if len(companies) == 0 {
		return "검색 결과가 없습니다."
	}

	var sb strings.Builder
	sb.WriteString("| corp_code | 회사명 | 영문명 | 종목코드 | 최종변경일 |\n")
	sb.WriteString("|-----------|--------|--------|----------|------------|\n")
	for _, c := range companies {
		stock := "-"
		if c.Listed() {
			stock = c.StockCode
		}
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s |\n",
			c.CorpCode, c.CorpName, c.CorpEngName, stock, common.FormatDate(c.ModifyDate)))
	}
	return sb.String()
}

func writeStatement(sb *strings.Builder, title string, division models.StatementDivision, pairs map[string]models.AmountPair) {
	if len(pairs) == 0 {
		return
	}
	sb.WriteString(fmt.Sprintf("## %s\n\n", title))
	sb.WriteString("| 계정 | 당기 | 전기 | 증감률 |\n")
	sb.WriteString("|------|------|------|--------|\n")
	for _, name := range analysis.Accounts(division) {
		p, ok := pairs[name]
		if !ok {
			continue
		}
		rate := "-"
		if r, ok := common.ChangeRate(p.Current, p.Previous); ok {
			rate = r + "%"
		}
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n", name, formatKRW(p.Current), formatKRW(p.Previous), rate))
	}
	sb.WriteString("\n")
}

// FormatAnalysis formats normalized statements and ratios as markdown.
func FormatAnalysis(req financial.AnalysisRequest, a *models.Analysis) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# %s %s\n\n", req.CorpCode, models.PeriodLabel(req.Year, req.ReprtCode)))
	sb.WriteString(fmt.Sprintf("**비교 기간:** %s\n\n", models.PreviousPeriodLabel(req.Year, req.ReprtCode)))

	writeStatement(&sb, models.BalanceSheet.Label(), models.BalanceSheet, a.BalanceSheet)
	writeStatement(&sb, models.IncomeStatement.Label(), models.IncomeStatement, a.IncomeStatement)

	if len(a.Ratio) > 0 {
		sb.WriteString("## 재무비율\n\n")
		sb.WriteString("| 비율 | 당기 (%) | 전기 (%) |\n")
		sb.WriteString("|------|----------|----------|\n")
		for _, name := range analysis.RatioNames() {
			if v, ok := a.Ratio[name]; ok {
				sb.WriteString(fmt.Sprintf("| %s | %s | %s |\n", name, v.Current, v.Previous))
			}
		}
	}

	return sb.String()
}

// FormatTrend formats a trend as a one-row markdown table.
func FormatTrend(t *models.Trend) string {
	var sb strings.Builder
	for _, ds := range t.Datasets {
		sb.WriteString(fmt.Sprintf("## %s\n\n", ds.Label))
		sb.WriteString("| 연도 | 금액 |\n")
		sb.WriteString("|------|------|\n")
		for i, v := range ds.Data {
			amount := "-"
			if v != nil {
				amount = formatKRW(*v)
			}
			sb.WriteString(fmt.Sprintf("| %s | %s |\n", t.Labels[i], amount))
		}
	}
	return sb.String()
}

// FormatDisclosures formats periodic reports as a markdown table.
func FormatDisclosures(list []models.Disclosure) string {
	if len(list) == 0 {
		return "최근 3년간 정기공시가 없습니다."
	}

	var sb strings.Builder
	sb.WriteString("| 접수일 | 보고서 | 사업연도 | reprt_code | 접수번호 |\n")
	sb.WriteString("|--------|--------|----------|------------|----------|\n")
	for _, d := range list {
		sb.WriteString(fmt.Sprintf("| %s | %s | %d | %s | %s |\n",
			common.FormatDate(d.RceptDt), strings.TrimSpace(d.ReportNm), d.Year, d.ReprtCode, d.RceptNo))
	}
	return sb.String()
}

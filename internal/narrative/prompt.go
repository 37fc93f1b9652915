// Package narrative turns a computed analysis into a Korean-language
// commentary from Gemini.
package narrative

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bobmcallan/dart-portal/internal/common"
	"github.com/bobmcallan/dart-portal/internal/models"
	"github.com/shopspring/decimal"
)

// Input is the narrative request body.
type Input struct {
	CompanyName     string                       `json:"companyName"`
	Year            json.Number                  `json:"year"`
	PreviousYear    json.Number                  `json:"previousYear,omitempty"`
	BalanceSheet    map[string]models.AmountPair `json:"balanceSheet"`
	IncomeStatement map[string]models.AmountPair `json:"incomeStatement"`
	Ratio           map[string]models.RatioValue `json:"ratio,omitempty"`
}

// MsgMissingInput is the validation message for an incomplete Input.
const MsgMissingInput = "회사명, 연도, 재무상태표, 손익계산서는 필수 입력값입니다."

// Validate reports whether the required fields are present.
func (in *Input) Validate() error {
	if strings.TrimSpace(in.CompanyName) == "" || in.Year.String() == "" ||
		in.BalanceSheet == nil || in.IncomeStatement == nil {
		return &ValidationError{Message: MsgMissingInput}
	}
	return nil
}

// ValidationError marks an incomplete request.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

type figure struct {
	Current    int64  `json:"current"`
	Previous   int64  `json:"previous"`
	Change     int64  `json:"change"`
	ChangeRate string `json:"changeRate,omitempty"`
}

type ratioFigure struct {
	Current  string `json:"current"`
	Previous string `json:"previous"`
	Change   string `json:"change,omitempty"`
}

type promptData struct {
	Company         string                 `json:"company"`
	Year            string                 `json:"year"`
	PreviousYear    string                 `json:"previousYear,omitempty"`
	BalanceSheet    map[string]figure      `json:"balanceSheet"`
	IncomeStatement map[string]figure      `json:"incomeStatement"`
	Ratio           map[string]ratioFigure `json:"ratio"`
}

func figures(pairs map[string]models.AmountPair) map[string]figure {
	out := make(map[string]figure, len(pairs))
	for name, p := range pairs {
		f := figure{Current: p.Current, Previous: p.Previous, Change: p.Current - p.Previous}
		if rate, ok := common.ChangeRate(p.Current, p.Previous); ok {
			f.ChangeRate = rate + "%"
		}
		out[name] = f
	}
	return out
}

func ratioFigures(ratios map[string]models.RatioValue) map[string]ratioFigure {
	out := make(map[string]ratioFigure, len(ratios))
	for name, r := range ratios {
		f := ratioFigure{Current: r.Current, Previous: r.Previous}
		cur, errCur := decimal.NewFromString(r.Current)
		prev, errPrev := decimal.NewFromString(r.Previous)
		if errCur == nil && errPrev == nil {
			f.Change = cur.Sub(prev).StringFixed(2)
		}
		out[name] = f
	}
	return out
}

// BuildPrompt renders the analysis instructions for in.
func BuildPrompt(in Input) (string, error) {
	data := promptData{
		Company:         in.CompanyName,
		Year:            in.Year.String(),
		PreviousYear:    in.PreviousYear.String(),
		BalanceSheet:    figures(in.BalanceSheet),
		IncomeStatement: figures(in.IncomeStatement),
		Ratio:           ratioFigures(in.Ratio),
	}
	body, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode prompt data: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "다음은 %s의 %s년 재무제표 데이터입니다. 이 데이터를 분석하여 회사의 재무 상태에 대한 간결하고 통찰력 있는 분석을 제공해주세요.\n\n", in.CompanyName, data.Year)
	b.WriteString("재무 데이터:\n")
	b.Write(body)
	b.WriteString("\n\n")
	b.WriteString(`다음 지침을 따라 분석해주세요:
1. 매출, 영업이익, 당기순이익의 변화를 분석하고 의미를 설명해주세요.
2. 자산, 부채, 자본의 변화를 분석하고 회사의 재무 안정성을 평가해주세요.
3. 주요 재무비율(유동비율, 부채비율, ROE, ROA 등)을 해석하여 회사의 재무 건전성을 평가해주세요.
4. 전년 대비 주요 변화점과 그 의미를 설명해주세요.
5. 회사의 재무 상태에 대한 전반적인 평가와 간단한 요약을 제공해주세요.

형식 지침:
- Markdown 코드 블록을 사용하지 마세요.
- 문단은 <p> 태그로 감싸주세요. 예: <p>분석 내용입니다.</p>
- 긍정적인 내용은 <span class="positive">내용</span> 형식으로 표시해주세요.
- 부정적인 내용은 <span class="negative">내용</span> 형식으로 표시해주세요.
- 중립적인 내용은 <span class="neutral">내용</span> 형식으로 표시해주세요.
- 중요한 수치나 용어는 <strong>내용</strong> 형식으로 강조해주세요.
`)
	fmt.Fprintf(&b, "- 제목으로 \"%s %s년 재무 분석\"을 첫 줄에 추가해주세요.\n", in.CompanyName, data.Year)
	b.WriteString("- 전체 분석은 3-4개 문단으로 간결하게 작성해주세요.\n")
	return b.String(), nil
}

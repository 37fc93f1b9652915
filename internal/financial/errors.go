package financial

import (
	"errors"
	"strings"

	"github.com/bobmcallan/dart-portal/internal/models"
)

// Messages shown to end users.
const (
	MsgKeywordTooShort    = "검색어는 2글자 이상 입력해주세요."
	MsgMissingParams      = "회사 고유번호, 사업연도, 보고서 코드는 필수 입력값입니다."
	MsgInvalidYear        = "사업연도는 4자리 숫자여야 합니다."
	MsgInvalidReportCode  = "보고서 코드는 11011, 11012, 11013, 11014 중 하나여야 합니다."
	MsgMissingTrendParams = "회사 고유번호와 계정명은 필수 입력값입니다."
	MsgMissingCorpCode    = "회사 고유번호는 필수 입력값입니다."
	MsgNoStatements       = "해당 회사의 재무제표 데이터를 DART API에서 찾을 수 없습니다."
	MsgNoUsableData       = "재무제표에 유효한 데이터가 없습니다."
	MsgNoTrendData        = "해당 계정의 데이터를 찾을 수 없습니다."
	MsgCompanyNotFound    = "해당 종목코드의 회사를 찾을 수 없습니다."
)

// ErrNoStatements is returned when OpenDART has no filing for the request.
var ErrNoStatements = errors.New("no financial statements for the request")

// ErrNoTrendData is returned when no requested year has the account.
var ErrNoTrendData = errors.New("no data for the account in the requested years")

// ValidationError is a bad request input. No upstream call is made.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(msg string) error { return &ValidationError{Message: msg} }

// AnalysisRequest is a validated (company, year, report) triple.
type AnalysisRequest struct {
	CorpCode  string
	Year      int
	ReprtCode models.ReportCode
}

// ParseAnalysisRequest validates raw corp_code, bsns_year and reprt_code
// values.
func ParseAnalysisRequest(corpCode, year, reprtCode string) (AnalysisRequest, error) {
	corpCode = strings.TrimSpace(corpCode)
	if corpCode == "" || strings.TrimSpace(year) == "" || strings.TrimSpace(reprtCode) == "" {
		return AnalysisRequest{}, invalid(MsgMissingParams)
	}
	y, err := models.ParseYear(year)
	if err != nil {
		return AnalysisRequest{}, invalid(MsgInvalidYear)
	}
	code, err := models.ParseReportCode(reprtCode)
	if err != nil {
		return AnalysisRequest{}, invalid(MsgInvalidReportCode)
	}
	return AnalysisRequest{CorpCode: corpCode, Year: y, ReprtCode: code}, nil
}

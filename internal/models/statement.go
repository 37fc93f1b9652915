package models

// StatementDivision classifies a line item as balance sheet or income statement.
type StatementDivision string

const (
	BalanceSheet    StatementDivision = "BS"
	IncomeStatement StatementDivision = "IS"
)

// Label returns the Korean statement title.
func (d StatementDivision) Label() string {
	switch d {
	case BalanceSheet:
		return "재무상태표"
	case IncomeStatement:
		return "손익계산서"
	default:
		return string(d)
	}
}

// Consolidation scopes reported in fs_div.
const (
	Consolidated = "CFS"
	Separate     = "OFS"
)

// LineItem is one row of the OpenDART single-company key accounts response
// (fnlttSinglAcnt.json). Amounts are kept exactly as delivered: digits with
// thousands separators, possibly negative or empty.
type LineItem struct {
	RceptNo         string            `json:"rcept_no"`
	BsnsYear        string            `json:"bsns_year"`
	CorpCode        string            `json:"corp_code"`
	StockCode       string            `json:"stock_code"`
	ReprtCode       string            `json:"reprt_code"`
	AccountNm       string            `json:"account_nm"`
	FsDiv           string            `json:"fs_div"`
	FsNm            string            `json:"fs_nm"`
	SjDiv           StatementDivision `json:"sj_div"`
	SjNm            string            `json:"sj_nm"`
	ThstrmNm        string            `json:"thstrm_nm"`
	ThstrmDt        string            `json:"thstrm_dt"`
	ThstrmAmount    string            `json:"thstrm_amount"`
	ThstrmAddAmount string            `json:"thstrm_add_amount,omitempty"`
	FrmtrmNm        string            `json:"frmtrm_nm"`
	FrmtrmDt        string            `json:"frmtrm_dt"`
	FrmtrmAmount    string            `json:"frmtrm_amount"`
	FrmtrmAddAmount string            `json:"frmtrm_add_amount,omitempty"`
	BfefrmtrmNm     string            `json:"bfefrmtrm_nm,omitempty"`
	BfefrmtrmDt     string            `json:"bfefrmtrm_dt,omitempty"`
	BfefrmtrmAmount string            `json:"bfefrmtrm_amount,omitempty"`
	Ord             string            `json:"ord"`
	Currency        string            `json:"currency"`
}

// GroupByDivision splits line items by statement division, keeping API order
// inside each group.
func GroupByDivision(items []LineItem) map[StatementDivision][]LineItem {
	groups := make(map[StatementDivision][]LineItem)
	for _, item := range items {
		groups[item.SjDiv] = append(groups[item.SjDiv], item)
	}
	return groups
}

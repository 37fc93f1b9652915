package models

// Disclosure is one filing from the OpenDART disclosure search (list.json),
// annotated with the business year and report code its title resolves to.
type Disclosure struct {
	CorpCode  string     `json:"corp_code"`
	CorpName  string     `json:"corp_name"`
	StockCode string     `json:"stock_code"`
	CorpCls   string     `json:"corp_cls"`
	ReportNm  string     `json:"report_nm"`
	RceptNo   string     `json:"rcept_no"`
	FlrNm     string     `json:"flr_nm"`
	RceptDt   string     `json:"rcept_dt"`
	Rm        string     `json:"rm"`
	Year      int        `json:"year,omitempty"`
	ReprtCode ReportCode `json:"reprt_code,omitempty"`
}

// TrendDataset is one series of a trend chart.
type TrendDataset struct {
	Label string   `json:"label"`
	Data  []*int64 `json:"data"`
}

// Trend is the chart payload for one account across several years. A nil
// data point marks a year with no filing.
type Trend struct {
	Labels   []string       `json:"labels"`
	Datasets []TrendDataset `json:"datasets"`
}

// Empty reports whether every data point is missing.
func (t *Trend) Empty() bool {
	for _, ds := range t.Datasets {
		for _, v := range ds.Data {
			if v != nil {
				return false
			}
		}
	}
	return true
}

package models

import "strings"

// Company is one entry of the OpenDART corporation directory (CORPCODE.xml).
type Company struct {
	CorpCode    string `json:"corp_code" xml:"corp_code"`
	CorpName    string `json:"corp_name" xml:"corp_name"`
	CorpEngName string `json:"corp_eng_name" xml:"corp_eng_name"`
	StockCode   string `json:"stock_code" xml:"stock_code"`
	ModifyDate  string `json:"modify_date" xml:"modify_date"`
}

// Listed reports whether the company trades under a stock code.
func (c Company) Listed() bool {
	return strings.TrimSpace(c.StockCode) != ""
}

// Normalize trims the whitespace the directory feed pads its fields with.
func (c Company) Normalize() Company {
	return Company{
		CorpCode:    strings.TrimSpace(c.CorpCode),
		CorpName:    strings.TrimSpace(c.CorpName),
		CorpEngName: strings.TrimSpace(c.CorpEngName),
		StockCode:   strings.TrimSpace(c.StockCode),
		ModifyDate:  strings.TrimSpace(c.ModifyDate),
	}
}

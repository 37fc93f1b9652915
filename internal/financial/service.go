// Package financial orchestrates the OpenDART client, the local stores and
// the ratio analyzer behind the portal's API and MCP surfaces.
package financial

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/bobmcallan/dart-portal/internal/analysis"
	"github.com/bobmcallan/dart-portal/internal/common"
	"github.com/bobmcallan/dart-portal/internal/config"
	"github.com/bobmcallan/dart-portal/internal/dart"
	"github.com/bobmcallan/dart-portal/internal/interfaces"
	"github.com/bobmcallan/dart-portal/internal/models"
	"github.com/sourcegraph/conc/pool"
)

const (
	disclosureYears = 3
	maxTrendYears   = 10
	trendWorkers    = 4
)

// Service answers company, statement, trend and disclosure queries.
type Service struct {
	dart       interfaces.DARTClient
	companies  interfaces.CompanyStore
	statements interfaces.StatementStore
	analyzer   *analysis.Analyzer
	search     config.SearchConfig
	logger     *common.Logger
	now        func() time.Time
}

// NewService creates a Service.
func NewService(client interfaces.DARTClient, storage interfaces.StorageManager, search config.SearchConfig, logger *common.Logger) *Service {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	if search.Limit <= 0 {
		search.Limit = 10
	}
	if search.MinKeywordLength <= 0 {
		search.MinKeywordLength = 2
	}
	if search.TrendYears <= 0 {
		search.TrendYears = 5
	}
	return &Service{
		dart:       client,
		companies:  storage.CompanyStore(),
		statements: storage.StatementStore(),
		analyzer:   analysis.NewAnalyzer(logger),
		search:     search,
		logger:     logger,
		now:        time.Now,
	}
}

// SearchCompanies matches the keyword against Korean and English names.
func (s *Service) SearchCompanies(ctx context.Context, keyword string) ([]models.Company, error) {
	keyword = strings.TrimSpace(keyword)
	if utf8.RuneCountInString(keyword) < s.search.MinKeywordLength {
		return nil, invalid(MsgKeywordTooShort)
	}
	companies, err := s.companies.Search(ctx, keyword, s.search.Limit)
	if err != nil {
		return nil, fmt.Errorf("search companies: %w", err)
	}
	return companies, nil
}

// CompanyByStockCode returns the listed company with the given ticker.
func (s *Service) CompanyByStockCode(ctx context.Context, stockCode string) (*models.Company, error) {
	stockCode = strings.TrimSpace(stockCode)
	if stockCode == "" {
		return nil, invalid(MsgCompanyNotFound)
	}
	return s.companies.GetByStockCode(ctx, stockCode)
}

// Analyze fetches one filing and derives the normalized statements and
// ratios. Nothing is persisted.
func (s *Service) Analyze(ctx context.Context, req AnalysisRequest) (*models.Analysis, error) {
	items, err := s.dart.SingleAccounts(ctx, req.CorpCode, req.Year, req.ReprtCode)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrNoStatements
	}

	result, err := s.analyzer.Analyze(items)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("corp_code", req.CorpCode).
		Int("year", req.Year).
		Str("reprt_code", req.ReprtCode.String()).
		Int("ratios", len(result.Ratio)).
		Msg("financial analysis computed")

	return result, nil
}

// Statements returns the raw line items for a filing grouped by statement
// division, reading through the local statement cache.
func (s *Service) Statements(ctx context.Context, req AnalysisRequest) (map[models.StatementDivision][]models.LineItem, error) {
	items, err := s.loadStatements(ctx, req.CorpCode, req.Year, req.ReprtCode)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrNoStatements
	}
	return models.GroupByDivision(items), nil
}

// loadStatements reads the cache and falls back to OpenDART, storing what
// came back. Rows that already exist are skipped.
func (s *Service) loadStatements(ctx context.Context, corpCode string, year int, code models.ReportCode) ([]models.LineItem, error) {
	cached, err := s.statements.Find(ctx, corpCode, year, code)
	if err != nil {
		return nil, fmt.Errorf("read statement cache: %w", err)
	}
	if len(cached) > 0 {
		return cached, nil
	}

	items, err := s.dart.SingleAccounts(ctx, corpCode, year, code)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return items, nil
	}

	inserted, err := s.statements.InsertIgnore(ctx, items)
	if err != nil {
		// The fetched items are still good; the cache will be filled next time.
		s.logger.Warn().Err(err).Str("corp_code", corpCode).Int("year", year).Msg("failed to cache statements")
	} else {
		s.logger.Debug().
			Str("corp_code", corpCode).
			Int("year", year).
			Str("reprt_code", code.String()).
			Int64("inserted", inserted).
			Msg("statements cached")
	}
	return items, nil
}

// TrendRequest selects one account across several business years.
type TrendRequest struct {
	CorpCode string
	Account  string
	Years    []int
}

// ParseTrendRequest validates raw trend parameters. An empty years value
// selects the configured number of years ending last year.
func (s *Service) ParseTrendRequest(corpCode, account, years string) (TrendRequest, error) {
	corpCode = strings.TrimSpace(corpCode)
	account = strings.TrimSpace(account)
	if corpCode == "" || account == "" {
		return TrendRequest{}, invalid(MsgMissingTrendParams)
	}

	req := TrendRequest{CorpCode: corpCode, Account: account}
	if strings.TrimSpace(years) == "" {
		last := s.now().Year() - 1
		for y := last - s.search.TrendYears + 1; y <= last; y++ {
			req.Years = append(req.Years, y)
		}
		return req, nil
	}

	seen := make(map[int]bool)
	for _, part := range strings.Split(years, ",") {
		y, err := models.ParseYear(part)
		if err != nil {
			return TrendRequest{}, invalid(MsgInvalidYear)
		}
		if !seen[y] {
			seen[y] = true
			req.Years = append(req.Years, y)
		}
	}
	if len(req.Years) > maxTrendYears {
		return TrendRequest{}, invalid(fmt.Sprintf("최대 %d개 연도까지 조회할 수 있습니다.", maxTrendYears))
	}
	sort.Ints(req.Years)
	return req, nil
}

// Trend collects the current-period amount of one account for each year.
// Each year uses the first report kind in FallbackOrder that carries the
// account. Years with no such report are nil, as are years OpenDART answers
// with an error status. Transport failures still fail the whole trend.
func (s *Service) Trend(ctx context.Context, req TrendRequest) (*models.Trend, error) {
	values := make([]*int64, len(req.Years))

	var mu sync.Mutex
	var skipped error

	p := pool.New().WithContext(ctx).WithCancelOnError().WithMaxGoroutines(trendWorkers)
	for i, year := range req.Years {
		p.Go(func(ctx context.Context) error {
			fetch := func(ctx context.Context, code models.ReportCode) ([]models.LineItem, error) {
				items, err := s.loadStatements(ctx, req.CorpCode, year, code)
				if err != nil {
					return nil, err
				}
				return filterAccount(items, req.Account), nil
			}
			matches, code, err := models.FirstNonEmpty(ctx, models.FallbackOrder, fetch)
			var apiErr *dart.APIError
			if errors.As(err, &apiErr) {
				s.logger.Warn().
					Str("corp_code", req.CorpCode).
					Int("year", year).
					Str("status", apiErr.Status).
					Msg("trend year skipped after upstream error")
				mu.Lock()
				if skipped == nil {
					skipped = fmt.Errorf("year %d: %w", year, err)
				}
				mu.Unlock()
				return nil
			}
			if err != nil {
				return fmt.Errorf("year %d: %w", year, err)
			}
			if len(matches) == 0 {
				return nil
			}
			amount := analysis.ParseAmount(matches[0].ThstrmAmount)
			values[i] = &amount
			s.logger.Debug().
				Str("corp_code", req.CorpCode).
				Int("year", year).
				Str("reprt_code", code.String()).
				Msg("trend point resolved")
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}

	trend := &models.Trend{
		Labels:   make([]string, len(req.Years)),
		Datasets: []models.TrendDataset{{Label: req.Account, Data: values}},
	}
	for i, y := range req.Years {
		trend.Labels[i] = strconv.Itoa(y)
	}
	if trend.Empty() {
		if skipped != nil {
			return nil, skipped
		}
		return nil, ErrNoTrendData
	}
	return trend, nil
}

func filterAccount(items []models.LineItem, account string) []models.LineItem {
	var out []models.LineItem
	for _, item := range items {
		if item.AccountNm == account {
			out = append(out, item)
		}
	}
	return out
}

// Disclosures lists the company's periodic reports filed in the last three
// calendar years, newest first. Each entry carries the business year and
// report code resolved from its title.
func (s *Service) Disclosures(ctx context.Context, corpCode string) ([]models.Disclosure, error) {
	corpCode = strings.TrimSpace(corpCode)
	if corpCode == "" {
		return nil, invalid(MsgMissingCorpCode)
	}

	now := s.now()
	q := dart.DisclosureQuery{
		CorpCode: corpCode,
		Begin:    time.Date(now.Year()-disclosureYears, time.January, 1, 0, 0, 0, 0, now.Location()),
		End:      now,
		Type:     "A",
	}
	all, err := s.dart.Disclosures(ctx, q)
	if err != nil {
		return nil, err
	}

	periodic := make([]models.Disclosure, 0, len(all))
	for _, d := range all {
		year, code, err := models.ReportCodeFromName(d.ReportNm)
		if err != nil {
			continue
		}
		d.Year = year
		d.ReprtCode = code
		periodic = append(periodic, d)
	}
	sort.SliceStable(periodic, func(i, j int) bool {
		return periodic[i].RceptDt > periodic[j].RceptDt
	})
	return periodic, nil
}

// IsNotFound reports whether err means the requested data does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNoStatements) ||
		errors.Is(err, ErrNoTrendData) ||
		errors.Is(err, analysis.ErrNoUsableData) ||
		errors.Is(err, interfaces.ErrNotFound)
}

// UserMessage returns the message shown to end users for err.
func UserMessage(err error) string {
	var ve *ValidationError
	var apiErr *dart.APIError
	switch {
	case errors.As(err, &ve):
		return ve.Message
	case errors.Is(err, ErrNoStatements):
		return MsgNoStatements
	case errors.Is(err, analysis.ErrNoUsableData):
		return MsgNoUsableData
	case errors.Is(err, ErrNoTrendData):
		return MsgNoTrendData
	case errors.Is(err, interfaces.ErrNotFound):
		return MsgCompanyNotFound
	case errors.As(err, &apiErr):
		return apiErr.Error()
	case errors.Is(err, dart.ErrTimeout):
		return "DART API 응답 시간이 초과되었습니다."
	default:
		return "요청을 처리하는 중 오류가 발생했습니다: " + err.Error()
	}
}

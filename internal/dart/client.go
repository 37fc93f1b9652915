// Package dart is a client for the OpenDART open-data API run by the
// Financial Supervisory Service.
package dart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bobmcallan/dart-portal/internal/common"
	"github.com/bobmcallan/dart-portal/internal/models"
	"golang.org/x/time/rate"
)

const maxJSONBody = 8 << 20

// Client calls the OpenDART REST endpoints. It is safe for concurrent use;
// every request waits on a shared rate limiter.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *common.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRateLimit allows perSecond requests with the given burst. A
// non-positive rate disables limiting.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger *common.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// NewClient creates a client for baseURL (e.g. https://opendart.fss.or.kr/api).
func NewClient(baseURL, apiKey string, timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Inf, 0),
		logger:     common.NewSilentLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SingleAccounts fetches the key accounts of one company filing
// (fnlttSinglAcnt.json). Status "013" yields an empty slice and no error.
func (c *Client) SingleAccounts(ctx context.Context, corpCode string, year int, code models.ReportCode) ([]models.LineItem, error) {
	params := url.Values{}
	params.Set("corp_code", corpCode)
	params.Set("bsns_year", strconv.Itoa(year))
	params.Set("reprt_code", code.String())

	var result struct {
		Status  string            `json:"status"`
		Message string            `json:"message"`
		List    []models.LineItem `json:"list"`
	}
	if err := c.getJSON(ctx, "fnlttSinglAcnt.json", params, &result); err != nil {
		return nil, err
	}

	empty, err := checkStatus(result.Status, result.Message)
	if err != nil {
		c.logger.Warn().
			Str("corp_code", corpCode).
			Int("year", year).
			Str("reprt_code", code.String()).
			Str("status", result.Status).
			Msg("opendart returned an error status")
		return nil, err
	}
	if empty {
		return []models.LineItem{}, nil
	}

	c.logger.Debug().
		Str("corp_code", corpCode).
		Int("year", year).
		Str("reprt_code", code.String()).
		Int("items", len(result.List)).
		Msg("statements fetched")
	return result.List, nil
}

// DisclosureQuery filters the periodic disclosure search.
type DisclosureQuery struct {
	CorpCode string
	Begin    time.Time
	End      time.Time
	// Type is the pblntf_ty filter; "A" selects periodic reports.
	Type string
}

const disclosurePageSize = 100

// Disclosures lists filings (list.json), following pagination until every
// page is read. Status "013" yields an empty slice.
func (c *Client) Disclosures(ctx context.Context, q DisclosureQuery) ([]models.Disclosure, error) {
	var all []models.Disclosure
	for page := 1; ; page++ {
		params := url.Values{}
		params.Set("corp_code", q.CorpCode)
		params.Set("bgn_de", q.Begin.Format("20060102"))
		params.Set("end_de", q.End.Format("20060102"))
		if q.Type != "" {
			params.Set("pblntf_ty", q.Type)
		}
		params.Set("page_no", strconv.Itoa(page))
		params.Set("page_count", strconv.Itoa(disclosurePageSize))

		var result struct {
			Status    string              `json:"status"`
			Message   string              `json:"message"`
			TotalPage int                 `json:"total_page"`
			List      []models.Disclosure `json:"list"`
		}
		if err := c.getJSON(ctx, "list.json", params, &result); err != nil {
			return nil, err
		}
		empty, err := checkStatus(result.Status, result.Message)
		if err != nil {
			return nil, err
		}
		if empty {
			break
		}
		all = append(all, result.List...)
		if page >= result.TotalPage {
			break
		}
	}
	if all == nil {
		all = []models.Disclosure{}
	}
	return all, nil
}

// getJSON performs a rate-limited GET and decodes the JSON body into out.
func (c *Client) getJSON(ctx context.Context, endpoint string, params url.Values, out any) error {
	resp, err := c.get(ctx, endpoint, params)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxJSONBody))
	if err != nil {
		return c.wrapTransportError(err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("opendart returned HTTP %d: %s", resp.StatusCode, truncate(string(body), 200))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse opendart response: %w", err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	params.Set("crtfc_key", c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn().
			Str("endpoint", endpoint).
			Dur("elapsed", time.Since(start)).
			Str("error", redact(err.Error(), c.apiKey)).
			Msg("opendart request failed")
		return nil, c.wrapTransportError(err)
	}
	return resp, nil
}

// wrapTransportError turns timeouts into ErrTimeout and strips the API key
// from URLs echoed in net/http errors.
func (c *Client) wrapTransportError(err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return ErrTimeout
	}
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("opendart request cancelled: %w", context.Canceled)
	}
	return fmt.Errorf("failed to reach opendart: %s", redact(err.Error(), c.apiKey))
}

func redact(s, secret string) string {
	if secret == "" {
		return s
	}
	return strings.ReplaceAll(s, secret, "***")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

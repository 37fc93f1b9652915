package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/bobmcallan/dart-portal/internal/dart"
	"github.com/bobmcallan/dart-portal/internal/financial"
	"github.com/bobmcallan/dart-portal/internal/mcp"
	"github.com/bobmcallan/dart-portal/internal/models"
	"github.com/google/subcommands"
	"github.com/mark3labs/mcp-go/server"
)

type downloadCorpCodesCmd struct {
	env  *env
	out  string
	load bool
}

func (*downloadCorpCodesCmd) Name() string { return "download-corpcodes" }
func (*downloadCorpCodesCmd) Synopsis() string {
	return "download the OpenDART corporation directory archive"
}
func (*downloadCorpCodesCmd) Usage() string {
	return `download-corpcodes [-out <path>] [-load]

  Downloads corpCode.xml (a ZIP archive) from OpenDART and writes it to -out.
  With -load the directory store is replaced with its contents.
`
}

func (c *downloadCorpCodesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.out, "out", filepath.Join("data", "corpCode.zip"), "Destination of the archive")
	f.BoolVar(&c.load, "load", false, "Load the downloaded directory into storage")
}

func (c *downloadCorpCodesCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	client, err := c.env.client()
	if err != nil {
		return fail(err)
	}

	data, err := client.DownloadCorpCodes(ctx)
	if err != nil {
		return fail(fmt.Errorf("download failed: %s", financial.UserMessage(err)))
	}

	if err := os.MkdirAll(filepath.Dir(c.out), 0o755); err != nil {
		return fail(err)
	}
	if err := os.WriteFile(c.out, data, 0o644); err != nil {
		return fail(err)
	}
	fmt.Fprintf(c.env.out, "wrote %s (%d bytes)\n", c.out, len(data))

	if !c.load {
		return subcommands.ExitSuccess
	}
	return loadCorpCodes(ctx, c.env, data)
}

type loadCorpCodesCmd struct {
	env  *env
	file string
}

func (*loadCorpCodesCmd) Name() string     { return "load-corpcodes" }
func (*loadCorpCodesCmd) Synopsis() string { return "replace the company directory from a file" }
func (*loadCorpCodesCmd) Usage() string {
	return `load-corpcodes [-file <path>]

  Parses a corpCode ZIP archive or an extracted CORPCODE.xml and replaces the
  company directory with it. Defaults to dart.corp_code_path.
`
}

func (c *loadCorpCodesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.file, "file", "", "corpCode.zip or CORPCODE.xml (default: dart.corp_code_path)")
}

func (c *loadCorpCodesCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := c.env.config()
	if err != nil {
		return fail(err)
	}
	file := c.file
	if file == "" {
		file = cfg.DART.CorpCodePath
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return fail(err)
	}
	return loadCorpCodes(ctx, c.env, data)
}

func loadCorpCodes(ctx context.Context, e *env, data []byte) subcommands.ExitStatus {
	companies, err := dart.ParseCorpCodeData(data)
	if err != nil {
		return fail(err)
	}

	store, err := e.storage()
	if err != nil {
		return fail(err)
	}
	defer store.Close()

	start := time.Now()
	n, err := store.CompanyStore().ReplaceAll(ctx, companies)
	if err != nil {
		return fail(fmt.Errorf("failed to load companies: %w", err))
	}
	fmt.Fprintf(e.out, "loaded %d companies in %s\n", n, time.Since(start).Round(time.Millisecond))
	return subcommands.ExitSuccess
}

type searchCmd struct {
	env       *env
	stockCode string
}

func (*searchCmd) Name() string     { return "search" }
func (*searchCmd) Synopsis() string { return "search the company directory" }
func (*searchCmd) Usage() string {
	return `search <keyword>
search -stock <code>

  Searches the local directory by Korean or English name, or looks up one
  listed company by stock code.
`
}

func (c *searchCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.stockCode, "stock", "", "KRX stock code")
}

func (c *searchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.stockCode == "" && f.NArg() != 1 {
		fmt.Fprint(os.Stderr, c.Usage())
		return subcommands.ExitUsageError
	}

	cfg, err := c.env.config()
	if err != nil {
		return fail(err)
	}
	store, err := c.env.storage()
	if err != nil {
		return fail(err)
	}
	defer store.Close()

	// Directory lookups never reach OpenDART, so no client is needed.
	svc := financial.NewService(nil, store, cfg.Search, c.env.logger)

	if c.stockCode != "" {
		company, err := svc.CompanyByStockCode(ctx, c.stockCode)
		if err != nil {
			return fail(fmt.Errorf("%s", financial.UserMessage(err)))
		}
		fmt.Fprint(c.env.out, mcp.FormatCompanies([]models.Company{*company}))
		return subcommands.ExitSuccess
	}

	companies, err := svc.SearchCompanies(ctx, f.Arg(0))
	if err != nil {
		return fail(fmt.Errorf("%s", financial.UserMessage(err)))
	}
	fmt.Fprint(c.env.out, mcp.FormatCompanies(companies))
	return subcommands.ExitSuccess
}

type analyzeCmd struct {
	env       *env
	year      string
	reprtCode string
}

func (*analyzeCmd) Name() string     { return "analyze" }
func (*analyzeCmd) Synopsis() string { return "print key accounts and ratios for a filing" }
func (*analyzeCmd) Usage() string {
	return `analyze [-year <yyyy>] [-reprt <code>] <corp_code>

  Fetches the filing from OpenDART and prints the balance sheet, income
  statement and ratios. -year defaults to last year, -reprt to 11011.
`
}

func (c *analyzeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.year, "year", strconv.Itoa(time.Now().Year()-1), "Business year")
	f.StringVar(&c.reprtCode, "reprt", "11011", "Report code: 11011, 11012, 11013 or 11014")
}

func (c *analyzeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprint(os.Stderr, c.Usage())
		return subcommands.ExitUsageError
	}

	req, err := financial.ParseAnalysisRequest(f.Arg(0), c.year, c.reprtCode)
	if err != nil {
		return fail(err)
	}

	svc, store, err := c.env.service()
	if err != nil {
		return fail(err)
	}
	defer store.Close()

	result, err := svc.Analyze(ctx, req)
	if err != nil {
		return fail(fmt.Errorf("%s", financial.UserMessage(err)))
	}
	fmt.Fprint(c.env.out, mcp.FormatAnalysis(req, result))
	return subcommands.ExitSuccess
}

type trendCmd struct {
	env   *env
	years string
}

func (*trendCmd) Name() string     { return "trend" }
func (*trendCmd) Synopsis() string { return "print one account across several years" }
func (*trendCmd) Usage() string {
	return `trend [-years 2019,2020,...] <corp_code> <account_nm>

  Prints the account's current-period amount per year, using the most
  complete report filed for each year.
`
}

func (c *trendCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.years, "years", "", "Comma-separated years (default: last five)")
}

func (c *trendCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		fmt.Fprint(os.Stderr, c.Usage())
		return subcommands.ExitUsageError
	}

	svc, store, err := c.env.service()
	if err != nil {
		return fail(err)
	}
	defer store.Close()

	req, err := svc.ParseTrendRequest(f.Arg(0), f.Arg(1), c.years)
	if err != nil {
		return fail(err)
	}
	trend, err := svc.Trend(ctx, req)
	if err != nil {
		return fail(fmt.Errorf("%s", financial.UserMessage(err)))
	}
	fmt.Fprint(c.env.out, mcp.FormatTrend(trend))
	return subcommands.ExitSuccess
}

type mcpCmd struct {
	env *env
}

func (*mcpCmd) Name() string     { return "mcp" }
func (*mcpCmd) Synopsis() string { return "serve the MCP tools over stdio" }
func (*mcpCmd) Usage() string {
	return `mcp

  Runs the dart-portal MCP server on stdin/stdout for desktop MCP clients.
`
}

func (*mcpCmd) SetFlags(*flag.FlagSet) {}

func (c *mcpCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	svc, store, err := c.env.service()
	if err != nil {
		return fail(err)
	}
	defer store.Close()

	if err := server.ServeStdio(mcp.NewServer(svc)); err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}

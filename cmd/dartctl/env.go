package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bobmcallan/dart-portal/internal/app"
	"github.com/bobmcallan/dart-portal/internal/common"
	"github.com/bobmcallan/dart-portal/internal/config"
	"github.com/bobmcallan/dart-portal/internal/dart"
	"github.com/bobmcallan/dart-portal/internal/financial"
	"github.com/bobmcallan/dart-portal/internal/interfaces"
	"github.com/bobmcallan/dart-portal/internal/storage"
	"github.com/google/subcommands"
	"github.com/joho/godotenv"
)

// configPaths is a custom flag type that allows multiple -config flags.
type configPaths []string

func (c *configPaths) String() string {
	return fmt.Sprintf("%v", *c)
}

func (c *configPaths) Set(value string) error {
	*c = append(*c, value)
	return nil
}

// env is the state shared by every subcommand: global flags, output and the
// lazily loaded configuration.
type env struct {
	configFiles configPaths
	envFile     string
	out         io.Writer
	logger      *common.Logger

	cfg *config.Config
}

func newEnv(out io.Writer) *env {
	return &env{out: out, envFile: ".env"}
}

// config loads .env and the TOML files once.
func (e *env) config() (*config.Config, error) {
	if e.cfg != nil {
		return e.cfg, nil
	}
	if e.envFile != "" {
		if err := godotenv.Load(e.envFile); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load %s: %w", e.envFile, err)
		}
	}
	cfg, err := config.LoadFromFiles(config.Discover(e.configFiles)...)
	if err != nil {
		return nil, err
	}
	e.cfg = cfg
	if e.logger == nil {
		// Console output goes to stderr, leaving stdout for results and MCP.
		e.logger = common.NewLoggerFromOptions(common.LogOptions{
			Level:   cfg.Logging.Level,
			Outputs: []string{"console"},
		})
	}
	return cfg, nil
}

// storage opens the configured store.
func (e *env) storage() (interfaces.StorageManager, error) {
	cfg, err := e.config()
	if err != nil {
		return nil, err
	}
	return storage.NewStorageManager(e.logger, cfg)
}

// client builds the OpenDART client, failing early without an API key.
func (e *env) client() (*dart.Client, error) {
	cfg, err := e.config()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.DART.APIKey) == "" {
		return nil, fmt.Errorf("OPEN_DART_API_KEY is not set")
	}
	return app.NewClient(cfg, e.logger), nil
}

// service opens storage and builds the financial service. The caller closes
// the returned store.
func (e *env) service() (*financial.Service, interfaces.StorageManager, error) {
	client, err := e.client()
	if err != nil {
		return nil, nil, err
	}
	store, err := e.storage()
	if err != nil {
		return nil, nil, err
	}
	return financial.NewService(client, store, e.cfg.Search, e.logger), store, nil
}

// fail prints err to stderr and returns ExitFailure.
func fail(err error) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return subcommands.ExitFailure
}

func commands(e *env) []subcommands.Command {
	return []subcommands.Command{
		&downloadCorpCodesCmd{env: e},
		&loadCorpCodesCmd{env: e},
		&searchCmd{env: e},
		&analyzeCmd{env: e},
		&trendCmd{env: e},
		&mcpCmd{env: e},
	}
}

package config

// NewDefaultConfig creates a configuration with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "dev",
		Server: ServerConfig{
			Port: 3000,
			Host: "localhost",
		},
		Storage: StorageConfig{
			Driver: "sqlite",
			Path:   "./data/dart.db",
		},
		DART: DARTConfig{
			BaseURL:       "https://opendart.fss.or.kr/api",
			Timeout:       "15s",
			RatePerSecond: 10,
			Burst:         5,
			CorpCodePath:  "./data/CORPCODE.xml",
		},
		Gemini: GeminiConfig{
			Model:           "gemini-2.0-flash",
			Timeout:         "30s",
			Temperature:     0.2,
			TopK:            40,
			TopP:            0.95,
			MaxOutputTokens: 1024,
			CacheTTL:        "1h",
			CacheEntries:    256,
		},
		Search: SearchConfig{
			Limit:            10,
			MinKeywordLength: 2,
			TrendYears:       5,
		},
		Logging: LoggingConfig{
			Level:   "info",
			Outputs: []string{"console"},
		},
	}
}

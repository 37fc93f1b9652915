package narrative

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/bobmcallan/dart-portal/internal/cache"
	"github.com/bobmcallan/dart-portal/internal/common"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/renderer/html"
)

// Result is a generated narrative. Text is the model output with any code
// fence removed; HTML is Text rendered for the page.
type Result struct {
	Text string `json:"analysis"`
	HTML string `json:"html"`
}

// Service builds prompts, calls the generator and caches results.
type Service struct {
	gen    Generator
	cache  *cache.Cache[*Result]
	md     goldmark.Markdown
	logger *common.Logger
}

// NewService creates a Service. A nil generator makes every call fail with
// ErrNotConfigured. A non-positive ttl disables caching.
func NewService(gen Generator, ttl time.Duration, maxEntries int, logger *common.Logger) *Service {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Service{
		gen:   gen,
		cache: cache.New[*Result](ttl, maxEntries),
		// The model is told to emit <p>, <span> and <strong> tags.
		md:     goldmark.New(goldmark.WithRendererOptions(html.WithUnsafe())),
		logger: logger,
	}
}

// Enabled reports whether a generator is configured.
func (s *Service) Enabled() bool {
	return s.gen != nil
}

// Analyze returns the narrative for in.
func (s *Service) Analyze(ctx context.Context, in Input) (*Result, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if s.gen == nil {
		return nil, ErrNotConfigured
	}

	prompt, err := BuildPrompt(in)
	if err != nil {
		return nil, err
	}

	key := cache.MakeKey(in.CompanyName, in.Year.String(), promptDigest(prompt))
	if cached, ok := s.cache.Get(key); ok {
		s.logger.Debug().Str("company", in.CompanyName).Msg("narrative cache hit")
		return cached, nil
	}

	start := time.Now()
	text, err := s.gen.Generate(ctx, prompt)
	if err != nil {
		s.logger.Error().Err(err).Str("company", in.CompanyName).Msg("narrative generation failed")
		return nil, err
	}

	text = stripCodeFence(text)
	rendered, err := s.render(text)
	if err != nil {
		return nil, err
	}
	result := &Result{Text: text, HTML: rendered}
	s.cache.Set(key, result)

	s.logger.Info().
		Str("company", in.CompanyName).
		Str("year", in.Year.String()).
		Int("chars", len(text)).
		Int("cached", s.cache.Len()).
		Dur("elapsed", time.Since(start)).
		Msg("narrative generated")

	return result, nil
}

func (s *Service) render(text string) (string, error) {
	var buf bytes.Buffer
	if err := s.md.Convert([]byte(text), &buf); err != nil {
		return "", fmt.Errorf("render narrative: %w", err)
	}
	return buf.String(), nil
}

func promptDigest(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return hex.EncodeToString(sum[:8])
}

// stripCodeFence unwraps output the model wrapped in a ``` block anyway.
func stripCodeFence(text string) string {
	t := strings.TrimSpace(text)
	if !strings.HasPrefix(t, "```") {
		return t
	}
	if nl := strings.IndexByte(t, '\n'); nl >= 0 {
		t = t[nl+1:]
	} else {
		return ""
	}
	t = strings.TrimSpace(t)
	t = strings.TrimSuffix(t, "```")
	return strings.TrimSpace(t)
}

package narrative

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/bobmcallan/dart-portal/internal/config"
	"google.golang.org/genai"
)

// ErrNotConfigured is returned when no Gemini API key is set.
var ErrNotConfigured = errors.New("Gemini API 키가 설정되지 않았습니다. GEMINI_API_KEY 환경 변수를 설정해주세요.")

// ErrEmptyResponse is returned when the model produced no text.
var ErrEmptyResponse = errors.New("AI 응답 형식이 유효하지 않습니다.")

// Generator produces text for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeminiGenerator calls the Gemini generateContent API.
type GeminiGenerator struct {
	client  *genai.Client
	model   string
	timeout time.Duration
	config  *genai.GenerateContentConfig
}

// NewGeminiGenerator creates a generator from config. httpClient may be nil.
func NewGeminiGenerator(ctx context.Context, cfg config.GeminiConfig, httpClient *http.Client) (*GeminiGenerator, error) {
	if cfg.APIKey == "" {
		return nil, ErrNotConfigured
	}

	cc := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	gc := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(cfg.Temperature),
		TopK:            genai.Ptr(cfg.TopK),
		TopP:            genai.Ptr(cfg.TopP),
		MaxOutputTokens: cfg.MaxOutputTokens,
	}

	return &GeminiGenerator{
		client:  client,
		model:   cfg.Model,
		timeout: cfg.GetTimeout(),
		config:  gc,
	}, nil
}

// Generate sends one prompt and returns the model's text.
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), g.config)
	if err != nil {
		return "", fmt.Errorf("Gemini API 호출 실패: %w", err)
	}
	text := result.Text()
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

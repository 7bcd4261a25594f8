package insights

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
	"google.golang.org/genai"
)

// DefaultModel balances speed and cost for short financial Q&A.
const DefaultModel = "gemini-2.5-flash"

// Fixed answers for the degraded paths. These are user-visible; provider
// error bodies are logged but never surfaced.
const (
	NoTextSentinel  = "No text generated."
	FallbackAnswer  = "I'm having trouble connecting to the AI service."
	statusAnswerFmt = "Error from Google: %d"
)

// GenerationResult is the outcome of one generation call. Succeeded is
// false only for HTTP or transport failures; a successful call with no
// generated text still succeeds with the sentinel answer.
type GenerationResult struct {
	Text      string
	Succeeded bool
}

// Generator is the provider contract the pipeline depends on.
type Generator interface {
	Generate(ctx context.Context, contents []*genai.Content) GenerationResult
	GenerateStructured(ctx context.Context, prompt string) (string, error)
}

// Config configures the Gemini client. BaseURL and HTTPClient exist for
// tests that point the client at a local fake backend.
type Config struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
}

// Client issues single-attempt generation calls to Gemini. No retries and
// no internal timeout: callers bound latency through ctx if they need to.
type Client struct {
	genai *genai.Client
	model string
}

// NewClient builds the Gemini client. A missing API key is a configuration
// error and fatal to the service, not something to degrade around.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini API key is required")
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.HTTPClient != nil {
		cc.HTTPClient = cfg.HTTPClient
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions.BaseURL = cfg.BaseURL
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("init gemini client: %w", err)
	}

	log.Info().Str("model", model).Msg("Gemini client initialized")
	return &Client{genai: client, model: model}, nil
}

// Generate sends the assembled conversation and returns a best-effort
// result. Transport and HTTP failures are converted into fixed fallback
// answers here; nothing propagates to the caller.
func (c *Client) Generate(ctx context.Context, contents []*genai.Content) GenerationResult {
	resp, err := c.genai.Models.GenerateContent(ctx, c.model, contents, nil)
	if err != nil {
		return failureResult(err)
	}
	return GenerationResult{Text: extractText(resp), Succeeded: true}
}

// GenerateStructured sends a single-prompt request in JSON response mode
// and returns the raw generated text. Unlike Generate it reports errors,
// because the structured extractor degrades them to a nil dashboard.
func (c *Client) GenerateStructured(ctx context.Context, prompt string) (string, error) {
	resp, err := c.genai.Models.GenerateContent(ctx, c.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return "", err
	}
	return extractText(resp), nil
}

func failureResult(err error) GenerationResult {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		log.Error().Int("status", apiErr.Code).Str("message", apiErr.Message).Msg("Gemini API error")
		return GenerationResult{
			Text:      fmt.Sprintf(statusAnswerFmt, apiErr.Code),
			Succeeded: false,
		}
	}

	log.Error().Err(err).Msg("Gemini request failed")
	return GenerationResult{Text: FallbackAnswer, Succeeded: false}
}

// extractText pulls the generated text out of the response envelope,
// concatenating the first candidate's text parts. An envelope without any
// text yields the sentinel rather than an error.
func extractText(resp *genai.GenerateContentResponse) string {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return NoTextSentinel
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && part.Text != "" {
			b.WriteString(part.Text)
		}
	}
	if b.Len() == 0 {
		return NoTextSentinel
	}
	return b.String()
}

// StripCodeFence removes Markdown code-fence decoration around a JSON
// payload. Gemini loves wrapping structured output in ```json fences even
// when asked not to.
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/genai"

	"github.com/tech4humanity/t4h-core/internal/core/domain"
	"github.com/tech4humanity/t4h-core/internal/core/ports/driven"
)

// Ensure GeminiGenerator implements TextGenerator
var _ driven.TextGenerator = (*GeminiGenerator)(nil)

const defaultGeminiModel = "gemini-2.0-flash"

// GeminiGenerator implements TextGenerator using the Gemini API with a JSON
// response MIME type.
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

// NewGeminiGenerator creates a Gemini text generator. baseURL overrides the
// API endpoint and is empty in production.
func NewGeminiGenerator(apiKey, model, baseURL string) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}
	if model == "" {
		model = defaultGeminiModel
	}

	cfg := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: generatorTimeout},
	}
	if baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}

	client, err := genai.NewClient(context.Background(), cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiGenerator{
		client: client,
		model:  model,
	}, nil
}

// Generate runs one prompt and returns the JSON object it produced
func (g *GeminiGenerator) Generate(ctx context.Context, req domain.GenerationRequest) (json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, generatorTimeout)
	defer cancel()

	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	}
	if req.SystemPrompt != "" {
		config.SystemInstruction = genai.NewContentFromText(req.SystemPrompt, genai.RoleUser)
	}
	if req.Temperature > 0 {
		config.Temperature = genai.Ptr(req.Temperature)
	}

	contents := []*genai.Content{
		genai.NewContentFromText(req.UserPrompt, genai.RoleUser),
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		return nil, geminiErr(err)
	}

	return jsonObject(resp.Text())
}

// geminiErr maps client errors onto the generation sentinels
func geminiErr(err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusTooManyRequests {
		return fmt.Errorf("%w: Gemini API: %s", domain.ErrRateLimited, apiErr.Message)
	}
	return fmt.Errorf("%w: Gemini API: %v", domain.ErrGenerationFailed, err)
}

// Provider returns the provider identifier
func (g *GeminiGenerator) Provider() domain.AIProvider {
	return domain.AIProviderGemini
}

// Model returns the model name being used
func (g *GeminiGenerator) Model() string {
	return g.model
}

// Close is a no-op; the Gemini client holds no long-lived resources.
func (g *GeminiGenerator) Close() error {
	return nil
}

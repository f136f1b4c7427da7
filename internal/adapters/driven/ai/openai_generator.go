package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tech4humanity/t4h-core/internal/core/domain"
	"github.com/tech4humanity/t4h-core/internal/core/ports/driven"
)

// Ensure OpenAIGenerator implements TextGenerator
var _ driven.TextGenerator = (*OpenAIGenerator)(nil)

const (
	defaultOpenAIModel   = "gpt-4o-mini"
	defaultOpenAIBaseURL = "https://api.openai.com/v1"
	generatorTimeout     = 30 * time.Second
)

// OpenAIGenerator implements TextGenerator against an OpenAI-compatible
// chat completions endpoint in JSON mode.
type OpenAIGenerator struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// NewOpenAIGenerator creates a new OpenAI text generator
func NewOpenAIGenerator(apiKey, model, baseURL string) (*OpenAIGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	if model == "" {
		model = defaultOpenAIModel
	}
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}

	return &OpenAIGenerator{
		apiKey:  apiKey,
		model:   model,
		baseURL: baseURL,
		client: &http.Client{
			Timeout: generatorTimeout,
		},
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	Temperature    *float32      `json:"temperature,omitempty"`
	ResponseFormat struct {
		Type string `json:"type"`
	} `json:"response_format"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *apiError `json:"error,omitempty"`
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    any    `json:"code"`
}

// Generate runs one chat completion and returns the JSON object it produced
func (g *OpenAIGenerator) Generate(ctx context.Context, req domain.GenerationRequest) (json.RawMessage, error) {
	body := chatRequest{
		Model: g.model,
		Messages: []chatMessage{
			{Role: "system", Content: req.SystemPrompt},
			{Role: "user", Content: req.UserPrompt},
		},
	}
	body.ResponseFormat.Type = "json_object"
	if req.Temperature > 0 {
		t := req.Temperature
		body.Temperature = &t
	}

	resp, err := g.doRequest(ctx, body)
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices returned", domain.ErrMalformedResponse)
	}

	return jsonObject(resp.Choices[0].Message.Content)
}

// Provider returns the provider identifier
func (g *OpenAIGenerator) Provider() domain.AIProvider {
	return domain.AIProviderOpenAI
}

// Model returns the model name being used
func (g *OpenAIGenerator) Model() string {
	return g.model
}

// Close releases idle connections
func (g *OpenAIGenerator) Close() error {
	g.client.CloseIdleConnections()
	return nil
}

func (g *OpenAIGenerator) doRequest(ctx context.Context, reqBody chatRequest) (*chatResponse, error) {
	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: request failed: %v", domain.ErrGenerationFailed, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", domain.ErrGenerationFailed, err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("%w: OpenAI API returned status 429", domain.ErrRateLimited)
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("%w: OpenAI API returned status %d", domain.ErrGenerationFailed, resp.StatusCode)
		}
		return nil, fmt.Errorf("%w: failed to parse response: %v", domain.ErrMalformedResponse, err)
	}

	if chatResp.Error != nil {
		return nil, fmt.Errorf("%w: OpenAI API error: %s (type: %s)",
			domain.ErrGenerationFailed, chatResp.Error.Message, chatResp.Error.Type)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: OpenAI API returned status %d", domain.ErrGenerationFailed, resp.StatusCode)
	}

	return &chatResp, nil
}

package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"google.golang.org/genai"

	"github.com/tech4humanity/t4h-core/internal/core/domain"
)

func geminiServer(t *testing.T, text string) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, ":generateContent") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}

		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if cfg, ok := body["generationConfig"].(map[string]any); !ok || cfg["responseMimeType"] != "application/json" {
			t.Errorf("generationConfig = %v, want JSON MIME type", body["generationConfig"])
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{
					"role":  "model",
					"parts": []map[string]string{{"text": text}},
				}},
			},
		})
	}))
	t.Cleanup(server.Close)
	return server
}

func TestGeminiGenerator_Generate(t *testing.T) {
	server := geminiServer(t, `{"family":"ANA","confidence":0.8,"rationale":"x"}`)

	gen, err := NewGeminiGenerator("gm-test", "gemini-test", server.URL)
	if err != nil {
		t.Fatalf("NewGeminiGenerator: %v", err)
	}

	out, err := gen.Generate(context.Background(), domain.GenerationRequest{
		SystemPrompt: "align",
		UserPrompt:   "Herbert Simon",
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.Contains(string(out), `"ANA"`) {
		t.Errorf("output = %s", out)
	}
}

func TestGeminiGenerator_Malformed(t *testing.T) {
	server := geminiServer(t, "not json")
	gen, err := NewGeminiGenerator("gm-test", "", server.URL)
	if err != nil {
		t.Fatalf("NewGeminiGenerator: %v", err)
	}

	_, err = gen.Generate(context.Background(), domain.GenerationRequest{UserPrompt: "x"})
	if !errors.Is(err, domain.ErrMalformedResponse) {
		t.Errorf("error = %v, want ErrMalformedResponse", err)
	}
}

func TestGeminiErr(t *testing.T) {
	if err := geminiErr(genai.APIError{Code: http.StatusTooManyRequests, Message: "quota"}); !errors.Is(err, domain.ErrRateLimited) {
		t.Errorf("429 = %v, want ErrRateLimited", err)
	}
	if err := geminiErr(genai.APIError{Code: http.StatusInternalServerError}); !errors.Is(err, domain.ErrGenerationFailed) {
		t.Errorf("500 = %v, want ErrGenerationFailed", err)
	}
	if err := geminiErr(context.Canceled); !errors.Is(err, context.Canceled) {
		t.Errorf("canceled = %v, want context.Canceled", err)
	}
}

func TestNewGeminiGenerator_RequiresKey(t *testing.T) {
	if _, err := NewGeminiGenerator("", "", ""); err == nil {
		t.Error("expected error for empty API key")
	}
}

package domain

// AIProvider identifies the text generation provider
type AIProvider string

const (
	AIProviderOpenAI AIProvider = "openai"
	AIProviderGemini AIProvider = "gemini"
)

// GeneratorSettings configures the text generator
type GeneratorSettings struct {
	Provider AIProvider `json:"provider"`
	APIKey   string     `json:"-"` // Never serialize
	Model    string     `json:"model"`
	BaseURL  string     `json:"base_url,omitempty"`
}

// IsConfigured returns true if a generator can be built from these settings
func (s *GeneratorSettings) IsConfigured() bool {
	return s.Provider != "" && s.APIKey != ""
}

// GenerationRequest is a structured prompt that expects a JSON object back
type GenerationRequest struct {
	SystemPrompt string  `json:"system_prompt"`
	UserPrompt   string  `json:"user_prompt"`
	Temperature  float32 `json:"temperature,omitempty"`
}

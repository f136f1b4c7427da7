package domain

import "testing"

func TestGeneratorSettings_IsConfigured(t *testing.T) {
	tests := []struct {
		name     string
		settings GeneratorSettings
		want     bool
	}{
		{"empty", GeneratorSettings{}, false},
		{"provider only", GeneratorSettings{Provider: AIProviderOpenAI}, false},
		{"key only", GeneratorSettings{APIKey: "sk-test"}, false},
		{"openai", GeneratorSettings{Provider: AIProviderOpenAI, APIKey: "sk-test"}, true},
		{"gemini", GeneratorSettings{Provider: AIProviderGemini, APIKey: "g-test"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.settings.IsConfigured(); got != tt.want {
				t.Errorf("IsConfigured() = %v, want %v", got, tt.want)
			}
		})
	}
}

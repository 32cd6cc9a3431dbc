package factory

import (
	"fmt"

	"clinic-assist-be/pkg/llm"
	"clinic-assist-be/pkg/llm/gemini"
	"clinic-assist-be/pkg/llm/ollama"
)

func NewProvider(providerType, modelName, baseURL, geminiApiKey string) (llm.Provider, error) {
	switch providerType {
	case "ollama":
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, modelName), nil
	case "gemini":
		if geminiApiKey == "" {
			return nil, fmt.Errorf("gemini provider requires an API key")
		}
		return gemini.NewGeminiProvider(geminiApiKey, modelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}

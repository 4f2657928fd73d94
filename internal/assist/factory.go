package assist

import (
	"fmt"

	"vibestream/internal/config"
	"vibestream/internal/vibe"
)

// NewAssistantFromConfig creates an Assistant based on the configuration
// type.
func NewAssistantFromConfig(cfg config.AssistantConfig, logger vibe.Logger) (vibe.Assistant, error) {
	switch cfg.Type {
	case "none", "":
		return NewStaticAssistant(), nil
	case "gemini":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("gemini assistant requires api_key to be set")
		}
		return NewGeminiAssistant(cfg, logger), nil
	default:
		return nil, fmt.Errorf("unknown assistant type: %q", cfg.Type)
	}
}

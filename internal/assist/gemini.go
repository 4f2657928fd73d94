package assist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"vibestream/internal/config"
	"vibestream/internal/vibe"
)

const defaultModel = "gemini-3-flash-preview"

// GeminiAssistant drafts captions and comments through the Gemini
// generateContent REST endpoint. Any transport or decoding failure falls
// back to the static suggestions; callers never see an error.
type GeminiAssistant struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
	logger  vibe.Logger
}

var _ vibe.Assistant = (*GeminiAssistant)(nil)

// NewGeminiAssistant creates an assistant from configuration.
func NewGeminiAssistant(cfg config.AssistantConfig, logger vibe.Logger) *GeminiAssistant {
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &GeminiAssistant{
		apiKey:  cfg.APIKey,
		model:   model,
		baseURL: "https://generativelanguage.googleapis.com/v1beta",
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// GenerateCaption drafts a short repost caption for a video description.
func (g *GeminiAssistant) GenerateCaption(ctx context.Context, originalDescription string) string {
	prompt := fmt.Sprintf(
		"A user wants to repost a video with this description: %q. Write a short, excited repost caption.",
		originalDescription,
	)
	text, err := g.generate(ctx, prompt)
	if err != nil {
		g.logger.Warn("caption suggestion unavailable", "error", err)
		return FallbackCaption
	}
	return text
}

// SuggestComment drafts a short friendly comment for a video description.
func (g *GeminiAssistant) SuggestComment(ctx context.Context, videoDescription string) string {
	prompt := fmt.Sprintf(
		"The video says: %q. Suggest a short, friendly comment.",
		videoDescription,
	)
	text, err := g.generate(ctx, prompt)
	if err != nil {
		g.logger.Warn("comment suggestion unavailable", "error", err)
		return FallbackComment
	}
	return text
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

func (g *GeminiAssistant) generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("encoding request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", g.baseURL, g.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling generator: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("generator returned status %d", resp.StatusCode)
	}

	var decoded generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	if len(decoded.Candidates) == 0 || len(decoded.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("generator returned no candidates")
	}

	text := strings.TrimSpace(decoded.Candidates[0].Content.Parts[0].Text)
	if text == "" {
		return "", fmt.Errorf("generator returned empty text")
	}
	return text, nil
}

package assist

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"vibestream/internal/config"
	"vibestream/internal/vibe"
)

func newTestGemini(t *testing.T, handler http.HandlerFunc) *GeminiAssistant {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	g := NewGeminiAssistant(config.AssistantConfig{APIKey: "test-key"}, vibe.NewNopLogger())
	g.baseURL = server.URL
	return g
}

func generatedText(text string) generateResponse {
	return generateResponse{
		Candidates: []struct {
			Content content `json:"content"`
		}{
			{Content: content{Parts: []part{{Text: text}}}},
		},
	}
}

func TestGeminiAssistant_GenerateCaption(t *testing.T) {
	g := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		if key := r.Header.Get("x-goog-api-key"); key != "test-key" {
			t.Errorf("api key header = %q, want test-key", key)
		}
		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		if len(req.Contents) == 0 || len(req.Contents[0].Parts) == 0 {
			t.Error("request carries no prompt")
		}
		json.NewEncoder(w).Encode(generatedText("  So cool! #vibes  "))
	})

	got := g.GenerateCaption(context.Background(), "city lights at night")
	if got != "So cool! #vibes" {
		t.Errorf("GenerateCaption() = %q, want the trimmed generated text", got)
	}
}

func TestGeminiAssistant_SuggestComment(t *testing.T) {
	g := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(generatedText("Love this!"))
	})

	if got := g.SuggestComment(context.Background(), "forest walk"); got != "Love this!" {
		t.Errorf("SuggestComment() = %q, want %q", got, "Love this!")
	}
}

func TestGeminiAssistant_FallsBack(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			"server error",
			func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusInternalServerError) },
		},
		{
			"no candidates",
			func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(`{"candidates":[]}`)) },
		},
		{
			"empty text",
			func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(generatedText("   "))
			},
		},
		{
			"garbage body",
			func(w http.ResponseWriter, r *http.Request) { w.Write([]byte("not json")) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGemini(t, tt.handler)
			if got := g.GenerateCaption(context.Background(), "x"); got != FallbackCaption {
				t.Errorf("GenerateCaption() = %q, want the fallback", got)
			}
			if got := g.SuggestComment(context.Background(), "x"); got != FallbackComment {
				t.Errorf("SuggestComment() = %q, want the fallback", got)
			}
		})
	}
}

func TestGeminiAssistant_UnreachableServer(t *testing.T) {
	g := NewGeminiAssistant(config.AssistantConfig{APIKey: "test-key"}, vibe.NewNopLogger())
	g.baseURL = "http://127.0.0.1:1"

	if got := g.GenerateCaption(context.Background(), "x"); got != FallbackCaption {
		t.Errorf("GenerateCaption() = %q, want the fallback", got)
	}
}

func TestNewAssistantFromConfig(t *testing.T) {
	logger := vibe.NewNopLogger()

	tests := []struct {
		name    string
		cfg     config.AssistantConfig
		wantErr bool
	}{
		{"none", config.AssistantConfig{Type: "none"}, false},
		{"empty defaults to none", config.AssistantConfig{}, false},
		{"gemini", config.AssistantConfig{Type: "gemini", APIKey: "k"}, false},
		{"gemini without key", config.AssistantConfig{Type: "gemini"}, true},
		{"unknown", config.AssistantConfig{Type: "gpt"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewAssistantFromConfig(tt.cfg, logger)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewAssistantFromConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

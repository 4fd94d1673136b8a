package anthropic

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/kailas-cloud/shopagent/internal/domain"
)

func messagesServer(t *testing.T, status int, body any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("X-Api-Key") != "test-key" {
			t.Errorf("unexpected api key header: %q", r.Header.Get("X-Api-Key"))
		}

		var req struct {
			Model     string `json:"model"`
			MaxTokens int    `json:"max_tokens"`
			Messages  []struct {
				Role string `json:"role"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Model != "claude-test" || req.MaxTokens != 1024 || len(req.Messages) != 1 || req.Messages[0].Role != "user" {
			t.Errorf("unexpected request: %+v", req)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}))
}

func newTestGenerator(url string) *Generator {
	return NewGenerator(&Config{
		APIKey:  "test-key",
		BaseURL: url,
		Model:   "claude-test",
		Options: []option.RequestOption{option.WithMaxRetries(0)},
	})
}

func message(text string) map[string]any {
	return map[string]any{
		"id":            "msg_1",
		"type":          "message",
		"role":          "assistant",
		"model":         "claude-test",
		"content":       []map[string]any{{"type": "text", "text": text}},
		"stop_reason":   "end_turn",
		"stop_sequence": nil,
		"usage":         map[string]any{"input_tokens": 4, "output_tokens": 6},
	}
}

func TestGenerate(t *testing.T) {
	server := messagesServer(t, http.StatusOK, message("A kettle suits you."))
	defer server.Close()

	got, err := newTestGenerator(server.URL).Generate(context.Background(), "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "A kettle suits you." {
		t.Errorf("got %q", got)
	}
}

func TestGenerate_Empty(t *testing.T) {
	server := messagesServer(t, http.StatusOK, message(""))
	defer server.Close()

	_, err := newTestGenerator(server.URL).Generate(context.Background(), "hello")
	if !errors.Is(err, domain.ErrEmptyResponse) {
		t.Fatalf("expected ErrEmptyResponse, got %v", err)
	}
}

func TestGenerate_APIError(t *testing.T) {
	server := messagesServer(t, http.StatusBadRequest, map[string]any{
		"type":  "error",
		"error": map[string]any{"type": "invalid_request_error", "message": "bad model"},
	})
	defer server.Close()

	_, err := newTestGenerator(server.URL).Generate(context.Background(), "hello")
	if !errors.Is(err, domain.ErrProviderError) {
		t.Fatalf("expected ErrProviderError, got %v", err)
	}
}

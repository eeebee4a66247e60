package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"eternal-valentine/internal/config"
)

func newTestGroqClient(url string) TextGenerator {
	return NewGroqClient(&config.LLMConfig{
		GroqAPIKey:  "test_key",
		GroqModel:   "test-model",
		GroqBaseURL: url + "/",
	})
}

func TestGroqGenerateContent(t *testing.T) {
	schema := &ResponseSchema{
		Properties: []string{"quote", "reason"},
		Required:   []string{"quote", "reason"},
	}

	t.Run("Success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/chat/completions" {
				t.Errorf("Expected path '/chat/completions', got '%s'", r.URL.Path)
			}
			if got := r.Header.Get("Authorization"); got != "Bearer test_key" {
				t.Errorf("Expected bearer auth, got '%s'", got)
			}

			var body struct {
				Model          string            `json:"model"`
				ResponseFormat map[string]string `json:"response_format"`
				Messages       []struct {
					Content string `json:"content"`
				} `json:"messages"`
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Errorf("Failed to decode request: %v", err)
				return
			}
			if body.Model != "test-model" {
				t.Errorf("Expected model 'test-model', got '%s'", body.Model)
			}
			if body.ResponseFormat["type"] != "json_object" {
				t.Errorf("Expected json_object response format, got %v", body.ResponseFormat)
			}
			if len(body.Messages) != 1 || !strings.Contains(body.Messages[0].Content, `"quote": string`) {
				t.Errorf("Expected the schema to be described in the prompt, got %+v", body.Messages)
			}

			w.WriteHeader(http.StatusOK)
			fmt.Fprintln(w, `{
				"choices": [{"message": {"content": "{\"quote\": \"q\", \"reason\": \"r\"}"}}],
				"usage": {"prompt_tokens": 12, "completion_tokens": 8, "total_tokens": 20}
			}`)
		}))
		defer server.Close()

		resp, err := newTestGroqClient(server.URL).GenerateContent(context.Background(), "Write something", schema)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if resp.Content != `{"quote": "q", "reason": "r"}` {
			t.Errorf("Unexpected content '%s'", resp.Content)
		}
		if resp.Usage.TotalTokens != 20 || resp.Usage.Model != "test-model" {
			t.Errorf("Unexpected usage %+v", resp.Usage)
		}
	})

	t.Run("ServerError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			fmt.Fprint(w, `{"error": "rate limited"}`)
		}))
		defer server.Close()

		_, err := newTestGroqClient(server.URL).GenerateContent(context.Background(), "p", schema)
		if err == nil {
			t.Fatal("Expected an error for non-200 status code, got nil")
		}
		if !strings.Contains(err.Error(), "status=429") {
			t.Errorf("Expected status in error, got '%v'", err)
		}
	})

	t.Run("NoChoices", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"choices": []}`)
		}))
		defer server.Close()

		if _, err := newTestGroqClient(server.URL).GenerateContent(context.Background(), "p", nil); err == nil {
			t.Fatal("Expected an error for empty choices, got nil")
		}
	})
}

func TestToGenaiSchema(t *testing.T) {
	s := toGenaiSchema(&ResponseSchema{
		Properties: []string{"quote", "reason", "suggestion"},
		Required:   []string{"quote", "reason", "suggestion"},
	})
	if len(s.Properties) != 3 {
		t.Fatalf("Expected 3 properties, got %d", len(s.Properties))
	}
	if len(s.Required) != 3 || s.Required[1] != "reason" {
		t.Errorf("Unexpected required list %v", s.Required)
	}
}

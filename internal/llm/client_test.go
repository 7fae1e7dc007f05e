package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClientCall(t *testing.T) {
	var captured chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": "the answer"}},
			},
		})
	}))
	defer srv.Close()

	c := &Client{BaseURL: srv.URL, APIKey: "test-key", Model: "test-model"}
	got, err := c.Call(context.Background(), Request{
		SystemPrompt: "be brief",
		History: []Turn{
			{Role: "user", Content: "remember this"},
			{Role: "assistant", Content: "noted"},
		},
		Prompt: "question",
	})
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if got != "the answer" {
		t.Errorf("Call = %q, want %q", got, "the answer")
	}

	if captured.Model != "test-model" {
		t.Errorf("request model = %q", captured.Model)
	}
	roles := make([]string, len(captured.Messages))
	for i, m := range captured.Messages {
		roles[i] = m.Role
	}
	want := []string{"system", "user", "assistant", "user"}
	if len(roles) != len(want) {
		t.Fatalf("message roles = %v, want %v", roles, want)
	}
	for i := range want {
		if roles[i] != want[i] {
			t.Errorf("message %d role = %q, want %q", i, roles[i], want[i])
		}
	}
	if last := captured.Messages[len(captured.Messages)-1]; last.Content != "question" {
		t.Errorf("final message content = %q", last.Content)
	}
}

func TestClientEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer srv.Close()

	c := &Client{BaseURL: srv.URL, Model: "test-model"}
	_, err := c.Call(context.Background(), Request{Prompt: "q"})
	if !errors.Is(err, ErrEmptyResponse) {
		t.Errorf("Call error = %v, want ErrEmptyResponse", err)
	}
}

func TestClientHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"rate limited"}}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := &Client{BaseURL: srv.URL, Model: "test-model"}
	_, err := c.Call(context.Background(), Request{Prompt: "q"})
	if err == nil {
		t.Fatal("Call succeeded on HTTP 429")
	}
}

func TestClientMissingConfig(t *testing.T) {
	c := &Client{}
	if _, err := c.Call(context.Background(), Request{Prompt: "q"}); err == nil {
		t.Fatal("Call succeeded without base URL and model")
	}
}

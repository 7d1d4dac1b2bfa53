package sitematch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCandidates = []Candidate{
	{ID: "4f1c2a9e-0000-4000-8000-000000000001", Name: "Harbour View Apartments", Identifier: "HV-01", Address: "12 Quay Street"},
	{ID: "4f1c2a9e-0000-4000-8000-000000000002", Name: "Old Mill Renovation"},
}

func TestParseResponse(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    *Result
		wantErr bool
	}{
		{
			name:    "plain json",
			content: `{"site_found": true, "site_id": "abc", "site_name": "Harbour", "confidence": "high"}`,
			want:    &Result{Found: true, SiteID: "abc", SiteName: "Harbour", Confidence: ConfidenceHigh},
		},
		{
			name:    "fenced json",
			content: "```json\n{\"site_found\": true, \"site_id\": \"abc\", \"site_name\": \"Harbour\", \"confidence\": \"LOW\"}\n```",
			want:    &Result{Found: true, SiteID: "abc", SiteName: "Harbour", Confidence: ConfidenceLow},
		},
		{
			name:    "bare fence",
			content: "Here you go:\n```\n{\"site_found\": false, \"site_id\": null, \"site_name\": null, \"confidence\": \"low\"}\n```",
			want:    &Result{Found: false, Confidence: ConfidenceLow},
		},
		{
			name:    "found without id is not found",
			content: `{"site_found": true, "site_id": "", "site_name": "Harbour", "confidence": "high"}`,
			want:    &Result{Found: false, SiteName: "Harbour", Confidence: ConfidenceHigh},
		},
		{
			name:    "unknown confidence defaults to medium",
			content: `{"site_found": true, "site_id": "abc", "site_name": "Harbour", "confidence": "very sure"}`,
			want:    &Result{Found: true, SiteID: "abc", SiteName: "Harbour", Confidence: ConfidenceMedium},
		},
		{
			name:    "not json",
			content: "I think it's the harbour one",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseResponse(tt.content)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildPrompt(t *testing.T) {
	prompt := buildPrompt(testCandidates, "  the harbour job ")

	assert.Contains(t, prompt, "ID: 4f1c2a9e-0000-4000-8000-000000000001, Name: Harbour View Apartments, Identifier: HV-01, Address: 12 Quay Street")
	assert.Contains(t, prompt, "Name: Old Mill Renovation, Identifier: None, Address: None")
	assert.Contains(t, prompt, `User said: "the harbour job"`)
}

func newChatServer(t *testing.T, handler func(body map[string]any) string, delay time.Duration) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.NotFound(w, r)
			return
		}
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)

		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-r.Context().Done():
				return
			}
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-test",
			"object":  "chat.completion",
			"created": 1,
			"model":   "gpt-4o-mini",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": handler(body)},
			}},
			"usage": map[string]any{"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestOpenAIMatcher_Match(t *testing.T) {
	var gotBody map[string]any
	srv := newChatServer(t, func(body map[string]any) string {
		gotBody = body
		return `{"site_found": true, "site_id": "4f1c2a9e-0000-4000-8000-000000000001", "site_name": "Harbour View", "confidence": "high"}`
	}, 0)

	m := NewOpenAIMatcher(Config{APIKey: "sk-test", BaseURL: srv.URL + "/v1", Timeout: time.Second})
	result, err := m.Match(context.Background(), testCandidates, "harbour")
	require.NoError(t, err)
	assert.True(t, result.Found)
	assert.Equal(t, "4f1c2a9e-0000-4000-8000-000000000001", result.SiteID)
	assert.Equal(t, ConfidenceHigh, result.Confidence)

	require.NotNil(t, gotBody)
	assert.Equal(t, "gpt-4o-mini", gotBody["model"])
	format, ok := gotBody["response_format"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "json_schema", format["type"])
}

func TestOpenAIMatcher_Timeout(t *testing.T) {
	srv := newChatServer(t, func(map[string]any) string {
		return `{"site_found": true, "site_id": "x", "site_name": "x", "confidence": "high"}`
	}, 2*time.Second)

	m := NewOpenAIMatcher(Config{APIKey: "sk-test", BaseURL: srv.URL + "/v1", Timeout: 50 * time.Millisecond})

	start := time.Now()
	_, err := m.Match(context.Background(), testCandidates, "harbour")
	require.Error(t, err)
	assert.Less(t, time.Since(start), time.Second)
}

func TestOpenAIMatcher_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":{"message":"overloaded","type":"server_error"}}`, http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	m := NewOpenAIMatcher(Config{APIKey: "sk-test", BaseURL: srv.URL + "/v1", Timeout: time.Second})
	_, err := m.Match(context.Background(), testCandidates, "harbour")
	require.Error(t, err)
}

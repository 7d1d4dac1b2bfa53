// Package sitematch asks a language model which of a tenant's sites a caller meant.
package sitematch

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

// Confidence levels reported by a Matcher.
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

// Candidate is one site offered to the matcher.
type Candidate struct {
	ID         string
	Name       string
	Identifier string
	Address    string
}

// Result is the matcher's answer. SiteID is only meaningful when Found is true
// and callers must still check it against the candidates they supplied.
type Result struct {
	Found      bool
	SiteID     string
	SiteName   string
	Confidence string
}

// Matcher picks the candidate a free-text description refers to.
type Matcher interface {
	Match(ctx context.Context, candidates []Candidate, description string) (*Result, error)
}

// Config holds configuration for the OpenAI-compatible matcher.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	// Timeout bounds a single Match call.
	Timeout time.Duration
}

// OpenAIMatcher matches sites with a chat completion constrained to a JSON schema.
type OpenAIMatcher struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

// NewOpenAIMatcher creates a matcher backed by an OpenAI-compatible endpoint.
func NewOpenAIMatcher(cfg Config) *OpenAIMatcher {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 8 * time.Second
	}

	return &OpenAIMatcher{
		client:  openai.NewClientWithConfig(clientConfig),
		model:   model,
		timeout: timeout,
	}
}

// Match sends the candidate list and description to the model.
func (m *OpenAIMatcher) Match(ctx context.Context, candidates []Candidate, description string) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model:       m.model,
		MaxTokens:   200,
		Temperature: 0,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: siteMatchSystemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildPrompt(candidates, description),
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   "site_match",
				Strict: true,
				Schema: siteMatchJSONSchema,
			},
		},
	}

	start := time.Now()
	resp, err := m.client.CreateChatCompletion(ctx, req)
	latency := time.Since(start)
	if err != nil {
		slog.Warn("site match request failed",
			"error", err,
			"latency_ms", latency.Milliseconds())
		return nil, fmt.Errorf("site match request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty response from site matcher")
	}

	content := resp.Choices[0].Message.Content
	result, err := parseResponse(content)
	if err != nil {
		slog.Warn("failed to parse site match response",
			"content", truncateForLog(content, 200),
			"error", err)
		return nil, fmt.Errorf("parse response failed: %w", err)
	}

	slog.Debug("site match completed",
		"description", truncateForLog(description, 50),
		"found", result.Found,
		"site_id", result.SiteID,
		"confidence", result.Confidence,
		"latency_ms", latency.Milliseconds(),
		"tokens", resp.Usage.TotalTokens)

	return result, nil
}

// buildPrompt lists the candidates with their exact ids and the caller's words.
func buildPrompt(candidates []Candidate, description string) string {
	var sb strings.Builder
	sb.WriteString("Available construction sites:\n")
	for _, c := range candidates {
		fmt.Fprintf(&sb, "- ID: %s, Name: %s, Identifier: %s, Address: %s\n",
			c.ID, c.Name, orNone(c.Identifier), orNone(c.Address))
	}
	fmt.Fprintf(&sb, "\nUser said: %q\n", strings.TrimSpace(description))
	return sb.String()
}

var fencePattern = regexp.MustCompile("```(?:json)?\\s*([\\s\\S]*?)\\s*```")

// parseResponse parses the model's JSON reply, tolerating markdown code fences.
func parseResponse(content string) (*Result, error) {
	content = strings.TrimSpace(content)
	if strings.Contains(content, "```") {
		if matches := fencePattern.FindStringSubmatch(content); len(matches) > 1 {
			content = matches[1]
		}
	}

	var raw struct {
		SiteFound  bool    `json:"site_found"`
		SiteID     *string `json:"site_id"`
		SiteName   *string `json:"site_name"`
		Confidence string  `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return nil, fmt.Errorf("JSON unmarshal failed: %w", err)
	}

	result := &Result{
		Found:      raw.SiteFound,
		Confidence: normalizeConfidence(raw.Confidence),
	}
	if raw.SiteID != nil {
		result.SiteID = strings.TrimSpace(*raw.SiteID)
	}
	if raw.SiteName != nil {
		result.SiteName = strings.TrimSpace(*raw.SiteName)
	}
	if result.SiteID == "" {
		result.Found = false
	}
	return result, nil
}

func normalizeConfidence(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case ConfidenceHigh:
		return ConfidenceHigh
	case ConfidenceLow:
		return ConfidenceLow
	default:
		return ConfidenceMedium
	}
}

func orNone(s string) string {
	if s == "" {
		return "None"
	}
	return s
}

// truncateForLog truncates a string for logging purposes.
func truncateForLog(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

const siteMatchSystemPrompt = `You match a construction worker's description of a job site to one of their company's sites.
Only choose a site from the supplied list and copy its ID exactly.
If none of the sites clearly fits, set site_found to false and site_id to an empty string.
Confidence is "high" for an unambiguous match, "medium" for a likely match and "low" for a guess.`

var siteMatchJSONSchema = &jsonSchema{
	Type: "object",
	Properties: map[string]*jsonSchema{
		"site_found": {
			Type:        "boolean",
			Description: "Whether one of the listed sites matches",
		},
		"site_id": {
			Type:        "string",
			Description: "Exact ID from the list, or empty when not found",
		},
		"site_name": {
			Type:        "string",
			Description: "Exact name from the list, or empty when not found",
		},
		"confidence": {
			Type: "string",
			Enum: []string{ConfidenceHigh, ConfidenceMedium, ConfidenceLow},
		},
	},
	Required:             []string{"site_found", "site_id", "site_name", "confidence"},
	AdditionalProperties: false,
}

// jsonSchema implements json.Marshaler for OpenAI's JSON Schema format.
type jsonSchema struct {
	Type                 string                 `json:"type"`
	Properties           map[string]*jsonSchema `json:"properties,omitempty"`
	Required             []string               `json:"required,omitempty"`
	Enum                 []string               `json:"enum,omitempty"`
	Description          string                 `json:"description,omitempty"`
	AdditionalProperties bool                   `json:"additionalProperties"`
}

func (s *jsonSchema) MarshalJSON() ([]byte, error) {
	type alias jsonSchema
	return json.Marshal((*alias)(s))
}

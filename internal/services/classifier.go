package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"
)

// Classifier assigns theme labels to a post.
type Classifier interface {
	Categorize(ctx context.Context, title, content string) ([]string, error)
}

// ClassifierService tags posts by calling an OpenAI-compatible chat
// completions endpoint, configured via LLM_BASE_URL, LLM_TOKEN and LLM_MODEL.
type ClassifierService struct {
	baseURL string
	token   string
	model   string
	client  *http.Client
}

func NewClassifierService() *ClassifierService {
	baseURL := os.Getenv("LLM_BASE_URL")
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	model := os.Getenv("LLM_MODEL")
	if model == "" {
		model = "gpt-3.5-turbo"
	}

	return &ClassifierService{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   os.Getenv("LLM_TOKEN"),
		model:   model,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

const categorizePrompt = `
You are a helpful assistant that analyzes Reddit posts. Analyze the following Reddit post and categorize it into one or more of the following themes:

# CATEGORY CRITERIA: """
- Solution Requests: Seeking solutions to problems.
- Pain and Anger: Expressing frustration or anger.
- Advice Requests: Seeking advice or opinions.
- Money Talk: Discussing money or finance topics.
"""

# POST DETAILS: """
Post Title: %q
Post Content: %q
"""

Provide the categories that the post fits into as a JSON array (e.g., ["Advice Requests", "Money Talk"]), **without any additional text or formatting**.

Ensure that your response is a valid JSON array and does not include any explanations or extra text.

Response:
`

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type ChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Categorize returns the taxonomy labels matching the post, or an empty list
// when none match. Transport and HTTP failures are returned as errors; a
// response that is not a JSON array even after cleanup degrades to an empty
// list instead of failing the call.
func (s *ClassifierService) Categorize(ctx context.Context, title, content string) ([]string, error) {
	chatReq := ChatRequest{
		Model: s.model,
		Messages: []ChatMessage{
			{Role: "system", Content: "You are a helpful assistant that analyzes Reddit posts."},
			{Role: "user", Content: fmt.Sprintf(categorizePrompt, title, content)},
		},
		MaxTokens:   100,
		Temperature: 0,
	}

	payload, err := json.Marshal(chatReq)
	if err != nil {
		return nil, fmt.Errorf("encoding classifier request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("building classifier request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.token)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling classifier: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("classifier returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var chatResp ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return nil, fmt.Errorf("decoding classifier response: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return []string{}, nil
	}

	raw := chatResp.Choices[0].Message.Content
	cleaned := cleanJSONArray(raw)
	if cleaned == "" {
		slog.Warn("classifier response contained no JSON array", "raw", raw)
		return []string{}, nil
	}

	var categories []string
	if err := json.Unmarshal([]byte(cleaned), &categories); err != nil {
		slog.Warn("classifier response was not a valid JSON array", "cleaned", cleaned, "err", err)
		return []string{}, nil
	}
	return categories, nil
}

// cleanJSONArray strips code fences and leading/trailing prose from a model
// response so only the JSON array remains. Returns "" if no array is present.
func cleanJSONArray(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")

	start := strings.Index(s, "[")
	end := strings.LastIndex(s, "]")
	if start == -1 || end == -1 || end < start {
		return ""
	}
	return s[start : end+1]
}

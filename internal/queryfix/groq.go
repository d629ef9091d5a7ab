package queryfix

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const (
	defaultGroqBaseURL     = "https://api.groq.com/openai/v1"
	defaultGroqVisionModel = "llama-3.2-90b-vision-preview"
)

// GroqClient calls the Groq OpenAI-compatible chat completions API.
type GroqClient struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// NewGroqClient creates a Groq client. An empty model selects the default
// vision model.
func NewGroqClient(apiKey, model string) *GroqClient {
	if model == "" {
		model = defaultGroqVisionModel
	}
	return &GroqClient{
		apiKey:     apiKey,
		model:      model,
		baseURL:    defaultGroqBaseURL,
		httpClient: &http.Client{},
	}
}

// groqMessage is a single chat message. Content is either a plain string or,
// for vision requests, a list of content parts.
type groqMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type groqContentPart struct {
	Type     string        `json:"type"`
	Text     string        `json:"text,omitempty"`
	ImageURL *groqImageURL `json:"image_url,omitempty"`
}

type groqImageURL struct {
	URL string `json:"url"`
}

type groqRequest struct {
	Model       string        `json:"model"`
	Messages    []groqMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

// groqResponse covers the fields we read, including the inline error object
// the API returns alongside a 200 in some failure modes.
type groqResponse struct {
	Choices []struct {
		FinishReason string `json:"finish_reason"`
		Message      struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *GroqClient) Name() string { return "groq" }

// GenerateText sends a text-only chat completion.
func (c *GroqClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	return c.complete(ctx, []groqMessage{{Role: "user", Content: prompt}})
}

// GenerateVision sends the prompt together with an inline image.
func (c *GroqClient) GenerateVision(ctx context.Context, prompt, imageDataURL string) (string, error) {
	msg := groqMessage{
		Role: "user",
		Content: []groqContentPart{
			{Type: "text", Text: prompt},
			{Type: "image_url", ImageURL: &groqImageURL{URL: imageDataURL}},
		},
	}
	return c.complete(ctx, []groqMessage{msg})
}

func (c *GroqClient) complete(ctx context.Context, messages []groqMessage) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("groq: api key not configured")
	}

	body, err := json.Marshal(groqRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: 0.2,
		MaxTokens:   500,
	})
	if err != nil {
		return "", fmt.Errorf("groq: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("groq: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("groq: send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("groq: status %d: %s", resp.StatusCode, string(respBody))
	}

	var parsed groqResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("groq: decode response: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("groq: api error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("groq: empty response")
	}
	return parsed.Choices[0].Message.Content, nil
}

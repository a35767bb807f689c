package openrouter

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"scan1c/internal/config"
	"scan1c/internal/port"
	"scan1c/internal/recognizer"
)

const (
	providerName   = "openrouter"
	defaultBaseURL = "https://openrouter.ai/api/v1"
	maxTokens      = 4096
	pdfMimeType    = "application/pdf"
)

// Client implements port.VisionModel for one model served through the
// OpenRouter chat completions API.
type Client struct {
	apiKey   string
	model    string
	endpoint string
	referer  string
	title    string
	client   *http.Client
}

// NewClient creates an OpenRouter client for model.
func NewClient(model string, cfg *config.RecognizerConfig) *Client {
	base := cfg.OpenRouterBaseURL
	if base == "" {
		base = defaultBaseURL
	}
	return NewClientWithEndpoint(model, cfg, strings.TrimRight(base, "/")+"/chat/completions")
}

// NewClientWithEndpoint creates a client pointing at a custom API endpoint (for testing).
func NewClientWithEndpoint(model string, cfg *config.RecognizerConfig, endpoint string) *Client {
	// The failover layer owns the per-call deadline; this is only a safety net.
	timeout := cfg.Timeout() * 2
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	return &Client{
		apiKey:   cfg.OpenRouterAPIKey,
		model:    model,
		endpoint: endpoint,
		referer:  cfg.Referer,
		title:    cfg.Title,
		client:   &http.Client{Timeout: timeout},
	}
}

// Factory adapts NewClient to recognizer.ProviderFactory.
func Factory(target config.ModelTarget, cfg *config.RecognizerConfig) (port.VisionModel, error) {
	if cfg.OpenRouterAPIKey == "" {
		return nil, fmt.Errorf("openrouter API key is not set")
	}
	return NewClient(target.Model, cfg), nil
}

func (c *Client) Name() string {
	return c.model
}

func (c *Client) Generate(ctx context.Context, req port.VisionRequest) (string, error) {
	bodyBytes, err := json.Marshal(c.buildRequest(req))
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	if c.referer != "" {
		httpReq.Header.Set("HTTP-Referer", c.referer)
	}
	if c.title != "" {
		httpReq.Header.Set("X-Title", c.title)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("calling openrouter API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", recognizer.ClassifyStatus(providerName, c.model, resp.StatusCode, string(respBody), resp.Header.Get("Retry-After"))
	}

	return parseResponse(respBody, c.model)
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float32       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string        `json:"role"`
	Content []contentPart `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
	File     *fileData `json:"file,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

// fileData is an inline document; OpenRouter parses PDFs for models without native file input.
type fileData struct {
	Filename string `json:"filename"`
	FileData string `json:"file_data"`
}

func (c *Client) buildRequest(req port.VisionRequest) chatRequest {
	mime := req.MimeType
	if mime == "" {
		mime = "image/jpeg"
	}
	dataURI := fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(req.Image))

	attachment := contentPart{Type: "image_url", ImageURL: &imageURL{URL: dataURI}}
	if mime == pdfMimeType {
		attachment = contentPart{Type: "file", File: &fileData{Filename: "page.pdf", FileData: dataURI}}
	}

	return chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{
				Role:    "user",
				Content: []contentPart{{Type: "text", Text: req.Prompt}, attachment},
			},
		},
		Temperature: req.Temperature,
		MaxTokens:   maxTokens,
	}
}

// apiResponse models the chat completions response. OpenRouter reports some
// upstream failures with HTTP 200 and an error object.
type apiResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func parseResponse(body []byte, model string) (string, error) {
	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("unmarshaling response: %w", err)
	}

	if resp.Error != nil {
		return "", recognizer.ClassifyStatus(providerName, model, resp.Error.Code, resp.Error.Message, "")
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from %s: no choices", model)
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("empty response from %s (finish_reason: %s)", model, resp.Choices[0].FinishReason)
	}
	return text, nil
}

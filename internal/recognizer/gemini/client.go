package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"scan1c/internal/config"
	"scan1c/internal/port"
	"scan1c/internal/recognizer"
)

const providerName = "gemini"

// Client implements port.VisionModel with the native Gemini API.
type Client struct {
	apiKey string
	model  string
	opts   []option.ClientOption
}

// NewClient creates a Gemini client for model. Extra options are appended to
// the API key option (tests point the client at a local endpoint).
func NewClient(apiKey, model string, opts ...option.ClientOption) *Client {
	return &Client{
		apiKey: strings.TrimSpace(apiKey),
		model:  strings.TrimSpace(model),
		opts:   opts,
	}
}

// Factory adapts NewClient to recognizer.ProviderFactory.
func Factory(target config.ModelTarget, cfg *config.RecognizerConfig) (port.VisionModel, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("gemini API key is not set")
	}
	return NewClient(cfg.GeminiAPIKey, target.Model), nil
}

func (c *Client) Name() string {
	return providerName + ":" + c.model
}

func (c *Client) Generate(ctx context.Context, req port.VisionRequest) (string, error) {
	if c.apiKey == "" {
		return "", errors.New("GOOGLE_API_KEY is empty")
	}

	opts := append([]option.ClientOption{option.WithAPIKey(c.apiKey)}, c.opts...)
	cl, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return "", fmt.Errorf("creating gemini client: %w", err)
	}
	defer func() { _ = cl.Close() }()

	m := cl.GenerativeModel(c.model)
	m.GenerationConfig = genai.GenerationConfig{
		Temperature: ptrFloat32(req.Temperature),
	}

	mime := req.MimeType
	if mime == "" {
		mime = "image/jpeg"
	}
	parts := []genai.Part{
		&genai.Blob{MIMEType: mime, Data: req.Image},
		genai.Text(req.Prompt),
	}

	resp, err := m.GenerateContent(ctx, parts...)
	if err != nil {
		return "", classifyError(c.model, err)
	}

	text := firstText(resp)
	if text == "" {
		return "", fmt.Errorf("gemini %s: empty response", c.model)
	}
	return text, nil
}

// classifyError maps Gemini API failures onto the recognizer error taxonomy.
func classifyError(model string, err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusTooManyRequests:
			return recognizer.NewRateLimitError(providerName, err, 0)
		case http.StatusNotFound:
			return &recognizer.ProviderUnavailableError{Provider: providerName, Model: model, Err: err}
		}
	}

	msg := strings.ToLower(err.Error())
	switch {
	case recognizer.IsRateLimited(err):
		return recognizer.NewRateLimitError(providerName, err, 0)
	case strings.Contains(msg, "not found") || recognizer.ContainsStatusCode(msg, http.StatusNotFound):
		return &recognizer.ProviderUnavailableError{Provider: providerName, Model: model, Err: err}
	}
	return fmt.Errorf("gemini %s: %w", model, err)
}

func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var b strings.Builder
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, p := range cand.Content.Parts {
			if t, ok := p.(genai.Text); ok {
				b.WriteString(string(t))
			}
		}
		if b.Len() > 0 {
			break
		}
	}
	return strings.TrimSpace(b.String())
}

func ptrFloat32(v float32) *float32 { return &v }

package gemini

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"

	"scan1c/internal/config"
	"scan1c/internal/port"
	"scan1c/internal/recognizer"
)

func TestClassifyError_TooManyRequests(t *testing.T) {
	err := classifyError("gemini-1.5-flash", &googleapi.Error{Code: http.StatusTooManyRequests, Message: "quota"})

	var rl *recognizer.RateLimitError
	require.True(t, errors.As(err, &rl))
	assert.Equal(t, "gemini", rl.Provider)
}

func TestClassifyError_NotFound(t *testing.T) {
	err := classifyError("gemini-9", &googleapi.Error{Code: http.StatusNotFound, Message: "models/gemini-9 is not found"})

	var unavailable *recognizer.ProviderUnavailableError
	require.True(t, errors.As(err, &unavailable))
	assert.Equal(t, "gemini-9", unavailable.Model)
}

func TestClassifyError_MessageMarkers(t *testing.T) {
	err := classifyError("m", errors.New("rpc error: code = ResourceExhausted desc = Resource has been exhausted"))
	assert.True(t, recognizer.IsRateLimited(err))

	err = classifyError("m", errors.New("model m not found for API version v1beta"))
	var unavailable *recognizer.ProviderUnavailableError
	assert.True(t, errors.As(err, &unavailable))
}

func TestClassifyError_Other(t *testing.T) {
	base := errors.New("permission denied")
	err := classifyError("m", base)

	assert.ErrorIs(t, err, base)
	assert.False(t, recognizer.IsRateLimited(err))
}

func TestFirstText(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []genai.Part{genai.Text(`{"a":`), genai.Text(`1}`)}}},
			{Content: &genai.Content{Parts: []genai.Part{genai.Text(`ignored`)}}},
		},
	}

	assert.Equal(t, `{"a":1}`, firstText(resp))
	assert.Equal(t, "", firstText(nil))
	assert.Equal(t, "", firstText(&genai.GenerateContentResponse{}))
}

func TestGenerate_EmptyAPIKey(t *testing.T) {
	c := NewClient("", "gemini-1.5-flash")

	_, err := c.Generate(context.Background(), port.VisionRequest{})

	assert.Error(t, err)
	assert.Equal(t, "gemini:gemini-1.5-flash", c.Name())
}

func TestFactory_RequiresAPIKey(t *testing.T) {
	_, err := Factory(config.ModelTarget{Provider: config.ProviderGemini, Model: "x"}, &config.RecognizerConfig{})
	assert.Error(t, err)
}

func TestClassifyError_StatusDigitsInsideIDs(t *testing.T) {
	err := classifyError("m", errors.New("internal error, request id 14049 trace 84291"))

	var unavailable *recognizer.ProviderUnavailableError
	assert.False(t, errors.As(err, &unavailable))
	assert.False(t, recognizer.IsRateLimited(err))
}

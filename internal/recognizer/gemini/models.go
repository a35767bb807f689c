package gemini

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// ModelInfo describes one model available to the API key.
type ModelInfo struct {
	Name        string
	DisplayName string
	Methods     []string
}

// ListGenerateContentModels returns the models that support generateContent.
func ListGenerateContentModels(ctx context.Context, apiKey string, opts ...option.ClientOption) ([]ModelInfo, error) {
	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	cl, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	defer func() { _ = cl.Close() }()

	var out []ModelInfo
	it := cl.ListModels(ctx)
	for {
		m, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("listing models: %w", err)
		}
		if !slices.Contains(m.SupportedGenerationMethods, "generateContent") {
			continue
		}
		out = append(out, ModelInfo{
			Name:        strings.TrimPrefix(m.Name, "models/"),
			DisplayName: m.DisplayName,
			Methods:     m.SupportedGenerationMethods,
		})
	}
	return out, nil
}

package recognizer

import (
	"fmt"

	"scan1c/internal/config"
	"scan1c/internal/port"
)

// ProviderFactory creates a VisionModel for one entry of the failover list.
type ProviderFactory func(target config.ModelTarget, cfg *config.RecognizerConfig) (port.VisionModel, error)

// registry of provider factories, filled by RegisterProvider at startup.
var providers = map[string]ProviderFactory{}

// RegisterProvider registers a provider factory by name.
func RegisterProvider(name string, factory ProviderFactory) {
	providers[name] = factory
}

// NewModel creates a VisionModel for target using the registered factory.
func NewModel(target config.ModelTarget, cfg *config.RecognizerConfig) (port.VisionModel, error) {
	factory, ok := providers[target.Provider]
	if !ok {
		return nil, fmt.Errorf("unknown model provider: %s", target.Provider)
	}
	return factory(target, cfg)
}

// NewFailoverFromConfig resolves the configured model list once and returns
// the failover strategy shared by every recognition call.
func NewFailoverFromConfig(cfg *config.RecognizerConfig) (*FailoverModel, error) {
	models := make([]port.VisionModel, 0, len(cfg.Models))
	for _, target := range cfg.Models {
		m, err := NewModel(target, cfg)
		if err != nil {
			return nil, fmt.Errorf("creating model %s: %w", target, err)
		}
		models = append(models, m)
	}
	if len(models) == 0 {
		return nil, fmt.Errorf("no vision models configured")
	}
	return NewFailoverModel(models, cfg.Timeout()), nil
}

package recognizer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"scan1c/internal/port"
)

// FailoverModel tries models strictly in priority order and returns the first
// non-empty reply. It implements port.VisionModel and is immutable after
// construction, so one instance is shared by all requests.
type FailoverModel struct {
	models  []port.VisionModel
	timeout time.Duration
}

// NewFailoverModel creates a FailoverModel. A zero timeout disables the per-call deadline.
func NewFailoverModel(models []port.VisionModel, timeout time.Duration) *FailoverModel {
	list := make([]port.VisionModel, len(models))
	copy(list, models)
	return &FailoverModel{models: list, timeout: timeout}
}

// Name lists the models in priority order.
func (f *FailoverModel) Name() string {
	return "failover[" + strings.Join(f.Models(), ",") + "]"
}

// Models returns the model names in priority order.
func (f *FailoverModel) Models() []string {
	names := make([]string, len(f.models))
	for i, m := range f.models {
		names[i] = m.Name()
	}
	return names
}

// Generate calls each model in turn. Any error, including an empty reply or a
// timeout, moves on to the next model. When every model failed the last error
// is returned wrapped.
func (f *FailoverModel) Generate(ctx context.Context, req port.VisionRequest) (string, error) {
	if len(f.models) == 0 {
		return "", errors.New("no vision models configured")
	}

	var lastErr error
	for i, m := range f.models {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		log := logrus.WithFields(logrus.Fields{
			"component": "recognizer.FailoverModel",
			"model":     m.Name(),
			"priority":  i + 1,
		})

		start := time.Now()
		text, err := f.call(ctx, m, req)
		if err == nil && strings.TrimSpace(text) == "" {
			err = fmt.Errorf("%s returned an empty response", m.Name())
		}
		if err != nil {
			log.WithField("latency_ms", time.Since(start).Milliseconds()).Warnf("model failed: %v", err)
			lastErr = err
			continue
		}

		log.WithField("latency_ms", time.Since(start).Milliseconds()).Info("model succeeded")
		return text, nil
	}
	return "", fmt.Errorf("all %d models failed: %w", len(f.models), lastErr)
}

func (f *FailoverModel) call(ctx context.Context, m port.VisionModel, req port.VisionRequest) (string, error) {
	if f.timeout <= 0 {
		return m.Generate(ctx, req)
	}
	callCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	text, err := m.Generate(callCtx, req)
	if err != nil && errors.Is(callCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		return "", fmt.Errorf("%s timed out after %s: %w", m.Name(), f.timeout, err)
	}
	return text, err
}

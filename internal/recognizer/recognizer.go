package recognizer

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"scan1c/internal/domain"
	"scan1c/internal/port"
)

// Options configures a Recognizer.
type Options struct {
	Temperature     float32
	PageConcurrency int
	Retry           RetryPolicy
	Preprocessor    Preprocessor
}

// Recognizer is the single entry point of the recognition pipeline:
// preprocess, prompt, invoke with failover and retry, parse, normalize and,
// for multi-page documents, aggregate. It implements port.DocumentRecognizer.
type Recognizer struct {
	model      port.VisionModel
	rasterizer port.PageRasterizer
	opts       Options
	prompt     string
}

// New creates a Recognizer. rasterizer may be nil when multi-page input is not expected.
func New(model port.VisionModel, rasterizer port.PageRasterizer, opts Options) *Recognizer {
	if opts.PageConcurrency <= 0 {
		opts.PageConcurrency = 1
	}
	if opts.Retry.MaxAttempts <= 0 {
		opts.Retry = DefaultRetryPolicy()
	}
	if opts.Preprocessor.MaxDimension <= 0 {
		opts.Preprocessor = DefaultPreprocessor()
	}
	return &Recognizer{
		model:      model,
		rasterizer: rasterizer,
		opts:       opts,
		prompt:     BuildInvoicePrompt(),
	}
}

// Recognize never returns nil. Failures are reported as {"error": msg, "Items": []}.
func (r *Recognizer) Recognize(ctx context.Context, req domain.RecognitionRequest) *domain.DocumentResult {
	log := logrus.WithFields(logrus.Fields{
		"component":  "recognizer.Recognize",
		"file":       req.FileName,
		"multi_page": req.MultiPage,
		"bytes":      len(req.Data),
	})
	start := time.Now()

	if len(req.Data) == 0 {
		return domain.NewRecognitionError(domain.ErrEmptyFile.Error())
	}

	var result *domain.DocumentResult
	if req.MultiPage {
		result = r.recognizeDocument(ctx, req.Data)
	} else {
		page, err := r.recognizePage(ctx, 1, req.Data, req.MimeType)
		if err != nil {
			result = domain.NewRecognitionError(err.Error())
		} else {
			result = FromPage(page)
		}
	}

	log = log.WithField("latency_ms", time.Since(start).Milliseconds())
	if result.Failed() {
		log.Warnf("recognition failed: %s", result.Error)
	} else {
		log.WithFields(logrus.Fields{
			"items":     len(result.Items),
			"total_sum": result.TotalSum,
			"pages":     result.PageCount,
		}).Info("recognition completed")
	}
	return result
}

func (r *Recognizer) recognizeDocument(ctx context.Context, data []byte) *domain.DocumentResult {
	if r.rasterizer == nil {
		return domain.NewRecognitionError("multi-page documents are not supported")
	}
	pages, err := r.rasterizer.Pages(ctx, data)
	if err != nil {
		return domain.NewRecognitionError(fmt.Sprintf("reading pages: %v", err))
	}
	if len(pages) == 0 {
		return domain.NewRecognitionError("document has no pages")
	}

	outcomes := make([]PageOutcome, len(pages))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.PageConcurrency)
	for i, p := range pages {
		g.Go(func() error {
			if len(p.Data) == 0 {
				outcomes[i] = PageOutcome{Err: errors.New("страница не содержит изображения")}
				return nil
			}
			page, err := r.recognizePage(gctx, i+1, p.Data, p.MimeType)
			outcomes[i] = PageOutcome{Page: page, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	result := Aggregate(outcomes)
	if !result.Failed() {
		for _, p := range pages {
			if len(p.Data) == 0 || p.MimeType == domain.ContentTypePDF {
				continue
			}
			prepared, mime := r.opts.Preprocessor.Prepare(p.Data)
			result.Preview = "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(prepared)
			break
		}
	}
	return result
}

// recognizePage sends one page to the model. Single-page PDFs go as they are,
// everything else through the preprocessor.
func (r *Recognizer) recognizePage(ctx context.Context, pageNum int, data []byte, mimeType string) (*domain.PageResult, error) {
	image, mime := data, mimeType
	if mimeType != domain.ContentTypePDF {
		image, mime = r.opts.Preprocessor.Prepare(data)
	}
	req := port.VisionRequest{
		Prompt:      r.prompt,
		Image:       image,
		MimeType:    mime,
		Temperature: r.opts.Temperature,
	}

	var page domain.PageResult
	err := r.opts.Retry.Do(ctx, func(ctx context.Context) error {
		text, err := r.model.Generate(ctx, req)
		if err != nil {
			return err
		}
		obj, err := ParseJSONObject(text)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"component": "recognizer.Recognize",
				"page":      pageNum,
			}).Debugf("unparseable model output: %s", truncate(text, 300))
			return err
		}
		page = NormalizePage(obj)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &page, nil
}

package pdfpages

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/sirupsen/logrus"

	"scan1c/internal/domain"
	"scan1c/internal/port"
)

// DefaultMaxPages bounds how many pages of one upload are sent to the models.
const DefaultMaxPages = 20

// Extractor implements port.PageRasterizer. Phone scanner apps and MFPs
// store every page as one embedded raster image, so such a page is
// represented by its largest image. A page without one (a digital УПД or
// ТОРГ-12 exported from 1C) is passed on as a single-page PDF.
type Extractor struct {
	maxPages int
}

// NewExtractor creates an Extractor. maxPages <= 0 selects DefaultMaxPages.
func NewExtractor(maxPages int) *Extractor {
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	return &Extractor{maxPages: maxPages}
}

func newConfiguration() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

// PageCount returns the number of pages in data.
func (e *Extractor) PageCount(data []byte) (int, error) {
	n, err := api.PageCount(bytes.NewReader(data), newConfiguration())
	if err != nil {
		return 0, fmt.Errorf("reading pdf: %w", err)
	}
	return n, nil
}

// Pages returns one entry per page in page order, capped at the page limit.
func (e *Extractor) Pages(ctx context.Context, data []byte) ([]port.Page, error) {
	count, err := e.PageCount(data)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, fmt.Errorf("pdf has no pages")
	}
	log := logrus.WithField("component", "pdfpages.Extractor")
	if count > e.maxPages {
		log.WithFields(logrus.Fields{
			"pages": count,
			"limit": e.maxPages,
		}).Warn("pdf truncated to page limit")
		count = e.maxPages
	}

	out := make([]port.Page, count)
	var single map[int][]byte
	for page := 1; page <= count; page++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		img, err := e.largestImage(data, page)
		if err != nil {
			log.WithField("page", page).Warnf("image extraction failed, sending the page as pdf: %v", err)
		}
		if len(img) > 0 {
			out[page-1] = port.Page{Data: img, MimeType: http.DetectContentType(img)}
			continue
		}

		if single == nil {
			if single, err = e.splitPages(data); err != nil {
				return nil, fmt.Errorf("page %d: %w", page, err)
			}
		}
		out[page-1] = port.Page{Data: single[page], MimeType: domain.ContentTypePDF}
	}
	return out, nil
}

// splitPages splits data into single-page PDFs keyed by page number.
func (e *Extractor) splitPages(data []byte) (map[int][]byte, error) {
	spans, err := api.SplitRaw(bytes.NewReader(data), 1, newConfiguration())
	if err != nil {
		return nil, fmt.Errorf("splitting pdf: %w", err)
	}
	out := make(map[int][]byte, len(spans))
	for _, span := range spans {
		b, err := io.ReadAll(span.Reader)
		if err != nil {
			return nil, fmt.Errorf("reading page %d: %w", span.From, err)
		}
		out[span.From] = b
	}
	return out, nil
}

func (e *Extractor) largestImage(data []byte, page int) ([]byte, error) {
	pages, err := api.ExtractImagesRaw(bytes.NewReader(data), []string{strconv.Itoa(page)}, newConfiguration())
	if err != nil {
		return nil, fmt.Errorf("extracting images: %w", err)
	}

	var best *model.Image
	bestArea := -1
	for _, images := range pages {
		for objNr := range images {
			img := images[objNr]
			if img.Thumb || img.IsImgMask {
				continue
			}
			if area := img.Width * img.Height; area > bestArea {
				best, bestArea = &img, area
			}
		}
	}
	if best == nil || best.Reader == nil {
		return nil, nil
	}

	b, err := io.ReadAll(best)
	if err != nil {
		return nil, fmt.Errorf("reading image: %w", err)
	}
	return b, nil
}

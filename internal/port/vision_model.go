package port

import "context"

// VisionRequest carries one prompt and one image to a vision-capable model.
type VisionRequest struct {
	Prompt      string
	Image       []byte
	MimeType    string
	Temperature float32
}

// VisionModel abstracts a single vision-capable language model endpoint.
// Generate returns the raw text reply of the model.
type VisionModel interface {
	Name() string
	Generate(ctx context.Context, req VisionRequest) (string, error)
}

// Page is one page of a multi-page document as it is sent to a model:
// an image, or a single-page PDF when the page carries no raster image.
type Page struct {
	Data     []byte
	MimeType string
}

// PageRasterizer splits a multi-page document into pages.
// The returned slice is in page order; a page that could not be extracted has empty Data.
type PageRasterizer interface {
	Pages(ctx context.Context, data []byte) ([]Page, error)
}

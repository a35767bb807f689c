package domain

// RecognitionRequest is one document submission handed to the recognizer.
type RecognitionRequest struct {
	Data      []byte
	MultiPage bool
	MimeType  string
	FileName  string
}

// LineItem is a single goods row of an invoice.
// Total is always Quantity × Price rounded to kopecks.
type LineItem struct {
	ItemArticle string  `json:"ItemArticle"`
	ItemName    string  `json:"ItemName"`
	Quantity    float64 `json:"Quantity"`
	Price       float64 `json:"Price"`
	Total       float64 `json:"Total"`
}

// PageResult is the normalized recognition output of exactly one page.
type PageResult struct {
	SupplierINN string     `json:"SupplierINN"`
	DocNumber   string     `json:"DocNumber"`
	DocDate     string     `json:"DocDate"`
	Items       []LineItem `json:"Items"`

	// ReportedTotal is the document total claimed by the model. It never
	// becomes TotalSum; a mismatch only adds a warning.
	ReportedTotal float64 `json:"-"`
}

// DocumentResult is the final outcome of a recognition call. A non-empty
// Error marks a failed recognition; Items is then empty.
type DocumentResult struct {
	SupplierINN string     `json:"SupplierINN"`
	DocNumber   string     `json:"DocNumber"`
	DocDate     string     `json:"DocDate"`
	Items       []LineItem `json:"Items"`
	TotalSum    float64    `json:"TotalSum"`
	Error       string     `json:"error,omitempty"`
	Warnings    []string   `json:"warnings,omitempty"`
	Preview     string     `json:"preview,omitempty"`
	PageCount   int        `json:"pages,omitempty"`
}

// NewRecognitionError builds the uniform failure shape {"error": msg, "Items": []}.
func NewRecognitionError(msg string) *DocumentResult {
	return &DocumentResult{Error: msg, Items: []LineItem{}}
}

// Failed reports whether the result represents a recognition error.
func (r *DocumentResult) Failed() bool {
	return r.Error != ""
}

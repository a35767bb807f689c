package handler

import (
	"errors"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"scan1c/internal/domain"
	"scan1c/internal/service"
)

// ScanHandler handles document upload, recognition and history endpoints.
type ScanHandler struct {
	scans          service.ScanService
	maxUploadBytes int64
}

// NewScanHandler creates a new ScanHandler.
func NewScanHandler(scans service.ScanService, maxUploadBytes int64) *ScanHandler {
	return &ScanHandler{scans: scans, maxUploadBytes: maxUploadBytes}
}

// readScanInput reads the multipart "file" field, enforcing the upload limit.
func (h *ScanHandler) readScanInput(c *gin.Context) (service.ScanInput, error) {
	if h.maxUploadBytes > 0 {
		// Leave room for the multipart envelope around the file.
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes+1<<20)
	}
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return service.ScanInput{}, domain.ErrFileTooLarge
		}
		return service.ScanInput{}, errMissingFile
	}
	defer func() { _ = file.Close() }()

	data, err := service.ReadUpload(file, h.maxUploadBytes)
	if err != nil {
		return service.ScanInput{}, err
	}
	return service.ScanInput{
		Source:       domain.ScanSourceAPI,
		FileName:     header.Filename,
		DeclaredType: declaredType(header),
		Data:         data,
	}, nil
}

var errMissingFile = errors.New("file field is required")

func declaredType(h *multipart.FileHeader) string {
	if h == nil {
		return ""
	}
	return h.Header.Get("Content-Type")
}

// Recognize handles POST /api/scan
// @Summary Recognize a document (web app)
// @Description Accepts an invoice photo or PDF and returns the bare recognition result.
// @Description Recognition failures are reported as {"error": "...", "Items": []} with status 200.
// @Tags scans
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Photo (JPG, PNG, WEBP, GIF) or PDF"
// @Success 200 {object} domain.DocumentResult
// @Failure 400 {object} domain.DocumentResult "Missing file or unsupported type"
// @Failure 413 {object} domain.DocumentResult "File too large"
// @Router /api/scan [post]
func (h *ScanHandler) Recognize(c *gin.Context) {
	input, err := h.readScanInput(c)
	if err != nil {
		status, _, msg := MapDomainError(err)
		if errors.Is(err, errMissingFile) {
			status, msg = http.StatusBadRequest, err.Error()
		}
		c.JSON(status, domain.NewRecognitionError(msg))
		return
	}

	out, err := h.scans.Scan(c.Request.Context(), input)
	if err != nil {
		status, _, msg := MapDomainError(err)
		c.JSON(status, domain.NewRecognitionError(msg))
		return
	}
	c.JSON(http.StatusOK, out.Result)
}

// Create handles POST /api/v1/scans
// @Summary Recognize a document
// @Description Same as /api/scan but wrapped in the standard envelope together with the stored record id.
// @Tags scans
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Photo (JPG, PNG, WEBP, GIF) or PDF"
// @Success 200 {object} Response{data=ScanResponse}
// @Failure 400 {object} ErrorResponseBody "Missing file or unsupported type"
// @Failure 413 {object} ErrorResponseBody "File too large"
// @Router /api/v1/scans [post]
func (h *ScanHandler) Create(c *gin.Context) {
	input, err := h.readScanInput(c)
	if err != nil {
		if errors.Is(err, errMissingFile) {
			RespondError(c, http.StatusBadRequest, "MISSING_FILE", err.Error())
			return
		}
		HandleError(c, err)
		return
	}

	out, err := h.scans.Scan(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}

	resp := ScanResponse{Result: out.Result}
	if out.ID != uuid.Nil {
		resp.ID = &out.ID
	}
	RespondOK(c, resp)
}

// List handles GET /api/v1/scans
// @Summary List recognitions
// @Description Most recent first. The stored result is omitted; fetch a single record for it.
// @Tags scans
// @Produce json
// @Param offset query int false "Offset for pagination" default(0)
// @Param limit query int false "Limit for pagination (max 100)" default(20)
// @Success 200 {object} Response{data=[]domain.RecognitionRecord,meta=PagMeta}
// @Failure 503 {object} ErrorResponseBody "History disabled"
// @Router /api/v1/scans [get]
func (h *ScanHandler) List(c *gin.Context) {
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	recs, total, err := h.scans.List(c.Request.Context(), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, recs, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// GetByID handles GET /api/v1/scans/:id
// @Summary Get a recognition
// @Tags scans
// @Produce json
// @Param id path string true "Recognition ID (UUID)"
// @Success 200 {object} Response{data=domain.RecognitionRecord}
// @Failure 400 {object} ErrorResponseBody "Invalid ID"
// @Failure 404 {object} ErrorResponseBody "Not found"
// @Failure 503 {object} ErrorResponseBody "History disabled"
// @Router /api/v1/scans/{id} [get]
func (h *ScanHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	rec, err := h.scans.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, rec)
}

// DownloadURL handles GET /api/v1/scans/:id/download
// @Summary Get a download link for the original upload
// @Tags scans
// @Produce json
// @Param id path string true "Recognition ID (UUID)"
// @Success 200 {object} Response{data=DownloadURLResponse}
// @Failure 404 {object} ErrorResponseBody "Not found or not archived"
// @Router /api/v1/scans/{id}/download [get]
func (h *ScanHandler) DownloadURL(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	link, err := h.scans.GetDownloadURL(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, DownloadURLResponse{DownloadURL: link})
}

// Export handles GET /api/v1/scans/:id/export
// @Summary Export a recognition as a spreadsheet
// @Tags scans
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Produce text/csv
// @Param id path string true "Recognition ID (UUID)"
// @Param format query string false "xlsx or csv" default(xlsx)
// @Success 200 {file} file
// @Failure 400 {object} ErrorResponseBody "Invalid ID or format"
// @Failure 404 {object} ErrorResponseBody "Not found"
// @Router /api/v1/scans/{id}/export [get]
func (h *ScanHandler) Export(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	format := domain.ExportFormat(c.DefaultQuery("format", string(domain.ExportFormatXLSX)))

	out, err := h.scans.Export(c.Request.Context(), id, format)
	if err != nil {
		HandleError(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.PathEscape(out.FileName))
	c.Data(http.StatusOK, out.ContentType, out.Body)
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid recognition ID")
		return uuid.Nil, false
	}
	return id, true
}

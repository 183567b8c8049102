package server

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"invoicehs/internal"
	"invoicehs/internal/catalog"
	"invoicehs/internal/pipeline"
	"invoicehs/internal/source"
)

const (
	exportFilename  = "invoice_with_hs_codes.xlsx"
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var errBadForm = errors.New("bad form")

type Handler struct {
	conv      Converter
	metrics   *Metrics
	logger    *slog.Logger
	maxBytes  int64
	writeXLSX func(io.Writer, []internal.LineItemRecord) error
}

func NewHandler(conv Converter, metrics *Metrics, logger *slog.Logger, maxBytes int64) *Handler {
	return &Handler{conv: conv, metrics: metrics, logger: logger, maxBytes: maxBytes, writeXLSX: pipeline.WriteXLSX}
}

func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "invoicehs"})
}

// Preview returns the extracted text preview and the resolved records as JSON.
func (h *Handler) Preview(c *gin.Context) {
	start := time.Now()
	res, ok := h.run(c)
	if !ok {
		return
	}
	h.metrics.observe(res, time.Since(start))
	c.JSON(http.StatusOK, gin.H{
		"traceId": res.TraceID,
		"preview": res.Preview,
		"records": res.Records,
		"counts":  res.Counts,
	})
}

// Convert returns the resolved records as an xlsx download.
func (h *Handler) Convert(c *gin.Context) {
	start := time.Now()
	res, ok := h.run(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := h.writeXLSX(&buf, res.Records); err != nil {
		h.fail(c, err)
		return
	}
	h.metrics.observe(res, time.Since(start))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exportFilename))
	c.Header("X-Trace-Id", res.TraceID)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (h *Handler) run(c *gin.Context) (pipeline.ConversionResult, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes)

	doc, file, err := h.readForm(c)
	if err != nil {
		h.fail(c, err)
		return pipeline.ConversionResult{}, false
	}

	res, err := h.conv.Convert(c.Request.Context(), doc, file)
	if err != nil {
		h.fail(c, err)
		return pipeline.ConversionResult{}, false
	}
	return res, true
}

func (h *Handler) readForm(c *gin.Context) (source.Document, pipeline.CatalogFile, error) {
	invoice, err := c.FormFile("invoice")
	if err != nil {
		return source.Document{}, pipeline.CatalogFile{}, fmt.Errorf("%w: invoice: %w", errBadForm, err)
	}
	cat, err := c.FormFile("catalog")
	if err != nil {
		return source.Document{}, pipeline.CatalogFile{}, fmt.Errorf("%w: catalog: %w", errBadForm, err)
	}

	invoiceBytes, err := readUpload(invoice)
	if err != nil {
		return source.Document{}, pipeline.CatalogFile{}, err
	}
	catalogBytes, err := readUpload(cat)
	if err != nil {
		return source.Document{}, pipeline.CatalogFile{}, err
	}

	doc := source.Document{
		Name:        invoice.Filename,
		ContentType: invoice.Header.Get("Content-Type"),
		Content:     invoiceBytes,
	}
	return doc, pipeline.CatalogFile{Name: cat.Filename, Content: catalogBytes}, nil
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", errBadForm, fh.Filename, err)
	}
	defer f.Close()
	return io.ReadAll(f)
}

func (h *Handler) fail(c *gin.Context, err error) {
	var malformed *catalog.MalformedCatalogError
	var tooLarge *http.MaxBytesError

	switch {
	case errors.As(err, &malformed):
		h.metrics.failed("malformed_catalog")
		missing := make([]string, 0, len(malformed.Missing))
		for _, r := range malformed.Missing {
			missing = append(missing, string(r))
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "missing": missing})
	case errors.As(err, &tooLarge):
		h.metrics.failed("rejected")
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
	case errors.Is(err, source.ErrUnsupportedDocument), errors.Is(err, catalog.ErrUnsupportedCatalog):
		h.metrics.failed("unsupported")
		c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": err.Error()})
	case errors.Is(err, errBadForm):
		h.metrics.failed("rejected")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.metrics.failed("error")
		h.logger.Error("conversion failed", slog.String("path", c.FullPath()), slog.Any("error", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "conversion failed"})
	}
}

package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"invoicehs/internal"
	"invoicehs/internal/config"
	"invoicehs/internal/logging"
	"invoicehs/internal/pipeline"
	"invoicehs/internal/source"
)

const (
	invoiceText = "Invoice #123\nPVC Elbow 2in Qty 50\nWidget 7\nTotal: $500\n"
	catalogCSV  = "Description,HS Code,Unit\nPVC Elbow 2in,3917.40,PCS\n"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func newTestService(maxUploadMB int) *Service {
	cfg := config.Config{MatchWorkers: 2, PreviewChars: 3000, HTTPMaxUploadMB: maxUploadMB}
	conv := pipeline.NewConversionService(cfg, source.NewExtractorWithOCR(nil), logging.Discard())
	return NewService(cfg, conv, logging.Discard())
}

type upload struct {
	field, name, body string
}

func multipartRequest(t *testing.T, path string, files ...upload) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for _, f := range files {
		part, err := w.CreateFormFile(f.field, f.name)
		require.NoError(t, err)
		_, err = part.Write([]byte(f.body))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func serve(s *Service, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func TestHealthCheck(t *testing.T) {
	rec := serve(newTestService(1), httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}

func TestPreview(t *testing.T) {
	s := newTestService(1)
	rec := serve(s, multipartRequest(t, "/api/v1/preview",
		upload{"invoice", "invoice.txt", invoiceText},
		upload{"catalog", "codes.csv", catalogCSV},
	))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		Preview string                    `json:"preview"`
		Records []internal.LineItemRecord `json:"records"`
		Counts  internal.ConversionCounts `json:"counts"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, invoiceText, body.Preview)
	require.Len(t, body.Records, 2)
	assert.Equal(t, "3917.40", body.Records[0].HSCode)
	assert.Equal(t, internal.NotFound, body.Records[1].HSCode)
	assert.Equal(t, internal.ConversionCounts{Lines: 4, Items: 2, Catalog: 1, Matched: 1, Unmatched: 1}, body.Counts)
}

func TestConvertDownload(t *testing.T) {
	s := newTestService(1)
	rec := serve(s, multipartRequest(t, "/api/v1/convert",
		upload{"invoice", "invoice.txt", invoiceText},
		upload{"catalog", "codes.csv", catalogCSV},
	))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), exportFilename)

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(f.GetSheetList()[0])
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, internal.OutputColumns, rows[0])
	assert.Equal(t, "PVC Elbow 2in Qty 50", rows[1][0])
}

func TestConvertErrors(t *testing.T) {
	cases := []struct {
		name  string
		files []upload
		want  int
	}{
		{
			name: "malformed catalog",
			files: []upload{
				{"invoice", "invoice.txt", invoiceText},
				{"catalog", "codes.csv", "Item,Code\nElbow,3917.40\n"},
			},
			want: http.StatusUnprocessableEntity,
		},
		{
			name: "unsupported document",
			files: []upload{
				{"invoice", "invoice.docx", invoiceText},
				{"catalog", "codes.csv", catalogCSV},
			},
			want: http.StatusUnsupportedMediaType,
		},
		{
			name: "unsupported catalog",
			files: []upload{
				{"invoice", "invoice.txt", invoiceText},
				{"catalog", "codes.json", "{}"},
			},
			want: http.StatusUnsupportedMediaType,
		},
		{
			name:  "missing catalog",
			files: []upload{{"invoice", "invoice.txt", invoiceText}},
			want:  http.StatusBadRequest,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := serve(newTestService(1), multipartRequest(t, "/api/v1/convert", tc.files...))
			assert.Equal(t, tc.want, rec.Code, rec.Body.String())
		})
	}
}

func TestMalformedCatalogNamesMissingRoles(t *testing.T) {
	rec := serve(newTestService(1), multipartRequest(t, "/api/v1/preview",
		upload{"invoice", "invoice.txt", invoiceText},
		upload{"catalog", "codes.csv", "Description,Code\nElbow,3917.40\n"},
	))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var body struct {
		Missing []string `json:"missing"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []string{"hs code"}, body.Missing)
}

func TestMetricsCountConversions(t *testing.T) {
	s := newTestService(1)
	rec := serve(s, multipartRequest(t, "/api/v1/preview",
		upload{"invoice", "invoice.txt", invoiceText},
		upload{"catalog", "codes.csv", catalogCSV},
	))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = serve(s, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	out := rec.Body.String()
	assert.Contains(t, out, `invoicehs_conversions_total{outcome="ok"} 1`)
	assert.Contains(t, out, "invoicehs_line_items_total 2")
	assert.Contains(t, out, "invoicehs_line_items_matched_total 1")
	assert.Contains(t, out, "invoicehs_line_items_not_found_total 1")
	assert.True(t, strings.Contains(out, "invoicehs_conversion_duration_seconds_count 1"))
}

func TestUploadOverCap(t *testing.T) {
	big := strings.Repeat("PVC Elbow 2in Qty 50\n", (1<<20)/20+512)
	rec := serve(newTestService(1), multipartRequest(t, "/api/v1/convert",
		upload{"invoice", "invoice.txt", big},
		upload{"catalog", "codes.csv", catalogCSV},
	))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code, rec.Body.String())
}

func TestConvertWriteFailureCountsOnce(t *testing.T) {
	cfg := config.Config{MatchWorkers: 1, PreviewChars: 3000}
	conv := pipeline.NewConversionService(cfg, source.NewExtractorWithOCR(nil), logging.Discard())
	metrics := NewMetrics()
	handler := NewHandler(conv, metrics, logging.Discard(), cfg.MaxUploadBytes())
	handler.writeXLSX = func(io.Writer, []internal.LineItemRecord) error {
		return errors.New("disk full")
	}
	router := SetupRouter(handler, metrics, logging.Discard())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, multipartRequest(t, "/api/v1/convert",
		upload{"invoice", "invoice.txt", invoiceText},
		upload{"catalog", "codes.csv", catalogCSV},
	))
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	out := rec.Body.String()
	assert.Contains(t, out, `invoicehs_conversions_total{outcome="error"} 1`)
	assert.NotContains(t, out, `outcome="ok"`)
	assert.Contains(t, out, "invoicehs_line_items_total 0")
}

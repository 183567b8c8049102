package pipeline

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"invoicehs/internal"
	"invoicehs/internal/catalog"
	"invoicehs/internal/config"
	"invoicehs/internal/source"
	"invoicehs/internal/util"
)

// TextExtractor is the document-to-text collaborator.
type TextExtractor interface {
	ExtractText(ctx context.Context, doc source.Document) (string, error)
}

// CatalogFile is an uploaded reference table.
type CatalogFile struct {
	Name    string
	Content []byte
}

type ConversionService struct {
	cfg       config.Config
	extractor TextExtractor
	logger    *slog.Logger
}

func NewConversionService(cfg config.Config, extractor TextExtractor, logger *slog.Logger) *ConversionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ConversionService{cfg: cfg, extractor: extractor, logger: logger}
}

type ConversionResult struct {
	TraceID string                    `json:"traceId"`
	Preview string                    `json:"preview"`
	Records []internal.LineItemRecord `json:"records"`
	Counts  internal.ConversionCounts `json:"counts"`
	Timings map[string]float64        `json:"timingsMs"`
}

// Convert runs one document through the whole pipeline. Any catalog error
// aborts the run without partial output.
func (s *ConversionService) Convert(ctx context.Context, doc source.Document, file CatalogFile) (ConversionResult, error) {
	start := time.Now()
	trace := traceID()
	log := s.logger.With(slog.String("traceId", trace), slog.String("document", doc.Name))

	text, err := s.extractor.ExtractText(ctx, doc)
	if err != nil {
		return ConversionResult{}, fmt.Errorf("extract text from %s: %w", doc.Name, err)
	}
	extractedAt := time.Now()

	table, err := catalog.ReadFile(file.Name, file.Content)
	if err != nil {
		return ConversionResult{}, fmt.Errorf("read catalog %s: %w", file.Name, err)
	}
	cat, err := catalog.Load(table)
	if err != nil {
		log.Warn("catalog rejected", slog.String("catalog", file.Name), slog.Any("error", err))
		return ConversionResult{}, err
	}
	loadedAt := time.Now()

	result, err := s.ConvertText(ctx, text, cat)
	if err != nil {
		return ConversionResult{}, err
	}
	result.TraceID = trace
	result.Timings["extractMs"] = ms(extractedAt.Sub(start))
	result.Timings["catalogMs"] = ms(loadedAt.Sub(extractedAt))
	result.Timings["totalMs"] = ms(time.Since(start))

	log.Info("conversion done",
		slog.String("catalog", file.Name),
		slog.Int("lines", result.Counts.Lines),
		slog.Int("items", result.Counts.Items),
		slog.Int("catalogEntries", result.Counts.Catalog),
		slog.Int("matched", result.Counts.Matched),
		slog.Int("notFound", result.Counts.Unmatched),
		slog.Float64("totalMs", result.Timings["totalMs"]),
	)
	return result, nil
}

// ConvertText is the in-memory core: extract line items from text and
// resolve them against an already loaded catalog.
func (s *ConversionService) ConvertText(ctx context.Context, text string, cat *catalog.Catalog) (ConversionResult, error) {
	start := time.Now()
	lines := NormalizeText(text)
	records := ExtractLineItems(text)

	resolved, err := ResolveHSCodes(ctx, records, cat, s.cfg.MatchWorkers)
	if err != nil {
		return ConversionResult{}, err
	}

	counts := internal.ConversionCounts{Lines: len(lines), Items: len(resolved), Catalog: cat.Len()}
	for _, r := range resolved {
		if r.HSCode == internal.NotFound {
			counts.Unmatched++
		} else {
			counts.Matched++
		}
	}

	return ConversionResult{
		Preview: util.Preview(text, s.cfg.PreviewChars),
		Records: resolved,
		Counts:  counts,
		Timings: map[string]float64{"matchMs": ms(time.Since(start))},
	}, nil
}

func ms(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}

func traceID() string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return fmt.Sprintf("run-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b[:])
}

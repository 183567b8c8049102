package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"invoicehs/internal/config"
	"invoicehs/internal/pipeline"
	"invoicehs/internal/source"
)

// Converter runs one uploaded invoice against one uploaded catalog.
type Converter interface {
	Convert(ctx context.Context, doc source.Document, file pipeline.CatalogFile) (pipeline.ConversionResult, error)
}

type Service struct {
	cfg     config.Config
	logger  *slog.Logger
	metrics *Metrics
	router  *gin.Engine
}

func NewService(cfg config.Config, conv Converter, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	metrics := NewMetrics()
	handler := NewHandler(conv, metrics, logger, cfg.MaxUploadBytes())
	return &Service{
		cfg:     cfg,
		logger:  logger,
		metrics: metrics,
		router:  SetupRouter(handler, metrics, logger),
	}
}

func (s *Service) Router() *gin.Engine {
	return s.router
}

// Run serves until ctx is done, then drains in-flight requests for at most
// SHUTDOWN_TIMEOUT_SEC.
func (s *Service) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.HTTPAddr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", slog.String("addr", s.cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen on %s: %w", s.cfg.HTTPAddr, err)
		}
		return nil
	case <-ctx.Done():
	}

	timeout := time.Duration(s.cfg.ShutdownTimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.logger.Info("server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}

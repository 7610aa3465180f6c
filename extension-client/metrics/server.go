package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vectis-labs/vectis/extension-client/core/logging"
)

type Server struct {
	svr    *http.Server
	logger logging.Logger
}

// Start serves the default registry at /metrics on addr in the background.
func Start(addr string, logger logging.Logger) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	s := &Server{
		svr: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logger.With("module", "metrics"),
	}

	go func() {
		s.logger.Info("Starting metrics server", "address", addr)
		if err := s.svr.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("metrics server failed", "err", err)
		}
	}()

	return s
}

func (s *Server) Stop(ctx context.Context) {
	if err := s.svr.Shutdown(ctx); err != nil {
		s.logger.Error("failed to stop metrics server", "err", err)
		return
	}
	s.logger.Info("metrics server stopped")
}

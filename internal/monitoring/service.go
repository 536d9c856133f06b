// Package monitoring exposes the process metrics and a liveness probe over
// HTTP as a lifecycle service.
package monitoring

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/zmlAEQ/govbls/pkg/logger"
	"github.com/zmlAEQ/govbls/pkg/metrics"
)

type Service struct {
	addr string
	srv  *http.Server
}

func New(addr string) *Service { return &Service{addr: addr} }

func (s *Service) Name() string { return "monitoring" }

func (s *Service) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	s.srv = &http.Server{Addr: s.addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.ErrorJ("service_op", map[string]any{"service": "monitoring", "op": "serve", "err": err.Error()})
		}
	}()
	logger.InfoJ("service_op", map[string]any{"service": "monitoring", "op": "start", "result": "ok", "addr": s.addr})
	return nil
}

func (s *Service) Stop(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	err := s.srv.Shutdown(shutdownCtx)
	logger.InfoJ("service_op", map[string]any{"service": "monitoring", "op": "stop", "result": "ok"})
	return err
}

package http

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/wanderstay/listing-service/internal/platform/logger"
)

const shutdownTimeout = 10 * time.Second

// Server owns the HTTP listener lifecycle.
type Server struct {
	httpServer *http.Server
	logger     *logger.Logger
}

func NewServer(addr string, handler http.Handler, log *logger.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      handler,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: log,
	}
}

// Run blocks serving requests until the listener closes.
func (s *Server) Run() error {
	s.logger.Info("HTTP server listening", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests before closing.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}

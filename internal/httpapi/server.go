package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/caloflow/caloflow/internal/domain"
	"github.com/caloflow/caloflow/internal/logger"
	"github.com/gorilla/mux"
)

// Server is the HTTP surface over the domain services. It is a thin JSON
// layer: all rules live in the services.
type Server struct {
	httpServer *http.Server
}

func NewServer(
	addr string,
	auth domain.AuthService,
	profiles domain.ProfileService,
	logs domain.DayLogService,
	weights domain.WeightService,
	transfer domain.TransferService,
	estimator domain.Estimator,
) *Server {
	handler := NewHandler(auth, profiles, logs, weights, transfer, estimator)

	router := mux.NewRouter()
	handler.SetupRoutes(router)

	return &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 60 * time.Second,
		},
	}
}

// Start serves until the context is canceled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	}
}

package server

import (
	"context"
	"net"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/cors"

	"github.com/vectis-labs/vectis/extension-client/core/logging"
	"github.com/vectis-labs/vectis/extension-client/todoapp"
)

// AccountSelector switches the wallet's active account. It stands in for the account picker of
// a wallet extension, listeners of the wallet see an account change.
type AccountSelector interface {
	SelectKey(name string) error
}

// Server exposes the todo application over http/json.
type Server struct {
	controller    *todoapp.Controller
	notifications *todoapp.RecordingNotifier
	accounts      AccountSelector
	addr          string
	corsOrigins   []string

	logger logging.Logger
	wg     sync.WaitGroup
}

// NewServer serves controller on addr. Browsers on localhost are always allowed, corsOrigins
// adds more origins. A nil accounts disables account switching.
func NewServer(
	logger logging.Logger,
	addr string,
	corsOrigins []string,
	controller *todoapp.Controller,
	notifications *todoapp.RecordingNotifier,
	accounts AccountSelector,
) *Server {
	return &Server{
		controller:    controller,
		notifications: notifications,
		accounts:      accounts,
		addr:          addr,
		corsOrigins:   corsOrigins,
		logger:        logger.With("module", "server"),
	}
}

func (s *Server) Wait() {
	s.wg.Wait()
}

// Start serves until ctx is done.
func (s *Server) Start(ctx context.Context) error {
	s.wg.Add(1)
	defer func() {
		s.logger.Info("Stop todo http server service")
		s.wg.Done()
	}()

	lis, err := net.Listen("tcp", s.addr)
	if err != nil {
		return errors.Wrapf(err, "failed to listen on %s", s.addr)
	}

	httpServer := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		s.logger.Info("Starting todo http server", "address", lis.Addr().String())
		if err := httpServer.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("http server shutdown failed", "err", err)
		}
		return nil
	case err := <-serverErr:
		return errors.Wrap(err, "http server failed")
	}
}

// Handler is the http handler with cors and request logging applied.
func (s *Server) Handler() http.Handler {
	corsHandler := cors.New(cors.Options{
		AllowOriginFunc:  s.allowOrigin,
		AllowCredentials: true,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
	}).Handler(s.newHttpHandler())

	return &loggerHandler{
		logger: s.logger,
		next:   corsHandler,
	}
}

func (s *Server) allowOrigin(origin string) bool {
	for _, allowed := range s.corsOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}

	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	if u.Hostname() == "localhost" || u.Hostname() == "127.0.0.1" {
		return true
	}
	return false
}

func (s *Server) newHttpHandler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/state", s.stateHandler)
	mux.HandleFunc("POST /v1/connect", s.connectHandler)
	mux.HandleFunc("PUT /v1/chain", s.chainHandler)
	mux.HandleFunc("PUT /v1/account", s.accountHandler)
	mux.HandleFunc("POST /v1/contract", s.instantiateHandler)
	mux.HandleFunc("GET /v1/todos", s.listTodosHandler)
	mux.HandleFunc("POST /v1/todos", s.addTodoHandler)
	mux.HandleFunc("PATCH /v1/todos/{id}", s.updateTodoHandler)
	mux.HandleFunc("DELETE /v1/todos/{id}", s.deleteTodoHandler)
	mux.HandleFunc("GET /v1/notifications", s.notificationsHandler)
	mux.HandleFunc("GET /health", s.healthHandler)
	return mux
}

type loggerHandler struct {
	id     atomic.Uint64
	logger logging.Logger
	next   http.Handler
}

func (h *loggerHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	reqID := h.id.Add(1)
	h.logger.Debug("handle http request", "id", reqID, "method", r.Method, "path", r.URL.Path)
	h.next.ServeHTTP(w, r)
	h.logger.Debug("handle http returned", "id", reqID)
}

// Package gateway is the HTTP boundary of the advisor. It is the only layer
// that converts internal failures into HTTP status codes; the session store
// and provider adapter never see an http.ResponseWriter.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/websocket"
	"github.com/soyeahso/advisor/internal/advisor"
	"github.com/soyeahso/advisor/internal/config"
	"github.com/soyeahso/advisor/internal/logging"
	"github.com/soyeahso/advisor/internal/provider"
)

// Server is the advisor HTTP + WebSocket server.
type Server struct {
	cfg    config.ServerConfig
	runner *advisor.Runner
	info   provider.Info
	log    *logging.Logger

	startedAt  time.Time
	httpServer *http.Server
	upgrader   websocket.Upgrader
}

// New creates a gateway server around the given runner.
func New(cfg config.ServerConfig, runner *advisor.Runner, info provider.Info, log *logging.Logger) *Server {
	s := &Server{
		cfg:    cfg,
		runner: runner,
		info:   info,
		log:    log.Sub("gateway"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     checkWebSocketOrigin(cfg.AllowedOrigins),
		},
	}
	return s
}

// checkWebSocketOrigin validates WebSocket Origin headers. Requests without
// an Origin (same-origin or non-browser clients) are always allowed.
func checkWebSocketOrigin(allowed []string) func(*http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, a := range allowed {
			if a == "*" || a == origin {
				return true
			}
		}
		return false
	}
}

// Handler builds the full HTTP handler, middleware included. Exposed for
// tests driving the server through httptest.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.registerRoutes(mux)
	return withMiddleware(mux, s.log, s.cfg.AllowedOrigins)
}

// Start begins listening. It blocks until the context is cancelled or an
// error occurs.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute, // the upstream call happens inside the handler
		IdleTimeout:  120 * time.Second,
		BaseContext:  func(l net.Listener) context.Context { return ctx },
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	s.startedAt = time.Now()
	s.log.Info().
		Str("addr", ln.Addr().String()).
		Str("provider", s.info.Provider).
		Msg("advisor server ready")

	go func() {
		<-ctx.Done()
		s.log.Info().Msg("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.httpServer.Shutdown(shutdownCtx)
	}()

	if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// registerRoutes sets up all HTTP routes.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/chat", s.handleChat)
	mux.HandleFunc("POST /api/reset", s.handleReset)
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/ws", s.handleWebSocket)

	// Static assets, when a public dir exists.
	if s.cfg.PublicDir != "" {
		if _, err := os.Stat(s.cfg.PublicDir); err == nil {
			mux.Handle("/", http.FileServer(http.Dir(s.cfg.PublicDir)))
			s.log.Info().Str("dir", s.cfg.PublicDir).Msg("serving static assets")
			return
		}
	}
	mux.HandleFunc("/", handleNotFound)
}

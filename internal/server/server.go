// Package server exposes the WebSocket endpoint, a JSON state endpoint and
// the browser touch surface.
package server

import (
	"context"
	"fmt"
	"io/fs"
	"net"
	"net/http"

	"github.com/soar/padbridge/internal/hub"
	"go.uber.org/zap"
)

type Server struct {
	hub         *hub.Hub
	broadcaster *hub.Broadcaster
	commands    hub.CommandHandler
	state       StateSource
	assets      *assets
	addr        string
	log         *zap.Logger
	httpServer  *http.Server
}

// New loads the frontend from frontendFS and returns a server for addr.
func New(h *hub.Hub, b *hub.Broadcaster, commands hub.CommandHandler, state StateSource, frontendFS fs.FS, addr string, log *zap.Logger) (*Server, error) {
	if log == nil {
		log = zap.NewNop()
	}
	a, err := loadAssets(frontendFS, log)
	if err != nil {
		return nil, fmt.Errorf("load frontend: %w", err)
	}
	s := &Server{
		hub:         h,
		broadcaster: b,
		commands:    commands,
		state:       state,
		assets:      a,
		addr:        addr,
		log:         log,
	}
	s.httpServer = &http.Server{Addr: addr, Handler: s.Handler()}
	return s, nil
}

// Handler returns the routes served by the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", handleWebSocket(s.hub, s.broadcaster, s.commands, s.log))
	mux.HandleFunc("/api/state", handleState(s.state, s.log))
	mux.Handle("/", s.assets)
	return mux
}

// ListenAndServe blocks until the server is shut down. It returns
// http.ErrServerClosed after Shutdown.
func (s *Server) ListenAndServe() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.addr, err)
	}
	return s.Serve(ln)
}

func (s *Server) Serve(ln net.Listener) error {
	s.log.Info("HTTP server listening", zap.String("addr", ln.Addr().String()))
	return s.httpServer.Serve(ln)
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("Shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

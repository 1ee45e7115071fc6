package httpserver

import (
	"context"
	"net/http"
	"strings"
	"time"

	"wellness/portal/internal/config"
	authusecase "wellness/portal/internal/usecase/auth"
	journalusecase "wellness/portal/internal/usecase/journal"
	userusecase "wellness/portal/internal/usecase/user"

	"github.com/gorilla/mux"
)

// SessionCookie carries the signed login session.
const SessionCookie = "sessionid"

// Server is a local stand-in for the portal backend: it serves the account and journal
// endpoints the client talks to.
type Server struct {
	httpServer     *http.Server
	router         *mux.Router
	cfg            config.Config
	authService    *authusecase.Service
	userService    *userusecase.Service
	journalService *journalusecase.Service
	addr           string
}

// NewServer constructs a new Server with configured dependencies.
func NewServer(cfg config.Config, authService *authusecase.Service, userService *userusecase.Service, journalService *journalusecase.Service) *Server {
	router := mux.NewRouter()
	addr := cfg.ListenAddr
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}

	handler := withLogging(withCSRF(router, csrfPolicy{
		cookie: cfg.CSRFCookie,
		header: cfg.CSRFHeader,
		field:  cfg.CSRFField,
	}))

	srv := &Server{
		httpServer: &http.Server{
			Handler:      handler,
			ReadTimeout:  time.Duration(cfg.ReadTimeoutSec) * time.Second,
			WriteTimeout: time.Duration(cfg.WriteTimeoutSec) * time.Second,
			IdleTimeout:  time.Duration(cfg.IdleTimeoutSec) * time.Second,
		},
		router:         router,
		cfg:            cfg,
		authService:    authService,
		userService:    userService,
		journalService: journalService,
		addr:           addr,
	}
	srv.httpServer.Addr = addr
	srv.registerRoutes()
	return srv
}

// Start bootstraps the HTTP server on the provided address.
func (s *Server) Start() error {
	s.httpServer.Addr = s.addr
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the full middleware chain, for httptest servers.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Addr returns the configured network address for the HTTP server.
func (s *Server) Addr() string {
	return s.addr
}

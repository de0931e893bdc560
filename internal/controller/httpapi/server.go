package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Freeeeeet/tutoring_hub/internal/metrics"
)

type Deps struct {
	Accounts      Accounts
	Identity      Identity
	Conversations Conversations
	Messages      Messages
	Sessions      Sessions
	Tokens        TokenIssuer
	DB            Pinger
}

type Config struct {
	Addr           string
	AllowedOrigins []string
}

type Server struct {
	Deps
	log            *zap.Logger
	srv            *http.Server
	allowedOrigins []string
	upgrader       websocket.Upgrader
}

func NewServer(deps Deps, cfg Config, logger *zap.Logger) *Server {
	s := &Server{
		Deps:           deps,
		log:            logger,
		allowedOrigins: cfg.AllowedOrigins,
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}

	mux := http.NewServeMux()
	s.handle(mux, "POST /api/auth/register", s.register)
	s.handle(mux, "POST /api/auth/login", s.login)

	s.handle(mux, "GET /api/me", s.authMiddleware(s.me))
	s.handle(mux, "PUT /api/me", s.authMiddleware(s.updateProfile))
	s.handle(mux, "PUT /api/me/tutor", s.authMiddleware(s.registerTutor))
	s.handle(mux, "PUT /api/me/student", s.authMiddleware(s.registerStudent))
	s.handle(mux, "PUT /api/me/telegram", s.authMiddleware(s.linkTelegram))
	s.handle(mux, "GET /api/me/subjects", s.authMiddleware(s.mySubjects))

	s.handle(mux, "GET /api/subjects", s.authMiddleware(s.availableSubjects))
	s.handle(mux, "GET /api/tutors", s.authMiddleware(s.tutorsForSubject))

	s.handle(mux, "POST /api/conversations", s.authMiddleware(s.createConversation))
	s.handle(mux, "GET /api/conversations", s.authMiddleware(s.listConversations))
	s.handle(mux, "GET /api/conversations/{id}", s.authMiddleware(s.getConversation))
	s.handle(mux, "GET /api/conversations/{id}/messages", s.authMiddleware(s.listMessages))
	s.handle(mux, "POST /api/conversations/{id}/messages", s.authMiddleware(s.sendMessage))
	s.handle(mux, "GET /api/conversations/{id}/sessions", s.authMiddleware(s.listSessions))
	s.handle(mux, "POST /api/conversations/{id}/sessions", s.authMiddleware(s.proposeSession))
	s.handle(mux, "POST /api/sessions/{id}/respond", s.authMiddleware(s.respondSession))
	s.handle(mux, "POST /api/sessions/{id}/cancel", s.authMiddleware(s.cancelSession))

	mux.HandleFunc("GET /ws/conversations/{id}", s.authMiddleware(s.serveWs))
	mux.HandleFunc("GET /healthz", s.healthCheck)
	mux.Handle("GET /metrics", metrics.Handler())

	h := handlers.CORS(
		handlers.MaxAge(3600),
		handlers.AllowedOrigins(cfg.AllowedOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Origin", "Content-Type", "Accept", "Authorization"}),
	)(mux)

	h = s.errorHandler(h)

	s.srv = &http.Server{
		Addr:              cfg.Addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

// handle регистрирует маршрут с метриками по шаблону маршрута
func (s *Server) handle(mux *http.ServeMux, pattern string, h http.HandlerFunc) {
	mux.Handle(pattern, s.instrument(pattern, h))
}

// Handler корневой обработчик со всеми middleware
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

func (s *Server) Start() error {
	s.log.Info("Starting HTTP server", zap.String("addr", s.srv.Addr))
	return s.srv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("Shutting down HTTP server...")
	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	return nil
}

func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}

	return slices.Contains(s.allowedOrigins, "*") || slices.Contains(s.allowedOrigins, origin)
}

package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/cv-matcher/internal/completion"
	"github.com/jonathan/cv-matcher/internal/config"
	"github.com/jonathan/cv-matcher/internal/ingest"
	"github.com/jonathan/cv-matcher/internal/match"
	"github.com/jonathan/cv-matcher/internal/server/middleware"
)

// Server is the HTTP API server.
type Server struct {
	httpServer  *http.Server
	store       Store
	completion  completion.Client
	ingester    *ingest.Service
	userService *UserService
	jwtService  *JWTService
	authHandler *AuthHandler

	mu         sync.Mutex
	workspaces map[uuid.UUID]*match.Workspace
}

// Options wires the server's dependencies.
type Options struct {
	Port            int
	Store           Store
	Completion      completion.Client
	Ingester        *ingest.Service
	PasswordConfig  *config.PasswordConfig
	JWTConfig       *config.JWTConfig
	StartingBalance int
}

// New creates a server over the given dependencies.
func New(opts Options) *Server {
	s := &Server{
		store:      opts.Store,
		completion: opts.Completion,
		ingester:   opts.Ingester,
		workspaces: make(map[uuid.UUID]*match.Workspace),
	}

	s.userService = NewUserService(opts.Store, opts.PasswordConfig, opts.StartingBalance)
	s.jwtService = NewJWTService(opts.JWTConfig)
	s.authHandler = NewAuthHandler(s.userService, s.jwtService)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", opts.Port),
		Handler:      withLogging(withCORS(s.routes())),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// routes builds the router. Paid feature endpoints, account endpoints
// and URL ingestion sit behind JWT auth; signup, login, export and the
// cost table are open. Unmatched paths fall through to the mux's 404.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /costs", s.handleCosts)

	mux.HandleFunc("POST /auth/register", s.authHandler.Register)
	mux.HandleFunc("POST /auth/login", s.authHandler.Login)

	mux.HandleFunc("POST /export/{format}", s.handleExport)

	requireAuth := middleware.Auth(s.jwtService.AsTokenValidator())
	authed := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, requireAuth(h))
	}
	authed("GET /users/me", s.handleMe)
	authed("PUT /users/me/password", s.handleUpdatePassword)
	authed("POST /match/analyze", s.handleAnalyze)
	authed("POST /match/cover-letter", s.handleCoverLetter)
	authed("POST /match/optimize", s.handleOptimize)
	authed("POST /match/interview-questions", s.handleInterviewQuestions)
	authed("GET /match/state", s.handleMatchState)
	authed("PUT /match/state/section", s.handleSetActiveSection)
	authed("POST /ingest/job-description", s.handleIngestJobDescription)

	return mux
}

// Start listens for requests and blocks until interrupted, then shuts
// down gracefully.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Println("Server stopped")
	return nil
}

// Handler exposes the full middleware stack for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// workspaceFor returns the per-user workspace, creating it on first use.
func (s *Server) workspaceFor(userID uuid.UUID) *match.Workspace {
	s.mu.Lock()
	defer s.mu.Unlock()
	ws, ok := s.workspaces[userID]
	if !ok {
		ws = match.NewWorkspace()
		s.workspaces[userID] = ws
	}
	return ws
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// withCORS adds CORS headers
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// jsonResponse writes a JSON response
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func errorResponse(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

// Package http is the JSON API surface of the household budget service.
//
// Every route except login and the health probes sits behind the dual
// authentication gate: a session cookie, or the X-API-Key header together
// with X-User-Email naming the user to act as. Errors come back as
// {"error": msg} with the status the error class dictates.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"menage/internal/auth"
	"menage/internal/log"
	"menage/internal/services"
	"menage/internal/storage"
)

const sessionCookieName = "menage_session"

// Options carries the handler knobs that come from configuration.
type Options struct {
	SecureCookie bool
	SessionTTL   time.Duration
}

type Server struct {
	http.Server

	repo     *storage.Repository
	expenses *services.ExpenseService
	gate     *auth.Gate
	logger   *slog.Logger
	opts     Options
}

// NewServer configures routes and returns a ready-to-run server.
func NewServer(addr string, repo *storage.Repository, expenses *services.ExpenseService, gate *auth.Gate, opts Options) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		repo:     repo,
		expenses: expenses,
		gate:     gate,
		logger:   log.New(log.ComponentHTTP),
		opts:     opts,
	}

	mux.HandleFunc("GET /healthz", s.public(s.handleHealth))
	mux.HandleFunc("GET /readyz", s.public(s.handleReady))

	mux.HandleFunc("POST /login", s.public(s.handleLogin))
	mux.HandleFunc("POST /logout", s.public(s.handleLogout))

	mux.HandleFunc("GET /categories", s.protected(s.handleListCategories))

	mux.HandleFunc("GET /expenses", s.protected(s.handleListExpenses))
	mux.HandleFunc("POST /expenses", s.protected(s.handleCreateExpense))
	mux.HandleFunc("PATCH /expenses/{id}", s.protected(s.handleUpdateExpense))
	mux.HandleFunc("DELETE /expenses/{id}", s.protected(s.handleDeleteExpense))

	mux.HandleFunc("GET /budgets", s.protected(s.handleListBudgets))
	mux.HandleFunc("POST /budgets", s.protected(s.handleUpsertBudget))

	mux.HandleFunc("GET /recurring", s.protected(s.handleListRecurring))
	mux.HandleFunc("POST /recurring", s.protected(s.handleCreateRecurring))
	mux.HandleFunc("PATCH /recurring/{id}", s.protected(s.handleUpdateRecurring))
	mux.HandleFunc("DELETE /recurring/{id}", s.protected(s.handleDeleteRecurring))

	mux.HandleFunc("GET /wishlist", s.protected(s.handleListWishlist))
	mux.HandleFunc("POST /wishlist", s.protected(s.handleCreateWishlistItem))
	mux.HandleFunc("PATCH /wishlist/{id}", s.protected(s.handleUpdateWishlistItem))
	mux.HandleFunc("DELETE /wishlist/{id}", s.protected(s.handleDeleteWishlistItem))

	mux.HandleFunc("GET /stats", s.protected(s.handleStats))

	return s
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// handleReady fails while the database is unreachable.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if err := s.repo.Ping(r.Context()); err != nil {
		log.FromContext(r.Context()).Error("Readiness check failed", "error", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("database unreachable"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

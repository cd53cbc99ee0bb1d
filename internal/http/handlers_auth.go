package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"menage/internal/auth"
	"menage/internal/core"
	"menage/internal/log"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// handleLogin verifies the credentials, opens a DB-backed session and sets
// the session cookie. Unknown emails and wrong passwords are
// indistinguishable to the caller.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		writeError(w, r, core.ErrInvalidCredentials)
		return
	}

	user, err := s.repo.UserByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			err = core.ErrInvalidCredentials
		}
		writeError(w, r, err)
		return
	}
	if !auth.CheckPassword(req.Password, user.PasswordHash) {
		log.FromContext(r.Context()).Warn("Login rejected", "email", req.Email)
		writeError(w, r, core.ErrInvalidCredentials)
		return
	}

	token, err := auth.GenerateSessionToken()
	if err != nil {
		writeError(w, r, err)
		return
	}
	expiresAt := time.Now().UTC().Add(s.opts.SessionTTL)
	if err := s.repo.CreateSession(r.Context(), token, user.ID, expiresAt); err != nil {
		writeError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   s.opts.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})

	log.FromContext(r.Context()).Info("User logged in", log.FieldUserID, user.ID)
	writeJSON(w, http.StatusOK, user)
}

// handleLogout deletes the session row and expires the cookie. Logging out
// without a session still succeeds.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
		if err := s.repo.DeleteSession(r.Context(), cookie.Value); err != nil {
			writeError(w, r, err)
			return
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.opts.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"eternal-valentine/internal/card"
	"eternal-valentine/internal/holiday"
	"eternal-valentine/internal/metrics"
	"eternal-valentine/internal/session"
)

type errorResponse struct {
	Error string `json:"error"`
}

type healthResponse struct {
	Status   string `json:"status"`
	Sessions int    `json:"sessions"`
	metrics.SysHealth
}

type pageCard struct {
	holiday.Entry
	State card.State
}

type pageData struct {
	Cards []pageCard
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	token, deck, err := s.sessions.Create()
	if err != nil {
		s.logger.Error("failed to create session", "error", err)
		writeError(w, http.StatusInternalServerError, "could not start a session")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  deck.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	states := deck.States()
	data := pageData{Cards: make([]pageCard, 0, len(states))}
	for i, e := range holiday.All() {
		data.Cards = append(data.Cards, pageCard{Entry: e, State: states[i]})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := pageTemplate.Execute(w, data); err != nil {
		s.logger.Error("failed to render page", "error", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "ok",
		Sessions:  s.sessions.Len(),
		SysHealth: metrics.GetSysHealth(),
	})
}

func (s *Server) handleHolidays(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, holiday.All())
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.stats.Summary())
}

type deckHandler func(w http.ResponseWriter, r *http.Request, deck *session.Deck)

// withDeck resolves the caller's page session from the session cookie or a
// bearer token.
func (s *Server) withDeck(next deckHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deck, err := s.sessions.Lookup(sessionToken(r))
		if err != nil {
			if !errors.Is(err, session.ErrInvalidToken) && !errors.Is(err, session.ErrSessionNotFound) {
				s.logger.Error("session lookup failed", "error", err)
			}
			writeError(w, http.StatusUnauthorized, "session missing or expired, reload the page")
			return
		}
		next(w, r, deck)
	}
}

func (s *Server) handleCards(w http.ResponseWriter, r *http.Request, deck *session.Deck) {
	writeJSON(w, http.StatusOK, deck.States())
}

func (s *Server) handleReveal(w http.ResponseWriter, r *http.Request, deck *session.Deck) {
	c, ok := deck.Card(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown card")
		return
	}
	writeJSON(w, http.StatusOK, c.Reveal(r.Context()))
}

func (s *Server) handleClose(w http.ResponseWriter, r *http.Request, deck *session.Deck) {
	c, ok := deck.Card(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown card")
		return
	}
	writeJSON(w, http.StatusOK, c.Close())
}

func methodNotAllowed(allowed string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Allow", allowed)
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
}

func sessionToken(r *http.Request) string {
	if c, err := r.Cookie(SessionCookie); err == nil {
		return c.Value
	}
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

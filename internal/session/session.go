// Package session keeps the in-memory page sessions. Every page load gets a
// fresh Deck of cards, addressed by a signed token.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"eternal-valentine/internal/card"
	"eternal-valentine/internal/holiday"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken    = errors.New("invalid session token")
	ErrSessionNotFound = errors.New("session not found")
)

const issuer = "eternal-valentine"

// Deck holds one card controller per holiday, in calendar order.
type Deck struct {
	ID        string
	ExpiresAt time.Time

	cards []*card.Controller
	byID  map[string]*card.Controller
}

func newDeck(id string, expiresAt time.Time, resolver card.Resolver) *Deck {
	entries := holiday.All()
	d := &Deck{
		ID:        id,
		ExpiresAt: expiresAt,
		cards:     make([]*card.Controller, 0, len(entries)),
		byID:      make(map[string]*card.Controller, len(entries)),
	}
	for _, e := range entries {
		c := card.NewController(e, resolver)
		d.cards = append(d.cards, c)
		d.byID[e.ID] = c
	}
	return d
}

// Card returns the controller for a holiday id.
func (d *Deck) Card(holidayID string) (*card.Controller, bool) {
	c, ok := d.byID[holidayID]
	return c, ok
}

// States returns a snapshot of every card.
func (d *Deck) States() []card.State {
	out := make([]card.State, len(d.cards))
	for i, c := range d.cards {
		out[i] = c.State()
	}
	return out
}

// Manager creates, finds and expires page sessions.
type Manager struct {
	secret   []byte
	ttl      time.Duration
	resolver card.Resolver
	logger   *slog.Logger
	now      func() time.Time
	max      int

	mu       sync.RWMutex
	sessions map[string]*Deck
}

// Option configures a Manager.
type Option func(*Manager)

// WithMaxSessions bounds the number of live sessions. When full, Create
// evicts the session closest to expiry. Zero means no bound.
func WithMaxSessions(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.max = n
		}
	}
}

// NewManager creates a Manager whose decks resolve messages through resolver.
func NewManager(secret string, ttl time.Duration, resolver card.Resolver, logger *slog.Logger, opts ...Option) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Manager{
		secret:   []byte(secret),
		ttl:      ttl,
		resolver: resolver,
		logger:   logger.With("component", "session"),
		now:      time.Now,
		sessions: make(map[string]*Deck),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create starts a session and returns its signed token.
func (m *Manager) Create() (string, *Deck, error) {
	id := uuid.New().String()
	now := m.now()
	expiresAt := now.Add(m.ttl)

	claims := jwt.RegisteredClaims{
		ID:        id,
		Issuer:    issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign session token: %w", err)
	}

	deck := newDeck(id, expiresAt, m.resolver)
	m.mu.Lock()
	evicted := ""
	if m.max > 0 && len(m.sessions) >= m.max {
		evicted = m.evictSoonestLocked()
	}
	m.sessions[id] = deck
	m.mu.Unlock()

	if evicted != "" {
		m.logger.Warn("session limit reached, oldest session evicted", "session", evicted, "max", m.max)
	}

	m.logger.Debug("session created", "session", id)
	return token, deck, nil
}

// Lookup returns the deck of a valid, live session.
func (m *Manager) Lookup(token string) (*Deck, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}

	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	m.mu.RLock()
	deck, ok := m.sessions[claims.ID]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	if !m.now().Before(deck.ExpiresAt) {
		return nil, ErrSessionNotFound
	}
	return deck, nil
}

// Len returns the number of sessions held.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep drops sessions that expired at or before now.
func (m *Manager) Sweep(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, deck := range m.sessions {
		if !now.Before(deck.ExpiresAt) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

func (m *Manager) evictSoonestLocked() string {
	var victim string
	var soonest time.Time
	for id, deck := range m.sessions {
		if victim == "" || deck.ExpiresAt.Before(soonest) {
			victim, soonest = id, deck.ExpiresAt
		}
	}
	if victim != "" {
		delete(m.sessions, victim)
	}
	return victim
}

// Run sweeps expired sessions every interval until ctx is done.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.Sweep(m.now()); n > 0 {
				m.logger.Info("expired sessions removed", "count", n, "remaining", m.Len())
			}
		}
	}
}

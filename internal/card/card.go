// Package card implements the flip state of a single holiday card.
package card

import (
	"context"
	"sync"

	"eternal-valentine/internal/holiday"
	"eternal-valentine/internal/message"

	"golang.org/x/sync/singleflight"
)

// Resolver produces the message for a holiday name. It must not fail.
type Resolver interface {
	Generate(ctx context.Context, holidayName string) message.Message
}

// State is a snapshot of a card.
type State struct {
	HolidayID string           `json:"id"`
	Revealed  bool             `json:"revealed"`
	Pending   bool             `json:"pending"`
	Message   *message.Message `json:"message,omitempty"`
}

// Controller owns the state of one card. Its message is resolved at most
// once over the controller's lifetime.
type Controller struct {
	entry    holiday.Entry
	resolver Resolver
	flight   singleflight.Group

	mu       sync.Mutex
	revealed bool
	pending  bool
	msg      *message.Message
}

// NewController creates an idle, unrevealed card.
func NewController(entry holiday.Entry, resolver Resolver) *Controller {
	return &Controller{entry: entry, resolver: resolver}
}

// Entry returns the holiday the card shows.
func (c *Controller) Entry() holiday.Entry {
	return c.entry
}

// Reveal flips the card. With a message already held it only toggles the
// revealed flag. Otherwise it resolves the message, stores it and shows the
// card; callers arriving while that resolution is outstanding wait for it
// instead of starting another. If ctx ends first, the pending snapshot is
// returned and the resolution completes in the background.
func (c *Controller) Reveal(ctx context.Context) State {
	c.mu.Lock()
	if c.msg != nil {
		c.revealed = !c.revealed
		s := c.snapshotLocked()
		c.mu.Unlock()
		return s
	}
	c.pending = true
	c.mu.Unlock()

	// Detached so an abandoned request still leaves the card resolved.
	resolveCtx := context.WithoutCancel(ctx)
	ch := c.flight.DoChan(c.entry.ID, func() (interface{}, error) {
		c.mu.Lock()
		done := c.msg != nil
		c.mu.Unlock()
		if done {
			return nil, nil
		}

		msg := c.resolver.Generate(resolveCtx, c.entry.Name)

		c.mu.Lock()
		c.msg = &msg
		c.pending = false
		c.revealed = true
		c.mu.Unlock()
		return nil, nil
	})

	select {
	case <-ch:
	case <-ctx.Done():
	}
	return c.State()
}

// Close turns the card face down. The stored message is kept.
func (c *Controller) Close() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.revealed = false
	return c.snapshotLocked()
}

// State returns the current snapshot.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() State {
	s := State{
		HolidayID: c.entry.ID,
		Revealed:  c.revealed,
		Pending:   c.pending,
	}
	if c.msg != nil {
		m := *c.msg
		s.Message = &m
	}
	return s
}

// Package store owns the client's in-memory copy of the request collection
// and keeps it consistent with the server of record: fetch-and-replace on a
// fixed interval and after every successful mutation, never speculative
// patching of individual records.
package store

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/requestdesk/requestdesk/internal/errors"
	"github.com/requestdesk/requestdesk/internal/log"
	"github.com/requestdesk/requestdesk/internal/workflow"
)

// DefaultRefreshInterval is the periodic refresh cadence while a dashboard
// is active.
const DefaultRefreshInterval = 30 * time.Second

// Backend is the slice of the API client the store depends on.
type Backend interface {
	ListRequests(ctx context.Context) ([]workflow.Request, error)
	CreateRequest(ctx context.Context, draft workflow.Draft) (workflow.Request, error)
	EditRequest(ctx context.Context, id int, draft workflow.Draft) (workflow.Request, error)
	UpdateStatus(ctx context.Context, id int, status workflow.Status, reason string) (workflow.Request, error)
}

// Update is delivered to subscribers after every refresh attempt: either a
// fresh snapshot or the error that prevented one.
type Update struct {
	Seq      uint64
	Requests []workflow.Request
	Err      error
}

// Store holds one authoritative in-memory request collection for the
// lifetime of a dashboard session.
type Store struct {
	backend Backend
	actor   workflow.Actor
	logger  *log.Logger

	// onUnauthorized runs when the backend rejects the credential; the
	// caller wires it to session termination.
	onUnauthorized func()

	// issued is the sequence number of the most recently issued refresh.
	// A response is applied only if it still carries this number when it
	// completes; anything older is stale and discarded no matter when it
	// arrives.
	issued atomic.Uint64

	mu       sync.Mutex
	requests []workflow.Request
	applied  uint64

	updates chan Update

	pollMu   sync.Mutex
	pollStop context.CancelFunc
}

// Option configures a Store.
type Option func(*Store)

// WithUnauthorizedHook sets the callback invoked when the backend rejects
// the bearer credential.
func WithUnauthorizedHook(hook func()) Option {
	return func(s *Store) { s.onUnauthorized = hook }
}

// New creates a request store for the given actor.
func New(backend Backend, actor workflow.Actor, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		actor:   actor,
		logger:  log.DefaultLogger().With("component", "store"),
		updates: make(chan Update, 16),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Actor returns the authenticated user this store was built for.
func (s *Store) Actor() workflow.Actor {
	return s.actor
}

// Updates returns the subscription channel. Consumers (the TUI) receive one
// Update per completed refresh attempt; slow consumers drop intermediate
// snapshots rather than block the store.
func (s *Store) Updates() <-chan Update {
	return s.updates
}

// Refresh retrieves the full visible set and replaces the local collection
// atomically. Concurrent refreshes are resolved by sequence number: only the
// response of the latest-issued refresh is applied, so a stale in-flight
// response that resolves late can never clobber newer data.
func (s *Store) Refresh(ctx context.Context) error {
	seq := s.issued.Add(1)

	requests, err := s.backend.ListRequests(ctx)
	if err != nil {
		s.handleBackendError(err)
		s.publish(Update{Seq: seq, Err: err})
		return err
	}

	s.mu.Lock()
	if seq != s.issued.Load() || seq <= s.applied {
		s.mu.Unlock()
		s.logger.Debug("discarding stale refresh", "seq", seq)
		return nil
	}
	s.requests = requests
	s.applied = seq
	s.mu.Unlock()

	s.publish(Update{Seq: seq, Requests: requests})
	return nil
}

// Snapshot returns a copy of the current collection.
func (s *Store) Snapshot() []workflow.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]workflow.Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// Get returns the locally known record with the given id.
func (s *Store) Get(id int) (workflow.Request, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.requests {
		if r.ID == id {
			return r, true
		}
	}
	return workflow.Request{}, false
}

// Stats summarizes the current collection for dashboard headers.
func (s *Store) Stats(now time.Time) workflow.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return workflow.Summarize(s.requests, now)
}

// SubmitNew validates a draft client-side, submits it, and refreshes so the
// collection reflects server truth (id, SLA deadline, resolved handler).
func (s *Store) SubmitNew(ctx context.Context, draft workflow.Draft) error {
	if err := draft.Validate(); err != nil {
		return err
	}

	if _, err := s.backend.CreateRequest(ctx, draft); err != nil {
		s.handleBackendError(err)
		return err
	}
	return s.Refresh(ctx)
}

// ApplyEdit validates an edit against the locally known record, submits it,
// and refreshes. The backend is the final arbiter; these checks only stop
// requests that could never succeed from reaching the wire.
func (s *Store) ApplyEdit(ctx context.Context, id int, draft workflow.Draft) error {
	req, ok := s.Get(id)
	if !ok {
		return errors.New(errors.ErrCodeRequestNotFound, "no visible request with that id").
			WithSuggestion("Run 'requestdesk request list' to see your requests")
	}

	if err := workflow.AuthorizeEdit(req, s.actor); err != nil {
		return err
	}
	if err := draft.Validate(); err != nil {
		return err
	}
	if !draft.ChangedFrom(req) {
		return errors.New(errors.ErrCodeNothingChanged, "edit changes nothing").
			WithSuggestion("Change at least one of title, description, urgency, or handler")
	}

	if _, err := s.backend.EditRequest(ctx, id, draft); err != nil {
		s.handleBackendError(err)
		return err
	}
	return s.Refresh(ctx)
}

// ApplyTransition pre-checks a status change through the transition
// authorizer, submits it, and refreshes. Illegal transitions and missing
// rejection reasons are rejected here and never reach the network.
func (s *Store) ApplyTransition(ctx context.Context, id int, to workflow.Status, reason string) error {
	req, ok := s.Get(id)
	if !ok {
		return errors.New(errors.ErrCodeRequestNotFound, "no visible request with that id").
			WithSuggestion("Run 'requestdesk request list' to see the actionable requests")
	}

	if err := workflow.AuthorizeTransition(req, s.actor, to, reason); err != nil {
		return err
	}

	if _, err := s.backend.UpdateStatus(ctx, id, to, reason); err != nil {
		s.handleBackendError(err)
		return err
	}
	return s.Refresh(ctx)
}

// Start begins periodic refreshing: once immediately, then on every tick,
// until Stop or context cancellation. Starting an already-started store
// restarts its poller.
func (s *Store) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}

	s.pollMu.Lock()
	if s.pollStop != nil {
		s.pollStop()
	}
	pollCtx, cancel := context.WithCancel(ctx)
	s.pollStop = cancel
	s.pollMu.Unlock()

	go func() {
		_ = s.Refresh(pollCtx)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-pollCtx.Done():
				return
			case <-ticker.C:
				_ = s.Refresh(pollCtx)
			}
		}
	}()
}

// Stop cancels the periodic refresh. Any response still in flight is
// abandoned: its sequence number is obsoleted so it can never apply after
// teardown. Idempotent.
func (s *Store) Stop() {
	s.pollMu.Lock()
	if s.pollStop != nil {
		s.pollStop()
		s.pollStop = nil
	}
	s.pollMu.Unlock()

	s.issued.Add(1)
}

// publish delivers an update without ever blocking the store.
func (s *Store) publish(update Update) {
	select {
	case s.updates <- update:
	default:
		s.logger.Debug("dropping update for slow consumer", "seq", update.Seq)
	}
}

func (s *Store) handleBackendError(err error) {
	if errors.HasCode(err, errors.ErrCodeUnauthorized) && s.onUnauthorized != nil {
		s.onUnauthorized()
	}
}

package shell

import (
	"log/slog"
	"sync"

	"github.com/healthhack/healthmate/internal/identity"
	"github.com/healthhack/healthmate/internal/models"
)

// Shell composes the router with the auth gate and the identity session.
// Every navigation request passes through Authorize before committing; a
// denied request commits the redirect target instead. A session change on
// its own never navigates: a previously redirected request is not retried
// when the user later signs in.
type Shell struct {
	router   *Router
	sessions *identity.Service

	mu      sync.Mutex
	session *models.Session

	unsub func()
}

// New creates a shell over the given router and identity hub and starts
// observing session changes.
func New(router *Router, sessions *identity.Service) *Shell {
	s := &Shell{router: router, sessions: sessions}
	s.unsub = sessions.Observe(func(session *models.Session) {
		s.mu.Lock()
		s.session = session
		s.mu.Unlock()
		slog.Debug("Shell: session changed", "authenticated", session != nil)
	})
	return s
}

// Close stops observing session changes.
func (s *Shell) Close() {
	if s.unsub != nil {
		s.unsub()
		s.unsub = nil
	}
}

// Session returns the session snapshot the shell last observed.
func (s *Shell) Session() *models.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

// Current returns the committed current view.
func (s *Shell) Current() models.ViewName {
	return s.router.Current()
}

// Subscribe registers a transition listener on the underlying router.
func (s *Shell) Subscribe(fn Listener) func() {
	return s.router.Subscribe(fn)
}

// Navigate authorizes and commits a transition to target. A denied request
// navigates to the gate's redirect target instead; that redirect is itself
// idempotent, so redirecting to the current view does nothing.
func (s *Shell) Navigate(target models.ViewName) {
	decision := Authorize(target, s.Session())
	if decision.Allow {
		s.router.Navigate(target)
		return
	}
	slog.Debug("Shell: navigation denied, redirecting", "target", target, "redirect_to", decision.RedirectTo)
	s.router.Navigate(decision.RedirectTo)
}

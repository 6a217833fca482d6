// Package shell implements the view-state navigation shell: a finite-state
// machine over the view enumeration, the auth gate policy, and the composed
// application shell that ties navigation to the identity session.
package shell

import (
	"log/slog"
	"sync"

	"github.com/healthhack/healthmate/internal/models"
)

// Transition carries the committed target view and its animation direction
// to mounted listeners.
type Transition struct {
	To        models.ViewName
	Direction models.Direction
}

// Listener receives committed transitions.
type Listener func(Transition)

// Opts holds router configuration.
type Opts struct {
	Sequenced bool
}

// Option configures router construction.
type Option func(*Opts)

// WithSequencedTransitions enables exit/enter sequencing: each committed
// transition starts an exit animation for the outgoing view, and further
// navigations queue until FinishExit is called. Without it transitions
// commit instantly, which is what headless use wants.
func WithSequencedTransitions() Option {
	return func(o *Opts) { o.Sequenced = true }
}

// Router is the single in-memory "current view" selector. The initial state
// is the home view; there is no terminal state. Safe for concurrent use.
type Router struct {
	mu        sync.Mutex
	current   models.ViewName
	sequenced bool
	exiting   bool
	queue     []models.ViewName
	nextID    int
	order     []int
	subs      map[int]Listener
}

// NewRouter creates a router mounted on the default view.
func NewRouter(opts ...Option) *Router {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	slog.Debug("Creating Router", "initial", models.DefaultView, "sequenced", cfg.Sequenced)
	return &Router{
		current:   models.DefaultView,
		sequenced: cfg.Sequenced,
		subs:      make(map[int]Listener),
	}
}

// Current returns the committed current view.
func (r *Router) Current() models.ViewName {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Subscribe registers a transition listener and returns its unsubscribe
// function. Listeners are notified in registration order, under the router
// lock; they must not call back into the router.
func (r *Router) Subscribe(fn Listener) func() {
	r.mu.Lock()
	id := r.nextID
	r.nextID++
	r.subs[id] = fn
	r.order = append(r.order, id)
	r.mu.Unlock()

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.subs, id)
		for i, v := range r.order {
			if v == id {
				r.order = append(r.order[:i], r.order[i+1:]...)
				break
			}
		}
	}
}

// Navigate requests a transition to target. Navigating to the already
// current view is a no-op: no commit, no notification, no animation replay.
// While an exit is in flight the request is queued and committed after
// FinishExit, preserving issue order.
func (r *Router) Navigate(target models.ViewName) {
	if !models.IsValidViewName(target) {
		// Unreachable for callers using the enumeration constants.
		slog.Warn("Router.Navigate: unknown view name ignored", "target", target)
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.exiting {
		tail := r.current
		if n := len(r.queue); n > 0 {
			tail = r.queue[n-1]
		}
		if target == tail {
			slog.Debug("Router.Navigate: duplicate queued target ignored", "target", target)
			return
		}
		slog.Debug("Router.Navigate: exit in flight, queueing", "target", target)
		r.queue = append(r.queue, target)
		return
	}

	r.commit(target)
}

// FinishExit reports that the outgoing view's exit animation completed.
// Queued navigations are then committed one per exit, keeping enter and exit
// strictly sequential.
func (r *Router) FinishExit() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.exiting {
		return
	}
	r.exiting = false
	if len(r.queue) > 0 {
		next := r.queue[0]
		r.queue = r.queue[1:]
		r.commit(next)
	}
}

// commit makes target current and notifies listeners. Caller holds the lock.
func (r *Router) commit(target models.ViewName) {
	if target == r.current {
		slog.Debug("Router: navigation to current view is a no-op", "view", target)
		return
	}
	dir := models.DirectionFor(target)
	slog.Debug("Router: committing transition", "from", r.current, "to", target, "direction", dir)
	r.current = target
	if r.sequenced {
		r.exiting = true
	}
	t := Transition{To: target, Direction: dir}
	for _, id := range r.order {
		if fn, ok := r.subs[id]; ok {
			fn(t)
		}
	}
}

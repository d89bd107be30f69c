// Package ui renders the application's screens to a terminal.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/aussiebroadwan/kyc/internal/guard"
)

const maxHops = 8

var ErrRedirectLoop = errors.New("ui: too many redirects")

// Screen draws one page.
type Screen interface {
	Render(ctx context.Context, w io.Writer) error
}

// ScreenFunc adapts a function to Screen.
type ScreenFunc func(ctx context.Context, w io.Writer) error

func (f ScreenFunc) Render(ctx context.Context, w io.Writer) error { return f(ctx, w) }

// Flusher delivers notices queued during a render.
type Flusher interface {
	Flush() int
}

type RouterOptions struct {
	Guard    *guard.Guard
	Notices  Flusher
	Out      io.Writer
	Denied   Screen
	NotFound Screen
	Logger   *slog.Logger
}

type entry struct {
	route  guard.Route
	screen Screen
	public bool
}

// Router maps paths to screens. Navigations requested while a screen is
// rendering are queued and followed once the render has finished.
type Router struct {
	opts   RouterOptions
	routes map[string]entry

	mu        sync.Mutex
	current   string
	rendering bool
	pending   []string
}

func NewRouter(opts RouterOptions) *Router {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	if opts.NotFound == nil {
		opts.NotFound = NotFound()
	}
	if opts.Denied == nil {
		opts.Denied = Denied(nil)
	}
	return &Router{opts: opts, routes: make(map[string]entry)}
}

// Handle registers a guarded screen.
func (r *Router) Handle(route guard.Route, s Screen) {
	r.routes[route.Path] = entry{route: route, screen: s}
}

// HandlePublic registers a screen anyone may open.
func (r *Router) HandlePublic(path string, s Screen) {
	r.routes[path] = entry{route: guard.Route{Path: path}, screen: s, public: true}
}

// Current is the last rendered path.
func (r *Router) Current() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Navigate moves to path. During a render the move is queued; otherwise it
// happens immediately.
func (r *Router) Navigate(ctx context.Context, path string) {
	r.mu.Lock()
	if r.rendering {
		r.pending = append(r.pending, path)
		r.mu.Unlock()
		return
	}
	r.mu.Unlock()

	if err := r.Open(ctx, path); err != nil {
		r.opts.Logger.Error("navigation failed", "path", path, "err", err)
	}
}

// Open renders path and follows any redirects or queued navigations.
func (r *Router) Open(ctx context.Context, path string) error {
	for hops := 0; path != ""; hops++ {
		if hops >= maxHops {
			return fmt.Errorf("%w: stopped at %s", ErrRedirectLoop, path)
		}
		next, err := r.visit(ctx, path)
		if err != nil {
			return err
		}
		path = next
	}
	return nil
}

// visit renders a single path and returns where to go next, if anywhere.
func (r *Router) visit(ctx context.Context, path string) (string, error) {
	log := r.opts.Logger

	e, ok := r.routes[path]
	screen := r.opts.NotFound
	if ok {
		screen = e.screen
		if !e.public && r.opts.Guard != nil {
			v := r.opts.Guard.Evaluate(ctx, e.route)
			log.Debug("guard verdict", "path", path, "state", v.State.String())

			switch v.State {
			case guard.Unauthenticated:
				return v.Redirect, nil
			case guard.AuthenticatedRestrictedRole:
				screen = r.opts.Denied
			case guard.Authenticated:
			}
		}
	}

	r.mu.Lock()
	r.rendering = true
	r.current = path
	r.mu.Unlock()

	err := screen.Render(ctx, r.opts.Out)

	r.mu.Lock()
	r.rendering = false
	var next string
	if len(r.pending) > 0 {
		next = r.pending[len(r.pending)-1]
		r.pending = nil
	}
	r.mu.Unlock()

	if r.opts.Notices != nil {
		r.opts.Notices.Flush()
	}

	if err != nil {
		return "", fmt.Errorf("ui: render %s: %w", path, err)
	}
	return next, nil
}

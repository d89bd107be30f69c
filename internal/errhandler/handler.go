// Package errhandler is the terminal sink for errors nobody handled locally.
package errhandler

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/aussiebroadwan/kyc/internal/notify"
	"github.com/aussiebroadwan/kyc/pkg/idx"
	"github.com/aussiebroadwan/kyc/pkg/kycsdk"
)

// MsgUnexpected is shown for non-classified errors outside production.
const MsgUnexpected = "An unexpected error occurred."

// DefaultLoginPath is where an unauthorized response sends the user.
const DefaultLoginPath = "/login"

const maxRemembered = 128

// Invalidator ends the current session.
type Invalidator interface {
	Logout(ctx context.Context)
}

// Navigator moves the UI to path.
type Navigator interface {
	Navigate(ctx context.Context, path string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(ctx context.Context, path string)

func (f NavigatorFunc) Navigate(ctx context.Context, path string) { f(ctx, path) }

type Options struct {
	Notifier   notify.Notifier
	Sessions   Invalidator
	Navigator  Navigator
	LoginPath  string
	Production bool
	Logger     *slog.Logger
}

// Handler notifies the user about failures and forces a logout on
// unauthorized responses.
type Handler struct {
	opts Options

	mu      sync.Mutex
	handled map[idx.ID]struct{}
	order   []idx.ID
}

func New(opts Options) *Handler {
	if opts.LoginPath == "" {
		opts.LoginPath = DefaultLoginPath
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Notifier == nil {
		opts.Notifier = notify.NotifierFunc(func(notify.Level, string) {})
	}
	return &Handler{
		opts:    opts,
		handled: make(map[idx.ID]struct{}),
	}
}

// Handle routes err. The same classified error is acted on at most once.
func (h *Handler) Handle(ctx context.Context, err error) {
	if err == nil {
		return
	}
	log := h.opts.Logger

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		log.Debug("request abandoned", "err", err)
		return
	}

	var ce *kycsdk.ClassifiedError
	if !errors.As(err, &ce) {
		log.Error("unexpected error", "err", err)
		if !h.opts.Production {
			h.opts.Notifier.Notify(notify.Error, MsgUnexpected)
		}
		return
	}

	if !h.firstSighting(ce.ID) {
		log.Debug("classified error already handled", "error_id", ce.ID.String())
		return
	}

	switch ce.Kind {
	case kycsdk.KindClientError:
		log.Warn("request rejected", "status", ce.StatusCode, "message", ce.Message, "error_id", ce.ID.String())
	case kycsdk.KindServerError:
		log.Error("upstream failure", "status", ce.StatusCode, "message", ce.Message, "error_id", ce.ID.String())
	case kycsdk.KindNetwork:
		log.Error("upstream unreachable", "err", ce.Cause, "error_id", ce.ID.String())
	case kycsdk.KindUnclassified:
		log.Warn("unexpected upstream status", "status", ce.StatusCode, "error_id", ce.ID.String())
	}

	h.opts.Notifier.Notify(notify.Error, ce.Message)

	if ce.Kind == kycsdk.KindClientError && ce.Unauthorized() {
		if h.opts.Sessions != nil {
			h.opts.Sessions.Logout(ctx)
		}
		if h.opts.Navigator != nil {
			h.opts.Navigator.Navigate(ctx, h.opts.LoginPath)
		}
	}
}

// firstSighting records id and reports whether it was new. Only the most
// recent ids are remembered.
func (h *Handler) firstSighting(id idx.ID) bool {
	if id.IsZero() {
		return true
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if _, seen := h.handled[id]; seen {
		return false
	}
	h.handled[id] = struct{}{}
	h.order = append(h.order, id)
	if len(h.order) > maxRemembered {
		delete(h.handled, h.order[0])
		h.order = h.order[1:]
	}
	return true
}

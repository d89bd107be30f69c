package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aussiebroadwan/kyc/internal/notify"
	"github.com/aussiebroadwan/kyc/pkg/kycsdk"
)

// DefaultTokenTTL is the token lifetime requested at login.
const DefaultTokenTTL = 10 * time.Minute

// MsgExpired is shown once when a check finds the session expired.
const MsgExpired = "Token expired. Please log in again."

var ErrIncompleteSession = errors.New("session: upstream returned an incomplete session")

// API is the part of the upstream the store talks to.
type API interface {
	Login(ctx context.Context, username, password string, ttlMins int) (*kycsdk.LoginResponse, error)
	LoginProfile(ctx context.Context, accessToken string) (*kycsdk.UserResponse, error)
}

type Options struct {
	API       API
	Persister Persister

	// Notifier receives the expiry notice. Pass a deferred notifier so the
	// notice is shown after the current render.
	Notifier notify.Notifier

	Now      func() time.Time
	TokenTTL time.Duration
	Logger   *slog.Logger
}

// Store is the single source of truth for the signed-in session.
type Store struct {
	api       API
	persister Persister
	notifier  notify.Notifier
	now       func() time.Time
	ttl       time.Duration
	log       *slog.Logger

	// writeMu serialises persisted writes so memory and storage agree on
	// the last writer.
	writeMu sync.Mutex

	mu  sync.RWMutex
	cur Session
}

// Open builds a store and hydrates it from the persister before returning.
// Missing or unreadable records hydrate as logged out.
func Open(ctx context.Context, opts Options) (*Store, error) {
	if opts.API == nil {
		return nil, errors.New("session: API is required")
	}
	if opts.Persister == nil {
		return nil, errors.New("session: Persister is required")
	}

	s := &Store{
		api:       opts.API,
		persister: opts.Persister,
		notifier:  opts.Notifier,
		now:       opts.Now,
		ttl:       opts.TokenTTL,
		log:       opts.Logger,
	}
	if s.notifier == nil {
		s.notifier = notify.NotifierFunc(func(notify.Level, string) {})
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.ttl <= 0 {
		s.ttl = DefaultTokenTTL
	}
	if s.log == nil {
		s.log = slog.Default()
	}

	s.hydrate(ctx)
	return s, nil
}

func (s *Store) hydrate(ctx context.Context) {
	raw, err := s.persister.Load(ctx)
	switch {
	case errors.Is(err, ErrNoRecord):
		return
	case err != nil:
		s.log.Warn("session hydrate failed, starting logged out", "err", err)
		return
	}

	sess, err := DecodeRecord(raw)
	if err != nil {
		s.log.Warn("ignoring persisted session", "err", err)
		return
	}

	s.mu.Lock()
	s.cur = sess
	s.mu.Unlock()

	if !sess.IsZero() {
		s.log.Debug("session hydrated", "user_id", sess.User.ID)
	}
}

// Login authenticates, fetches the extended profile with the new token and
// commits both in one step. On any failure the store is left untouched and
// the error (usually *kycsdk.ClassifiedError) is returned.
func (s *Store) Login(ctx context.Context, identifier, secret string) (Session, error) {
	resp, err := s.api.Login(ctx, identifier, secret, int(s.ttl/time.Minute))
	if err != nil {
		return Session{}, err
	}

	next := Session{User: resp.User(), Token: resp.AccessToken}
	if !next.complete() {
		return Session{}, ErrIncompleteSession
	}

	profile, err := s.api.LoginProfile(ctx, resp.AccessToken)
	if err != nil {
		return Session{}, err
	}
	next.User = next.User.Merge(profile.User())

	s.commit(ctx, next)
	s.log.Info("logged in", "user_id", next.User.ID, "role", string(next.User.Role))
	return next, nil
}

// Logout clears the session and the persisted record. It is idempotent.
func (s *Store) Logout(ctx context.Context) {
	s.commit(ctx, Session{})
}

// SetUser replaces the stored profile. It reports false when logged out.
func (s *Store) SetUser(ctx context.Context, u kycsdk.User) bool {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.RLock()
	cur := s.cur
	s.mu.RUnlock()

	if cur.IsZero() {
		return false
	}
	cur.User = u
	s.store(ctx, cur)
	return true
}

// Current returns the stored session as is, without checking expiry.
func (s *Store) Current() (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur, !s.cur.IsZero()
}

// CurrentUser returns the stored profile.
func (s *Store) CurrentUser() (kycsdk.User, bool) {
	cur, ok := s.Current()
	return cur.User, ok
}

// Token implements kycsdk.TokenSource.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur.Token
}

// IsAuthenticated reports whether the stored token is live. An expired
// session is destroyed by the first check that sees it, and when withNotice
// is set that check queues a one-time expiry notice. Malformed tokens are
// reported as not authenticated.
func (s *Store) IsAuthenticated(ctx context.Context, withNotice bool) bool {
	cur, _ := s.Current()

	switch liveness := Check(cur, s.now()); liveness {
	case Live:
		return true
	case Expired:
		if s.clearIfCurrent(ctx, cur.Token) {
			s.log.Info("session expired", "user_id", cur.User.ID)
			if withNotice {
				s.notifier.Notify(notify.Info, MsgExpired)
			}
		}
		return false
	case Malformed:
		s.log.Debug("stored token unreadable")
		return false
	default:
		return false
	}
}

// clearIfCurrent destroys the session only if token is still the stored one,
// so a concurrent login is never undone.
func (s *Store) clearIfCurrent(ctx context.Context, token string) bool {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.RLock()
	same := s.cur.Token == token && token != ""
	s.mu.RUnlock()

	if !same {
		return false
	}
	s.store(ctx, Session{})
	return true
}

func (s *Store) commit(ctx context.Context, next Session) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.store(ctx, next)
}

// store must be called with writeMu held. Persistence failures are logged;
// the in-memory session always reflects the latest write.
func (s *Store) store(ctx context.Context, next Session) {
	if err := s.persist(ctx, next); err != nil {
		s.log.Error("session persist failed", "err", err)
	}

	s.mu.Lock()
	s.cur = next
	s.mu.Unlock()
}

func (s *Store) persist(ctx context.Context, next Session) error {
	// Persistence outlives the caller's cancellation.
	ctx = context.WithoutCancel(ctx)

	if next.IsZero() {
		if err := s.persister.Clear(ctx); err != nil {
			return fmt.Errorf("clear: %w", err)
		}
		return nil
	}

	raw, err := EncodeRecord(next)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	if err := s.persister.Save(ctx, raw); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	return nil
}

// Close releases the persister.
func (s *Store) Close() error {
	return s.persister.Close()
}

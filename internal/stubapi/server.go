// Package stubapi is a local stand-in for the upstream user/auth API. It
// speaks the same wire format as the SDK so the client can be exercised
// without network access.
package stubapi

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/aussiebroadwan/kyc/pkg/cryptox"
	"github.com/aussiebroadwan/kyc/pkg/httpx"
	"github.com/aussiebroadwan/kyc/pkg/jwtx"
	"github.com/aussiebroadwan/kyc/pkg/slogx"
)

const DefaultIssuer = "kyc-stub"

// Options configures a Server. Zero values pick sensible defaults.
type Options struct {
	Issuer     string
	Version    string
	Seed       []SeedUser
	Now        func() time.Time
	LoginLimit httpx.RateLimitConfig
	Logger     *slog.Logger

	// KeyPassphrase derives a stable signing key so tokens survive a
	// restart. Empty means a fresh key per process.
	KeyPassphrase string
}

// Server holds shared dependencies for the stub's HTTP handlers.
type Server struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	users    *Directory
	signer   *jwtx.EdDSASigner
	verifier jwtx.Verifier
	issuer   string
	version  string
	now      func() time.Time
	started  time.Time
	metrics  *metrics
	logger   *slog.Logger

	mu       sync.Mutex
	sessions map[string]int64 // refresh token -> user id
}

func New(opts Options) (*Server, error) {
	if opts.Issuer == "" {
		opts.Issuer = DefaultIssuer
	}
	if opts.Seed == nil {
		opts.Seed = DefaultSeed
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.LoginLimit.RequestsPerWindow == 0 {
		opts.LoginLimit = httpx.StrictLimit
	}
	if opts.Logger == nil {
		opts.Logger = slogx.Discard()
	}

	users, err := NewDirectory(opts.Seed)
	if err != nil {
		return nil, err
	}

	pemKey, err := cryptox.SigningKeyPEM(opts.KeyPassphrase)
	if err != nil {
		return nil, fmt.Errorf("generate signing key: %w", err)
	}
	signer, err := jwtx.NewSignerEdDSA("stub-1", pemKey)
	if err != nil {
		return nil, fmt.Errorf("load signing key: %w", err)
	}

	s := &Server{
		Mux:      http.NewServeMux(),
		users:    users,
		signer:   signer,
		verifier: jwtx.NewVerifierEdDSA(signer.Public(), opts.Issuer, opts.Now),
		issuer:   opts.Issuer,
		version:  opts.Version,
		now:      opts.Now,
		started:  time.Now(),
		metrics:  newMetrics(),
		logger:   opts.Logger,
		sessions: make(map[string]int64),
	}
	s.middlewares = []httpx.Middleware{
		s.metrics.instrument,
		slogx.HTTPMiddleware(s.logger),
	}
	s.applyRoutes(opts.LoginLimit)
	return s, nil
}

// ServeHTTP applies the global middleware chain.
func (s *Server) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(s.Mux, s.middlewares...).ServeHTTP(w, req)
}

func (s *Server) applyRoutes(loginLimit httpx.RateLimitConfig) {
	authn := httpx.AuthnMiddleware(s.verifier)

	// Rate limited by IP + username to slow credential stuffing.
	s.Mux.Handle("POST /auth/login",
		httpx.Chain(http.HandlerFunc(s.handleLogin),
			httpx.RateLimitByIPAndJSONField(loginLimit, "username"),
		),
	)

	s.Mux.Handle("GET /auth/me",
		httpx.Chain(http.HandlerFunc(s.handleMe),
			authn,
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	s.Mux.Handle("GET /users",
		httpx.Chain(http.HandlerFunc(s.handleListUsers),
			authn,
			httpx.RequireAnyRole(roleAdmin, roleModerator),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	s.Mux.Handle("PUT /users/{id}",
		httpx.Chain(http.HandlerFunc(s.handleUpdateUser),
			authn,
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	s.Mux.Handle("GET /livez", LivezHandler(s.started, s.version))
	s.Mux.Handle("GET /metrics", s.metrics.handler())
	s.Mux.Handle("/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteMessage(w, http.StatusNotFound, fmt.Sprintf("Route %s not found", r.URL.Path))
	}))
}

package stubapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/aussiebroadwan/kyc/pkg/httpx"
	"github.com/aussiebroadwan/kyc/pkg/jwtx"
	"github.com/aussiebroadwan/kyc/pkg/kycsdk"
	"github.com/aussiebroadwan/kyc/pkg/slogx"
)

const (
	roleAdmin     = string(kycsdk.RoleAdmin)
	roleModerator = string(kycsdk.RoleModerator)

	defaultPageSize = 30
)

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	log := slogx.FromContext(r.Context())

	var req kycsdk.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Username == "" || req.Password == "" {
		s.metrics.logins.WithLabelValues("rejected").Inc()
		httpx.WriteMessage(w, http.StatusBadRequest, "Username and password required")
		return
	}

	u, err := s.users.Authenticate(req.Username, req.Password)
	if err != nil {
		s.metrics.logins.WithLabelValues("rejected").Inc()
		log.Info("login rejected", "username", req.Username)
		httpx.WriteMessage(w, http.StatusBadRequest, "Invalid credentials")
		return
	}

	ttl := jwtx.DefaultAccessTokenTTL
	if req.ExpiresInMins > 0 {
		ttl = time.Duration(req.ExpiresInMins) * time.Minute
	}

	token, err := s.signer.Sign(jwtx.NewAccessClaims(jwtx.Profile{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
	}, ttl, s.issuer, s.now()))
	if err != nil {
		log.Error("sign access token", "err", err)
		httpx.WriteMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	refresh := uuid.NewString()
	s.mu.Lock()
	s.sessions[refresh] = u.ID
	s.mu.Unlock()

	s.metrics.logins.WithLabelValues("ok").Inc()

	// The login body carries no role; clients fetch it from /auth/me.
	u.Role = ""
	httpx.WriteJSON(w, http.StatusOK, kycsdk.LoginResponse{
		UserResponse: u,
		AccessToken:  token,
		RefreshToken: refresh,
	})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := httpx.ClaimsFromContext(r.Context())
	if !ok {
		httpx.WriteMessage(w, http.StatusUnauthorized, "Invalid/Expired Token!")
		return
	}

	u, err := s.users.Get(claims.UserID)
	if err != nil {
		httpx.WriteMessage(w, http.StatusNotFound, "User not found")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, u)
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, err := queryInt(q.Get("limit"), defaultPageSize)
	if err != nil {
		httpx.WriteMessage(w, http.StatusBadRequest, "Invalid 'limit' parameter")
		return
	}
	skip, err := queryInt(q.Get("skip"), 0)
	if err != nil {
		httpx.WriteMessage(w, http.StatusBadRequest, "Invalid 'skip' parameter")
		return
	}

	users, total := s.users.List(limit, skip)
	httpx.WriteJSON(w, http.StatusOK, kycsdk.ListUsersResponse{
		Users: users,
		Total: total,
		Skip:  skip,
		Limit: len(users),
	})
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	claims, ok := httpx.ClaimsFromContext(r.Context())
	if !ok {
		httpx.WriteMessage(w, http.StatusUnauthorized, "Invalid/Expired Token!")
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		httpx.WriteMessage(w, http.StatusBadRequest, "Invalid user id")
		return
	}
	if id != claims.UserID && claims.Role != roleAdmin {
		httpx.WriteMessage(w, http.StatusForbidden, "You do not have permission to perform this action")
		return
	}

	var req kycsdk.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	u, err := s.users.Update(id, req)
	if errors.Is(err, ErrNotFound) {
		httpx.WriteMessage(w, http.StatusNotFound, "User with id '"+r.PathValue("id")+"' not found")
		return
	}
	if err != nil {
		httpx.WriteMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, u)
}

func queryInt(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, errors.New("invalid integer")
	}
	return n, nil
}

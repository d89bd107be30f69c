package kycsdk

import (
	"strconv"
	"strings"
)

// Role is the upstream's role vocabulary.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleModerator Role = "moderator"
	RoleUser      Role = "user"
)

// ParseRole maps an upstream role string onto the closed set. Unknown or
// empty values are reported as not ok.
func ParseRole(s string) (Role, bool) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleAdmin, RoleModerator, RoleUser:
		return r, true
	default:
		return "", false
	}
}

// User is the profile the client keeps for the signed-in user.
type User struct {
	ID        string `json:"id"`
	Username  string `json:"username,omitempty"`
	Email     string `json:"email,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Role      Role   `json:"role,omitempty"`
	Image     string `json:"image,omitempty"`
}

// DisplayName prefers the full name and falls back to the username.
func (u User) DisplayName() string {
	if name := strings.TrimSpace(u.FirstName + " " + u.LastName); name != "" {
		return name
	}
	return u.Username
}

// Merge returns u with every non-empty field of other laid over it.
func (u User) Merge(other User) User {
	if other.ID != "" {
		u.ID = other.ID
	}
	if other.Username != "" {
		u.Username = other.Username
	}
	if other.Email != "" {
		u.Email = other.Email
	}
	if other.FirstName != "" {
		u.FirstName = other.FirstName
	}
	if other.LastName != "" {
		u.LastName = other.LastName
	}
	if other.Role != "" {
		u.Role = other.Role
	}
	if other.Image != "" {
		u.Image = other.Image
	}
	return u
}

// UserResponse is a user as the upstream serialises it.
type UserResponse struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Gender    string `json:"gender,omitempty"`
	Image     string `json:"image,omitempty"`
	Role      string `json:"role,omitempty"`
}

// User converts the wire shape into the stored profile.
func (r UserResponse) User() User {
	role, _ := ParseRole(r.Role)
	return User{
		ID:        strconv.FormatInt(r.ID, 10),
		Username:  r.Username,
		Email:     r.Email,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Role:      role,
		Image:     r.Image,
	}
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Username      string `json:"username"`
	Password      string `json:"password"`
	ExpiresInMins int    `json:"expiresInMins,omitempty"`
}

// LoginResponse is the body returned by POST /auth/login.
type LoginResponse struct {
	UserResponse

	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// ListUsersResponse is the paginated body of GET /users.
type ListUsersResponse struct {
	Users []UserResponse `json:"users"`
	Total int            `json:"total"`
	Skip  int            `json:"skip"`
	Limit int            `json:"limit"`
}

// UpdateUserRequest is the body of PUT /users/{id}. Empty fields are left
// unchanged upstream.
type UpdateUserRequest struct {
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Email     string `json:"email,omitempty"`
}

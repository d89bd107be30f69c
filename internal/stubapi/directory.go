package stubapi

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/aussiebroadwan/kyc/pkg/cryptox"
	"github.com/aussiebroadwan/kyc/pkg/kycsdk"
)

var (
	ErrNotFound           = errors.New("stubapi: user not found")
	ErrInvalidCredentials = errors.New("stubapi: invalid credentials")
)

// SeedUser is a user created at startup with a plaintext password.
type SeedUser struct {
	Username  string
	Password  string
	Email     string
	FirstName string
	LastName  string
	Gender    string
	Role      kycsdk.Role
}

// DefaultSeed mirrors the upstream's well-known demo accounts.
var DefaultSeed = []SeedUser{
	{"emilys", "emilyspass", "emily.johnson@x.dummyjson.com", "Emily", "Johnson", "female", kycsdk.RoleAdmin},
	{"michaelw", "michaelwpass", "michael.williams@x.dummyjson.com", "Michael", "Williams", "male", kycsdk.RoleModerator},
	{"sophiab", "sophiabpass", "sophia.brown@x.dummyjson.com", "Sophia", "Brown", "female", kycsdk.RoleUser},
	{"jamesd", "jamesdpass", "james.davis@x.dummyjson.com", "James", "Davis", "male", kycsdk.RoleUser},
	{"emmaj", "emmajpass", "emma.miller@x.dummyjson.com", "Emma", "Miller", "female", kycsdk.RoleUser},
}

type user struct {
	kycsdk.UserResponse
	passwordHash string
}

// Directory is the in-memory user table.
type Directory struct {
	mu     sync.RWMutex
	byID   map[int64]*user
	byName map[string]int64
	nextID int64
}

func NewDirectory(seed []SeedUser) (*Directory, error) {
	d := &Directory{
		byID:   make(map[int64]*user),
		byName: make(map[string]int64),
		nextID: 1,
	}
	for _, s := range seed {
		if err := d.add(s); err != nil {
			return nil, fmt.Errorf("seed %s: %w", s.Username, err)
		}
	}
	return d, nil
}

func (d *Directory) add(s SeedUser) error {
	hash, err := cryptox.HashPassword(s.Password)
	if err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	key := strings.ToLower(s.Username)
	if _, exists := d.byName[key]; exists {
		return errors.New("duplicate username")
	}

	id := d.nextID
	d.nextID++
	d.byID[id] = &user{
		UserResponse: kycsdk.UserResponse{
			ID:        id,
			Username:  s.Username,
			Email:     s.Email,
			FirstName: s.FirstName,
			LastName:  s.LastName,
			Gender:    s.Gender,
			Image:     fmt.Sprintf("https://dummyjson.com/icon/%s/128", s.Username),
			Role:      string(s.Role),
		},
		passwordHash: hash,
	}
	d.byName[key] = id
	return nil
}

// Authenticate checks username and password.
func (d *Directory) Authenticate(username, password string) (kycsdk.UserResponse, error) {
	d.mu.RLock()
	id, ok := d.byName[strings.ToLower(username)]
	var u user
	if ok {
		u = *d.byID[id]
	}
	d.mu.RUnlock()

	if !ok {
		return kycsdk.UserResponse{}, ErrInvalidCredentials
	}
	if err := cryptox.VerifyPassword(password, u.passwordHash); err != nil {
		return kycsdk.UserResponse{}, ErrInvalidCredentials
	}
	return u.UserResponse, nil
}

// Get returns the user with id.
func (d *Directory) Get(id int64) (kycsdk.UserResponse, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	u, ok := d.byID[id]
	if !ok {
		return kycsdk.UserResponse{}, ErrNotFound
	}
	return u.UserResponse, nil
}

// List returns users ordered by id.
func (d *Directory) List(limit, skip int) ([]kycsdk.UserResponse, int) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	ids := make([]int64, 0, len(d.byID))
	for id := range d.byID {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	total := len(ids)
	skip = min(max(skip, 0), total)
	end := total
	if limit > 0 {
		end = min(skip+limit, total)
	}

	out := make([]kycsdk.UserResponse, 0, end-skip)
	for _, id := range ids[skip:end] {
		out = append(out, d.byID[id].UserResponse)
	}
	return out, total
}

// Update applies the non-empty fields of req.
func (d *Directory) Update(id int64, req kycsdk.UpdateUserRequest) (kycsdk.UserResponse, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	u, ok := d.byID[id]
	if !ok {
		return kycsdk.UserResponse{}, ErrNotFound
	}
	if req.FirstName != "" {
		u.FirstName = req.FirstName
	}
	if req.LastName != "" {
		u.LastName = req.LastName
	}
	if req.Email != "" {
		u.Email = req.Email
	}
	return u.UserResponse, nil
}

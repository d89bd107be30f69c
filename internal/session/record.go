package session

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aussiebroadwan/kyc/pkg/kycsdk"
)

const (
	// RecordName is the key the session record is stored under.
	RecordName = "auth-storage"

	// RecordVersion is bumped whenever the state shape changes. Records with
	// any other version hydrate as logged out.
	RecordVersion = 1
)

var ErrCorruptRecord = errors.New("session: corrupt record")

type record struct {
	Name    string      `json:"name"`
	Version int         `json:"version"`
	State   recordState `json:"state"`
}

// Only the user and token are persisted.
type recordState struct {
	User  *kycsdk.User `json:"user"`
	Token string       `json:"token"`
}

// EncodeRecord serialises s into the persisted record format.
func EncodeRecord(s Session) ([]byte, error) {
	r := record{Name: RecordName, Version: RecordVersion}
	if !s.IsZero() {
		u := s.User
		r.State = recordState{User: &u, Token: s.Token}
	}
	return json.Marshal(r)
}

// DecodeRecord parses a persisted record. An empty logged-out record decodes
// to the zero Session without error.
func DecodeRecord(b []byte) (Session, error) {
	var r record
	if err := json.Unmarshal(b, &r); err != nil {
		return Session{}, fmt.Errorf("%w: %v", ErrCorruptRecord, err)
	}
	if r.Name != RecordName {
		return Session{}, fmt.Errorf("%w: unexpected name %q", ErrCorruptRecord, r.Name)
	}
	if r.Version != RecordVersion {
		return Session{}, fmt.Errorf("%w: unsupported version %d", ErrCorruptRecord, r.Version)
	}

	if r.State.Token == "" && r.State.User == nil {
		return Session{}, nil
	}

	s := Session{Token: r.State.Token}
	if r.State.User != nil {
		s.User = *r.State.User
	}
	if !s.complete() {
		return Session{}, fmt.Errorf("%w: partial session", ErrCorruptRecord)
	}
	return s, nil
}

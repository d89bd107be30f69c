package session

import (
	"context"
	"errors"
)

// ErrNoRecord is returned by Persister.Load when nothing has been saved.
var ErrNoRecord = errors.New("session: no persisted record")

// Persister stores the encoded session record. Save replaces the whole
// record atomically.
type Persister interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, record []byte) error
	Clear(ctx context.Context) error
	Close() error
}

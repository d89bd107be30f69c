// Package file stores the session record as a JSON file on disk.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/aussiebroadwan/kyc/internal/session"
)

// Persister writes the record with a temp file and rename so readers never
// observe a partial record.
type Persister struct {
	path string
}

func New(path string) (*Persister, error) {
	if path == "" {
		return nil, errors.New("file: empty path")
	}
	return &Persister{path: filepath.Clean(path)}, nil
}

// DefaultPath is ~/.config/kyc/auth-storage.json (or the platform equivalent).
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "kyc", session.RecordName+".json"), nil
}

func (p *Persister) Path() string { return p.path }

func (p *Persister) Load(context.Context) ([]byte, error) {
	b, err := os.ReadFile(p.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, session.ErrNoRecord
	}
	if err != nil {
		return nil, fmt.Errorf("file: read: %w", err)
	}
	return b, nil
}

func (p *Persister) Save(_ context.Context, record []byte) error {
	dir := filepath.Dir(p.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("file: mkdir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".auth-storage-*")
	if err != nil {
		return fmt.Errorf("file: temp: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(record); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("file: write: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("file: sync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("file: close: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o600); err != nil {
		return fmt.Errorf("file: chmod: %w", err)
	}
	if err := os.Rename(tmp.Name(), p.path); err != nil {
		return fmt.Errorf("file: rename: %w", err)
	}
	return nil
}

func (p *Persister) Clear(context.Context) error {
	err := os.Remove(p.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("file: remove: %w", err)
	}
	return nil
}

func (p *Persister) Close() error { return nil }

// Package memory keeps the session record in process memory.
package memory

import (
	"context"
	"sync"

	"github.com/aussiebroadwan/kyc/internal/session"
)

type Persister struct {
	mu     sync.Mutex
	record []byte
	saves  int
}

func New() *Persister { return &Persister{} }

func (p *Persister) Load(context.Context) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.record == nil {
		return nil, session.ErrNoRecord
	}
	return append([]byte(nil), p.record...), nil
}

func (p *Persister) Save(_ context.Context, record []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.record = append([]byte(nil), record...)
	p.saves++
	return nil
}

func (p *Persister) Clear(context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.record = nil
	return nil
}

func (p *Persister) Close() error { return nil }

// Saves counts successful Save calls.
func (p *Persister) Saves() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.saves
}

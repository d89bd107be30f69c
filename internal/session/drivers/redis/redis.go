// Package redis stores the session record under a single Redis key.
package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/aussiebroadwan/kyc/internal/session"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "kyc"

type Persister struct {
	rdb *redis.Client
	key string
}

// New uses an existing client. The key is "kyc:<record name>".
func New(rdb *redis.Client) *Persister {
	return &Persister{rdb: rdb, key: keyPrefix + ":" + session.RecordName}
}

// Dial connects using a redis:// URL and checks the connection.
func Dial(ctx context.Context, url string) (*Persister, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis: parse url: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis: ping: %w", err)
	}
	return New(rdb), nil
}

func (p *Persister) Key() string { return p.key }

func (p *Persister) Load(ctx context.Context) ([]byte, error) {
	b, err := p.rdb.Get(ctx, p.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, session.ErrNoRecord
	}
	if err != nil {
		return nil, fmt.Errorf("redis: get: %w", err)
	}
	return b, nil
}

func (p *Persister) Save(ctx context.Context, record []byte) error {
	if err := p.rdb.Set(ctx, p.key, record, 0).Err(); err != nil {
		return fmt.Errorf("redis: set: %w", err)
	}
	return nil
}

func (p *Persister) Clear(ctx context.Context) error {
	if err := p.rdb.Del(ctx, p.key).Err(); err != nil {
		return fmt.Errorf("redis: del: %w", err)
	}
	return nil
}

func (p *Persister) Close() error { return p.rdb.Close() }

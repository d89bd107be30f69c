// Package query runs reads and writes against the upstream with a uniform
// retry policy and routes final failures to an error handler.
package query

import (
	"context"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/kyc/pkg/kycsdk"
	"github.com/cenkalti/backoff/v4"
)

// Policy is the retry policy for reads. Mutations never retry.
type Policy struct {
	Retries uint64
	Delay   time.Duration
}

// MaxRetries caps every policy: a read is attempted at most twice.
const MaxRetries = 1

// DefaultPolicy allows one retry after three seconds.
var DefaultPolicy = Policy{Retries: 1, Delay: 3 * time.Second}

// ErrorHandler receives errors no call site handled.
type ErrorHandler interface {
	Handle(ctx context.Context, err error)
}

// Client carries the shared policy and the global error handler.
type Client struct {
	policy Policy
	global ErrorHandler
	log    *slog.Logger
}

func NewClient(policy Policy, global ErrorHandler, log *slog.Logger) *Client {
	if log == nil {
		log = slog.Default()
	}
	return &Client{policy: policy, global: global, log: log}
}

type callOptions struct {
	policy  Policy
	onError func(error)
}

// Option customises a single call.
type Option func(*callOptions)

// OnError handles the final error at the call site instead of the global
// handler.
func OnError(fn func(error)) Option {
	return func(o *callOptions) { o.onError = fn }
}

// WithPolicy overrides the retry policy for one query.
func WithPolicy(p Policy) Option {
	return func(o *callOptions) { o.policy = p }
}

// Query runs a read. Only classified upstream errors are retried.
func Query[T any](ctx context.Context, c *Client, fn func(context.Context) (T, error), opts ...Option) (T, error) {
	co := callOptions{policy: c.policy}
	for _, opt := range opts {
		opt(&co)
	}
	return run(ctx, c, co, fn)
}

// Mutate runs a write exactly once.
func Mutate[T any](ctx context.Context, c *Client, fn func(context.Context) (T, error), opts ...Option) (T, error) {
	co := callOptions{}
	for _, opt := range opts {
		opt(&co)
	}
	co.policy = Policy{}
	return run(ctx, c, co, fn)
}

func run[T any](ctx context.Context, c *Client, co callOptions, fn func(context.Context) (T, error)) (T, error) {
	attempt := 0
	op := func() (T, error) {
		attempt++
		v, err := fn(ctx)
		if err == nil {
			return v, nil
		}
		if ctx.Err() != nil || !kycsdk.IsClassified(err) {
			return v, backoff.Permanent(err)
		}
		return v, err
	}

	b := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(co.policy.Delay), min(co.policy.Retries, MaxRetries)),
		ctx,
	)

	v, err := backoff.RetryNotifyWithData(op, b, func(err error, wait time.Duration) {
		c.log.Debug("retrying after failure", "attempt", attempt, "wait", wait, "err", err)
	})
	if err == nil {
		return v, nil
	}

	var zero T
	c.route(ctx, co, err)
	return zero, err
}

func (c *Client) route(ctx context.Context, co callOptions, err error) {
	if ctx.Err() != nil {
		c.log.Debug("call abandoned", "err", err)
		return
	}
	if co.onError != nil {
		co.onError(err)
		return
	}
	if c.global != nil {
		c.global.Handle(ctx, err)
	}
}

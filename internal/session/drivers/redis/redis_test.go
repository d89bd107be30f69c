package redis_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	kycredis "github.com/aussiebroadwan/kyc/internal/session/drivers/redis"
	"github.com/aussiebroadwan/kyc/internal/session/sessiontest"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestPersister(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	p := kycredis.New(rdb)
	t.Cleanup(func() { _ = p.Close() })

	sessiontest.RunPersister(t, p)
}

func TestDialStoresUnderPrefixedKey(t *testing.T) {
	mr := miniredis.RunT(t)

	p, err := kycredis.Dial(context.Background(), "redis://"+mr.Addr()+"/0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })

	require.NoError(t, p.Save(context.Background(), []byte(`{"v":1}`)))
	require.Equal(t, "kyc:auth-storage", p.Key())

	got, err := mr.Get("kyc:auth-storage")
	require.NoError(t, err)
	require.Equal(t, `{"v":1}`, got)
}

func TestDialFailsWhenUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := kycredis.Dial(context.Background(), "redis://"+addr)
	require.Error(t, err)
}

package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/aussiebroadwan/kyc/internal/session/drivers/sqlite"
	"github.com/aussiebroadwan/kyc/internal/session/sessiontest"
	"github.com/stretchr/testify/require"
)

func TestPersister(t *testing.T) {
	p, err := sqlite.Open(filepath.Join(t.TempDir(), "kyc.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })

	require.NoError(t, p.Ping(context.Background()))
	sessiontest.RunPersister(t, p)
}

func TestReopenKeepsRecordAndMigrationsAreIdempotent(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "kyc.db")
	ctx := context.Background()

	p, err := sqlite.Open(dsn)
	require.NoError(t, err)
	require.NoError(t, p.Save(ctx, []byte(`{"name":"auth-storage"}`)))
	require.NoError(t, p.Close())

	p, err = sqlite.Open(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })

	got, err := p.Load(ctx)
	require.NoError(t, err)
	require.JSONEq(t, `{"name":"auth-storage"}`, string(got))
}

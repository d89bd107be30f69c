package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aussiebroadwan/kyc/internal/session/drivers/file"
	"github.com/aussiebroadwan/kyc/internal/session/sessiontest"
	"github.com/stretchr/testify/require"
)

func TestPersister(t *testing.T) {
	p, err := file.New(filepath.Join(t.TempDir(), "nested", "auth-storage.json"))
	require.NoError(t, err)
	sessiontest.RunPersister(t, p)
}

func TestSaveIsPrivateAndLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	p, err := file.New(filepath.Join(dir, "auth-storage.json"))
	require.NoError(t, err)

	require.NoError(t, p.Save(context.Background(), []byte(`{}`)))

	fi, err := os.Stat(p.Path())
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), fi.Mode().Perm())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestNewRejectsEmptyPath(t *testing.T) {
	_, err := file.New("")
	require.Error(t, err)
}

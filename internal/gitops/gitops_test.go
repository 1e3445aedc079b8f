package gitops

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitIsRepo(t *testing.T) {
	dir := t.TempDir()
	assert.False(t, IsRepo(dir))

	require.NoError(t, Init(dir))
	assert.True(t, IsRepo(dir))

	_, err := os.Stat(filepath.Join(dir, ".git"))
	require.NoError(t, err)
}

func TestCommitAllAndLog(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Init(dir))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "accounts.csv"), []byte("id,name\n"), 0o644))

	changed, err := HasChanges(dir)
	require.NoError(t, err)
	assert.True(t, changed)

	hash, err := CommitAll(dir, "tx add: 2026-01-001", "Ledgerly", "ledger@ledgerly.dev")
	require.NoError(t, err)
	assert.NotEmpty(t, hash)

	changed, err = HasChanges(dir)
	require.NoError(t, err)
	assert.False(t, changed)

	subjects, err := Log(dir, 5)
	require.NoError(t, err)
	require.Len(t, subjects, 1)
	assert.Equal(t, "tx add: 2026-01-001", subjects[0])
}

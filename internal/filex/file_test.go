package filex

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) func() {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	return func() { _ = os.Chdir(old) }
}

func TestEnsureParentDir_CreatesNestedDirectory(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "data", "nested", "users.db")

	got, err := EnsureParentDir(path)
	require.NoError(t, err)
	require.Equal(t, path, got)

	fi, err := os.Stat(filepath.Dir(path))
	require.NoError(t, err)
	require.True(t, fi.IsDir())

	_, err = os.Stat(path)
	require.True(t, os.IsNotExist(err), "the file itself must not be created")
}

func TestEnsureParentDir_RelativePathResolvesAgainstCWD(t *testing.T) {
	tmp := t.TempDir()
	defer chdir(t, tmp)()

	got, err := EnsureParentDir(filepath.Join("state", "users.db"))
	require.NoError(t, err)
	require.True(t, filepath.IsAbs(got))
	require.Equal(t, "users.db", filepath.Base(got))

	fi, err := os.Stat(filepath.Dir(got))
	require.NoError(t, err)
	require.True(t, fi.IsDir())
}

func TestEnsureParentDir_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.db")

	_, err := EnsureParentDir(path)
	require.NoError(t, err)
	_, err = EnsureParentDir(path)
	require.NoError(t, err)
}

func TestEnsureParentDir_ParentIsAFile(t *testing.T) {
	tmp := t.TempDir()
	blocker := filepath.Join(tmp, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	_, err := EnsureParentDir(filepath.Join(blocker, "users.db"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "mkdir")
}

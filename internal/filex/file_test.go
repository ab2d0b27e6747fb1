package filex

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"runtime"
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

func TestEnsureSubDir_CreatesDirectoryInCWD(t *testing.T) {
	tmp := t.TempDir()
	defer chdir(t, tmp)()

	got, err := EnsureSubDir("audio")
	require.NoError(t, err)

	want := filepath.Join(tmp, "audio")
	require.Equal(t, want, got)

	fi, err := os.Stat(want)
	require.NoError(t, err)
	require.True(t, fi.IsDir(), "should create a directory")

	if runtime.GOOS != "windows" {
		perm := fi.Mode().Perm()
		require.Equal(t, os.FileMode(0o700), perm&0o700)
	}
}

func TestEnsureSubDir_Idempotent(t *testing.T) {
	tmp := t.TempDir()
	defer chdir(t, tmp)()

	first, err := EnsureSubDir("audio")
	require.NoError(t, err)

	second, err := EnsureSubDir("audio")
	require.NoError(t, err)

	require.Equal(t, first, second)
}

func TestEnsureSubDir_FailsIfFileWithSameNameExists(t *testing.T) {
	tmp := t.TempDir()
	defer chdir(t, tmp)()

	require.NoError(t, os.WriteFile("audio", []byte("x"), 0o660))

	_, err := EnsureSubDir("audio")
	require.Error(t, err, "should fail when a file exists with the same name")
}

func TestWriteAtomic(t *testing.T) {
	dir := t.TempDir()

	path, err := WriteAtomic(dir, "cat.audio", func(w io.Writer) error {
		_, err := w.Write([]byte("meow"))
		return err
	})
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "cat.audio"), path)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "meow", string(b))
}

func TestWriteAtomic_FailureLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	boom := errors.New("boom")

	_, err := WriteAtomic(dir, "cat.audio", func(w io.Writer) error {
		_, _ = w.Write([]byte("partial"))
		return boom
	})
	require.ErrorIs(t, err, boom)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries, "temp file must be cleaned up and target not created")
}

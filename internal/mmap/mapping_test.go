package mmap

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "records.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestOpen(t *testing.T) {
	path := writeFile(t, "first line\nsecond line\n")

	m, err := Open(path)
	require.NoError(t, err)
	defer m.Close()

	assert.Equal(t, "first line\nsecond line\n", string(m.Bytes()))
	assert.Equal(t, 23, m.Size())
	require.NoError(t, m.Advise(AccessSequential))

	all, err := io.ReadAll(m.Reader())
	require.NoError(t, err)
	assert.Equal(t, m.Bytes(), all)
}

func TestOpen_EmptyFile(t *testing.T) {
	m, err := Open(writeFile(t, ""))
	require.NoError(t, err)

	assert.Equal(t, 0, m.Size())
	assert.Nil(t, m.Bytes())
	require.NoError(t, m.Advise(AccessWillNeed))
	require.NoError(t, m.Close())
}

func TestOpen_Missing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.txt"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestReadAt(t *testing.T) {
	m, err := Open(writeFile(t, "abcdef"))
	require.NoError(t, err)
	defer m.Close()

	buf := make([]byte, 4)
	n, err := m.ReadAt(buf, 1)
	require.NoError(t, err)
	assert.Equal(t, "bcde", string(buf[:n]))

	n, err = m.ReadAt(buf, 4)
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, "ef", string(buf[:n]))

	_, err = m.ReadAt(buf, -1)
	assert.ErrorIs(t, err, ErrInvalidOffset)
}

func TestClose_Idempotent(t *testing.T) {
	m, err := Open(writeFile(t, "data"))
	require.NoError(t, err)

	require.NoError(t, m.Close())
	require.NoError(t, m.Close())

	assert.Nil(t, m.Bytes())
	assert.ErrorIs(t, m.Advise(AccessSequential), ErrClosed)

	_, err = m.ReadAt(make([]byte, 1), 0)
	assert.ErrorIs(t, err, ErrClosed)
}

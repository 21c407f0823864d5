//go:build !windows

package filestore

import (
	"os"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteAtomic_NewFileMode(t *testing.T) {
	umask := syscall.Umask(0)
	syscall.Umask(umask)
	dst := filepath.Join(t.TempDir(), "new.csv")

	require.NoError(t, writeAtomic(dst, writeString("x")))

	st, err := os.Stat(dst)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644)&^os.FileMode(umask), st.Mode().Perm(), "new files are not owner-only")
}

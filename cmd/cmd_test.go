package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadTargetLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ip.txt")
	require.NoError(t, os.WriteFile(path, []byte("1.1.1.1\n# comment\n\n192.0.2.0/31\n"), 0o644))

	lines, err := readTargetLines(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"1.1.1.1", "# comment", "", "192.0.2.0/31", ""}, lines)
}

func TestReadTargetLines_MissingFile(t *testing.T) {
	_, err := readTargetLines(filepath.Join(t.TempDir(), "absent.txt"))
	assert.Error(t, err)
}

package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "page.tsx")
	fs := NewFileSystem()

	require.NoError(t, fs.WriteFileAtomic(path, []byte("first"), 0644))
	require.NoError(t, fs.WriteFileAtomic(path, []byte("second"), 0644))

	data, err := fs.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	entries, err := fs.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestWriteFileAtomic_MissingDir(t *testing.T) {
	err := NewFileSystem().WriteFileAtomic(filepath.Join(t.TempDir(), "missing", "x.ts"), []byte("x"), 0644)
	assert.Error(t, err)
}

func TestIsPathWithinBase(t *testing.T) {
	base := filepath.FromSlash("/project/components")

	tests := []struct {
		target string
		want   bool
	}{
		{"/project/components", true},
		{"/project/components/ui/button.tsx", true},
		{"/project/components/../lib/utils.ts", false},
		{"/project/componentsX/a.tsx", false},
		{"/project/..components/a.tsx", false},
		{"/elsewhere/a.tsx", false},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			assert.Equal(t, tt.want, IsPathWithinBase(base, filepath.FromSlash(tt.target)))
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, ParseLogLevel("info"), ParseLogLevel("bogus"))
	assert.NotEqual(t, ParseLogLevel("info"), ParseLogLevel("DEBUG"))
	assert.Equal(t, ParseLogLevel("warn"), ParseLogLevel(" warning "))
}

func TestRename(t *testing.T) {
	dir := t.TempDir()
	from := filepath.Join(dir, "a.css")
	to := filepath.Join(dir, "sub", "a.css")
	fs := NewFileSystem()

	require.NoError(t, os.WriteFile(from, []byte("x"), 0644))
	require.NoError(t, fs.MkdirAll(filepath.Dir(to), 0755))
	require.NoError(t, fs.Rename(from, to))

	_, err := fs.Stat(to)
	assert.NoError(t, err)
}

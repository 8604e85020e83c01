package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterFiles(t *testing.T) {
	tests := []struct {
		name     string
		paths    []string
		opts     FilterOptions
		expected []string
	}{
		{
			name:     "sorted",
			paths:    []string{"b.py", "a.py"},
			expected: []string{"a.py", "b.py"},
		},
		{
			name:  "exclude names",
			paths: []string{"run.py", "__pycache__"},
			opts: FilterOptions{
				ExcludeNames: DefaultExcludeNames(),
			},
			expected: []string{"run.py"},
		},
		{
			name:     "hidden files skipped",
			paths:    []string{".hidden.py", "visible.py"},
			expected: []string{"visible.py"},
		},
		{
			name:  "extension filter",
			paths: []string{"a.py", "b.md", "c.py", "notpy", ".py"},
			opts: FilterOptions{
				IncludeExtensions: []string{".py"},
			},
			expected: []string{"a.py", "c.py"},
		},
		{
			name:     "empty input",
			paths:    nil,
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterFiles(tt.paths, tt.opts)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestScriptFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"merge.py", "extract.py", "README.md", "__init__.py"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("print('x')\n"), 0o644))
	}
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nested", "deep.py"), nil, 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "__pycache__"), 0o755))

	files, err := ScriptFiles(dir, ".py")
	require.NoError(t, err)
	assert.Equal(t, []string{"__init__.py", "extract.py", "merge.py"}, files, "flat, filtered and sorted")
}

func TestScriptFiles_MissingDir(t *testing.T) {
	files, err := ScriptFiles(filepath.Join(t.TempDir(), "absent"), ".py")
	require.NoError(t, err)
	assert.Empty(t, files)
}

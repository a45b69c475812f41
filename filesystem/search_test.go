package filesystem

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterByGlob(t *testing.T) {
	items := []string{"hulk_smash", "hulk_sleep", "thor_smash", "hulk_smash"}

	tests := []struct {
		name    string
		pattern string
		want    []string
	}{
		{name: "prefix", pattern: "hulk_*", want: []string{"hulk_smash", "hulk_sleep", "hulk_smash"}},
		{name: "suffix", pattern: "*_smash", want: []string{"hulk_smash", "thor_smash", "hulk_smash"}},
		{name: "both", pattern: "hulk*sh", want: []string{"hulk_smash", "hulk_smash"}},
		{name: "star alone", pattern: "*", want: items},
		{name: "no match", pattern: "loki*", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FilterByGlob(items, tt.pattern)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilterByGlobNonStrings(t *testing.T) {
	got, err := FilterByGlob([]int{15, 105, 51, 1, 5}, "1*5")
	require.NoError(t, err)
	assert.Equal(t, []int{15, 105}, got)
}

func TestFilterByGlobInvalidPattern(t *testing.T) {
	for _, pattern := range []string{"", "hulk", "a*b*c"} {
		_, err := FilterByGlob([]string{"hulk"}, pattern)
		assert.ErrorIs(t, err, ErrInvalidPattern, "pattern %q", pattern)
	}
}

func TestFilesUnder(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, filepath.Join(dir, "app.log"), "1")
	writeTestFile(t, filepath.Join(dir, "app.log.1"), "2")
	writeTestFile(t, filepath.Join(dir, "readme.md"), "3")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "old.log"), 0o755))

	got, err := FilesUnder(dir, ".log")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "app.log"), filepath.Join(dir, "app.log.1")}, got)

	all, err := FilesUnder(dir, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	missing, err := FilesUnder(filepath.Join(dir, "nope"), "")
	require.NoError(t, err)
	assert.Empty(t, missing)
}

func TestFilePathsBySubstring(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, filepath.Join(dir, "Invoice_2024.pdf"), "pdf")
	writeTestFile(t, filepath.Join(dir, "notes.txt"), "txt")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "invoices"), 0o755))

	got, err := FilePathsBySubstring(dir, "invoice", false)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "Invoice_2024.pdf"), filepath.Join(dir, "invoices")}, got)

	got, err = FilePathsBySubstring(dir, "invoice", true)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "invoices")}, got)

	for _, p := range got {
		assert.True(t, filepath.IsAbs(p))
	}

	_, err = FilePathsBySubstring(filepath.Join(dir, "missing"), "x", true)
	assert.ErrorIs(t, err, ErrInvalidDirectory)
}

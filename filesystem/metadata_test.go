package filesystem

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExt(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{path: "report.csv", want: ".csv"},
		{path: "/tmp/backup.tar.gz", want: ".tar.gz"},
		{path: "Makefile", want: ""},
		{path: ".bashrc", want: ""},
		{path: "dir.d/file", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, Ext(tt.path))
		})
	}
}

func TestBase64Contents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hello.txt")
	writeTestFile(t, path, "hello")

	got, err := Base64Contents(path)
	require.NoError(t, err)
	assert.Equal(t, "aGVsbG8=", got)

	_, err = Base64Contents(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestDetectMIME(t *testing.T) {
	dir := t.TempDir()
	text := filepath.Join(dir, "plain")
	writeTestFile(t, text, "just some words\n")
	archive := filepath.Join(dir, "files.zip")
	writeTestFile(t, filepath.Join(dir, "data", "a.txt"), "alpha")
	_, err := ArchiveDirectory(context.Background(), filepath.Join(dir, "data"), WithName("files"))
	require.NoError(t, err)

	got, err := DetectMIME(text)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got, "text/plain"), got)

	got, err = DetectMIME(archive)
	require.NoError(t, err)
	assert.Equal(t, "application/zip", got)
}

func TestDirSize(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, filepath.Join(dir, "a"), "12345")
	writeTestFile(t, filepath.Join(dir, "sub", "b"), "123")

	size, files, err := DirSize(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, int64(8), size)
	assert.Equal(t, 2, files)

	_, _, err = DirSize(context.Background(), filepath.Join(dir, "missing"))
	assert.ErrorIs(t, err, ErrInvalidDirectory)
}

func TestHumanSize(t *testing.T) {
	tests := []struct {
		bytes int64
		want  string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1536, "1.50 KB"},
		{5 * 1024 * 1024, "5.00 MB"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, HumanSize(tt.bytes))
	}
}

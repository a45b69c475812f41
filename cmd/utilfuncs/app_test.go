package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/karanveersp/utilfuncs/filesystem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// runCLI runs the command with error-level logging and returns its stdout
// lines.
func runCLI(t *testing.T, args ...string) ([]string, error) {
	t.Helper()
	var out bytes.Buffer
	err := run(context.Background(), append([]string{"-level", "error"}, args...), &out)
	text := strings.TrimSpace(out.String())
	if text == "" {
		return nil, err
	}
	return strings.Split(text, "\n"), err
}

func TestRunUsage(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "no command", args: nil},
		{name: "unknown command", args: []string{"explode"}},
		{name: "missing args", args: []string{"movedir", "only-one"}},
		{name: "bad flag", args: []string{"zipdir", "-nope", "dir"}},
		{name: "zipfiles requires name", args: []string{"zipfiles", "-dest", "x", "a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, tt.args...)
			assert.ErrorIs(t, err, errUsage)
		})
	}
}

func TestZipDirAndList(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "data", "a.txt"), "alpha")
	writeFile(t, filepath.Join(root, "data", "sub", "b.txt"), "bravo")

	out, err := runCLI(t, "zipdir", "-name", "bundle", "-format", "tar.gz", filepath.Join(root, "data"))
	require.NoError(t, err)
	require.Len(t, out, 1)
	archive := out[0]
	assert.Equal(t, filepath.Join(root, "bundle.tar.gz"), archive)

	entries, err := runCLI(t, "list", archive)
	require.NoError(t, err)
	assert.Equal(t, []string{"data/a.txt", "data/sub/b.txt"}, entries)

	dest := filepath.Join(root, "out")
	require.NoError(t, os.Mkdir(dest, 0o755))
	out, err = runCLI(t, "extract", archive, dest)
	require.NoError(t, err)
	assert.Equal(t, []string{"extracted 2 files"}, out)
	assert.FileExists(t, filepath.Join(dest, "data", "sub", "b.txt"))
}

func TestZipDirStampAndConfigFormat(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "logs", "x.log"), "x")
	t.Setenv("UTILFUNCS_ARCHIVE_FORMAT", "tar.zst")

	out, err := runCLI(t, "zipdir", "-stamp", filepath.Join(root, "logs"))
	require.NoError(t, err)
	require.Len(t, out, 1)

	base := filepath.Base(out[0])
	assert.Regexp(t, `^logs_\d{8}_\d{4}\.tar\.zst$`, base)
}

func TestZipFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "one", "a.txt"), "a")
	writeFile(t, filepath.Join(root, "two", "b.txt"), "b")
	dest := filepath.Join(root, "dest")
	require.NoError(t, os.Mkdir(dest, 0o755))

	out, err := runCLI(t, "zipfiles", "-dest", dest, "-name", "picked",
		filepath.Join(root, "one", "a.txt"), filepath.Join(root, "two", "b.txt"))
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(dest, "picked.zip")}, out)

	entries, err := runCLI(t, "list", out[0])
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt", "b.txt"}, entries)
}

func TestMove(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "src")
	dest := filepath.Join(root, "dest")
	writeFile(t, filepath.Join(src, "keep.csv"), "")
	writeFile(t, filepath.Join(src, "a.txt"), "")
	writeFile(t, filepath.Join(src, "Error_report.log"), "")
	require.NoError(t, os.Mkdir(dest, 0o755))

	out, err := runCLI(t, "move", "-ext", ".txt", src, dest)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dest, "a.txt")}, out)

	out, err = runCLI(t, "move", "-contains", "error", src, dest)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dest, "Error_report.log")}, out)

	out, err = runCLI(t, "move", "-glob", "*.csv", src, dest)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dest, "keep.csv")}, out)

	_, err = runCLI(t, "move", "-glob", "*", "-contains", "x", src, dest)
	assert.ErrorIs(t, err, errUsage)
}

func TestMoveDir(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "proj", "main.go"), "package main")
	parent := filepath.Join(root, "archive")
	require.NoError(t, os.Mkdir(parent, 0o755))

	out, err := runCLI(t, "movedir", filepath.Join(root, "proj"), parent)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(parent, "proj")}, out)
}

func TestGlob(t *testing.T) {
	out, err := runCLI(t, "glob", "hulk*", "hulk_smash", "thor", "hulk")
	require.NoError(t, err)
	assert.Equal(t, []string{"hulk_smash", "hulk"}, out)

	_, err = runCLI(t, "glob", "a*b*", "x")
	assert.Error(t, err)
}

func TestPrune(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "new.log"), "")

	out, err := runCLI(t, "prune", "-age", "1h", dir)
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.FileExists(t, filepath.Join(dir, "new.log"))

	_, err = runCLI(t, "prune", dir)
	assert.ErrorIs(t, err, errUsage)
}

func TestUTF8(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.txt")
	writeFile(t, path, "hello world\n")

	out, err := runCLI(t, "utf8", path)
	require.NoError(t, err)
	assert.Equal(t, []string{"hello world"}, out)

	out, err = runCLI(t, "utf8", "-write", path)
	require.NoError(t, err)
	assert.Empty(t, out, "already utf-8")
}

func TestSize(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a"), "1234")

	out, err := runCLI(t, "size", dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"4 B\t1 files"}, out)
}

func TestCSVCommands(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "orders.csv")
	writeFile(t, in, "id;status\n1;open\n2;closed\n")
	t.Setenv("UTILFUNCS_CSV_DELIMITER", ";")

	out, err := runCLI(t, "csvgrep", "-col", "1", "-value", "closed", "-skip-header", in)
	require.NoError(t, err)
	assert.Equal(t, []string{"2;closed"}, out)

	jsonPath := filepath.Join(dir, "orders.json")
	_, err = runCLI(t, "csv2json", in, jsonPath)
	require.NoError(t, err)
	data, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"closed"`)

	_, err = runCLI(t, "csvgrep", "-col", "x", in)
	assert.ErrorIs(t, err, errUsage)
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "utilfuncs.yaml")
	writeFile(t, cfgPath, "archive:\n  format: rar\n")

	_, err := runCLI(t, "-config", cfgPath, "list", "x.zip")
	assert.Error(t, err)
}

func TestZipDirDeleteRetriesOnlyRemoval(t *testing.T) {
	root := t.TempDir()
	data := filepath.Join(root, "data")
	writeFile(t, filepath.Join(data, "a.txt"), "alpha")
	writeFile(t, filepath.Join(data, "z", "locked.txt"), "zulu")
	t.Setenv("UTILFUNCS_RETRY_MATCH", "resource busy")
	t.Setenv("UTILFUNCS_RETRY_INTERVAL", "1ms")

	attempts := 0
	t.Cleanup(func() { removeDirectory = (*filesystem.Ops).RemoveDirectory })
	removeDirectory = func(ops *filesystem.Ops, dir string) error {
		attempts++
		if attempts == 1 {
			// part of the tree goes before the failure
			require.NoError(t, os.Remove(filepath.Join(dir, "a.txt")))
			return errors.New("unlinkat z/locked.txt: resource busy")
		}
		return ops.RemoveDirectory(dir)
	}

	out, err := runCLI(t, "zipdir", "-delete", data)
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(root, "data.zip")}, out)

	assert.Equal(t, 2, attempts)
	assert.NoDirExists(t, data)

	entries, err := runCLI(t, "list", out[0])
	require.NoError(t, err)
	assert.Equal(t, []string{"data/a.txt", "data/z/locked.txt"}, entries)
}

func TestZipDirDeleteRejectsDestinationInSource(t *testing.T) {
	root := t.TempDir()
	data := filepath.Join(root, "data")
	writeFile(t, filepath.Join(data, "a.txt"), "alpha")

	_, err := runCLI(t, "zipdir", "-delete", "-dest", data, data)

	assert.ErrorIs(t, err, filesystem.ErrArchiveInSource)
	assert.FileExists(t, filepath.Join(data, "a.txt"))
	assert.NoFileExists(t, filepath.Join(data, "data.zip"))
}

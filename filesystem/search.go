package filesystem

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FilterByGlob returns the items whose string form (fmt.Sprint) starts with
// the text before the pattern's '*' and ends with the text after it. Order
// and duplicates are preserved.
//
// This is a prefix/suffix filter, not a glob engine: the pattern must hold
// exactly one '*', anything else returns ErrInvalidPattern. Other glob
// metacharacters are matched literally.
func FilterByGlob[T any](items []T, pattern string) ([]T, error) {
	prefix, suffix, err := splitPattern(pattern)
	if err != nil {
		return nil, err
	}

	filtered := make([]T, 0, len(items))
	for _, item := range items {
		s := fmt.Sprint(item)
		if strings.HasPrefix(s, prefix) && strings.HasSuffix(s, suffix) {
			filtered = append(filtered, item)
		}
	}
	return filtered, nil
}

func splitPattern(pattern string) (prefix, suffix string, err error) {
	if n := strings.Count(pattern, "*"); n != 1 {
		return "", "", fmt.Errorf("%w: %q has %d wildcards, want exactly one", ErrInvalidPattern, pattern, n)
	}
	prefix, suffix, _ = strings.Cut(pattern, "*")
	return prefix, suffix, nil
}

// FilesUnder lists the regular files directly under dir whose names contain
// ext (for example ".log"); an empty ext matches every file. A missing dir
// yields an empty list.
func FilesUnder(dir, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if !strings.Contains(entry.Name(), ext) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if isRegular(path) {
			files = append(files, path)
		}
	}
	return files, nil
}

// FilePathsBySubstring returns the absolute paths of the entries directly
// under dir, files and directories alike, whose names contain substr.
func FilePathsBySubstring(dir, substr string, caseSensitive bool) ([]string, error) {
	if !isDir(dir) {
		return nil, invalidDir("list", dir)
	}
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", dir, err)
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}

	if !caseSensitive {
		substr = strings.ToUpper(substr)
	}

	var paths []string
	for _, entry := range entries {
		name := entry.Name()
		if !caseSensitive {
			name = strings.ToUpper(name)
		}
		if strings.Contains(name, substr) {
			paths = append(paths, filepath.Join(root, entry.Name()))
		}
	}
	return paths, nil
}

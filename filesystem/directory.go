package filesystem

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
)

// EnsureDir creates dir and any missing parents. An existing directory is
// left alone.
func EnsureDir(dir string) error {
	if isDir(dir) {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	return nil
}

// RemoveDirectory deletes dir and everything below it. A missing dir is not
// an error. On failure part of the tree may already be gone.
func (o *Ops) RemoveDirectory(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("remove %s: %w", dir, err)
	}
	o.logger().Debug("directory removed", zap.String("directory", dir))
	return nil
}

// DeleteOldFiles removes the regular files directly under dir whose names
// contain ext and whose modification time is more than olderThan in the past.
// It returns the removed paths; on error the paths removed so far are
// returned with it.
func (o *Ops) DeleteOldFiles(dir string, olderThan time.Duration, ext string) ([]string, error) {
	files, err := FilesUnder(dir, ext)
	if err != nil {
		return nil, err
	}

	cutoff := time.Now().Add(-olderThan)
	var deleted []string
	for _, path := range files {
		info, err := os.Stat(path)
		if err != nil {
			return deleted, fmt.Errorf("stat %s: %w", path, err)
		}
		if !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.Remove(path); err != nil {
			return deleted, fmt.Errorf("remove %s: %w", path, err)
		}
		deleted = append(deleted, path)
	}

	o.logger().Info("deleted old files",
		zap.String("directory", dir),
		zap.Duration("older_than", olderThan),
		zap.Int("files", len(deleted)))

	return deleted, nil
}

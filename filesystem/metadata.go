package filesystem

import (
	"context"
	"encoding/base64"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/charlievieth/fastwalk"
	"github.com/gabriel-vasile/mimetype"
)

// Ext returns the extension of path's base name starting at its first dot,
// so "report.tar.gz" yields ".tar.gz". Names without a dot, and dot-files
// such as ".bashrc", yield "".
func Ext(path string) string {
	name := filepath.Base(path)
	i := strings.IndexByte(name, '.')
	if i <= 0 {
		return ""
	}
	return name[i:]
}

// Base64Contents returns the standard base64 encoding of the file at path.
func Base64Contents(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// DetectMIME returns the MIME type of the file at path, sniffed from its
// contents.
func DetectMIME(path string) (string, error) {
	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return "", fmt.Errorf("detect mime %s: %w", path, err)
	}
	return mtype.String(), nil
}

// isText reports whether mtype is text/plain or derives from it.
func isText(mtype *mimetype.MIME) bool {
	for m := mtype; m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return true
		}
	}
	return false
}

// DirSize returns the total size in bytes and the number of regular files
// under dir, recursively.
func DirSize(ctx context.Context, dir string) (int64, int, error) {
	if !isDir(dir) {
		return 0, 0, invalidDir("size", dir)
	}

	var total, files atomic.Int64
	conf := fastwalk.Config{Follow: false}
	err := fastwalk.Walk(&conf, dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		total.Add(info.Size())
		files.Add(1)
		return nil
	})
	if err != nil {
		return 0, 0, fmt.Errorf("size %s: %w", dir, err)
	}
	return total.Load(), int(files.Load()), nil
}

// HumanSize formats a byte count using binary units, e.g. "1.50 KB".
func HumanSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}

	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}

	units := []string{"KB", "MB", "GB", "TB", "PB", "EB"}
	return fmt.Sprintf("%.2f %s", float64(bytes)/float64(div), units[exp])
}

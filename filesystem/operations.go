package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charlievieth/fastwalk"
	"go.uber.org/zap"
)

// MoveFile moves the regular file src into destDir, replacing any file of the
// same name already there, and returns its new path.
//
// If src is not a regular file MoveFile does nothing and returns "" with a
// nil error.
func (o *Ops) MoveFile(src, destDir string) (string, error) {
	if !isRegular(src) {
		o.logger().Debug("move skipped, not a regular file", zap.String("source", src))
		return "", nil
	}
	if !isDir(destDir) {
		return "", invalidDir("move into", destDir)
	}
	return o.moveOne(src, destDir)
}

// MoveByExtension moves every regular file directly under srcDir whose name
// ends with ext into destDir. An empty ext matches every file. The returned
// paths are the new locations in name order.
func (o *Ops) MoveByExtension(srcDir, destDir, ext string) ([]string, error) {
	return o.moveMatching("move by extension", srcDir, destDir, func(name string) bool {
		return strings.HasSuffix(name, ext)
	})
}

// MoveBySubstring moves every regular file directly under srcDir whose name
// contains substr into destDir. When caseSensitive is false both sides are
// upper-cased before comparing.
func (o *Ops) MoveBySubstring(srcDir, destDir, substr string, caseSensitive bool) ([]string, error) {
	if !caseSensitive {
		substr = strings.ToUpper(substr)
	}
	return o.moveMatching("move by substring", srcDir, destDir, func(name string) bool {
		if !caseSensitive {
			name = strings.ToUpper(name)
		}
		return strings.Contains(name, substr)
	})
}

// MoveMatchingGlob moves the regular files under srcDir matched by a
// doublestar pattern (relative to srcDir) into destDir. Without a ** in the
// pattern only direct children are considered.
func (o *Ops) MoveMatchingGlob(srcDir, destDir, pattern string) ([]string, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPattern, pattern)
	}
	if !isDir(srcDir) {
		return nil, invalidDir("move from", srcDir)
	}
	if !isDir(destDir) {
		return nil, invalidDir("move into", destDir)
	}

	matches, err := doublestar.Glob(os.DirFS(srcDir), pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("glob %s in %s: %w", pattern, srcDir, err)
	}

	var moved []string
	for _, match := range matches {
		src := filepath.Join(srcDir, filepath.FromSlash(match))
		if !isRegular(src) {
			continue
		}
		dest, err := o.moveOne(src, destDir)
		if err != nil {
			return moved, err
		}
		moved = append(moved, dest)
	}

	o.logger().Info("moved files",
		zap.String("op", "move by glob"),
		zap.String("pattern", pattern),
		zap.String("source", srcDir),
		zap.String("destination", destDir),
		zap.Int("files", len(moved)))

	return moved, nil
}

// MoveDirectory moves srcDir, with everything under it, into destParent and
// returns the new path destParent/<base name of srcDir>. If srcDir does not
// exist MoveDirectory does nothing and returns "".
func (o *Ops) MoveDirectory(srcDir, destParent string) (string, error) {
	if !isDir(srcDir) {
		o.logger().Debug("move skipped, not a directory", zap.String("source", srcDir))
		return "", nil
	}
	if !isDir(destParent) {
		return "", invalidDir("move into", destParent)
	}

	dest := filepath.Join(destParent, filepath.Base(filepath.Clean(srcDir)))
	err := os.Rename(srcDir, dest)
	if isCrossDevice(err) {
		if err = o.CopyTree(context.Background(), srcDir, dest); err == nil {
			err = os.RemoveAll(srcDir)
		}
	}
	if err != nil {
		return "", fmt.Errorf("move %s: %w", srcDir, err)
	}

	o.logger().Debug("moved directory", zap.String("source", srcDir), zap.String("destination", dest))
	return dest, nil
}

// RenameFile renames path to newName within the same directory, keeping its
// extension (see Ext), and returns the new path. An existing file
// with the new name is replaced.
func (o *Ops) RenameFile(path, newName string) (string, error) {
	if newName == "" || strings.ContainsRune(newName, filepath.Separator) {
		return "", fmt.Errorf("rename %s: invalid name %q", path, newName)
	}

	renamed := filepath.Join(filepath.Dir(path), newName+Ext(path))
	if err := os.Rename(path, renamed); err != nil {
		return "", fmt.Errorf("rename %s: %w", path, err)
	}

	o.logger().Debug("renamed", zap.String("from", path), zap.String("to", renamed))
	return renamed, nil
}

// CopyTree copies the directory src to dest, creating dest and any missing
// parents. Symlinks to regular files are copied as the files they point to;
// other symlinks are skipped.
func (o *Ops) CopyTree(ctx context.Context, src, dest string) error {
	if !isDir(src) {
		return invalidDir("copy", src)
	}
	root, err := filepath.Abs(src)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", src, err)
	}
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dest, err)
	}

	var mu sync.Mutex
	copied := 0

	conf := fastwalk.Config{Follow: false}
	err = fastwalk.Walk(&conf, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if p == root {
			return nil
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		target := filepath.Join(dest, rel)

		switch {
		case d.IsDir():
			return os.MkdirAll(target, 0o755)
		case d.Type()&fs.ModeSymlink != 0:
			info, err := os.Stat(p)
			if err != nil || !info.Mode().IsRegular() {
				return nil
			}
			if err := copyFile(p, target, info.Mode()); err != nil {
				return err
			}
		case d.Type().IsRegular():
			info, err := d.Info()
			if err != nil {
				return err
			}
			if err := copyFile(p, target, info.Mode()); err != nil {
				return err
			}
		default:
			return nil
		}

		mu.Lock()
		copied++
		mu.Unlock()
		return nil
	})
	if err != nil {
		return fmt.Errorf("copy %s: %w", src, err)
	}

	o.logger().Debug("copied tree", zap.String("source", root), zap.String("destination", dest), zap.Int("files", copied))
	return nil
}

func (o *Ops) moveMatching(op, srcDir, destDir string, match func(name string) bool) ([]string, error) {
	if !isDir(srcDir) {
		return nil, invalidDir("move from", srcDir)
	}
	if !isDir(destDir) {
		return nil, invalidDir("move into", destDir)
	}

	entries, err := os.ReadDir(srcDir)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", srcDir, err)
	}

	var moved []string
	for _, entry := range entries {
		if !match(entry.Name()) {
			continue
		}
		src := filepath.Join(srcDir, entry.Name())
		if !isRegular(src) {
			continue
		}
		dest, err := o.moveOne(src, destDir)
		if err != nil {
			return moved, err
		}
		moved = append(moved, dest)
	}

	o.logger().Info("moved files",
		zap.String("op", op),
		zap.String("source", srcDir),
		zap.String("destination", destDir),
		zap.Int("files", len(moved)))

	return moved, nil
}

// moveOne moves the regular file src into destDir, replacing a regular file
// of the same name. The existence check and the rename are not atomic.
func (o *Ops) moveOne(src, destDir string) (string, error) {
	dest := filepath.Join(destDir, filepath.Base(src))
	if samePath(src, dest) {
		return dest, nil
	}

	if existing, err := os.Lstat(dest); err == nil {
		if existing.Mode().IsRegular() || existing.Mode()&fs.ModeSymlink != 0 {
			if err := os.Remove(dest); err != nil {
				return "", fmt.Errorf("replace %s: %w", dest, err)
			}
		}
	}

	err := os.Rename(src, dest)
	if isCrossDevice(err) {
		err = moveByCopy(src, dest)
	}
	if err != nil {
		return "", fmt.Errorf("move %s: %w", src, err)
	}

	o.logger().Debug("moved file", zap.String("source", src), zap.String("destination", dest))
	return dest, nil
}

// samePath reports whether a and b name the same directory entry. Parent
// directories are compared after resolving symlinks; the final elements are
// compared by name, so a hard link or symlink at b is a different entry.
func samePath(a, b string) bool {
	return resolveParent(a) == resolveParent(b)
}

func resolveParent(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return filepath.Clean(p)
	}
	dir, err := filepath.EvalSymlinks(filepath.Dir(abs))
	if err != nil {
		return abs
	}
	return filepath.Join(dir, filepath.Base(abs))
}

// isCrossDevice reports whether a rename failed because source and
// destination are on different filesystems.
func isCrossDevice(err error) bool {
	return err != nil && errors.Is(err, syscall.EXDEV)
}

func moveByCopy(src, dest string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	if err := copyFile(src, dest, info.Mode()); err != nil {
		return err
	}
	return os.Remove(src)
}

// copyFile copies the contents of src to dest with the permission bits of mode.
func copyFile(src, dest string, mode fs.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	return writeFile(dest, mode, in)
}

// copyInto streams the file at path into w.
func copyInto(w io.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("copy %s: %w", path, err)
	}
	return nil
}

// writeFile creates or truncates path and fills it from r.
func writeFile(path string, mode fs.FileMode, r io.Reader) (err error) {
	perm := mode.Perm()
	if perm == 0 {
		perm = 0o644
	}
	out, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	_, err = io.Copy(out, r)
	return err
}

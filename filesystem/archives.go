package filesystem

import (
	"archive/tar"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/charlievieth/fastwalk"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"
	"go.uber.org/zap"
)

// archiveEntry is a regular file scheduled for an archive.
type archiveEntry struct {
	path string // absolute path on disk
	name string // slash-separated name inside the archive
	info fs.FileInfo
}

// ArchiveDirectory packages every regular file under sourceDir into one
// archive and returns the archive's path. Symlinks to regular files are
// stored with the contents they point to.
//
// The archive is written to the source's parent directory as
// <base name><extension> unless WithDestination or WithName say otherwise.
// Without WithFlatten(true) entry names start with the source directory's
// base name. Entries are written in lexical order of their names.
//
// No cleanup is attempted if writing fails part way; the error is returned
// as is. WithDeleteSource removes the source only after the archive has been
// written and closed; it fails with ErrArchiveInSource, before writing, when
// the archive would land inside the source.
func (o *Ops) ArchiveDirectory(ctx context.Context, sourceDir string, opts ...ArchiveOption) (string, error) {
	if !isDir(sourceDir) {
		return "", invalidDir("archive", sourceDir)
	}

	root, err := filepath.Abs(sourceDir)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", sourceDir, err)
	}

	cfg := archiveConfig{format: FormatZip}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.name == "" {
		cfg.name = filepath.Base(root)
	}
	if cfg.destination == "" {
		cfg.destination = filepath.Dir(root)
	}

	output, err := filepath.Abs(filepath.Join(cfg.destination, cfg.name+cfg.format.Extension()))
	if err != nil {
		return "", fmt.Errorf("resolve archive path: %w", err)
	}

	if cfg.deleteSource && within(root, output) {
		return "", fmt.Errorf("%w: %s is inside %s", ErrArchiveInSource, output, root)
	}

	base := filepath.Dir(root)
	if cfg.flatten {
		base = root
	}

	entries, err := collectEntries(ctx, root, base, output)
	if err != nil {
		return "", err
	}

	if err := o.writeArchive(ctx, output, cfg.format, entries); err != nil {
		return "", err
	}

	o.logger().Info("archive created",
		zap.String("source", root),
		zap.String("archive", output),
		zap.Stringer("format", cfg.format),
		zap.Int("files", len(entries)),
		zap.Bool("flatten", cfg.flatten))

	if cfg.deleteSource {
		if err := o.RemoveDirectory(root); err != nil {
			return output, fmt.Errorf("archive written, source not removed: %w", err)
		}
	}

	return output, nil
}

// ArchiveFiles copies each of paths into a scratch directory under its base
// name and archives that directory, so every input lands at the archive root
// regardless of where it came from. Directories are copied recursively.
//
// Two inputs with the same base name fail with ErrNameCollision before
// anything is copied. The scratch directory is removed on every return path.
// The archive is written to destinationDir as archiveName plus the format's
// extension.
func (o *Ops) ArchiveFiles(ctx context.Context, destinationDir string, paths []string, archiveName string, opts ...ArchiveOption) (string, error) {
	if !isDir(destinationDir) {
		return "", invalidDir("archive files into", destinationDir)
	}
	if archiveName == "" {
		return "", ErrEmptyName
	}

	seen := make(map[string]string, len(paths))
	for _, p := range paths {
		name := filepath.Base(p)
		if prev, ok := seen[name]; ok {
			return "", fmt.Errorf("%w: %s and %s both stage as %q", ErrNameCollision, prev, p, name)
		}
		seen[name] = p
	}

	stage, err := os.MkdirTemp("", "utilfuncs-stage-*")
	if err != nil {
		return "", fmt.Errorf("create staging directory: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(stage); err != nil {
			o.logger().Warn("staging directory not removed", zap.String("path", stage), zap.Error(err))
		}
	}()

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return "", fmt.Errorf("stage %s: %w", p, err)
		}

		target := filepath.Join(stage, filepath.Base(p))
		if info.IsDir() {
			err = o.CopyTree(ctx, p, target)
		} else {
			err = copyFile(p, target, info.Mode())
		}
		if err != nil {
			return "", fmt.Errorf("stage %s: %w", p, err)
		}
	}

	opts = append([]ArchiveOption{WithName(archiveName), WithDestination(destinationDir)}, opts...)
	opts = append(opts, WithFlatten(true), WithDeleteSource(false))

	return o.ArchiveDirectory(ctx, stage, opts...)
}

// ListArchive returns the entry names of a ZIP, tar.gz or tar.zst archive in
// the order they are stored. The format is taken from the file name.
func (o *Ops) ListArchive(archivePath string) ([]string, error) {
	format, err := formatFromPath(archivePath)
	if err != nil {
		return nil, err
	}

	var names []string
	if format == FormatZip {
		reader, err := zip.OpenReader(archivePath)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", archivePath, err)
		}
		defer reader.Close()

		for _, file := range reader.File {
			names = append(names, file.Name)
		}
		return names, nil
	}

	err = readTar(archivePath, format, func(header *tar.Header, _ io.Reader) error {
		names = append(names, header.Name)
		return nil
	})
	return names, err
}

// ExtractArchive extracts the regular files of an archive into
// destinationDir and returns how many were written. Entries whose names
// would land outside destinationDir fail with ErrUnsafeEntry.
func (o *Ops) ExtractArchive(ctx context.Context, archivePath, destinationDir string) (int, error) {
	if !isDir(destinationDir) {
		return 0, invalidDir("extract into", destinationDir)
	}

	format, err := formatFromPath(archivePath)
	if err != nil {
		return 0, err
	}

	root, err := filepath.Abs(destinationDir)
	if err != nil {
		return 0, fmt.Errorf("resolve %s: %w", destinationDir, err)
	}

	count := 0
	extract := func(name string, mode fs.FileMode, r io.Reader) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		target, err := safeJoin(root, name)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}
		if err := writeFile(target, mode, r); err != nil {
			return err
		}
		count++
		return nil
	}

	if format == FormatZip {
		reader, err := zip.OpenReader(archivePath)
		if err != nil {
			return 0, fmt.Errorf("open %s: %w", archivePath, err)
		}
		defer reader.Close()

		for _, file := range reader.File {
			if !file.Mode().IsRegular() {
				continue
			}
			rc, err := file.Open()
			if err != nil {
				return count, fmt.Errorf("open entry %s: %w", file.Name, err)
			}
			err = extract(file.Name, file.Mode(), rc)
			rc.Close()
			if err != nil {
				return count, fmt.Errorf("extract %s: %w", file.Name, err)
			}
		}
	} else {
		err = readTar(archivePath, format, func(header *tar.Header, r io.Reader) error {
			if header.Typeflag != tar.TypeReg {
				return nil
			}
			if err := extract(header.Name, header.FileInfo().Mode(), r); err != nil {
				return fmt.Errorf("extract %s: %w", header.Name, err)
			}
			return nil
		})
		if err != nil {
			return count, err
		}
	}

	o.logger().Info("archive extracted",
		zap.String("archive", archivePath),
		zap.String("destination", root),
		zap.Int("files", count))

	return count, nil
}

// collectEntries walks root and returns its regular files, and symlinks
// resolving to regular files, named relative to base and sorted by name.
// skip is never collected.
func collectEntries(ctx context.Context, root, base, skip string) ([]archiveEntry, error) {
	var (
		mu      sync.Mutex
		entries []archiveEntry
	)

	conf := fastwalk.Config{Follow: false}
	err := fastwalk.Walk(&conf, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if p == skip {
			return nil
		}

		var info fs.FileInfo
		switch {
		case d.Type().IsRegular():
			if info, err = d.Info(); err != nil {
				return err
			}
		case d.Type()&fs.ModeSymlink != 0:
			// dangling links and links to directories are skipped
			target, err := os.Stat(p)
			if err != nil || !target.Mode().IsRegular() {
				return nil
			}
			info = target
		default:
			return nil
		}
		rel, err := filepath.Rel(base, p)
		if err != nil {
			return err
		}

		mu.Lock()
		entries = append(entries, archiveEntry{path: p, name: filepath.ToSlash(rel), info: info})
		mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	slices.SortFunc(entries, func(a, b archiveEntry) int {
		return strings.Compare(a.name, b.name)
	})
	return entries, nil
}

func (o *Ops) writeArchive(ctx context.Context, output string, format Format, entries []archiveEntry) (err error) {
	out, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("create archive: %w", err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close archive: %w", cerr)
		}
	}()

	switch format {
	case FormatZip:
		return o.writeZip(ctx, out, entries)
	case FormatTarGz:
		gz := gzip.NewWriter(out)
		if err := o.writeTar(ctx, gz, entries); err != nil {
			gz.Close()
			return err
		}
		return gz.Close()
	case FormatTarZst:
		zw, err := zstd.NewWriter(out)
		if err != nil {
			return fmt.Errorf("zstd writer: %w", err)
		}
		if err := o.writeTar(ctx, zw, entries); err != nil {
			zw.Close()
			return err
		}
		return zw.Close()
	default:
		return fmt.Errorf("%w: %v", ErrUnsupportedFormat, format)
	}
}

func (o *Ops) writeZip(ctx context.Context, w io.Writer, entries []archiveEntry) error {
	zw := zip.NewWriter(w)

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			zw.Close()
			return err
		}

		header, err := zip.FileInfoHeader(entry.info)
		if err != nil {
			zw.Close()
			return fmt.Errorf("header for %s: %w", entry.path, err)
		}
		header.Name = entry.name
		header.Method = zip.Deflate

		fw, err := zw.CreateHeader(header)
		if err != nil {
			zw.Close()
			return fmt.Errorf("add %s: %w", entry.name, err)
		}
		if err := copyInto(fw, entry.path); err != nil {
			zw.Close()
			return err
		}
		o.logger().Debug("archived", zap.String("entry", entry.name))
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("finish zip: %w", err)
	}
	return nil
}

func (o *Ops) writeTar(ctx context.Context, w io.Writer, entries []archiveEntry) error {
	tw := tar.NewWriter(w)

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			tw.Close()
			return err
		}

		header, err := tar.FileInfoHeader(entry.info, "")
		if err != nil {
			tw.Close()
			return fmt.Errorf("header for %s: %w", entry.path, err)
		}
		header.Name = entry.name

		if err := tw.WriteHeader(header); err != nil {
			tw.Close()
			return fmt.Errorf("add %s: %w", entry.name, err)
		}
		if err := copyInto(tw, entry.path); err != nil {
			tw.Close()
			return err
		}
		o.logger().Debug("archived", zap.String("entry", entry.name))
	}

	if err := tw.Close(); err != nil {
		return fmt.Errorf("finish tar: %w", err)
	}
	return nil
}

// readTar calls fn for every header of a compressed tar archive.
func readTar(archivePath string, format Format, fn func(*tar.Header, io.Reader) error) error {
	file, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("open %s: %w", archivePath, err)
	}
	defer file.Close()

	var r io.Reader
	switch format {
	case FormatTarGz:
		gz, err := gzip.NewReader(file)
		if err != nil {
			return fmt.Errorf("gzip %s: %w", archivePath, err)
		}
		defer gz.Close()
		r = gz
	case FormatTarZst:
		zr, err := zstd.NewReader(file)
		if err != nil {
			return fmt.Errorf("zstd %s: %w", archivePath, err)
		}
		defer zr.Close()
		r = zr
	default:
		return fmt.Errorf("%w: %v", ErrUnsupportedFormat, format)
	}

	tr := tar.NewReader(r)
	for {
		header, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read %s: %w", archivePath, err)
		}
		if err := fn(header, tr); err != nil {
			return err
		}
	}
}

// within reports whether path lies below dir. Both must be absolute.
func within(dir, path string) bool {
	return strings.HasPrefix(path, dir+string(os.PathSeparator))
}

// safeJoin joins an archive entry name onto root, rejecting names that
// would resolve outside root.
func safeJoin(root, name string) (string, error) {
	target := filepath.Join(root, filepath.FromSlash(name))
	if !within(root, target) {
		return "", fmt.Errorf("%w: %s", ErrUnsafeEntry, name)
	}
	return target, nil
}

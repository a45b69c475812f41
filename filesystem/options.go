package filesystem

import (
	"fmt"
	"strings"
)

// Format selects the container written by the archive operations.
type Format int

const (
	// FormatZip writes a deflate-compressed ZIP archive.
	FormatZip Format = iota
	// FormatTarGz writes a gzip-compressed TAR archive.
	FormatTarGz
	// FormatTarZst writes a zstd-compressed TAR archive.
	FormatTarZst
)

// String returns the name accepted by ParseFormat.
func (f Format) String() string {
	switch f {
	case FormatZip:
		return "zip"
	case FormatTarGz:
		return "tar.gz"
	case FormatTarZst:
		return "tar.zst"
	default:
		return "unknown"
	}
}

// Extension returns the file name suffix for archives of this format.
func (f Format) Extension() string {
	return "." + f.String()
}

// ParseFormat parses a format name such as "zip", "tar.gz" or "zstd".
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "", "zip":
		return FormatZip, nil
	case "tar.gz", "tgz", "gzip", "gz":
		return FormatTarGz, nil
	case "tar.zst", "zstd", "zst":
		return FormatTarZst, nil
	default:
		return FormatZip, fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
	}
}

// formatFromPath detects the archive format from a file name.
func formatFromPath(path string) (Format, error) {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".zip"):
		return FormatZip, nil
	case strings.HasSuffix(lower, ".tar.gz"), strings.HasSuffix(lower, ".tgz"):
		return FormatTarGz, nil
	case strings.HasSuffix(lower, ".tar.zst"), strings.HasSuffix(lower, ".tzst"):
		return FormatTarZst, nil
	default:
		return FormatZip, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

type archiveConfig struct {
	name         string
	destination  string
	flatten      bool
	deleteSource bool
	format       Format
}

// ArchiveOption configures ArchiveDirectory and ArchiveFiles.
type ArchiveOption func(*archiveConfig)

// WithName sets the archive base name, without extension.
// Defaults to the source directory's base name.
func WithName(name string) ArchiveOption {
	return func(c *archiveConfig) {
		c.name = name
	}
}

// WithDestination sets the directory the archive is written to.
// Defaults to the source directory's parent.
func WithDestination(dir string) ArchiveOption {
	return func(c *archiveConfig) {
		c.destination = dir
	}
}

// WithFlatten controls whether entries are stored relative to the source
// directory itself (true) or under a top-level folder named after it (false).
func WithFlatten(flatten bool) ArchiveOption {
	return func(c *archiveConfig) {
		c.flatten = flatten
	}
}

// WithDeleteSource removes the source tree once the archive is written.
func WithDeleteSource(remove bool) ArchiveOption {
	return func(c *archiveConfig) {
		c.deleteSource = remove
	}
}

// WithFormat selects the archive format. Defaults to FormatZip.
func WithFormat(format Format) ArchiveOption {
	return func(c *archiveConfig) {
		c.format = format
	}
}

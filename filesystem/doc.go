// Package filesystem provides everyday file and directory helpers.
//
// This package is organized into specialized modules:
//   - archives: Directory and file-set archives (ZIP, TAR with gzip/zstd)
//   - operations: Moving, renaming and copying files and directory trees
//   - search: Glob filtering and directory listings by name
//   - directory: Directory creation and pruning of old files
//   - metadata: Extensions, MIME types, sizes, base64 contents
//   - encoding: Text encoding detection and conversion to UTF-8
//
// All operations:
//   - Are synchronous and keep no state between calls
//   - Return ErrInvalidDirectory (wrapped in a *PathError) when a required
//     directory argument is missing or is not a directory
//   - Return underlying I/O errors wrapped with %w
//
// Operations are methods on Ops so a caller can attach a zap logger. The
// package-level functions use a no-op logger.
//
// Example Usage:
//
//	ops := filesystem.New(logger)
//	archive, err := ops.ArchiveDirectory(ctx, "reports", filesystem.WithFlatten(true))
//	moved, err := ops.MoveByExtension("inbox", "processed", ".csv")
package filesystem

package filesystem

import (
	"context"
	"time"
)

// ArchiveDirectory archives a directory without logging. See Ops.ArchiveDirectory.
func ArchiveDirectory(ctx context.Context, sourceDir string, opts ...ArchiveOption) (string, error) {
	return std.ArchiveDirectory(ctx, sourceDir, opts...)
}

// ArchiveFiles archives a set of files flattened. See Ops.ArchiveFiles.
func ArchiveFiles(ctx context.Context, destinationDir string, paths []string, archiveName string, opts ...ArchiveOption) (string, error) {
	return std.ArchiveFiles(ctx, destinationDir, paths, archiveName, opts...)
}

// ListArchive returns the entry names of an archive.
func ListArchive(archivePath string) ([]string, error) {
	return std.ListArchive(archivePath)
}

// ExtractArchive extracts an archive's regular files into destinationDir.
func ExtractArchive(ctx context.Context, archivePath, destinationDir string) (int, error) {
	return std.ExtractArchive(ctx, archivePath, destinationDir)
}

// MoveFile moves one regular file into destDir.
func MoveFile(src, destDir string) (string, error) {
	return std.MoveFile(src, destDir)
}

// MoveByExtension moves the files of srcDir ending with ext.
func MoveByExtension(srcDir, destDir, ext string) ([]string, error) {
	return std.MoveByExtension(srcDir, destDir, ext)
}

// MoveBySubstring moves the files of srcDir whose names contain substr.
func MoveBySubstring(srcDir, destDir, substr string, caseSensitive bool) ([]string, error) {
	return std.MoveBySubstring(srcDir, destDir, substr, caseSensitive)
}

// MoveMatchingGlob moves the files of srcDir matching a glob pattern.
func MoveMatchingGlob(srcDir, destDir, pattern string) ([]string, error) {
	return std.MoveMatchingGlob(srcDir, destDir, pattern)
}

// MoveDirectory moves srcDir under destParent.
func MoveDirectory(srcDir, destParent string) (string, error) {
	return std.MoveDirectory(srcDir, destParent)
}

// RenameFile renames a file in place, keeping its extension.
func RenameFile(path, newName string) (string, error) {
	return std.RenameFile(path, newName)
}

// CopyTree copies the directory src to dest.
func CopyTree(ctx context.Context, src, dest string) error {
	return std.CopyTree(ctx, src, dest)
}

// RemoveDirectory deletes dir recursively.
func RemoveDirectory(dir string) error {
	return std.RemoveDirectory(dir)
}

// DeleteOldFiles removes files under dir older than olderThan.
func DeleteOldFiles(dir string, olderThan time.Duration, ext string) ([]string, error) {
	return std.DeleteOldFiles(dir, olderThan, ext)
}

// ContentsAsUTF8 returns a text file's contents as UTF-8.
func ContentsAsUTF8(path string) ([]byte, error) {
	return std.ContentsAsUTF8(path)
}

// ConvertToUTF8 rewrites a text file as UTF-8 when it is not already.
func ConvertToUTF8(path string) (bool, error) {
	return std.ConvertToUTF8(path)
}

package filesystem

import (
	"errors"
	"os"

	"go.uber.org/zap"
)

// Errors returned by the filesystem operations. Callers match them with
// errors.Is.
var (
	ErrInvalidDirectory    = errors.New("not a valid directory")
	ErrInvalidPattern      = errors.New("invalid pattern")
	ErrNameCollision       = errors.New("entry name collision")
	ErrEmptyName           = errors.New("archive name required")
	ErrUnsupportedFormat   = errors.New("unsupported archive format")
	ErrUnsupportedEncoding = errors.New("unsupported text encoding")
	ErrBinaryContent       = errors.New("content is not text")
	ErrUnsafeEntry         = errors.New("archive entry escapes destination")
	ErrArchiveInSource     = errors.New("archive destination inside deleted source")
)

// PathError records a failed operation on a path.
type PathError struct {
	Op   string
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return e.Op + " " + e.Path + ": " + e.Err.Error()
}

func (e *PathError) Unwrap() error {
	return e.Err
}

func invalidDir(op, path string) error {
	return &PathError{Op: op, Path: path, Err: ErrInvalidDirectory}
}

// Ops runs filesystem operations and reports them through Log.
type Ops struct {
	Log *zap.Logger
}

// New creates Ops logging to log. A nil logger disables logging.
func New(log *zap.Logger) *Ops {
	if log == nil {
		log = zap.NewNop()
	}
	return &Ops{Log: log}
}

var std = New(nil)

func (o *Ops) logger() *zap.Logger {
	if o == nil || o.Log == nil {
		return zap.NewNop()
	}
	return o.Log
}

// isDir reports whether path exists and is a directory, following symlinks.
func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// isRegular reports whether path exists and is a regular file, following symlinks.
func isRegular(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/karanveersp/utilfuncs/filesystem"
	"github.com/karanveersp/utilfuncs/formats"
	"github.com/karanveersp/utilfuncs/utils"
	"go.uber.org/zap"
)

// archiveFormat resolves the -format flag, falling back to the configured
// format.
func (a *app) archiveFormat(format string) (filesystem.ArchiveOption, error) {
	f, err := a.cfg.ArchiveFormat()
	if format != "" {
		f, err = filesystem.ParseFormat(format)
	}
	if err != nil {
		return nil, err
	}
	return filesystem.WithFormat(f), nil
}

func runZipDir(ctx context.Context, a *app, args []string) error {
	fs := newFlags("zipdir")
	name := fs.String("name", "", "Archive name without extension")
	dest := fs.String("dest", "", "Directory to write the archive to")
	format := fs.String("format", "", "zip, tar.gz or tar.zst")
	flatten := fs.Bool("flatten", false, "Store entries without the top-level folder")
	remove := fs.Bool("delete", false, "Delete the directory after archiving")
	stamp := fs.Bool("stamp", false, "Append a timestamp to the archive name")
	if err := parseFlags(fs, args, 1); err != nil {
		return err
	}

	dir := fs.Arg(0)
	withFormat, err := a.archiveFormat(*format)
	if err != nil {
		return err
	}
	opts := []filesystem.ArchiveOption{withFormat, filesystem.WithFlatten(*flatten)}
	if *stamp && *name == "" {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return err
		}
		*name = filepath.Base(abs)
	}
	if *stamp {
		*name += "_" + utils.Now(false)
	}
	if *name != "" {
		opts = append(opts, filesystem.WithName(*name))
	}
	if *dest != "" {
		opts = append(opts, filesystem.WithDestination(*dest))
	}

	if *remove {
		if err := a.checkRemovable(dir, *dest); err != nil {
			return err
		}
	}

	// The archive write is never retried once removal has started.
	path, err := retry(ctx, a, func() (string, error) {
		return a.ops.ArchiveDirectory(ctx, dir, opts...)
	})
	if err != nil {
		return err
	}
	if *remove {
		_, err := retry(ctx, a, func() (struct{}, error) {
			return struct{}{}, removeDirectory(a.ops, dir)
		})
		if err != nil {
			return fmt.Errorf("archive %s written: %w", path, err)
		}
	}
	a.println(path)
	return nil
}

// removeDirectory deletes a zipdir -delete source.
var removeDirectory = (*filesystem.Ops).RemoveDirectory

// checkRemovable rejects deleting dir when the archive would be written
// inside it.
func (a *app) checkRemovable(dir, dest string) error {
	if dest == "" {
		return nil
	}
	root, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	out, err := filepath.Abs(dest)
	if err != nil {
		return err
	}
	if out == root || strings.HasPrefix(out, root+string(filepath.Separator)) {
		return fmt.Errorf("%w: %s is inside %s", filesystem.ErrArchiveInSource, out, root)
	}
	return nil
}

func runZipFiles(ctx context.Context, a *app, args []string) error {
	fs := newFlags("zipfiles")
	dest := fs.String("dest", "", "Directory to write the archive to")
	name := fs.String("name", "", "Archive name without extension")
	format := fs.String("format", "", "zip, tar.gz or tar.zst")
	stamp := fs.Bool("stamp", false, "Append a timestamp to the archive name")
	if err := parseFlags(fs, args, 1); err != nil {
		return err
	}
	if *dest == "" || *name == "" {
		return fmt.Errorf("%w: -dest and -name are required", errUsage)
	}

	archiveName := *name
	if *stamp {
		archiveName += "_" + utils.Now(false)
	}
	withFormat, err := a.archiveFormat(*format)
	if err != nil {
		return err
	}

	path, err := retry(ctx, a, func() (string, error) {
		return a.ops.ArchiveFiles(ctx, *dest, fs.Args(), archiveName, withFormat)
	})
	if err != nil {
		return err
	}
	a.println(path)
	return nil
}

func runList(_ context.Context, a *app, args []string) error {
	fs := newFlags("list")
	if err := parseFlags(fs, args, 1); err != nil {
		return err
	}

	entries, err := a.ops.ListArchive(fs.Arg(0))
	if err != nil {
		return err
	}
	a.println(entries...)
	return nil
}

func runExtract(ctx context.Context, a *app, args []string) error {
	fs := newFlags("extract")
	if err := parseFlags(fs, args, 2); err != nil {
		return err
	}

	n, err := a.ops.ExtractArchive(ctx, fs.Arg(0), fs.Arg(1))
	if err != nil {
		return err
	}
	a.println(fmt.Sprintf("extracted %d files", n))
	return nil
}

func runMove(ctx context.Context, a *app, args []string) error {
	fs := newFlags("move")
	ext := fs.String("ext", "", "Move files ending with this extension")
	contains := fs.String("contains", "", "Move files whose names contain this text")
	caseSensitive := fs.Bool("case", false, "Match -contains case-sensitively")
	glob := fs.String("glob", "", "Move files matching this glob pattern")
	if err := parseFlags(fs, args, 2); err != nil {
		return err
	}
	src, dest := fs.Arg(0), fs.Arg(1)

	var moved []string
	var err error
	switch {
	case *glob != "" && *contains != "":
		return fmt.Errorf("%w: -glob and -contains are exclusive", errUsage)
	case *glob != "":
		moved, err = retry(ctx, a, func() ([]string, error) {
			return a.ops.MoveMatchingGlob(src, dest, *glob)
		})
	case *contains != "":
		moved, err = retry(ctx, a, func() ([]string, error) {
			return a.ops.MoveBySubstring(src, dest, *contains, *caseSensitive)
		})
	default:
		moved, err = retry(ctx, a, func() ([]string, error) {
			return a.ops.MoveByExtension(src, dest, *ext)
		})
	}
	if err != nil {
		return err
	}
	a.println(moved...)
	return nil
}

func runMoveDir(ctx context.Context, a *app, args []string) error {
	fs := newFlags("movedir")
	if err := parseFlags(fs, args, 2); err != nil {
		return err
	}

	path, err := retry(ctx, a, func() (string, error) {
		return a.ops.MoveDirectory(fs.Arg(0), fs.Arg(1))
	})
	if err != nil {
		return err
	}
	if path != "" {
		a.println(path)
	}
	return nil
}

func runGlob(_ context.Context, a *app, args []string) error {
	fs := newFlags("glob")
	if err := parseFlags(fs, args, 1); err != nil {
		return err
	}

	matched, err := filesystem.FilterByGlob(fs.Args()[1:], fs.Arg(0))
	if err != nil {
		return err
	}
	a.println(matched...)
	return nil
}

func runUTF8(_ context.Context, a *app, args []string) error {
	fs := newFlags("utf8")
	write := fs.Bool("write", false, "Rewrite the files in place")
	if err := parseFlags(fs, args, 1); err != nil {
		return err
	}

	for _, path := range fs.Args() {
		if !*write {
			data, err := a.ops.ContentsAsUTF8(path)
			if err != nil {
				return err
			}
			if _, err := a.stdout.Write(data); err != nil {
				return err
			}
			continue
		}

		changed, err := a.ops.ConvertToUTF8(path)
		if err != nil {
			return err
		}
		if changed {
			a.println("converted " + path)
		}
	}
	return nil
}

func runPrune(_ context.Context, a *app, args []string) error {
	fs := newFlags("prune")
	age := fs.Duration("age", 0, "Delete files modified longer ago than this")
	ext := fs.String("ext", "", "Only consider names containing this text")
	if err := parseFlags(fs, args, 1); err != nil {
		return err
	}
	if *age <= 0 {
		return fmt.Errorf("%w: -age must be positive", errUsage)
	}

	deleted, err := a.ops.DeleteOldFiles(fs.Arg(0), *age, *ext)
	if err != nil {
		return err
	}
	a.println(deleted...)
	return nil
}

func runSize(ctx context.Context, a *app, args []string) error {
	fs := newFlags("size")
	if err := parseFlags(fs, args, 1); err != nil {
		return err
	}

	start := time.Now()
	size, files, err := filesystem.DirSize(ctx, fs.Arg(0))
	if err != nil {
		return err
	}
	a.log.Debug("sized directory", zap.Duration("took", time.Since(start)))
	a.println(fmt.Sprintf("%s\t%d files", filesystem.HumanSize(size), files))
	return nil
}

func runCSVToJSON(_ context.Context, a *app, args []string) error {
	fs := newFlags("csv2json")
	noHeader := fs.Bool("no-header", false, "Key fields by position instead of the first row")
	if err := parseFlags(fs, args, 2); err != nil {
		return err
	}
	delim, err := a.cfg.Delimiter()
	if err != nil {
		return err
	}

	n, err := formats.CSVToJSON(fs.Arg(0), fs.Arg(1), !*noHeader, formats.WithDelimiter(delim))
	if err != nil {
		return err
	}
	a.log.Info("converted csv", zap.String("input", fs.Arg(0)), zap.String("output", fs.Arg(1)), zap.Int("rows", n))
	return nil
}

func runCSVGrep(_ context.Context, a *app, args []string) error {
	fs := newFlags("csvgrep")
	col := fs.String("col", "", "Zero-based column index")
	value := fs.String("value", "", "Value the column must equal")
	skipHeader := fs.Bool("skip-header", false, "Ignore the first row")
	if err := parseFlags(fs, args, 1); err != nil {
		return err
	}
	index, err := strconv.Atoi(*col)
	if err != nil {
		return fmt.Errorf("%w: -col: %v", errUsage, err)
	}
	delim, err := a.cfg.Delimiter()
	if err != nil {
		return err
	}

	opts := []formats.Option{formats.WithDelimiter(delim)}
	if *skipHeader {
		opts = append(opts, formats.WithSkipHeader())
	}
	rows, err := formats.RowsByColumn(fs.Arg(0), index, *value, opts...)
	if err != nil {
		return err
	}
	for _, row := range rows {
		a.println(strings.Join(row, string(delim)))
	}
	return nil
}

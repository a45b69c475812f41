package formats

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
)

var (
	ErrColumnOutOfRange = errors.New("column index out of range")
	ErrInvalidDelimiter = errors.New("invalid delimiter")
)

// EachRow calls fn with every row of the file at path, in file order.
// Returning an error from fn stops the iteration and EachRow returns it.
// Rows may have different numbers of fields.
func EachRow(path string, fn func(row []string) error, opts ...Option) error {
	cfg := newConfig(opts)

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	reader := newReader(f, cfg)
	skip := cfg.skipHeader
	for {
		row, err := reader.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		if skip {
			skip = false
			continue
		}
		if err := fn(row); err != nil {
			return err
		}
	}
}

// ReadRows returns every row of the file at path.
func ReadRows(path string, opts ...Option) ([][]string, error) {
	var rows [][]string
	err := EachRow(path, func(row []string) error {
		rows = append(rows, row)
		return nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// RowsByColumn returns the rows whose field at index col equals value.
// A row with no field at col fails with ErrColumnOutOfRange, so a header
// row should be skipped with WithSkipHeader when it is shorter than the data.
func RowsByColumn(path string, col int, value string, opts ...Option) ([][]string, error) {
	if col < 0 {
		return nil, fmt.Errorf("%w: %d", ErrColumnOutOfRange, col)
	}

	var rows [][]string
	line := 0
	err := EachRow(path, func(row []string) error {
		line++
		if col >= len(row) {
			return fmt.Errorf("%s: row %d has %d fields: %w", path, line, len(row), ErrColumnOutOfRange)
		}
		if row[col] == value {
			rows = append(rows, row)
		}
		return nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// WriteRows writes rows to path, creating the file or truncating it.
func WriteRows(path string, rows [][]string, opts ...Option) error {
	return writeRows(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, rows, newConfig(opts))
}

// AppendRow appends one row to the existing file at path.
func AppendRow(path string, row []string, opts ...Option) error {
	return AppendRows(path, [][]string{row}, opts...)
}

// AppendRows appends rows to the existing file at path. A missing file is an
// error wrapping fs.ErrNotExist.
func AppendRows(path string, rows [][]string, opts ...Option) error {
	return writeRows(path, os.O_WRONLY|os.O_APPEND, rows, newConfig(opts))
}

func writeRows(path string, flag int, rows [][]string, cfg config) (err error) {
	f, err := os.OpenFile(path, flag, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()

	w := csv.NewWriter(f)
	w.Comma = cfg.delimiter
	w.UseCRLF = cfg.crlf
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func newReader(r io.Reader, cfg config) *csv.Reader {
	reader := csv.NewReader(r)
	reader.Comma = cfg.delimiter
	reader.FieldsPerRecord = -1
	return reader
}

package formats

import (
	"fmt"
	"os"

	"github.com/bytedance/sonic"
)

// CSVToJSON converts the delimited file at in to a JSON array written to out.
//
// With hasHeader the first row supplies the keys and every following row
// becomes an object; fields beyond the header are keyed col<N> and missing
// fields are omitted. Without a header every row becomes an object keyed
// col0, col1, and so on. It returns the number of objects written.
func CSVToJSON(in, out string, hasHeader bool, opts ...Option) (int, error) {
	rows, err := ReadRows(in, opts...)
	if err != nil {
		return 0, err
	}

	var header []string
	if hasHeader && len(rows) > 0 {
		header, rows = rows[0], rows[1:]
	}

	objects := make([]map[string]string, 0, len(rows))
	for _, row := range rows {
		obj := make(map[string]string, len(row))
		for i, field := range row {
			obj[columnKey(header, i)] = field
		}
		objects = append(objects, obj)
	}

	data, err := sonic.ConfigStd.MarshalIndent(objects, "", "  ")
	if err != nil {
		return 0, fmt.Errorf("encode %s: %w", in, err)
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return 0, fmt.Errorf("write %s: %w", out, err)
	}
	return len(objects), nil
}

func columnKey(header []string, i int) string {
	if i < len(header) && header[i] != "" {
		return header[i]
	}
	return fmt.Sprintf("col%d", i)
}

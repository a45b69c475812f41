// Package formats reads and writes delimited text files.
//
// Rows are plain []string values. Reading streams the file row by row
// (EachRow) or collects it (ReadRows); writing truncates (WriteRows) or
// appends to an existing file (AppendRow, AppendRows). CSVToJSON converts a
// file into a JSON array.
//
// Files are read and written as UTF-8. Use filesystem.ConvertToUTF8 first
// for files in other encodings.
//
// Example:
//
//	rows, err := formats.RowsByColumn("orders.csv", 2, "shipped", formats.WithSkipHeader())
//	if err != nil {
//		return err
//	}
package formats

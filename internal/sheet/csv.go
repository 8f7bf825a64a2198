package sheet

import (
	"encoding/csv"
	"io"
	"os"

	"github.com/rotisserie/eris"
)

// CSVOptions configures the CSV reader.
type CSVOptions struct {
	Delimiter rune // default ','
	SkipRows  int  // banner rows to skip before the header row
}

// ReadCSV reads CSV rows from r, starting at the header row.
func ReadCSV(r io.Reader, opts CSVOptions) ([][]string, error) {
	reader := csv.NewReader(r)
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	reader.FieldsPerRecord = -1 // allow variable fields

	var rows [][]string
	for i := 0; ; i++ {
		record, err := reader.Read()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, eris.Wrap(err, "csv: read row")
		}
		if i < opts.SkipRows {
			continue
		}
		rows = append(rows, record)
	}
}

// ReadCSVFile reads a CSV file from disk.
func ReadCSVFile(path string, opts CSVOptions) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "csv: open file")
	}
	defer f.Close() //nolint:errcheck

	return ReadCSV(f, opts)
}

// WriteCSV writes a header row plus data rows to w.
func WriteCSV(w io.Writer, header []string, rows [][]string) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(header); err != nil {
		return eris.Wrap(err, "csv: write header")
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return eris.Wrap(err, "csv: write row")
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return eris.Wrap(err, "csv: flush")
	}
	return nil
}

// WriteCSVFile writes a CSV file to disk.
func WriteCSVFile(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "csv: create file")
	}

	if err := WriteCSV(f, header, rows); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return eris.Wrap(err, "csv: close file")
	}
	return nil
}

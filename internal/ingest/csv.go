package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// ParseCSV reads one tabular file. The first text line is the header; empty
// lines are skipped. Malformed rows are logged and dropped, never fatal
// (RowParseWarning semantics). An explicit hint pins the type; otherwise the
// header signature decides, and an undetectable file is an error.
func ParseCSV(name string, r io.Reader, hint FileType) (*ParsedFile, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // ragged rows are handled per-row below
	cr.TrimLeadingSpace = true

	var header []string
	var rows []RawRow

	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			if header == nil {
				return nil, fmt.Errorf("parse %s: %w", name, err)
			}
			slog.Warn("dropping malformed row", "file", name, "err", err)
			continue
		}
		if isEmptyRecord(record) {
			continue
		}
		if header == nil {
			header = make([]string, len(record))
			for i, h := range record {
				header[i] = CanonicalColumn(h)
			}
			continue
		}
		if len(record) < len(header) {
			slog.Warn("dropping short row", "file", name, "fields", len(record), "want", len(header))
			continue
		}
		row := make(RawRow, len(header))
		for i, col := range header {
			row[col] = record[i]
		}
		rows = append(rows, row)
	}

	if header == nil {
		return nil, fmt.Errorf("parse %s: no header line", name)
	}

	detected := DetectType(header)
	typ := hint
	switch {
	case hint == "" || hint == FileUnknown:
		if detected == FileUnknown {
			return nil, fmt.Errorf("%s: %w", name, ErrUnknownFileType)
		}
		typ = detected
	case detected != FileUnknown && detected != hint:
		return nil, &TypeMismatchError{File: name, Hint: hint, Detected: detected}
	}

	return &ParsedFile{Name: name, Type: typ, Rows: rows}, nil
}

func isEmptyRecord(record []string) bool {
	for _, c := range record {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

package ingest

import (
	"errors"
	"fmt"
	"strings"
)

// FileType identifies which dataset a file carries.
type FileType string

const (
	FileTransactions FileType = "transactions"
	FileTrading      FileType = "trading"
	FileIndices      FileType = "indices"
	FileSecurities   FileType = "securities"
	FileFlow         FileType = "flow"
	FileUnknown      FileType = "unknown"
)

// RawRow is one parsed source line: canonical column name -> raw cell text.
// Rows are ephemeral; the normalizer consumes them.
type RawRow map[string]string

// Field returns the first non-empty cell among the given column aliases.
func (r RawRow) Field(names ...string) string {
	for _, n := range names {
		if v, ok := r[n]; ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// ParsedFile is the output of ingesting one file.
type ParsedFile struct {
	Name string
	Type FileType
	Rows []RawRow
}

// ErrUnknownFileType is returned when a file's header matches none of the
// detection heuristics and no explicit hint was given. Fatal for that file
// only, never for the batch.
var ErrUnknownFileType = errors.New("file type could not be detected")

// TypeMismatchError reports that an explicit type hint disagreed with the
// detected content type.
type TypeMismatchError struct {
	File     string
	Hint     FileType
	Detected FileType
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("file %q: hinted type %s but content looks like %s", e.File, e.Hint, e.Detected)
}

// MissingSourcesError reports required dataset types that produced no rows
// after the whole batch was processed. Fatal to the overall load.
type MissingSourcesError struct {
	Missing []FileType
}

func (e *MissingSourcesError) Error() string {
	names := make([]string, len(e.Missing))
	for i, t := range e.Missing {
		names[i] = string(t)
	}
	return "required sources produced no rows: " + strings.Join(names, ", ")
}

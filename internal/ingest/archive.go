package ingest

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"golang.org/x/sync/errgroup"
)

// Batch holds the outcome of processing an archive: at most one parsed file
// per dataset type. A type that failed to parse is simply absent.
type Batch struct {
	Files map[FileType]*ParsedFile
}

// Rows returns the raw rows for a dataset type, nil when absent.
func (b *Batch) Rows(t FileType) []RawRow {
	if b == nil || b.Files == nil {
		return nil
	}
	if f, ok := b.Files[t]; ok {
		return f.Rows
	}
	return nil
}

// MissingRequired lists required types that produced no rows.
func (b *Batch) MissingRequired() []FileType {
	var missing []FileType
	for _, t := range RequiredTypes() {
		if len(b.Rows(t)) == 0 {
			missing = append(missing, t)
		}
	}
	return missing
}

type archiveEntry struct {
	rule FileRule
	file *zip.File
}

// ProcessArchive decodes a zip archive of CSV files into a Batch.
//
// Entries are matched by filename rule; unmatched entries are ignored.
// Matched entries are decompressed concurrently (read-only work), then parsed
// and merged serially in ascending rule priority, which bounds peak memory and
// guarantees required datasets land before optional ones. Per-file parse
// failures are logged and leave that type unset; they never abort the batch.
//
// The returned error is a *MissingSourcesError when any required type ended
// up empty. The Batch is returned alongside it so callers can still inspect
// what did load.
func ProcessArchive(ctx context.Context, data []byte, progress ProgressFunc) (*Batch, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}

	var entries []archiveEntry
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		rule, ok := MatchFileName(f.Name)
		if !ok {
			continue
		}
		entries = append(entries, archiveEntry{rule: rule, file: f})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].rule.Priority < entries[j].rule.Priority
	})

	report(progress, PhaseExtract, 0, "")

	// Decompress concurrently; this touches no shared state.
	contents := make([][]byte, len(entries))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, e := range entries {
		i, e := i, e
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rc, err := e.file.Open()
			if err != nil {
				return fmt.Errorf("extract %s: %w", e.file.Name, err)
			}
			defer rc.Close()
			raw, err := io.ReadAll(rc)
			if err != nil {
				return fmt.Errorf("extract %s: %w", e.file.Name, err)
			}
			contents[i] = raw
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	report(progress, PhaseExtract, 100, "")

	// Parse and merge serially, priority order.
	batch := &Batch{Files: make(map[FileType]*ParsedFile)}
	for i, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pct := float64(i) / float64(len(entries)) * 100
		report(progress, PhaseParse, pct, e.file.Name)

		pf, err := ParseCSV(e.file.Name, bytes.NewReader(contents[i]), e.rule.Type)
		if err != nil {
			slog.Warn("skipping file", "file", e.file.Name, "err", err)
			continue
		}
		batch.Files[pf.Type] = pf
	}
	report(progress, PhaseParse, 100, "")

	if missing := batch.MissingRequired(); len(missing) > 0 {
		return batch, &MissingSourcesError{Missing: missing}
	}
	return batch, nil
}

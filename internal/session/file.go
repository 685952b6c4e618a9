package session

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"facoder/internal/model"
)

// exportHeader is the resumable-session contract: any file carrying these
// columns can be reloaded. coded_at is carried when present but is not
// required for resume.
var exportHeader = []string{
	"coding_id", "original_index", "coder_name", "classification",
	"claude_credit_channel", "claude_credit_channel_category",
	"quotation", "notes", "coded_at",
}

// WriteExport serializes the full record collection, including unset rows,
// as CSV. The output is a pure function of the records: exporting twice
// without intervening changes yields identical bytes.
func WriteExport(w io.Writer, records []model.CodingRecord) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(exportHeader); err != nil {
		return fmt.Errorf("failed to write export header: %w", err)
	}
	for _, rec := range records {
		classification := ""
		if rec.Classification != nil {
			classification = rec.Classification.String()
		}
		codedAt := ""
		if !rec.CodedAt.IsZero() {
			codedAt = rec.CodedAt.UTC().Format(time.RFC3339)
		}
		row := []string{
			rec.CodingID,
			strconv.Itoa(rec.OriginalIndex),
			rec.CoderName,
			classification,
			rec.Category.NumericString(),
			rec.Category.String(),
			rec.Quotation,
			rec.Notes,
			codedAt,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write export row %s: %w", rec.CodingID, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush export: %w", err)
	}
	return nil
}

// WriteExportFile writes an export CSV atomically, creating the directory
// when needed.
func WriteExportFile(path string, records []model.CodingRecord) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}
	tmpFile, err := os.CreateTemp(dir, filepath.Base(path)+"-*")
	if err != nil {
		return fmt.Errorf("failed to create temp export: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if err := WriteExport(tmpFile, records); err != nil {
		return err
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp export: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// ReadExportFile reads an export CSV from disk.
func ReadExportFile(path string) ([]model.CodingRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open export: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only export.
			_ = cerr
		}
	}()
	return ReadExport(file)
}

// ReadExport parses a previously exported table back into coding records.
// An empty classification cell means the row was never coded.
func ReadExport(r io.Reader) ([]model.CodingRecord, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: file is empty", ErrMalformedExport)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read export header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range exportHeader[:len(exportHeader)-1] {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrMalformedExport, name)
		}
	}
	codedAtCol, hasCodedAt := cols["coded_at"]

	var records []model.CodingRecord
	for row := 0; ; row++ {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read export row %d: %w", row+1, err)
		}
		originalIndex, err := strconv.Atoi(strings.TrimSpace(fields[cols["original_index"]]))
		if err != nil {
			return nil, fmt.Errorf("%w: row %d has bad original_index", ErrMalformedExport, row+1)
		}
		category, err := model.ParseCategory(fields[cols["claude_credit_channel_category"]])
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ErrMalformedExport, row+1, err)
		}
		numeric, err := model.ParseNumericString(fields[cols["claude_credit_channel"]])
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ErrMalformedExport, row+1, err)
		}
		if numeric != category {
			return nil, fmt.Errorf("%w: row %d numeric code disagrees with category %q",
				ErrMalformedExport, row+1, category)
		}

		rec := model.CodingRecord{
			CodingID:      strings.TrimSpace(fields[cols["coding_id"]]),
			OriginalIndex: originalIndex,
			CoderName:     fields[cols["coder_name"]],
			Notes:         fields[cols["notes"]],
			Quotation:     fields[cols["quotation"]],
			Category:      category,
		}
		if cell := strings.TrimSpace(fields[cols["classification"]]); cell != "" {
			classification, err := model.ParseCategory(cell)
			if err != nil {
				return nil, fmt.Errorf("%w: row %d: %v", ErrMalformedExport, row+1, err)
			}
			rec.Classification = &classification
		}
		if hasCodedAt {
			if cell := strings.TrimSpace(fields[codedAtCol]); cell != "" {
				codedAt, err := time.Parse(time.RFC3339, cell)
				if err != nil {
					return nil, fmt.Errorf("%w: row %d has bad coded_at", ErrMalformedExport, row+1)
				}
				rec.CodedAt = codedAt
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

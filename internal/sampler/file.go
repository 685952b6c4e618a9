package sampler

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"facoder/internal/model"
)

var sampleHeader = []string{"coding_id", "original_index", "quotation", "claude_category", "claude_numeric"}

// WriteSample serializes a sample as CSV.
func WriteSample(w io.Writer, sample []model.SampleRow) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(sampleHeader); err != nil {
		return fmt.Errorf("failed to write sample header: %w", err)
	}
	for _, row := range sample {
		record := []string{
			row.CodingID,
			strconv.Itoa(row.OriginalIndex),
			row.Quotation,
			row.Category.String(),
			row.Category.NumericString(),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write sample row %s: %w", row.CodingID, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush sample: %w", err)
	}
	return nil
}

// ReadSample parses a sample CSV produced by WriteSample.
func ReadSample(r io.Reader) ([]model.SampleRow, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("sample file is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read sample header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range sampleHeader {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("sample file is missing column %q", name)
		}
	}

	var sample []model.SampleRow
	for row := 0; ; row++ {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read sample row %d: %w", row+1, err)
		}
		originalIndex, err := strconv.Atoi(strings.TrimSpace(fields[cols["original_index"]]))
		if err != nil {
			return nil, fmt.Errorf("sample row %d: bad original_index: %w", row+1, err)
		}
		category, err := model.ParseCategory(fields[cols["claude_category"]])
		if err != nil {
			return nil, fmt.Errorf("sample row %d: %w", row+1, err)
		}
		numeric, err := model.ParseNumericString(fields[cols["claude_numeric"]])
		if err != nil {
			return nil, fmt.Errorf("sample row %d: %w", row+1, err)
		}
		if numeric != category {
			return nil, fmt.Errorf("sample row %d: numeric code disagrees with category %q", row+1, category)
		}
		sample = append(sample, model.SampleRow{
			CodingID: strings.TrimSpace(fields[cols["coding_id"]]),
			ArgumentRecord: model.ArgumentRecord{
				OriginalIndex: originalIndex,
				Quotation:     fields[cols["quotation"]],
				Category:      category,
			},
		})
	}
	return sample, nil
}

// statsFile mirrors model.SampleStats for TOML encoding.
type statsFile struct {
	Seed        int64           `toml:"seed"`
	PerCategory int             `toml:"per-category"`
	Categories  []statsCategory `toml:"category"`
}

type statsCategory struct {
	Name      string `toml:"name"`
	Available int    `toml:"available"`
	Sampled   int    `toml:"sampled"`
}

// WriteStats serializes sampling statistics as TOML.
func WriteStats(w io.Writer, stats model.SampleStats) error {
	out := statsFile{Seed: stats.Seed, PerCategory: stats.PerCategory}
	for _, cs := range stats.Categories {
		out.Categories = append(out.Categories, statsCategory{
			Name:      cs.Category.String(),
			Available: cs.Available,
			Sampled:   cs.Sampled,
		})
	}
	if err := toml.NewEncoder(w).Encode(out); err != nil {
		return fmt.Errorf("failed to encode stats: %w", err)
	}
	return nil
}

// WriteSampleFile writes a sample CSV atomically.
func WriteSampleFile(path string, sample []model.SampleRow) error {
	return writeFileAtomic(path, func(w io.Writer) error {
		return WriteSample(w, sample)
	})
}

// WriteStatsFile writes a stats TOML file atomically.
func WriteStatsFile(path string, stats model.SampleStats) error {
	return writeFileAtomic(path, func(w io.Writer) error {
		return WriteStats(w, stats)
	})
}

// writeFileAtomic writes via a temp file in the target directory and renames
// into place, so a sample or stats file is never observed half-written.
func writeFileAtomic(path string, write func(io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	tmpFile, err := os.CreateTemp(dir, filepath.Base(path)+"-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if err := write(tmpFile); err != nil {
		return err
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

package corpus

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"facoder/internal/model"
)

// Column names recognized in corpus CSV snapshots. The category column is
// required; the numeric column and original_index are optional.
const (
	colQuotation     = "quotation"
	colOriginalIndex = "original_index"
	colCategory      = "claude_credit_channel_category"
	colCategoryAlias = "claude_category"
	colNumeric       = "claude_credit_channel"
	colNumericAlias  = "claude_numeric"
)

// ReadCSV reads argument records from a corpus CSV snapshot. Rows keep
// their input order; when original_index is absent the row ordinal is
// used. Rows where the numeric encoding disagrees with the category label
// are rejected.
func ReadCSV(r io.Reader) ([]model.ArgumentRecord, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("corpus is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus header: %w", err)
	}
	cols := indexColumns(header)

	quoteCol, ok := cols[colQuotation]
	if !ok {
		return nil, fmt.Errorf("corpus is missing column %q", colQuotation)
	}
	catCol, ok := cols[colCategory]
	if !ok {
		catCol, ok = cols[colCategoryAlias]
	}
	if !ok {
		return nil, fmt.Errorf("corpus is missing column %q", colCategory)
	}
	numCol, hasNumeric := cols[colNumeric]
	if !hasNumeric {
		numCol, hasNumeric = cols[colNumericAlias]
	}
	idxCol, hasIndex := cols[colOriginalIndex]

	var records []model.ArgumentRecord
	for row := 0; ; row++ {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read corpus row %d: %w", row+1, err)
		}
		category, err := model.ParseCategory(fields[catCol])
		if err != nil {
			return nil, fmt.Errorf("corpus row %d: %w", row+1, err)
		}
		if hasNumeric {
			numeric, err := model.ParseNumericString(fields[numCol])
			if err != nil {
				return nil, fmt.Errorf("corpus row %d: %w", row+1, err)
			}
			if numeric != category {
				return nil, fmt.Errorf("corpus row %d: numeric code %q disagrees with category %q",
					row+1, fields[numCol], fields[catCol])
			}
		}
		originalIndex := row
		if hasIndex {
			originalIndex, err = strconv.Atoi(strings.TrimSpace(fields[idxCol]))
			if err != nil {
				return nil, fmt.Errorf("corpus row %d: bad original_index: %w", row+1, err)
			}
		}
		records = append(records, model.ArgumentRecord{
			OriginalIndex: originalIndex,
			Quotation:     fields[quoteCol],
			Category:      category,
		})
	}
	return records, nil
}

func indexColumns(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return cols
}

package corpus

import (
	"context"
	"database/sql"
	"fmt"

	"facoder/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// ReadSQLite reads argument records from a SQLite corpus snapshot. The
// snapshot must carry an arguments table with original_index, quotation,
// claude_credit_channel_category, and claude_credit_channel columns. Rows
// are read ordered by original_index so that first-seen deduplication
// stays deterministic across runs.
func ReadSQLite(ctx context.Context, path string) ([]model.ArgumentRecord, error) {
	db, err := sql.Open("sqlite", path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("failed to open corpus snapshot: %w", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close for read-only snapshot.
			_ = cerr
		}
	}()

	rows, err := db.QueryContext(ctx,
		`SELECT original_index, quotation, claude_credit_channel_category,
			COALESCE(claude_credit_channel, '')
		 FROM arguments
		 ORDER BY original_index ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query corpus snapshot: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var records []model.ArgumentRecord
	for rows.Next() {
		var (
			originalIndex int
			quotation     string
			categoryStr   string
			numericStr    string
		)
		if err := rows.Scan(&originalIndex, &quotation, &categoryStr, &numericStr); err != nil {
			return nil, fmt.Errorf("failed to scan corpus row: %w", err)
		}
		category, err := model.ParseCategory(categoryStr)
		if err != nil {
			return nil, fmt.Errorf("corpus original_index %d: %w", originalIndex, err)
		}
		numeric, err := model.ParseNumericString(numericStr)
		if err != nil {
			return nil, fmt.Errorf("corpus original_index %d: %w", originalIndex, err)
		}
		if numeric != category {
			return nil, fmt.Errorf("corpus original_index %d: numeric code %q disagrees with category %q",
				originalIndex, numericStr, categoryStr)
		}
		records = append(records, model.ArgumentRecord{
			OriginalIndex: originalIndex,
			Quotation:     quotation,
			Category:      category,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read corpus snapshot: %w", err)
	}
	return records, nil
}

// Package corpus loads pre-classified argument records from snapshot files.
//
// The upstream classification store is handed over as an immutable
// snapshot, either a CSV table or a SQLite database. Loaders validate the
// dual-column invariant: when a snapshot carries both the category label
// and its numeric encoding, the two must agree on every row.
package corpus

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"facoder/internal/model"
)

// Load reads a corpus snapshot, dispatching on the file extension:
// .db/.sqlite/.sqlite3 open a SQLite snapshot, anything else is read as CSV.
func Load(ctx context.Context, path string) ([]model.ArgumentRecord, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return ReadSQLite(ctx, path)
	default:
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open corpus: %w", err)
		}
		defer func() {
			if cerr := file.Close(); cerr != nil {
				// Best-effort close for read-only snapshot.
				_ = cerr
			}
		}()
		return ReadCSV(file)
	}
}

// Package model defines shared data structures.
package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidCategory reports a classification label outside the four-value set.
var ErrInvalidCategory = errors.New("invalid category")

// Category is the four-level ordinal taxonomy for financial-accelerator
// beliefs. It is the single source of truth for both the string label and
// the numeric code the upstream classifier emits in parallel columns.
type Category int

// Category values, strongest belief first.
const (
	CategoryStrong Category = iota
	CategoryModerate
	CategoryWeak
	CategoryNone
)

// Categories lists all values in canonical order.
var Categories = []Category{CategoryStrong, CategoryModerate, CategoryWeak, CategoryNone}

// String returns the lowercase label used in all tabular files.
func (c Category) String() string {
	switch c {
	case CategoryStrong:
		return "strong"
	case CategoryModerate:
		return "moderate"
	case CategoryWeak:
		return "weak"
	case CategoryNone:
		return "none"
	default:
		return fmt.Sprintf("category(%d)", int(c))
	}
}

// NumericString returns the parallel numeric encoding: 1.0 for strong,
// 0.0 for moderate, -1.0 for weak, and empty (missing) for none.
func (c Category) NumericString() string {
	switch c {
	case CategoryStrong:
		return "1.0"
	case CategoryModerate:
		return "0.0"
	case CategoryWeak:
		return "-1.0"
	default:
		return ""
	}
}

// Valid reports whether c is one of the four defined values.
func (c Category) Valid() bool {
	return c >= CategoryStrong && c <= CategoryNone
}

// ParseCategory parses a label case-insensitively. "null" is accepted as
// an alias for "none" (older corpus snapshots use it).
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "strong":
		return CategoryStrong, nil
	case "moderate":
		return CategoryModerate, nil
	case "weak":
		return CategoryWeak, nil
	case "none", "null":
		return CategoryNone, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidCategory, s)
	}
}

// ParseNumericString parses the numeric encoding. An empty cell means the
// value is missing, which encodes none.
func ParseNumericString(s string) (Category, error) {
	switch strings.TrimSpace(s) {
	case "1.0", "1":
		return CategoryStrong, nil
	case "0.0", "0":
		return CategoryModerate, nil
	case "-1.0", "-1":
		return CategoryWeak, nil
	case "":
		return CategoryNone, nil
	default:
		return 0, fmt.Errorf("%w: numeric code %q", ErrInvalidCategory, s)
	}
}

// NormalizeQuotation produces the deduplication key for a quotation:
// lowercased with runs of whitespace collapsed to single spaces.
func NormalizeQuotation(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// ArgumentRecord is one quotation extracted from a transcript, carrying
// the upstream classifier's category. The category is immutable input.
type ArgumentRecord struct {
	OriginalIndex int
	Quotation     string
	Category      Category
}

// SampleRow is an ArgumentRecord selected into a sample, with its
// sequential coding identity attached.
type SampleRow struct {
	CodingID string
	ArgumentRecord
}

// CodingRecord is one human judgment over a sampled argument. A nil
// Classification means the record has not been coded yet. The reference
// fields (Quotation, Category) are carried through for scoring and are
// never mutated by the coder.
type CodingRecord struct {
	CodingID       string
	OriginalIndex  int
	CoderName      string
	Classification *Category
	Notes          string
	Quotation      string
	Category       Category
	CodedAt        time.Time
}

// Coded reports whether the record has a classification.
func (r CodingRecord) Coded() bool {
	return r.Classification != nil
}

// CategoryStat reports sampling counts for one category.
type CategoryStat struct {
	Category  Category
	Available int
	Sampled   int
}

// SampleStats summarizes a sampling run: the parameters used and the
// per-category population and draw sizes, in canonical category order.
type SampleStats struct {
	Seed        int64
	PerCategory int
	Categories  []CategoryStat
}

package corpus

import (
	"strings"
	"testing"

	"facoder/internal/model"
)

func TestReadCSVParsesRecords(t *testing.T) {
	in := strings.Join([]string{
		"original_index,quotation,claude_credit_channel,claude_credit_channel_category",
		`12,"Tighter credit is amplifying the downturn",1.0,strong`,
		`47,"Balance sheets look resilient",-1.0,weak`,
		`93,"Growth slowed in the second quarter",,none`,
	}, "\n")

	records, err := ReadCSV(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	if records[0].OriginalIndex != 12 || records[0].Category != model.CategoryStrong {
		t.Fatalf("unexpected first record: %+v", records[0])
	}
	if records[2].Category != model.CategoryNone {
		t.Fatalf("expected missing numeric to parse as none, got %v", records[2].Category)
	}
}

func TestReadCSVAcceptsAliasColumnsAndMissingIndex(t *testing.T) {
	in := strings.Join([]string{
		"quotation,claude_category",
		`"Credit constraints reinforce the slowdown",strong`,
		`"Inflation remains elevated",null`,
	}, "\n")

	records, err := ReadCSV(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if records[0].OriginalIndex != 0 || records[1].OriginalIndex != 1 {
		t.Fatalf("expected row ordinals as original_index, got %d and %d",
			records[0].OriginalIndex, records[1].OriginalIndex)
	}
	if records[1].Category != model.CategoryNone {
		t.Fatalf("expected null alias to parse as none, got %v", records[1].Category)
	}
}

func TestReadCSVRejectsDivergentColumns(t *testing.T) {
	in := strings.Join([]string{
		"quotation,claude_credit_channel,claude_credit_channel_category",
		`"Credit constraints reinforce the slowdown",1.0,weak`,
	}, "\n")

	if _, err := ReadCSV(strings.NewReader(in)); err == nil {
		t.Fatalf("expected error for numeric/category disagreement")
	}
}

func TestReadCSVRequiresCategoryColumn(t *testing.T) {
	in := "quotation\n\"some quote\"\n"
	if _, err := ReadCSV(strings.NewReader(in)); err == nil {
		t.Fatalf("expected error for missing category column")
	}
}

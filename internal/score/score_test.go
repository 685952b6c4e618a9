package score

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"facoder/internal/model"
)

func codedRecord(id string, claude model.Category, human *model.Category) model.CodingRecord {
	return model.CodingRecord{
		CodingID:       id,
		CoderName:      "Ada",
		Category:       claude,
		Classification: human,
	}
}

func categoryPtr(c model.Category) *model.Category { return &c }

func TestScoreComputesAgreementRate(t *testing.T) {
	records := []model.CodingRecord{
		codedRecord("FA_0001", model.CategoryStrong, categoryPtr(model.CategoryStrong)),
		codedRecord("FA_0002", model.CategoryModerate, categoryPtr(model.CategoryModerate)),
		codedRecord("FA_0003", model.CategoryWeak, categoryPtr(model.CategoryWeak)),
		codedRecord("FA_0004", model.CategoryNone, categoryPtr(model.CategoryStrong)),
		codedRecord("FA_0005", model.CategoryNone, nil), // unset, excluded
	}
	report, err := Score(records)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if report.Coded != 4 {
		t.Fatalf("expected 4 coded records, got %d", report.Coded)
	}
	if got := report.Rate(); got != 0.75 {
		t.Fatalf("expected rate 0.75, got %v", got)
	}
	if report.Confusion[int(model.CategoryStrong)][int(model.CategoryNone)] != 1 {
		t.Fatalf("expected strong/none confusion cell = 1")
	}
}

func TestScorePerCategoryBreakdown(t *testing.T) {
	records := []model.CodingRecord{
		codedRecord("FA_0001", model.CategoryStrong, categoryPtr(model.CategoryStrong)),
		codedRecord("FA_0002", model.CategoryStrong, categoryPtr(model.CategoryWeak)),
		codedRecord("FA_0003", model.CategoryWeak, categoryPtr(model.CategoryWeak)),
	}
	report, err := Score(records)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	strong := report.Categories[0]
	if strong.Category != model.CategoryStrong || strong.Coded != 2 || strong.Agreed != 1 {
		t.Fatalf("unexpected strong breakdown: %+v", strong)
	}
	if strong.Rate() != 0.5 {
		t.Fatalf("expected strong rate 0.5, got %v", strong.Rate())
	}
	moderate := report.Categories[1]
	if moderate.Coded != 0 || moderate.Rate() != 0 {
		t.Fatalf("expected empty moderate breakdown, got %+v", moderate)
	}
}

func TestScoreRequiresCodedRecords(t *testing.T) {
	records := []model.CodingRecord{
		codedRecord("FA_0001", model.CategoryStrong, nil),
		codedRecord("FA_0002", model.CategoryNone, nil),
	}
	if _, err := Score(records); !errors.Is(err, ErrNoCodedRecords) {
		t.Fatalf("expected ErrNoCodedRecords, got %v", err)
	}
	if _, err := Score(nil); !errors.Is(err, ErrNoCodedRecords) {
		t.Fatalf("expected ErrNoCodedRecords for empty input, got %v", err)
	}
}

func TestRenderReportIncludesSections(t *testing.T) {
	records := []model.CodingRecord{
		codedRecord("FA_0001", model.CategoryStrong, categoryPtr(model.CategoryStrong)),
		codedRecord("FA_0002", model.CategoryNone, categoryPtr(model.CategoryWeak)),
	}
	report, err := Score(records)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	var buf bytes.Buffer
	if err := RenderReport(&buf, report); err != nil {
		t.Fatalf("RenderReport: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Agreement: 1/2 (50.0%)", "Category", "Confusion", "strong", "none"} {
		if !strings.Contains(out, want) {
			t.Fatalf("report missing %q:\n%s", want, out)
		}
	}
}

func TestRenderBarScalesToWidth(t *testing.T) {
	if got := renderBar(0.5, 10); strings.Count(got, string(barFilledRune)) != 5 {
		t.Fatalf("expected 5 filled cells, got %q", got)
	}
	if got := renderBar(1.0, 8); got != strings.Repeat(string(barFilledRune), 8) {
		t.Fatalf("expected full bar, got %q", got)
	}
	if got := renderBar(0, 8); got != strings.Repeat(string(barPendingRune), 8) {
		t.Fatalf("expected empty bar, got %q", got)
	}
}

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Category", "Coded"}
	rows := [][]string{
		{"strong", "12"},
		{"moderate", "3"},
	}
	lines := formatTable(headers, rows, map[int]bool{1: true})
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[1] != "strong      12" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "moderate     3" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

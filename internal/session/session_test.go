package session

import (
	"bytes"
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"facoder/internal/model"
)

func testSample(n int) []model.SampleRow {
	rows := make([]model.SampleRow, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, model.SampleRow{
			CodingID: fmt.Sprintf("FA_%04d", i+1),
			ArgumentRecord: model.ArgumentRecord{
				OriginalIndex: i * 3,
				Quotation:     fmt.Sprintf("quotation %d about credit markets", i),
				Category:      model.Categories[i%len(model.Categories)],
			},
		})
	}
	return rows
}

func activeSession(t *testing.T, n int) *Session {
	t.Helper()
	s := New()
	s.now = func() time.Time { return time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC) }
	if err := s.Start(testSample(n)); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := s.SetCoderName("Ada"); err != nil {
		t.Fatalf("SetCoderName: %v", err)
	}
	return s
}

func TestLifecycleTransitions(t *testing.T) {
	s := New()
	if s.State() != StateUninitialized {
		t.Fatalf("new session should be uninitialized")
	}
	if err := s.SetCoderName("Ada"); err == nil {
		t.Fatalf("SetCoderName before Start should fail")
	}
	if err := s.Classify(model.CategoryStrong, ""); err == nil {
		t.Fatalf("Classify before Start should fail")
	}
	if err := s.Start(nil); err == nil {
		t.Fatalf("Start with empty sample should fail")
	}
	if err := s.Start(testSample(3)); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if s.State() != StateAwaitingCoderName {
		t.Fatalf("expected AwaitingCoderName, got %v", s.State())
	}
	if err := s.SetCoderName("   "); err == nil {
		t.Fatalf("blank coder name should fail")
	}
	if err := s.SetCoderName("Ada"); err != nil {
		t.Fatalf("SetCoderName: %v", err)
	}
	if s.State() != StateActive {
		t.Fatalf("expected Active, got %v", s.State())
	}
	if err := s.Start(testSample(3)); err == nil {
		t.Fatalf("second Start should fail")
	}
}

func TestClassifyAdvancesAndClamps(t *testing.T) {
	s := activeSession(t, 2)
	if err := s.Classify(model.CategoryStrong, "clear amplification"); err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if s.Cursor() != 1 {
		t.Fatalf("expected cursor 1, got %d", s.Cursor())
	}
	if err := s.Classify(model.CategoryNone, ""); err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if s.Cursor() != 2 {
		t.Fatalf("expected cursor clamped at count, got %d", s.Cursor())
	}
	if _, ok := s.Current(); ok {
		t.Fatalf("expected no current record past the end")
	}
	if err := s.Classify(model.CategoryWeak, ""); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange past the end, got %v", err)
	}
	coded, total := s.Progress()
	if coded != 2 || total != 2 {
		t.Fatalf("expected progress 2/2, got %d/%d", coded, total)
	}
}

func TestClassifyRejectsInvalidCategory(t *testing.T) {
	s := activeSession(t, 2)
	if err := s.Classify(model.Category(17), ""); !errors.Is(err, model.ErrInvalidCategory) {
		t.Fatalf("expected ErrInvalidCategory, got %v", err)
	}
	if s.Cursor() != 0 {
		t.Fatalf("failed classify must not move the cursor")
	}
	if coded, _ := s.Progress(); coded != 0 {
		t.Fatalf("failed classify must not mutate records")
	}
}

func TestLastWriteWins(t *testing.T) {
	s := activeSession(t, 3)
	if err := s.Classify(model.CategoryStrong, ""); err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if err := s.JumpTo(0); err != nil {
		t.Fatalf("JumpTo: %v", err)
	}
	if err := s.Classify(model.CategoryWeak, "revised"); err != nil {
		t.Fatalf("Classify: %v", err)
	}
	rec := s.Snapshot()[0]
	if rec.Classification == nil || *rec.Classification != model.CategoryWeak {
		t.Fatalf("expected weak after revision, got %v", rec.Classification)
	}
	if rec.Notes != "revised" {
		t.Fatalf("expected revised notes, got %q", rec.Notes)
	}
	if coded, _ := s.Progress(); coded != 1 {
		t.Fatalf("re-coding must not double count, got %d", coded)
	}
}

func TestNavigationBounds(t *testing.T) {
	s := activeSession(t, 3)
	if err := s.GoBack(); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("GoBack at 0 should fail with ErrOutOfRange, got %v", err)
	}
	if err := s.JumpTo(3); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("JumpTo(count) should fail, got %v", err)
	}
	if err := s.JumpTo(-1); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("JumpTo(-1) should fail, got %v", err)
	}
	if err := s.JumpTo(2); err != nil {
		t.Fatalf("JumpTo: %v", err)
	}
	if err := s.GoBack(); err != nil {
		t.Fatalf("GoBack: %v", err)
	}
	if s.Cursor() != 1 {
		t.Fatalf("expected cursor 1, got %d", s.Cursor())
	}
}

func TestExportRoundTrip(t *testing.T) {
	s := activeSession(t, 4)
	if err := s.Classify(model.CategoryStrong, "feedback loop language"); err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if err := s.Classify(model.CategoryNone, ""); err != nil {
		t.Fatalf("Classify: %v", err)
	}

	var buf bytes.Buffer
	if err := WriteExport(&buf, s.Snapshot()); err != nil {
		t.Fatalf("WriteExport: %v", err)
	}
	records, err := ReadExport(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("ReadExport: %v", err)
	}
	if !reflect.DeepEqual(records, s.Snapshot()) {
		t.Fatalf("round trip mismatch:\ngot  %+v\nwant %+v", records, s.Snapshot())
	}

	resumed := New()
	if err := resumed.Resume(records); err != nil {
		t.Fatalf("Resume: %v", err)
	}
	if resumed.State() != StateActive {
		t.Fatalf("resumed session should be active")
	}
	if resumed.CoderName() != "Ada" {
		t.Fatalf("expected coder name recovered, got %q", resumed.CoderName())
	}
	if resumed.Cursor() != 2 {
		t.Fatalf("expected cursor at first uncoded record, got %d", resumed.Cursor())
	}
}

func TestExportIsIdempotent(t *testing.T) {
	s := activeSession(t, 3)
	if err := s.Classify(model.CategoryModerate, "hedged"); err != nil {
		t.Fatalf("Classify: %v", err)
	}
	var first, second bytes.Buffer
	if err := WriteExport(&first, s.Snapshot()); err != nil {
		t.Fatalf("WriteExport: %v", err)
	}
	if err := WriteExport(&second, s.Snapshot()); err != nil {
		t.Fatalf("WriteExport: %v", err)
	}
	if !bytes.Equal(first.Bytes(), second.Bytes()) {
		t.Fatalf("consecutive exports differ")
	}
}

func TestResumeFullyCodedLandsAtEnd(t *testing.T) {
	s := activeSession(t, 2)
	if err := s.Classify(model.CategoryStrong, ""); err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if err := s.Classify(model.CategoryWeak, ""); err != nil {
		t.Fatalf("Classify: %v", err)
	}
	resumed := New()
	if err := resumed.Resume(s.Snapshot()); err != nil {
		t.Fatalf("Resume: %v", err)
	}
	if resumed.Cursor() != resumed.Count() {
		t.Fatalf("expected cursor at count, got %d", resumed.Cursor())
	}
}

func TestResumeRejectsMixedCoderNames(t *testing.T) {
	s := activeSession(t, 2)
	records := s.Snapshot()
	records[1].CoderName = "Grace"
	resumed := New()
	if err := resumed.Resume(records); !errors.Is(err, ErrMalformedExport) {
		t.Fatalf("expected ErrMalformedExport for mixed names, got %v", err)
	}
	if resumed.State() != StateUninitialized {
		t.Fatalf("failed resume must leave session uninitialized")
	}
}

func TestReadExportRequiresContractColumns(t *testing.T) {
	in := "coding_id,coder_name,classification\nFA_0001,Ada,strong\n"
	if _, err := ReadExport(bytes.NewReader([]byte(in))); !errors.Is(err, ErrMalformedExport) {
		t.Fatalf("expected ErrMalformedExport, got %v", err)
	}
}

func TestReadExportAcceptsMissingCodedAtColumn(t *testing.T) {
	in := "coding_id,original_index,coder_name,classification,claude_credit_channel,claude_credit_channel_category,quotation,notes\n" +
		`FA_0001,5,Ada,strong,1.0,strong,"credit amplifies shocks",note` + "\n" +
		`FA_0002,9,Ada,,0.0,moderate,"some qualified view",` + "\n"
	records, err := ReadExport(bytes.NewReader([]byte(in)))
	if err != nil {
		t.Fatalf("ReadExport: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if !records[0].Coded() || records[1].Coded() {
		t.Fatalf("unexpected coded flags: %v %v", records[0].Coded(), records[1].Coded())
	}
}

func TestSnapshotIsIsolated(t *testing.T) {
	s := activeSession(t, 2)
	if err := s.Classify(model.CategoryStrong, ""); err != nil {
		t.Fatalf("Classify: %v", err)
	}
	snap := s.Snapshot()
	*snap[0].Classification = model.CategoryNone
	snap[1].Notes = "tampered"

	fresh := s.Snapshot()
	if *fresh[0].Classification != model.CategoryStrong {
		t.Fatalf("snapshot mutation leaked into session records")
	}
	if fresh[1].Notes != "" {
		t.Fatalf("snapshot mutation leaked into session notes")
	}
}

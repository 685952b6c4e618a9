// Package session implements the labeling session state machine.
//
// A session holds one coder's ordered collection of coding records plus a
// cursor. It is process-local and single-actor: state is only durable once
// exported, and a resumed session is reconstructed entirely from a
// previously exported file.
package session

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"facoder/internal/model"
)

// Sentinel errors for recoverable session failures. Every failed operation
// leaves the session unchanged so the operator can retry.
var (
	// ErrMalformedExport reports a resume file missing required columns
	// or carrying inconsistent coder names.
	ErrMalformedExport = errors.New("malformed session export")
	// ErrOutOfRange reports a navigation index outside [0, count).
	ErrOutOfRange = errors.New("index out of range")
)

// State identifies where the session is in its lifecycle.
type State int

// Session states. Active is re-entered indefinitely; exporting is a
// snapshot side effect, not a state change.
const (
	StateUninitialized State = iota
	StateAwaitingCoderName
	StateActive
)

// Session is one coder's labeling run over a sample.
type Session struct {
	state     State
	records   []model.CodingRecord
	cursor    int
	coderName string

	// now is swappable for tests.
	now func() time.Time
}

// New returns an uninitialized session.
func New() *Session {
	return &Session{now: time.Now}
}

// Start creates one unset coding record per sample row and moves the
// session to AwaitingCoderName.
func (s *Session) Start(sample []model.SampleRow) error {
	if s.state != StateUninitialized {
		return fmt.Errorf("session already started")
	}
	if len(sample) == 0 {
		return fmt.Errorf("sample is empty")
	}
	records := make([]model.CodingRecord, 0, len(sample))
	for _, row := range sample {
		records = append(records, model.CodingRecord{
			CodingID:      row.CodingID,
			OriginalIndex: row.OriginalIndex,
			Quotation:     row.Quotation,
			Category:      row.Category,
		})
	}
	s.records = records
	s.cursor = 0
	s.state = StateAwaitingCoderName
	return nil
}

// SetCoderName records the coder's name on every record and activates the
// session. The name is applied once per session and never changes after.
func (s *Session) SetCoderName(name string) error {
	if s.state != StateAwaitingCoderName {
		return fmt.Errorf("session is not awaiting a coder name")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("coder name must not be empty")
	}
	s.coderName = name
	for i := range s.records {
		s.records[i].CoderName = name
	}
	s.state = StateActive
	return nil
}

// Resume reconstructs a session from previously exported records. The
// records must carry a single consistent nonempty coder name. The cursor
// lands on the first uncoded record, or past the end when all are coded.
// A resume file whose original_index set differs from the sample it was
// generated from is accepted as-is; no reconciliation is attempted.
func (s *Session) Resume(records []model.CodingRecord) error {
	if s.state != StateUninitialized {
		return fmt.Errorf("session already started")
	}
	if len(records) == 0 {
		return fmt.Errorf("%w: no records", ErrMalformedExport)
	}
	name := ""
	for _, rec := range records {
		recName := strings.TrimSpace(rec.CoderName)
		if recName == "" {
			return fmt.Errorf("%w: record %s has no coder name", ErrMalformedExport, rec.CodingID)
		}
		if name == "" {
			name = recName
			continue
		}
		if recName != name {
			return fmt.Errorf("%w: mixed coder names %q and %q", ErrMalformedExport, name, recName)
		}
	}
	s.records = make([]model.CodingRecord, len(records))
	copy(s.records, records)
	for i, rec := range records {
		if rec.Classification != nil {
			cat := *rec.Classification
			s.records[i].Classification = &cat
		}
	}
	s.coderName = name
	s.cursor = len(s.records)
	for i, rec := range s.records {
		if !rec.Coded() {
			s.cursor = i
			break
		}
	}
	s.state = StateActive
	return nil
}

// Classify records a judgment for the record under the cursor, then
// advances the cursor, clamping at the record count. Re-classifying a
// record overwrites the prior classification and notes; last write wins.
func (s *Session) Classify(category model.Category, notes string) error {
	if s.state != StateActive {
		return fmt.Errorf("session is not active")
	}
	if !category.Valid() {
		return fmt.Errorf("%w: %d", model.ErrInvalidCategory, int(category))
	}
	if s.cursor >= len(s.records) {
		return fmt.Errorf("%w: no record under cursor", ErrOutOfRange)
	}
	rec := &s.records[s.cursor]
	cat := category
	rec.Classification = &cat
	rec.Notes = notes
	rec.CodedAt = s.now()
	if s.cursor < len(s.records) {
		s.cursor++
	}
	return nil
}

// GoBack moves the cursor one record back without mutating data.
func (s *Session) GoBack() error {
	if s.state != StateActive {
		return fmt.Errorf("session is not active")
	}
	if s.cursor == 0 {
		return fmt.Errorf("%w: already at the first record", ErrOutOfRange)
	}
	s.cursor--
	return nil
}

// JumpTo moves the cursor to index i without mutating data.
func (s *Session) JumpTo(i int) error {
	if s.state != StateActive {
		return fmt.Errorf("session is not active")
	}
	if i < 0 || i >= len(s.records) {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrOutOfRange, i, len(s.records))
	}
	s.cursor = i
	return nil
}

// Snapshot returns a copy of the full record collection, including unset
// rows. It mutates nothing and may be called repeatedly.
func (s *Session) Snapshot() []model.CodingRecord {
	out := make([]model.CodingRecord, len(s.records))
	copy(out, s.records)
	for i, rec := range s.records {
		if rec.Classification != nil {
			cat := *rec.Classification
			out[i].Classification = &cat
		}
	}
	return out
}

// Progress returns the coded and total record counts.
func (s *Session) Progress() (coded, total int) {
	for _, rec := range s.records {
		if rec.Coded() {
			coded++
		}
	}
	return coded, len(s.records)
}

// Current returns the record under the cursor, or false when the cursor
// is past the last record.
func (s *Session) Current() (model.CodingRecord, bool) {
	if s.cursor >= len(s.records) {
		return model.CodingRecord{}, false
	}
	return s.records[s.cursor], true
}

// Cursor returns the current position.
func (s *Session) Cursor() int { return s.cursor }

// Count returns the number of records in the session.
func (s *Session) Count() int { return len(s.records) }

// CoderName returns the session's coder name.
func (s *Session) CoderName() string { return s.coderName }

// State returns the session state.
func (s *Session) State() State { return s.state }

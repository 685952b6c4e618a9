// Package score computes coder/classifier agreement over exported sessions.
package score

import (
	"errors"

	"facoder/internal/model"
)

// ErrNoCodedRecords reports that scoring was attempted with zero coded rows.
var ErrNoCodedRecords = errors.New("no coded records")

// CategoryAgreement summarizes agreement for one upstream category.
type CategoryAgreement struct {
	Category model.Category
	Coded    int
	Agreed   int
}

// Rate returns the agreement fraction for the category, or 0 when nothing
// in the category was coded.
func (c CategoryAgreement) Rate() float64 {
	if c.Coded == 0 {
		return 0
	}
	return float64(c.Agreed) / float64(c.Coded)
}

// Report holds agreement results for one exported session. Confusion is
// indexed [human][claude] in canonical category order.
type Report struct {
	Coded      int
	Agreed     int
	Categories []CategoryAgreement
	Confusion  [4][4]int
}

// Rate returns the overall agreement fraction.
func (r Report) Rate() float64 {
	if r.Coded == 0 {
		return 0
	}
	return float64(r.Agreed) / float64(r.Coded)
}

// Score compares each coded record's classification to the upstream
// category. Unset records are excluded from both numerator and
// denominator. Zero coded records fails with ErrNoCodedRecords.
func Score(records []model.CodingRecord) (Report, error) {
	report := Report{Categories: make([]CategoryAgreement, len(model.Categories))}
	for i, category := range model.Categories {
		report.Categories[i] = CategoryAgreement{Category: category}
	}

	for _, rec := range records {
		if !rec.Coded() {
			continue
		}
		human := *rec.Classification
		report.Coded++
		entry := &report.Categories[int(rec.Category)]
		entry.Coded++
		report.Confusion[int(human)][int(rec.Category)]++
		if human == rec.Category {
			report.Agreed++
			entry.Agreed++
		}
	}
	if report.Coded == 0 {
		return Report{}, ErrNoCodedRecords
	}
	return report, nil
}

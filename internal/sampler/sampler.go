// Package sampler draws deterministic stratified samples from a corpus.
package sampler

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"

	"facoder/internal/model"
)

// ErrEmptyCorpus reports that the sampler was given no records.
var ErrEmptyCorpus = errors.New("corpus is empty")

// Generate deduplicates the corpus by normalized quotation text, partitions
// it by category, and draws min(perCategory, available) records per
// category with a seeded generator. Identical input and seed yield a
// bit-identical sample; the input ordering is the determinism anchor for
// first-seen deduplication.
func Generate(corpus []model.ArgumentRecord, perCategory int, seed int64) ([]model.SampleRow, model.SampleStats, error) {
	if len(corpus) == 0 {
		return nil, model.SampleStats{}, ErrEmptyCorpus
	}
	if perCategory <= 0 {
		return nil, model.SampleStats{}, fmt.Errorf("per-category target must be > 0, got %d", perCategory)
	}

	deduped := dedupe(corpus)

	buckets := map[model.Category][]model.ArgumentRecord{}
	for _, rec := range deduped {
		buckets[rec.Category] = append(buckets[rec.Category], rec)
	}

	rnd := rand.New(rand.NewSource(seed))
	stats := model.SampleStats{Seed: seed, PerCategory: perCategory}
	var sample []model.SampleRow

	// Buckets are drawn in canonical category order so the generator
	// consumes randomness in a fixed sequence.
	for _, category := range model.Categories {
		bucket := buckets[category]
		drawn := draw(rnd, bucket, perCategory)
		for _, rec := range drawn {
			sample = append(sample, model.SampleRow{
				CodingID:       fmt.Sprintf("FA_%04d", len(sample)+1),
				ArgumentRecord: rec,
			})
		}
		stats.Categories = append(stats.Categories, model.CategoryStat{
			Category:  category,
			Available: len(bucket),
			Sampled:   len(drawn),
		})
	}
	return sample, stats, nil
}

func dedupe(corpus []model.ArgumentRecord) []model.ArgumentRecord {
	seen := make(map[string]struct{}, len(corpus))
	out := make([]model.ArgumentRecord, 0, len(corpus))
	for _, rec := range corpus {
		key := model.NormalizeQuotation(rec.Quotation)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, rec)
	}
	return out
}

// draw picks min(k, len(bucket)) records uniformly without replacement and
// returns them in their original bucket order for readable output.
func draw(rnd *rand.Rand, bucket []model.ArgumentRecord, k int) []model.ArgumentRecord {
	if len(bucket) == 0 {
		return nil
	}
	if k > len(bucket) {
		k = len(bucket)
	}
	perm := rnd.Perm(len(bucket))
	picked := append([]int(nil), perm[:k]...)
	sort.Ints(picked)
	out := make([]model.ArgumentRecord, 0, k)
	for _, idx := range picked {
		out = append(out, bucket[idx])
	}
	return out
}

package bed

import "sort"

// MergedSpan is one collapsed region: a chromosome span with the per-exon
// annotation dropped.
type MergedSpan struct {
	Chrom string
	Start int64 // 0-based inclusive
	End   int64 // exclusive
}

// Spans projects intervals down to bare chromosome spans.
func Spans(intervals []GenomicInterval) []MergedSpan {
	spans := make([]MergedSpan, len(intervals))
	for i, gi := range intervals {
		spans[i] = MergedSpan{Chrom: gi.Chrom, Start: gi.Start, End: gi.End}
	}
	return spans
}

// Collapse merges overlapping or book-ended spans on the same chromosome
// into single spans. Input order does not matter; output is sorted by
// chromosome, then start, then end. Collapsing an already collapsed list
// returns it unchanged.
func Collapse(spans []MergedSpan) []MergedSpan {
	if len(spans) == 0 {
		return nil
	}

	sorted := make([]MergedSpan, len(spans))
	copy(sorted, spans)
	sort.Slice(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Chrom != b.Chrom {
			return a.Chrom < b.Chrom
		}
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		return a.End < b.End
	})

	merged := []MergedSpan{sorted[0]}
	for _, s := range sorted[1:] {
		last := &merged[len(merged)-1]
		if s.Chrom == last.Chrom && s.Start <= last.End {
			if s.End > last.End {
				last.End = s.End
			}
			continue
		}
		merged = append(merged, s)
	}
	return merged
}

// Collapsed returns the collection's intervals merged into plain spans.
func (c *IntervalCollection) Collapsed() []MergedSpan {
	return Collapse(Spans(c.Intervals))
}

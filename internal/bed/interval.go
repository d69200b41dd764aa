// Package bed builds, collapses, serializes, and compares the genomic
// interval collections generated for gene panels.
package bed

import "fmt"

// DefaultPadding is the number of bases added on each side of an exon.
const DefaultPadding = 10

// GenomicInterval is one padded exon region on one transcript.
// Coordinates are 0-based half-open, the convention of the BED format.
type GenomicInterval struct {
	Chrom      string // chromosome name without "chr" prefix, e.g. "16"
	Start      int64  // 0-based inclusive
	End        int64  // exclusive
	ExonNumber int    // exon number within the transcript, 1-based
	Transcript string // versioned RefSeq accession, e.g. NM_022845.3
	Gene       string // HGNC symbol
}

// Annotation renders the BED name column: exon number, transcript, and gene
// symbol joined by pipes.
func (gi GenomicInterval) Annotation() string {
	return fmt.Sprintf("exon%d|%s|%s", gi.ExonNumber, gi.Transcript, gi.Gene)
}

// Pad widens the interval by the same number of bases on each side.
// The start clamps at zero; the end is unbounded.
func (gi GenomicInterval) Pad(padding int64) GenomicInterval {
	gi.Start -= padding
	if gi.Start < 0 {
		gi.Start = 0
	}
	gi.End += padding
	return gi
}

// PadAll pads every interval by the same amount. Padding an empty or nil
// slice returns an empty slice.
func PadAll(intervals []GenomicInterval, padding int64) []GenomicInterval {
	out := make([]GenomicInterval, len(intervals))
	for i, gi := range intervals {
		out[i] = gi.Pad(padding)
	}
	return out
}

// IntervalCollection is the interval set produced for one panel, version,
// genome build, and confidence floor.
type IntervalCollection struct {
	PanelID    string
	Version    string
	Build      string
	Confidence string
	Intervals  []GenomicInterval
}

// GeneCount returns the number of distinct gene symbols across the intervals.
func (c *IntervalCollection) GeneCount() int {
	seen := make(map[string]struct{})
	for _, gi := range c.Intervals {
		seen[gi.Gene] = struct{}{}
	}
	return len(seen)
}

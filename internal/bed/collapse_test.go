package bed

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCollapseMergesOverlap(t *testing.T) {
	spans := []MergedSpan{
		{Chrom: "1", Start: 10, End: 30},
		{Chrom: "1", Start: 25, End: 60},
	}
	assert.Equal(t, []MergedSpan{{Chrom: "1", Start: 10, End: 60}}, Collapse(spans))
}

func TestCollapseMergesBookEnded(t *testing.T) {
	spans := []MergedSpan{
		{Chrom: "1", Start: 10, End: 20},
		{Chrom: "1", Start: 20, End: 30},
	}
	assert.Equal(t, []MergedSpan{{Chrom: "1", Start: 10, End: 30}}, Collapse(spans))
}

func TestCollapseKeepsDisjoint(t *testing.T) {
	spans := []MergedSpan{
		{Chrom: "1", Start: 10, End: 20},
		{Chrom: "1", Start: 25, End: 30},
	}
	assert.Equal(t, spans, Collapse(spans))
}

func TestCollapseNestedAndDuplicate(t *testing.T) {
	spans := []MergedSpan{
		{Chrom: "1", Start: 10, End: 100},
		{Chrom: "1", Start: 20, End: 40},
		{Chrom: "1", Start: 10, End: 100},
	}
	assert.Equal(t, []MergedSpan{{Chrom: "1", Start: 10, End: 100}}, Collapse(spans))
}

func TestCollapseSeparatesChromosomes(t *testing.T) {
	spans := []MergedSpan{
		{Chrom: "2", Start: 10, End: 20},
		{Chrom: "1", Start: 10, End: 20},
		{Chrom: "1", Start: 15, End: 25},
	}
	assert.Equal(t, []MergedSpan{
		{Chrom: "1", Start: 10, End: 25},
		{Chrom: "2", Start: 10, End: 20},
	}, Collapse(spans))
}

func TestCollapseOrderIndependent(t *testing.T) {
	a := []MergedSpan{
		{Chrom: "1", Start: 50, End: 70},
		{Chrom: "1", Start: 10, End: 30},
		{Chrom: "1", Start: 25, End: 55},
	}
	b := []MergedSpan{a[2], a[0], a[1]}
	assert.Equal(t, Collapse(a), Collapse(b))
	assert.Equal(t, []MergedSpan{{Chrom: "1", Start: 10, End: 70}}, Collapse(a))
}

func TestCollapseIdempotent(t *testing.T) {
	spans := []MergedSpan{
		{Chrom: "16", Start: 67029138, End: 67029495},
		{Chrom: "16", Start: 67029490, End: 67031000},
		{Chrom: "16", Start: 67090000, End: 67090100},
		{Chrom: "3", Start: 5, End: 10},
	}
	once := Collapse(spans)
	assert.Equal(t, once, Collapse(once))
}

func TestCollapseEmpty(t *testing.T) {
	assert.Nil(t, Collapse(nil))
	assert.Nil(t, Collapse([]MergedSpan{}))
}

func TestCollapsedFromCollection(t *testing.T) {
	c := &IntervalCollection{
		Intervals: []GenomicInterval{
			{Chrom: "1", Start: 10, End: 20, ExonNumber: 1, Transcript: "NM_1.1", Gene: "A"},
			{Chrom: "1", Start: 20, End: 30, ExonNumber: 2, Transcript: "NM_1.1", Gene: "A"},
		},
	}
	assert.Equal(t, []MergedSpan{{Chrom: "1", Start: 10, End: 30}}, c.Collapsed())
}

func BenchmarkCollapse(b *testing.B) {
	// Roughly a large panel: 500 genes, 20 exons each, every other exon
	// overlapping its neighbor once padded.
	var spans []MergedSpan
	for gene := 0; gene < 500; gene++ {
		chrom := fmt.Sprintf("%d", gene%22+1)
		base := int64(gene * 100000)
		for exon := 0; exon < 20; exon++ {
			start := base + int64(exon)*150
			spans = append(spans, MergedSpan{Chrom: chrom, Start: start, End: start + 200})
		}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Collapse(spans)
	}
}

// Package variantvalidator resolves gene symbols to MANE Select transcript
// exon structures using the VariantValidator gene2transcripts REST service.
package variantvalidator

// Transcript is one RefSeq transcript with its exon layout on a genome build.
type Transcript struct {
	Reference  string // versioned RefSeq accession, e.g. NM_022845.3
	GeneSymbol string // HGNC symbol as reported upstream
	Chromosome string // chromosome name without "chr" prefix, e.g. "16"
	Build      string // genome build the exon coordinates refer to
	Exons      []Exon
}

// Exon is a single exon span in transcript order.
// Coordinates are 1-based fully-closed, as served by VariantValidator.
type Exon struct {
	Number int   // exon number, 1-based
	Start  int64 // genomic start, 1-based inclusive
	End    int64 // genomic end, inclusive
}

// ExonCount returns the number of exons with genomic coordinates.
func (t *Transcript) ExonCount() int {
	return len(t.Exons)
}

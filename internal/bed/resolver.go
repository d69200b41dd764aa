package bed

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/inodb/panelbed/internal/variantvalidator"
)

// TranscriptSource resolves a gene symbol to its transcript exon structure
// on one genome build.
type TranscriptSource interface {
	GeneTranscripts(gene, build string) ([]*variantvalidator.Transcript, error)
}

// Resolver maps gene symbols to padded genomic intervals through an
// external transcript source.
type Resolver struct {
	source  TranscriptSource
	padding int64
	workers int
	logger  *zap.Logger
}

// NewResolver creates a resolver with default padding and sequential lookups.
func NewResolver(source TranscriptSource) *Resolver {
	return &Resolver{
		source:  source,
		padding: DefaultPadding,
		workers: 1,
		logger:  zap.NewNop(),
	}
}

// SetPadding sets the number of bases added on each side of every exon.
func (r *Resolver) SetPadding(padding int64) {
	r.padding = padding
}

// SetWorkers sets the number of concurrent lookups. Values below two keep
// lookups sequential.
func (r *Resolver) SetWorkers(workers int) {
	r.workers = workers
}

// SetLogger sets the logger for progress and warning messages.
func (r *Resolver) SetLogger(l *zap.Logger) {
	r.logger = l
}

// Resolve fetches the exon structure of every gene and returns padded
// intervals in gene order, then exon order. Exon coordinates arrive 1-based
// fully-closed and are converted to 0-based half-open before padding.
// The first gene that fails aborts the whole resolution.
func (r *Resolver) Resolve(genes []string, build string) ([]GenomicInterval, error) {
	perGene, err := r.lookupAll(genes, build)
	if err != nil {
		return nil, err
	}

	var intervals []GenomicInterval
	for _, transcripts := range perGene {
		for _, t := range transcripts {
			intervals = append(intervals, transcriptIntervals(t, r.padding)...)
		}
	}
	return intervals, nil
}

// lookupAll fetches transcripts for every gene, preserving input order.
func (r *Resolver) lookupAll(genes []string, build string) ([][]*variantvalidator.Transcript, error) {
	if r.workers > 1 && len(genes) > 1 {
		return r.lookupParallel(genes, build)
	}

	out := make([][]*variantvalidator.Transcript, len(genes))
	for i, gene := range genes {
		transcripts, err := r.source.GeneTranscripts(gene, build)
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", gene, err)
		}
		r.logger.Debug("resolved gene",
			zap.String("gene", gene),
			zap.Int("transcripts", len(transcripts)))
		out[i] = transcripts
	}
	return out, nil
}

// transcriptIntervals converts one transcript's exons to padded intervals.
func transcriptIntervals(t *variantvalidator.Transcript, padding int64) []GenomicInterval {
	out := make([]GenomicInterval, 0, len(t.Exons))
	for _, ex := range t.Exons {
		gi := GenomicInterval{
			Chrom:      t.Chromosome,
			Start:      ex.Start - 1,
			End:        ex.End,
			ExonNumber: ex.Number,
			Transcript: t.Reference,
			Gene:       t.GeneSymbol,
		}
		out = append(out, gi.Pad(padding))
	}
	return out
}

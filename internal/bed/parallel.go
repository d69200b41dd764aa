package bed

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/inodb/panelbed/internal/variantvalidator"
)

// lookupItem pairs a gene symbol with its position in the request order.
type lookupItem struct {
	Seq  int
	Gene string
}

// lookupResult holds the transcripts fetched for one gene.
type lookupResult struct {
	Seq         int
	Gene        string
	Transcripts []*variantvalidator.Transcript
	Err         error
}

// lookupParallel fetches genes using a pool of workers. Results are
// reassembled by sequence number, so output order does not depend on which
// lookup finishes first.
func (r *Resolver) lookupParallel(genes []string, build string) ([][]*variantvalidator.Transcript, error) {
	workers := r.workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(genes) {
		workers = len(genes)
	}

	items := make(chan lookupItem, len(genes))
	for i, gene := range genes {
		items <- lookupItem{Seq: i, Gene: gene}
	}
	close(items)

	results := make(chan lookupResult, 2*workers)

	var wg sync.WaitGroup
	wg.Add(workers)
	for range workers {
		go func() {
			defer wg.Done()
			for item := range items {
				transcripts, err := r.source.GeneTranscripts(item.Gene, build)
				results <- lookupResult{
					Seq:         item.Seq,
					Gene:        item.Gene,
					Transcripts: transcripts,
					Err:         err,
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	out := make([][]*variantvalidator.Transcript, len(genes))
	var firstErr error
	for res := range results {
		// Keep draining after a failure to unblock workers.
		if firstErr != nil {
			continue
		}
		if res.Err != nil {
			firstErr = fmt.Errorf("resolving %s: %w", res.Gene, res.Err)
			continue
		}
		out[res.Seq] = res.Transcripts
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return out, nil
}

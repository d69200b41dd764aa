package variantvalidator

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// DefaultBaseURL is the public VariantValidator REST endpoint.
const DefaultBaseURL = "https://rest.variantvalidator.org"

// Supported genome builds.
const (
	BuildGRCh37 = "GRCh37"
	BuildGRCh38 = "GRCh38"
)

var (
	// ErrNotFound means the service has no MANE Select transcript for the
	// requested gene symbol on the requested build.
	ErrNotFound = errors.New("gene not found")

	// ErrUnavailable means the service did not produce a usable response
	// after retries.
	ErrUnavailable = errors.New("variantvalidator unavailable")
)

// ValidateBuild rejects genome builds the service does not serve.
// Callers run this before issuing any request.
func ValidateBuild(build string) error {
	switch build {
	case BuildGRCh37, BuildGRCh38:
		return nil
	}
	return fmt.Errorf("genome_build: %q is not a valid genome build, choose from %q, %q", build, BuildGRCh37, BuildGRCh38)
}

// Client queries the VariantValidator gene2transcripts_v2 endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
	maxRetries uint64
	logger     *zap.Logger
}

// NewClient creates a client for the given base URL.
// An empty baseURL selects the public service.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 20 * time.Second,
		},
		maxRetries: 5,
		logger:     zap.NewNop(),
	}
}

// SetLogger sets the logger used for retry warnings.
func (c *Client) SetLogger(logger *zap.Logger) {
	c.logger = logger
}

// SetMaxRetries overrides the retry limit for rate-limited or failing requests.
func (c *Client) SetMaxRetries(n uint64) {
	c.maxRetries = n
}

// GeneTranscripts fetches the MANE Select RefSeq transcript structure for a
// gene symbol on one genome build. The service usually reports a single
// transcript per gene; every transcript that carries exon coordinates is
// returned, in service order.
func (c *Client) GeneTranscripts(gene, build string) ([]*Transcript, error) {
	if err := ValidateBuild(build); err != nil {
		return nil, err
	}
	gene = strings.TrimSpace(gene)
	if gene == "" {
		return nil, fmt.Errorf("gene: symbol must not be empty")
	}

	reqURL := fmt.Sprintf("%s/VariantValidator/tools/gene2transcripts_v2/%s/mane_select/refseq/%s?content-type=application%%2Fjson",
		c.baseURL, url.PathEscape(gene), build)

	var records []geneRecord
	fetch := func() error {
		resp, err := c.httpClient.Get(reqURL)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusOK:
			raw, err := io.ReadAll(resp.Body)
			if err != nil {
				return fmt.Errorf("%w: reading response: %v", ErrUnavailable, err)
			}
			// Unknown symbols come back as a JSON object describing the
			// problem rather than the usual gene list.
			if !isJSONList(raw) {
				return backoff.Permanent(fmt.Errorf("%w: no transcript data for %s (%s)", ErrNotFound, gene, build))
			}
			if err := json.Unmarshal(raw, &records); err != nil {
				return backoff.Permanent(fmt.Errorf("decoding transcripts for %s: %w", gene, err))
			}
			return nil
		case resp.StatusCode == http.StatusNotFound:
			return backoff.Permanent(fmt.Errorf("%w: %s (%s)", ErrNotFound, gene, build))
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			c.logger.Warn("retrying gene2transcripts request",
				zap.String("gene", gene),
				zap.Int("status", resp.StatusCode))
			return fmt.Errorf("%w: HTTP %d", ErrUnavailable, resp.StatusCode)
		default:
			return backoff.Permanent(fmt.Errorf("%w: HTTP %d for %s", ErrUnavailable, resp.StatusCode, gene))
		}
	}

	policy := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.maxRetries)
	if err := backoff.Retry(fetch, policy); err != nil {
		return nil, err
	}

	transcripts := flattenRecords(records, build)
	if len(transcripts) == 0 {
		return nil, fmt.Errorf("%w: no exon structure for %s (%s)", ErrNotFound, gene, build)
	}
	return transcripts, nil
}

// isJSONList reports whether a JSON payload is a list.
func isJSONList(raw []byte) bool {
	for _, b := range raw {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		case '[':
			return true
		default:
			return false
		}
	}
	return false
}

// geneRecord mirrors one element of the gene2transcripts_v2 response.
type geneRecord struct {
	CurrentSymbol string             `json:"current_symbol"`
	Transcripts   []transcriptRecord `json:"transcripts"`
}

type transcriptRecord struct {
	Annotations struct {
		Chromosome string `json:"chromosome"`
	} `json:"annotations"`
	Reference string `json:"reference"`
	// genomic_spans is keyed by genomic reference accession; only entries
	// with an exon_structure carry usable coordinates.
	GenomicSpans map[string]genomicSpan `json:"genomic_spans"`
}

type genomicSpan struct {
	ExonStructure []exonRecord `json:"exon_structure"`
}

type exonRecord struct {
	ExonNumber   int   `json:"exon_number"`
	GenomicStart int64 `json:"genomic_start"`
	GenomicEnd   int64 `json:"genomic_end"`
}

// flattenRecords converts the raw service payload into transcripts.
// Span accessions are visited in sorted order so output is deterministic.
func flattenRecords(records []geneRecord, build string) []*Transcript {
	var out []*Transcript
	for _, rec := range records {
		for _, tr := range rec.Transcripts {
			t := tr.toTranscript(rec.CurrentSymbol, build)
			if len(t.Exons) > 0 {
				out = append(out, t)
			}
		}
	}
	return out
}

func (tr transcriptRecord) toTranscript(symbol, build string) *Transcript {
	t := &Transcript{
		Reference:  tr.Reference,
		GeneSymbol: symbol,
		Chromosome: tr.Annotations.Chromosome,
		Build:      build,
	}
	accessions := make([]string, 0, len(tr.GenomicSpans))
	for acc := range tr.GenomicSpans {
		accessions = append(accessions, acc)
	}
	sort.Strings(accessions)
	for _, acc := range accessions {
		for _, ex := range tr.GenomicSpans[acc].ExonStructure {
			t.Exons = append(t.Exons, Exon{
				Number: ex.ExonNumber,
				Start:  ex.GenomicStart,
				End:    ex.GenomicEnd,
			})
		}
	}
	sort.Slice(t.Exons, func(i, j int) bool { return t.Exons[i].Number < t.Exons[j].Number })
	return t
}

package variantvalidator

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cbfbResponse = `[
  {
    "current_symbol": "CBFB",
    "requested_symbol": "CBFB",
    "transcripts": [
      {
        "annotations": {"chromosome": "16"},
        "reference": "NM_022845.3",
        "genomic_spans": {
          "NC_000016.10": {
            "exon_structure": [
              {"exon_number": 2, "genomic_start": 67066372, "genomic_end": 67066500},
              {"exon_number": 1, "genomic_start": 67029149, "genomic_end": 67029485}
            ],
            "total_exons": 2
          },
          "NW_011332688.1": {}
        }
      }
    ]
  }
]`

func TestGeneTranscripts(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		fmt.Fprint(w, cbfbResponse)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	transcripts, err := client.GeneTranscripts("CBFB", BuildGRCh38)
	require.NoError(t, err)

	assert.Equal(t, "/VariantValidator/tools/gene2transcripts_v2/CBFB/mane_select/refseq/GRCh38", gotPath)
	assert.Equal(t, "content-type=application%2Fjson", gotQuery)

	require.Len(t, transcripts, 1)
	tr := transcripts[0]
	assert.Equal(t, "NM_022845.3", tr.Reference)
	assert.Equal(t, "CBFB", tr.GeneSymbol)
	assert.Equal(t, "16", tr.Chromosome)
	assert.Equal(t, BuildGRCh38, tr.Build)

	// Exons come back sorted by exon number even when the service does not.
	require.Equal(t, 2, tr.ExonCount())
	assert.Equal(t, Exon{Number: 1, Start: 67029149, End: 67029485}, tr.Exons[0])
	assert.Equal(t, Exon{Number: 2, Start: 67066372, End: 67066500}, tr.Exons[1])
}

func TestGeneTranscriptsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.GeneTranscripts("NOSUCHGENE", BuildGRCh38)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestGeneTranscriptsErrorPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"error": "Unable to recognise gene symbol NOSUCHGENE"}`)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.GeneTranscripts("NOSUCHGENE", BuildGRCh38)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestGeneTranscriptsNoExonStructure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"current_symbol": "CBFB", "transcripts": [{"reference": "NM_022845.3", "annotations": {"chromosome": "16"}, "genomic_spans": {}}]}]`)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.GeneTranscripts("CBFB", BuildGRCh38)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestGeneTranscriptsRetriesRateLimit(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, cbfbResponse)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	transcripts, err := client.GeneTranscripts("CBFB", BuildGRCh38)
	require.NoError(t, err)
	assert.Len(t, transcripts, 1)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestGeneTranscriptsUnavailable(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	client.SetMaxRetries(1)
	_, err := client.GeneTranscripts("CBFB", BuildGRCh38)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnavailable))
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestGeneTranscriptsRejectsBadInputBeforeRequest(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)

	_, err := client.GeneTranscripts("CBFB", "hg19")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "genome_build")

	_, err = client.GeneTranscripts("  ", BuildGRCh38)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gene")

	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestValidateBuild(t *testing.T) {
	require.NoError(t, ValidateBuild(BuildGRCh37))
	require.NoError(t, ValidateBuild(BuildGRCh38))

	for _, build := range []string{"", "grch38", "GRCH38", "hg38", "GRCh39"} {
		err := ValidateBuild(build)
		require.Error(t, err, "build %q", build)
		assert.Contains(t, err.Error(), "genome_build")
	}
}

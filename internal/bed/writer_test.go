package bed

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClockWriter(t *testing.T) *Writer {
	t.Helper()
	w := NewWriter(t.TempDir())
	w.now = func() time.Time {
		return time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)
	}
	return w
}

func cbfbCollection() *IntervalCollection {
	return &IntervalCollection{
		PanelID:    "R207",
		Version:    "4.0",
		Build:      "GRCh38",
		Confidence: "green",
		Intervals: []GenomicInterval{
			{Chrom: "16", Start: 67029138, End: 67029495, ExonNumber: 1, Transcript: "NM_022845.3", Gene: "CBFB"},
			{Chrom: "16", Start: 67066361, End: 67066510, ExonNumber: 2, Transcript: "NM_022845.3", Gene: "CBFB"},
		},
	}
}

func TestFilenames(t *testing.T) {
	assert.Equal(t, "R207_v4.0_GRCh38.bed", Filename("R207", "4.0", "GRCh38"))
	assert.Equal(t, "R207_v4.0_GRCh38_merged.bed", MergedFilename("R207", "4.0", "GRCh38"))
}

func TestWriteCollection(t *testing.T) {
	w := fixedClockWriter(t)

	path, err := w.WriteCollection(cbfbCollection())
	require.NoError(t, err)
	assert.Equal(t, "R207_v4.0_GRCh38.bed", filepath.Base(path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	want := "# BED file generated for panel: R207 (Version: 4.0). Date of creation: 2025-06-01 09:30:00.\n" +
		"# Genome build: GRCh38. Number of genes: 1.\n" +
		"# BED file: R207_v4.0_GRCh38.bed\n" +
		"# Columns: chrom, chromStart, chromEnd, exon_number|transcript|gene symbol\n" +
		"16\t67029138\t67029495\texon1|NM_022845.3|CBFB\n" +
		"16\t67066361\t67066510\texon2|NM_022845.3|CBFB\n"
	assert.Equal(t, want, string(content))
}

func TestWriteMerged(t *testing.T) {
	w := fixedClockWriter(t)

	c := &IntervalCollection{
		PanelID: "R207",
		Version: "4.0",
		Build:   "GRCh38",
		Intervals: []GenomicInterval{
			{Chrom: "1", Start: 10, End: 30, ExonNumber: 1, Transcript: "NM_1.1", Gene: "A"},
			{Chrom: "1", Start: 25, End: 60, ExonNumber: 2, Transcript: "NM_1.1", Gene: "A"},
		},
	}
	path, err := w.WriteMerged(c)
	require.NoError(t, err)
	assert.Equal(t, "R207_v4.0_GRCh38_merged.bed", filepath.Base(path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	want := "# Merged BED file generated for panel: R207 (Version: 4.0) Date of creation: 2025-06-01 09:30:00.\n" +
		"# Genome build: GRCh38. Number of genes: 1\n" +
		"# Merged BED file: R207_v4.0_GRCh38_merged.bed\n" +
		"# Columns: chrom, chromStart, chromEnd \n" +
		"# Note: for exon and gene details, see the original BED file.\n" +
		"1\t10\t60\n"
	assert.Equal(t, want, string(content))
}

func TestCheckNotExists(t *testing.T) {
	w := fixedClockWriter(t)

	require.NoError(t, w.CheckNotExists("R207", "4.0", "GRCh38"))

	_, err := w.WriteCollection(cbfbCollection())
	require.NoError(t, err)

	err = w.CheckNotExists("R207", "4.0", "GRCh38")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrExists))
	assert.Contains(t, err.Error(), "R207_v4.0_GRCh38.bed")

	// Other versions are unaffected.
	require.NoError(t, w.CheckNotExists("R207", "4.1", "GRCh38"))
}

func TestWriterCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "bed_out")
	w := NewWriter(dir)

	path, err := w.WriteCollection(cbfbCollection())
	require.NoError(t, err)

	_, err = os.Stat(path)
	require.NoError(t, err)
}

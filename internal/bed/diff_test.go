package bed

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiffIdentical(t *testing.T) {
	entries := []string{"1_10_20_x", "1_30_40_y"}
	aOnly, bOnly := Diff(entries, entries)
	assert.Empty(t, aOnly)
	assert.Empty(t, bOnly)
}

func TestDiffSymmetric(t *testing.T) {
	a := []string{"1_10_20_x", "1_30_40_y"}
	b := []string{"1_30_40_y", "1_50_60_z"}

	aOnly, bOnly := Diff(a, b)
	assert.Equal(t, []string{"1_10_20_x"}, aOnly)
	assert.Equal(t, []string{"1_50_60_z"}, bOnly)

	// Swapping sides swaps the outputs.
	bOnly2, aOnly2 := Diff(b, a)
	assert.Equal(t, aOnly, aOnly2)
	assert.Equal(t, bOnly, bOnly2)
}

func TestDiffKeyIncludesAnnotation(t *testing.T) {
	// Same coordinates but different name column are different entries.
	a := []string{"1_10_20_exon1|NM_1.1|A"}
	b := []string{"1_10_20_exon1|NM_1.2|A"}

	aOnly, bOnly := Diff(a, b)
	assert.Len(t, aOnly, 1)
	assert.Len(t, bOnly, 1)
}

func TestDiffPreservesEncounterOrder(t *testing.T) {
	a := []string{"k3", "k1", "k5", "shared"}
	b := []string{"shared", "k4", "k2"}

	aOnly, bOnly := Diff(a, b)
	assert.Equal(t, []string{"k3", "k1", "k5"}, aOnly)
	assert.Equal(t, []string{"k4", "k2"}, bOnly)
}

func TestWriteReportFormat(t *testing.T) {
	var buf bytes.Buffer
	err := WriteReport(&buf, "a.bed", "b.bed", []string{"1_10_20_x"}, []string{"1_30_40_y"})
	require.NoError(t, err)

	want := "Entry" + strings.Repeat(" ", 55) + "Comment" + strings.Repeat(" ", 33) + "\n" +
		strings.Repeat("=", 100) + "\n" +
		"1_10_20_x" + strings.Repeat(" ", 51) + "# Present in a.bed only\n" +
		"1_30_40_y" + strings.Repeat(" ", 51) + "# Present in b.bed only\n"
	assert.Equal(t, want, buf.String())
}

func TestCompareFiles(t *testing.T) {
	dir := t.TempDir()

	brca1 := "17\t43044294\t43125364\texon1|NM_007294.4|BRCA1\n"
	var cbfbRows strings.Builder
	for i := 1; i <= 6; i++ {
		fmt.Fprintf(&cbfbRows, "16\t%d\t%d\texon%d|NM_022845.3|CBFB\n", 67029138+i*1000, 67029495+i*1000, i)
	}

	oldFile := filepath.Join(dir, "R207_v1.0_GRCh38.bed")
	newFile := filepath.Join(dir, "R207_v1.6_GRCh38.bed")
	require.NoError(t, os.WriteFile(oldFile, []byte("# header\n"+brca1), 0o644))
	require.NoError(t, os.WriteFile(newFile, []byte("# header\n"+brca1+cbfbRows.String()), 0o644))

	reportDir := filepath.Join(dir, "comparisons")
	reportPath, err := CompareFiles(oldFile, newFile, reportDir)
	require.NoError(t, err)
	assert.Equal(t, "comparison_R207_v1.0_GRCh38.bed_R207_v1.6_GRCh38.bed.txt", filepath.Base(reportPath))

	content, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	report := string(content)

	// The shared BRCA1 row is not reported; all six CBFB exons are unique
	// to the newer artifact.
	assert.NotContains(t, report, "BRCA1")
	lines := strings.Split(strings.TrimRight(report, "\n"), "\n")
	require.Len(t, lines, 8)
	for _, line := range lines[2:] {
		assert.Contains(t, line, "NM_022845.3|CBFB")
		assert.Contains(t, line, "# Present in "+newFile+" only")
	}
}

func TestCompareFilesIdentical(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "same.bed")
	require.NoError(t, os.WriteFile(path, []byte("1\t10\t20\tx\n"), 0o644))

	reportPath, err := CompareFiles(path, path, filepath.Join(dir, "out"))
	require.NoError(t, err)

	content, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(content), "\n"), "\n")
	assert.Len(t, lines, 2)
}

func TestCompareFilesMissingInput(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "present.bed")
	require.NoError(t, os.WriteFile(path, []byte("1\t10\t20\tx\n"), 0o644))

	_, err := CompareFiles(path, filepath.Join(dir, "absent.bed"), dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading BED file")
}

func TestReportFilename(t *testing.T) {
	got := ReportFilename("bed_files/R59_v2_GRCh37.bed", "other/R59_v3_GRCh37.bed")
	assert.Equal(t, "comparison_R59_v2_GRCh37.bed_R59_v3_GRCh37.bed.txt", got)
}

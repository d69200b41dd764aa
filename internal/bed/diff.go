package bed

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// DefaultComparisonDir is where comparison reports land unless configured
// otherwise.
const DefaultComparisonDir = "bedfile_comparisons"

// Diff returns the entry keys unique to each side. Each result preserves
// its own side's encounter order. Identical inputs yield two empty slices.
func Diff(a, b []string) (aOnly, bOnly []string) {
	inA := make(map[string]struct{}, len(a))
	for _, k := range a {
		inA[k] = struct{}{}
	}
	inB := make(map[string]struct{}, len(b))
	for _, k := range b {
		inB[k] = struct{}{}
	}

	for _, k := range a {
		if _, ok := inB[k]; !ok {
			aOnly = append(aOnly, k)
		}
	}
	for _, k := range b {
		if _, ok := inA[k]; !ok {
			bOnly = append(bOnly, k)
		}
	}
	return aOnly, bOnly
}

// ReportFilename names the comparison report for two artifacts.
func ReportFilename(file1, file2 string) string {
	return fmt.Sprintf("comparison_%s_%s.txt", filepath.Base(file1), filepath.Base(file2))
}

// WriteReport renders the fixed-width comparison report: entries unique to
// file1 first, then entries unique to file2, each annotated with the file
// it came from. File names appear exactly as passed.
func WriteReport(w io.Writer, file1, file2 string, onlyFile1, onlyFile2 []string) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%-60s%-40s\n", "Entry", "Comment")
	fmt.Fprintln(bw, strings.Repeat("=", 100))
	for _, entry := range onlyFile1 {
		fmt.Fprintf(bw, "%-60s# Present in %s only\n", entry, file1)
	}
	for _, entry := range onlyFile2 {
		fmt.Fprintf(bw, "%-60s# Present in %s only\n", entry, file2)
	}
	return bw.Flush()
}

// CompareFiles reads two artifacts, diffs their entries, and writes the
// report into dir, returning the report path.
func CompareFiles(file1, file2, dir string) (string, error) {
	entries1, err := ReadEntries(file1)
	if err != nil {
		return "", err
	}
	entries2, err := ReadEntries(file2)
	if err != nil {
		return "", err
	}

	onlyFile1, onlyFile2 := Diff(entries1, entries2)

	if dir == "" {
		dir = DefaultComparisonDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating %s: %w", dir, err)
	}
	path := filepath.Join(dir, ReportFilename(file1, file2))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if err := WriteReport(f, file1, file2, onlyFile1, onlyFile2); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

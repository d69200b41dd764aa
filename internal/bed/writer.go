package bed

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ErrExists reports that a target artifact is already on disk.
var ErrExists = errors.New("BED file already exists")

// DefaultDir is where artifacts land unless configured otherwise.
const DefaultDir = "bed_files"

const timestampLayout = "2006-01-02 15:04:05"

// Filename returns the artifact name for a panel, version, and build,
// e.g. "R207_v4.0_GRCh38.bed".
func Filename(panelID, version, build string) string {
	return fmt.Sprintf("%s_v%s_%s.bed", panelID, version, build)
}

// MergedFilename returns the collapsed artifact's name,
// e.g. "R207_v4.0_GRCh38_merged.bed".
func MergedFilename(panelID, version, build string) string {
	return fmt.Sprintf("%s_v%s_%s_merged.bed", panelID, version, build)
}

// Writer serializes interval collections as BED artifacts with provenance
// headers.
type Writer struct {
	dir string
	now func() time.Time // clock, replaceable in tests
}

// NewWriter creates a writer that places artifacts in dir. An empty dir
// selects DefaultDir. The directory is created on first write.
func NewWriter(dir string) *Writer {
	if dir == "" {
		dir = DefaultDir
	}
	return &Writer{dir: dir, now: time.Now}
}

// Path returns where the artifact for a panel, version, and build lands.
func (w *Writer) Path(panelID, version, build string) string {
	return filepath.Join(w.dir, Filename(panelID, version, build))
}

// MergedPath returns where the collapsed artifact lands.
func (w *Writer) MergedPath(panelID, version, build string) string {
	return filepath.Join(w.dir, MergedFilename(panelID, version, build))
}

// CheckNotExists returns ErrExists when the artifact is already on disk.
// Callers run this before issuing any upstream request.
func (w *Writer) CheckNotExists(panelID, version, build string) error {
	path := w.Path(panelID, version, build)
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%w: %s", ErrExists, path)
	}
	return nil
}

// WriteCollection writes the four-column artifact for the collection and
// returns its path. Rows keep the collection's interval order.
func (w *Writer) WriteCollection(c *IntervalCollection) (string, error) {
	path := w.Path(c.PanelID, c.Version, c.Build)
	f, err := w.create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	buf := bufio.NewWriter(f)
	fmt.Fprintf(buf, "# BED file generated for panel: %s (Version: %s). Date of creation: %s.\n",
		c.PanelID, c.Version, w.now().Format(timestampLayout))
	fmt.Fprintf(buf, "# Genome build: %s. Number of genes: %d.\n", c.Build, c.GeneCount())
	fmt.Fprintf(buf, "# BED file: %s\n", Filename(c.PanelID, c.Version, c.Build))
	fmt.Fprintf(buf, "# Columns: chrom, chromStart, chromEnd, exon_number|transcript|gene symbol\n")

	for _, gi := range c.Intervals {
		fmt.Fprintf(buf, "%s\t%d\t%d\t%s\n", gi.Chrom, gi.Start, gi.End, gi.Annotation())
	}
	if err := buf.Flush(); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

// WriteMerged collapses the collection and writes the three-column artifact,
// returning its path.
func (w *Writer) WriteMerged(c *IntervalCollection) (string, error) {
	path := w.MergedPath(c.PanelID, c.Version, c.Build)
	f, err := w.create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	buf := bufio.NewWriter(f)
	fmt.Fprintf(buf, "# Merged BED file generated for panel: %s (Version: %s) Date of creation: %s.\n",
		c.PanelID, c.Version, w.now().Format(timestampLayout))
	fmt.Fprintf(buf, "# Genome build: %s. Number of genes: %d\n", c.Build, c.GeneCount())
	fmt.Fprintf(buf, "# Merged BED file: %s\n", MergedFilename(c.PanelID, c.Version, c.Build))
	fmt.Fprintf(buf, "# Columns: chrom, chromStart, chromEnd \n")
	fmt.Fprintf(buf, "# Note: for exon and gene details, see the original BED file.\n")

	for _, span := range c.Collapsed() {
		fmt.Fprintf(buf, "%s\t%d\t%d\n", span.Chrom, span.Start, span.End)
	}
	if err := buf.Flush(); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

func (w *Writer) create(path string) (*os.File, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", w.dir, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", path, err)
	}
	return f, nil
}

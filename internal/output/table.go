// Package output renders tabular artifacts and terminal tables for panel
// queries.
package output

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/inodb/panelbed/internal/panelapp"
)

// HitsWriter writes gene-to-panel hits in tab-delimited format.
type HitsWriter struct {
	w       *bufio.Writer
	columns []string
}

// NewHitsWriter creates a new tab-delimited hits writer.
func NewHitsWriter(w io.Writer) *HitsWriter {
	return &HitsWriter{
		w: bufio.NewWriter(w),
		columns: []string{
			"panelapp_id",
			"r_code",
			"panel_name",
			"gene_status",
		},
	}
}

// WriteHeader writes the header line.
func (hw *HitsWriter) WriteHeader() error {
	_, err := hw.w.WriteString(strings.Join(hw.columns, "\t") + "\n")
	return err
}

// Write writes a single hit.
func (hw *HitsWriter) Write(hit panelapp.GenePanelHit) error {
	values := []string{
		fmt.Sprintf("%d", hit.PanelID),
		displayRCode(hit.RCode),
		hit.PanelName,
		string(hit.Confidence),
	}
	_, err := hw.w.WriteString(strings.Join(values, "\t") + "\n")
	return err
}

// Flush flushes any buffered data to the underlying writer.
func (hw *HitsWriter) Flush() error {
	return hw.w.Flush()
}

// WriteHitsTable prints hits as a fixed-width terminal table.
func WriteHitsTable(w io.Writer, symbol string, hits []panelapp.GenePanelHit) {
	fmt.Fprintf(w, "Panels associated with gene %s:\n\n", symbol)
	fmt.Fprintf(w, "%-15s%-15s%-75s%s\n", "PanelApp ID", "R Code", "Panel Name", "Gene Status")
	fmt.Fprintln(w, strings.Repeat("-", 120))
	for _, hit := range hits {
		fmt.Fprintf(w, "%-15d%-15s%-75s%s\n", hit.PanelID, displayRCode(hit.RCode), hit.PanelName, hit.Confidence)
	}
}

// WriteGeneList writes one gene symbol per line.
func WriteGeneList(w io.Writer, genes []string) error {
	bw := bufio.NewWriter(w)
	for _, gene := range genes {
		if _, err := bw.WriteString(gene + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// HitsFilename names the saved panel list for a gene query. Commas in the
// status turn into underscores so combined filters stay one path token.
func HitsFilename(symbol, status string) string {
	return fmt.Sprintf("panels_containing_%s_%s.tsv", symbol, strings.ReplaceAll(status, ",", "_"))
}

// GeneListFilename names the saved gene list for one panel version.
func GeneListFilename(panelID, version, status string) string {
	return fmt.Sprintf("%s_v%s_%s_genes.tsv", panelID, version, status)
}

// displayRCode substitutes the display placeholder for panels without an
// R code.
func displayRCode(code string) string {
	if code == "N/A" {
		return "-"
	}
	return code
}

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/panelbed/internal/output"
	"github.com/inodb/panelbed/internal/panelapp"
)

func newGenePanelsCmd() *cobra.Command {
	var (
		gene    string
		status  string
		showAll bool
	)

	cmd := &cobra.Command{
		Use:   "gene-panels",
		Short: "List the panels that carry a gene",
		Long: `Search PanelApp for every panel that includes a gene, print the matches
as a table, and save them to a tab-separated file.

Panels without an R code are hidden unless --show_all_panels is set.`,
		Example: `  panelbed gene-panels --hgnc_symbol BRCA1
  panelbed gene-panels -g TP53 --confidence_status green,amber
  panelbed gene-panels -g MYH7 --confidence_status all --show_all_panels`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("confidence_status") {
				status = viper.GetString("confidence")
			}
			return runGenePanels(gene, status, showAll)
		},
	}

	cmd.Flags().StringVarP(&gene, "hgnc_symbol", "g", "", "HGNC gene symbol, e.g. BRCA1 (required)")
	cmd.Flags().StringVar(&status, "confidence_status", string(panelapp.TierGreen), `Gene status filter: green, amber, red, all, or a comma list like "green,amber"`)
	cmd.Flags().BoolVar(&showAll, "show_all_panels", false, "Include panels without an R code")
	_ = cmd.MarkFlagRequired("hgnc_symbol")

	return cmd
}

func runGenePanels(gene, status string, showAll bool) error {
	symbol := strings.ToUpper(strings.TrimSpace(gene))
	statuses, err := parsePanelFilters(status)
	if err != nil {
		return err
	}

	hits, err := newPanelAppClient().GenePanels(symbol)
	if err != nil {
		return err
	}
	logger.Debug("gene query finished", zap.String("hgnc_symbol", symbol), zap.Int("panels", len(hits)))

	filtered := filterHits(hits, statuses, showAll)
	if len(filtered) == 0 {
		fmt.Printf("No panels found for gene %s with confidence: %s.\n", symbol, status)
		return nil
	}

	fmt.Printf("Command executed: gene-panels --hgnc_symbol %s --confidence_status %s --show_all_panels %t\n\n", symbol, status, showAll)
	output.WriteHitsTable(os.Stdout, symbol, filtered)

	path := output.HitsFilename(symbol, status)
	if err := writeHitsFile(path, filtered); err != nil {
		return err
	}
	fmt.Printf("\nPanel list saved to: %s\n", path)
	return nil
}

func writeHitsFile(path string, hits []panelapp.GenePanelHit) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := output.NewHitsWriter(f)
	if err := w.WriteHeader(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	for _, hit := range hits {
		if err := w.Write(hit); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// parsePanelFilters splits comma-combined statuses like "green,amber".
func parsePanelFilters(s string) ([]panelapp.Tier, error) {
	parts := strings.Split(s, ",")
	tiers := make([]panelapp.Tier, 0, len(parts))
	for _, part := range parts {
		tier, err := panelapp.ParseTier(part)
		if err != nil {
			return nil, err
		}
		tiers = append(tiers, tier)
	}
	return tiers, nil
}

// filterHits keeps hits whose status matches one of the requested tiers
// exactly; the all tier admits everything. Hits without an R code are
// dropped unless showAll is set.
func filterHits(hits []panelapp.GenePanelHit, tiers []panelapp.Tier, showAll bool) []panelapp.GenePanelHit {
	var out []panelapp.GenePanelHit
	for _, hit := range hits {
		if !matchesAny(hit.Confidence, tiers) {
			continue
		}
		if hit.RCode == "N/A" && !showAll {
			continue
		}
		out = append(out, hit)
	}
	return out
}

func matchesAny(t panelapp.Tier, tiers []panelapp.Tier) bool {
	for _, tier := range tiers {
		if tier == panelapp.TierAll || tier == t {
			return true
		}
	}
	return false
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/panelbed/internal/output"
	"github.com/inodb/panelbed/internal/panelapp"
)

func newPanelGenesCmd() *cobra.Command {
	var (
		panelID string
		version string
		status  string
	)

	cmd := &cobra.Command{
		Use:   "panel-genes",
		Short: "Save the gene list for one version of a panel",
		Long: `Fetch a panel's gene list at a given confidence floor and save it to a
text file, one gene per line. Without --panel_version the latest version
is used.`,
		Example: `  panelbed panel-genes --panel_id R207
  panelbed panel-genes -p R207 -v 1.6 --confidence_status amber`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("confidence_status") {
				status = viper.GetString("confidence")
			}
			return runPanelGenes(panelID, version, status)
		},
	}

	cmd.Flags().StringVarP(&panelID, "panel_id", "p", "", "Panel ID, e.g. R207 (required)")
	cmd.Flags().StringVarP(&version, "panel_version", "v", "", "Panel version, e.g. 1.6 (default: latest)")
	cmd.Flags().StringVar(&status, "confidence_status", string(panelapp.TierGreen), "Minimum gene confidence: green, amber, red, or all")
	_ = cmd.MarkFlagRequired("panel_id")

	return cmd
}

func runPanelGenes(panelID, version, status string) error {
	code, err := panelapp.NormalizePanelCode(panelID)
	if err != nil {
		return err
	}
	floor, err := panelapp.ParseTier(status)
	if err != nil {
		return err
	}

	client := newPanelAppClient()
	panel, err := client.GetPanel(code)
	if err != nil {
		return err
	}

	target := panel
	if version == "" {
		version = panel.Version
	} else if version != panel.Version {
		target, err = client.GetPanelVersion(panel.PK, version)
		if err != nil {
			return err
		}
	}

	genes := target.GenesAtFloor(floor)
	if len(genes) == 0 {
		return fmt.Errorf("no genes on panel %s v%s at confidence %s", code, version, floor)
	}
	logger.Debug("gene list resolved",
		zap.String("panel_id", code),
		zap.String("version", version),
		zap.Int("genes", len(genes)))

	path := output.GeneListFilename(code, version, string(floor))
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()
	if err := output.WriteGeneList(f, genes); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	fmt.Printf("Gene list saved to: %s\n", path)
	return nil
}

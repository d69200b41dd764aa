package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/inodb/panelbed/internal/panelapp"
)

func newCheckPanelCmd() *cobra.Command {
	var panelID string

	cmd := &cobra.Command{
		Use:   "check-panel",
		Short: "Look up a panel's name and latest version",
		Long: `Check that a panel exists in PanelApp and show its clinical indication
and latest signed-off version.`,
		Example: `  panelbed check-panel --panel_id R207
  panelbed check-panel --panel_id 207`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheckPanel(panelID)
		},
	}

	cmd.Flags().StringVarP(&panelID, "panel_id", "p", "", "Panel ID, e.g. R207, r207, or 207 (required)")
	_ = cmd.MarkFlagRequired("panel_id")

	return cmd
}

func runCheckPanel(panelID string) error {
	code, err := panelapp.NormalizePanelCode(panelID)
	if err != nil {
		return err
	}

	panel, err := newPanelAppClient().GetPanel(code)
	if err != nil {
		return err
	}
	logger.Debug("panel located",
		zap.String("panel_id", code),
		zap.Int("pk", panel.PK),
		zap.String("version", panel.Version))

	fmt.Printf("Panel ID: %s\n", code)
	fmt.Printf("Clinical Indication: %s\n", panel.Name)
	fmt.Printf("Latest Version: %s\n", panel.Version)
	return nil
}

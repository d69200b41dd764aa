package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/panelbed/internal/panelapp"
)

func newComparePanelVersionsCmd() *cobra.Command {
	var (
		panelID  string
		versions []string
		filter   string
	)

	cmd := &cobra.Command{
		Use:   "compare-panel-versions",
		Short: "Show gene-level differences between two versions of a panel",
		Long: `Fetch two historical versions of a panel and report which genes were
added and which were removed, going from the older version to the newer.`,
		Example: `  panelbed compare-panel-versions --panel_id R207 --versions 1.0,2.1
  panelbed compare-panel-versions -p R21 -v 1.0,2.2 -f amber`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("status_filter") {
				filter = viper.GetString("confidence")
			}
			return runComparePanelVersions(panelID, versions, filter)
		},
	}

	cmd.Flags().StringVarP(&panelID, "panel_id", "p", "", "Panel ID, e.g. R207 (required)")
	cmd.Flags().StringSliceVarP(&versions, "versions", "v", nil, "Two panel versions to compare, e.g. 1.0,2.1 (required)")
	cmd.Flags().StringVarP(&filter, "status_filter", "f", string(panelapp.TierGreen), "Confidence filter: green, amber, or all")
	_ = cmd.MarkFlagRequired("panel_id")
	_ = cmd.MarkFlagRequired("versions")

	return cmd
}

func runComparePanelVersions(panelID string, versions []string, filter string) error {
	code, err := panelapp.NormalizePanelCode(panelID)
	if err != nil {
		return err
	}
	if len(versions) != 2 {
		return &usageError{fmt.Errorf("versions: exactly two versions are required, e.g. --versions 1.0,2.1")}
	}
	older, newer, err := orderVersions(versions[0], versions[1])
	if err != nil {
		return err
	}
	floor, err := parseVersionFilter(filter)
	if err != nil {
		return err
	}

	client := newPanelAppClient()
	panel, err := client.GetPanel(code)
	if err != nil {
		return err
	}

	olderPanel, err := client.GetPanelVersion(panel.PK, older)
	if err != nil {
		return err
	}
	newerPanel, err := client.GetPanelVersion(panel.PK, newer)
	if err != nil {
		return err
	}

	olderGenes := olderPanel.GenesAtFloor(floor)
	newerGenes := newerPanel.GenesAtFloor(floor)
	removed := subtract(olderGenes, newerGenes)
	added := subtract(newerGenes, olderGenes)
	logger.Debug("panel versions compared",
		zap.String("panel_id", code),
		zap.String("older", older),
		zap.String("newer", newer),
		zap.Int("removed", len(removed)),
		zap.Int("added", len(added)))

	fmt.Printf("Removed Genes: %s\n", strings.Join(removed, ", "))
	fmt.Printf("Added Genes: %s\n", strings.Join(added, ", "))
	return nil
}

// orderVersions sorts the two versions numerically while keeping the
// original strings, so "1.0" is not mangled into "1" on its way back
// into a version query.
func orderVersions(a, b string) (older, newer string, err error) {
	fa, err := strconv.ParseFloat(a, 64)
	if err != nil {
		return "", "", fmt.Errorf("versions: %q is not a valid version number", a)
	}
	fb, err := strconv.ParseFloat(b, 64)
	if err != nil {
		return "", "", fmt.Errorf("versions: %q is not a valid version number", b)
	}
	if fa <= fb {
		return a, b, nil
	}
	return b, a, nil
}

// parseVersionFilter accepts the subset of confidence filters this
// command supports.
func parseVersionFilter(s string) (panelapp.Tier, error) {
	tier, err := panelapp.ParseTier(s)
	if err != nil {
		return "", err
	}
	if tier == panelapp.TierRed {
		return "", fmt.Errorf("status_filter: %q is not a valid filter, choose from \"green\", \"amber\", \"all\"", s)
	}
	return tier, nil
}

// subtract returns the entries of a that are not in b, keeping a's order.
func subtract(a, b []string) []string {
	inB := make(map[string]struct{}, len(b))
	for _, s := range b {
		inB[s] = struct{}{}
	}
	var out []string
	for _, s := range a {
		if _, ok := inB[s]; !ok {
			out = append(out, s)
		}
	}
	return out
}

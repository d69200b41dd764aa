// Package panelapp queries the PanelApp REST API for gene panels, panel
// versions, and the panels a gene appears on.
package panelapp

import (
	"fmt"
	"regexp"
	"strings"
)

// Tier is the curation confidence grade of a gene on a panel.
type Tier string

const (
	TierGreen   Tier = "green"
	TierAmber   Tier = "amber"
	TierRed     Tier = "red"
	TierUnknown Tier = "unknown"

	// TierAll is not a grade; as a filter it admits every gene.
	TierAll Tier = "all"
)

// ParseTier validates a user-supplied confidence status.
func ParseTier(s string) (Tier, error) {
	switch Tier(strings.ToLower(strings.TrimSpace(s))) {
	case TierGreen:
		return TierGreen, nil
	case TierAmber:
		return TierAmber, nil
	case TierRed:
		return TierRed, nil
	case TierAll:
		return TierAll, nil
	}
	return "", fmt.Errorf("confidence_status: %q is not a valid confidence status, choose from %q, %q, %q, %q",
		s, TierGreen, TierAmber, TierRed, TierAll)
}

// tierFromLevel maps the numeric confidence_level strings served by the API.
func tierFromLevel(level string) Tier {
	switch level {
	case "3":
		return TierGreen
	case "2":
		return TierAmber
	case "1":
		return TierRed
	}
	return TierUnknown
}

// MeetsFloor reports whether a gene at tier t passes a confidence floor.
// A green floor admits green genes only; an amber floor admits green and
// amber. Red and all floors admit every tier.
func (t Tier) MeetsFloor(floor Tier) bool {
	switch floor {
	case TierGreen:
		return t == TierGreen
	case TierAmber:
		return t == TierGreen || t == TierAmber
	}
	return true
}

// Panel is one PanelApp panel: a versioned, R-code addressable gene set.
type Panel struct {
	Code      string   // R code the panel was requested by, e.g. "R207"
	PK        int      // numeric PanelApp identifier, used for versioned lookups
	Name      string   // clinical indication
	Version   string   // panel version, e.g. "4.0"
	Disorders []string // relevant disorders as curated upstream
	Genes     []Gene   // panel genes in API order
}

// Gene is a single panel gene with its curation confidence.
type Gene struct {
	Symbol     string
	Confidence Tier
}

// GenesAtFloor returns the panel's gene symbols whose confidence passes the
// floor, in panel order.
func (p *Panel) GenesAtFloor(floor Tier) []string {
	var symbols []string
	for _, g := range p.Genes {
		if g.Confidence.MeetsFloor(floor) {
			symbols = append(symbols, g.Symbol)
		}
	}
	return symbols
}

// RCodes returns the R numbers mentioned in the panel's relevant disorders.
func (p *Panel) RCodes() string {
	return ExtractRCodes(p.Disorders)
}

// GenePanelHit is one panel that carries a queried gene.
type GenePanelHit struct {
	PanelID    int    // numeric PanelApp panel identifier
	RCode      string // R number(s) from relevant disorders, "N/A" when absent
	PanelName  string
	Confidence Tier // the gene's confidence on that panel
}

var (
	panelCodePattern = regexp.MustCompile(`^R\d+$`)
	rCodePattern     = regexp.MustCompile(`R\d+`)
)

// NormalizePanelCode canonicalizes a user-supplied panel code: surrounding
// space is trimmed, case is folded, and a bare number gets the R prefix
// ("59" becomes "R59"). The result must be an R number.
func NormalizePanelCode(input string) (string, error) {
	code := strings.ToUpper(strings.TrimSpace(input))
	if code != "" && !strings.HasPrefix(code, "R") {
		code = "R" + code
	}
	if !panelCodePattern.MatchString(code) {
		return "", fmt.Errorf("panel_id: %q is not a valid panel ID (expected R followed by digits, e.g. R59)", input)
	}
	return code, nil
}

// ExtractRCodes pulls R numbers out of free-text disorder labels, joined
// with ", ". Labels without any R number yield "N/A".
func ExtractRCodes(disorders []string) string {
	var codes []string
	for _, d := range disorders {
		codes = append(codes, rCodePattern.FindAllString(d, -1)...)
	}
	if len(codes) == 0 {
		return "N/A"
	}
	return strings.Join(codes, ", ")
}

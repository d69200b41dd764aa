package bed

// BuildRequest carries everything needed to produce one pair of artifacts.
type BuildRequest struct {
	PanelID    string   // canonical R code, e.g. "R207"
	Version    string   // panel version the gene list came from
	Build      string   // genome build for coordinate resolution
	Confidence string   // confidence floor the gene list was selected at
	Genes      []string // gene symbols to resolve, in panel order
}

// Build resolves every gene and writes the padded artifact plus its
// collapsed companion, returning both paths. The existence check runs
// before any lookup, so repeating a finished run costs no upstream
// requests.
func Build(w *Writer, r *Resolver, req BuildRequest) (string, string, error) {
	if err := w.CheckNotExists(req.PanelID, req.Version, req.Build); err != nil {
		return "", "", err
	}

	intervals, err := r.Resolve(req.Genes, req.Build)
	if err != nil {
		return "", "", err
	}

	col := &IntervalCollection{
		PanelID:    req.PanelID,
		Version:    req.Version,
		Build:      req.Build,
		Confidence: req.Confidence,
		Intervals:  intervals,
	}
	bedPath, err := w.WriteCollection(col)
	if err != nil {
		return "", "", err
	}
	mergedPath, err := w.WriteMerged(col)
	if err != nil {
		return "", "", err
	}
	return bedPath, mergedPath, nil
}

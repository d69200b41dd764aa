package duckdb

import (
	"fmt"
	"os"
	"time"
)

// ArtifactInfo captures the on-disk identity of a generated BED artifact at
// the time it is recorded.
type ArtifactInfo struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// StatArtifact returns the artifact info for a path.
func StatArtifact(path string) (ArtifactInfo, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return ArtifactInfo{}, fmt.Errorf("stat artifact: %w", err)
	}
	return ArtifactInfo{
		Path:    path,
		Size:    fi.Size(),
		ModTime: fi.ModTime(),
	}, nil
}

package bed

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// ReadEntries reads a BED artifact and returns one key per data row: the
// tab-separated fields joined with underscores. Blank lines and # comments
// are skipped. Keys are deduplicated, keeping first-seen order.
func ReadEntries(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading BED file: %w", err)
	}
	defer f.Close()

	var entries []string
	seen := make(map[string]struct{})

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key := strings.Join(strings.Split(line, "\t"), "_")
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		entries = append(entries, key)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading BED file: %w", err)
	}
	return entries, nil
}

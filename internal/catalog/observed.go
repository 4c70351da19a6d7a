package catalog

import (
	"fmt"
	"os"
	"strings"
)

// ObservedTICs scans a light-curve directory and collects the TIC
// identifiers embedded in the product filenames. Files without a TIC field
// are ignored.
func ObservedTICs(dir string) (map[int64]bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read light-curve directory: %w", err)
	}
	observed := make(map[int64]bool)
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(e.Name()), ".csv") {
			continue
		}
		if tic, err := TICFromFilename(e.Name()); err == nil {
			observed[tic] = true
		}
	}
	return observed, nil
}

// RestrictToObserved keeps only the stars that have a light curve on disk.
func RestrictToObserved(stars []Star, observed map[int64]bool) []Star {
	out := make([]Star, 0, len(stars))
	for _, s := range stars {
		if observed[s.TICID] {
			out = append(out, s)
		}
	}
	return out
}

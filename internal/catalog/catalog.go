// Package catalog handles the stellar input catalog: reading TIC parameter
// tables, applying the M-dwarf sample cuts, and matching light-curve files
// to catalog rows.
package catalog

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
)

// Star is one catalog row. Teff is in Kelvin, Logg in cgs dex, Tmag is the
// TESS-band magnitude. Sector is the observing sector the light curve comes
// from, zero when unknown.
type Star struct {
	TICID  int64
	Teff   float64
	Logg   float64
	Tmag   float64
	Sector int
}

// Cuts are the sample-selection thresholds. Stars pass when
// TeffMinK <= Teff <= TeffMaxK and Logg >= LoggMin.
type Cuts struct {
	TeffMinK float64
	TeffMaxK float64
	LoggMin  float64
	MaxStars int
}

// Filter applies the temperature and surface-gravity cuts, sorts the
// survivors by brightness (ascending Tmag), and truncates to MaxStars.
// MaxStars <= 0 means no cap. An empty result is not an error: zero
// qualifying stars is a legitimate (if disappointing) outcome the caller
// reports.
func Filter(stars []Star, c Cuts) ([]Star, error) {
	if c.TeffMinK >= c.TeffMaxK {
		return nil, fmt.Errorf("invalid Teff window [%f, %f]", c.TeffMinK, c.TeffMaxK)
	}

	out := make([]Star, 0, len(stars))
	for _, s := range stars {
		if s.Teff < c.TeffMinK || s.Teff > c.TeffMaxK {
			continue
		}
		if s.Logg < c.LoggMin {
			continue
		}
		out = append(out, s)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Tmag < out[j].Tmag })

	if c.MaxStars > 0 && len(out) > c.MaxStars {
		out = out[:c.MaxStars]
	}
	return out, nil
}

// ticPattern matches the zero-padded TIC number embedded in TESS light-curve
// product filenames.
var ticPattern = regexp.MustCompile(`-([0-9]{16})-`)

// TICFromFilename extracts the TIC identifier from a light-curve filename.
func TICFromFilename(name string) (int64, error) {
	m := ticPattern.FindStringSubmatch(name)
	if m == nil {
		return 0, fmt.Errorf("no TIC identifier in filename %q", name)
	}
	id, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse TIC from %q: %w", name, err)
	}
	return id, nil
}

// Index builds a TIC lookup over a star list.
func Index(stars []Star) map[int64]Star {
	idx := make(map[int64]Star, len(stars))
	for _, s := range stars {
		idx[s.TICID] = s
	}
	return idx
}

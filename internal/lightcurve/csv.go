package lightcurve

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// ReadCSV loads a light curve from a two-column CSV with a header row.
// Column names are matched case-insensitively: the time column may be named
// "time" or "btjd", the flux column "flux" or "pdcsap_flux". Blank or
// unparseable flux cells become NaN so Clean can drop them, matching how the
// archive products mark bad cadences.
func ReadCSV(r io.Reader) (*LightCurve, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read light curve header: %w", err)
	}

	timeCol, fluxCol := -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "time", "btjd":
			timeCol = i
		case "flux", "pdcsap_flux":
			fluxCol = i
		}
	}
	if timeCol < 0 || fluxCol < 0 {
		return nil, fmt.Errorf("light curve CSV must have time and flux columns, got %v", header)
	}

	lc := &LightCurve{}
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read light curve row %d: %w", line, err)
		}
		if timeCol >= len(record) || fluxCol >= len(record) {
			return nil, fmt.Errorf("light curve row %d has %d columns", line, len(record))
		}

		t, err := strconv.ParseFloat(strings.TrimSpace(record[timeCol]), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid time on row %d: %w", line, err)
		}

		f, err := strconv.ParseFloat(strings.TrimSpace(record[fluxCol]), 64)
		if err != nil {
			// Archive exports mark bad cadences with empty or non-numeric
			// cells; carry them as NaN for Clean to remove.
			f = math.NaN()
		}

		lc.Time = append(lc.Time, t)
		lc.Flux = append(lc.Flux, f)
	}

	if lc.Len() == 0 {
		return nil, ErrEmpty
	}
	return lc, nil
}

// ReadCSVFile loads a light curve from the named CSV file.
func ReadCSVFile(path string) (*LightCurve, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open light curve file: %w", err)
	}
	defer f.Close()

	lc, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return lc, nil
}

package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Host is a confirmed planet host: the TIC identifier plus how many planets
// it carries. Multiplicity drives the single-vs-multi comparison.
type Host struct {
	TICID   int64
	Planets int
}

// Multi reports whether the host carries more than one planet.
func (h Host) Multi() bool { return h.Planets >= 2 }

var planetColumns = []string{"n_planets", "planets", "npl"}

// ReadHostsCSV parses a planet-host table with TIC and planet-count columns.
func ReadHostsCSV(r io.Reader) ([]Host, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read hosts header: %w", err)
	}
	ticIdx := findColumn(header, ticColumns)
	nIdx := findColumn(header, planetColumns)
	if ticIdx < 0 || nIdx < 0 {
		return nil, fmt.Errorf("hosts table missing required columns (have %v)", header)
	}

	var hosts []Host
	row := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read hosts row %d: %w", row, err)
		}
		row++

		tic, err := strconv.ParseInt(strings.TrimSpace(rec[ticIdx]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("hosts row %d: bad TIC %q", row, rec[ticIdx])
		}
		n, err := strconv.Atoi(strings.TrimSpace(rec[nIdx]))
		if err != nil || n < 1 {
			return nil, fmt.Errorf("hosts row %d: bad planet count %q", row, rec[nIdx])
		}
		hosts = append(hosts, Host{TICID: tic, Planets: n})
	}
	if len(hosts) == 0 {
		return nil, fmt.Errorf("hosts table has no rows")
	}
	return hosts, nil
}

// ReadHostsCSVFile reads a planet-host table from disk.
func ReadHostsCSVFile(path string) ([]Host, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open hosts %s: %w", path, err)
	}
	defer f.Close()
	return ReadHostsCSV(f)
}

package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// column name candidates, lowercase. The TIC catalog exports we ingest are
// not consistent about headers.
var (
	ticColumns    = []string{"tic_id", "ticid", "tic", "id"}
	teffColumns   = []string{"teff", "teff_k", "t_eff"}
	loggColumns   = []string{"logg", "log_g"}
	tmagColumns   = []string{"tmag", "tess_mag", "tessmag"}
	sectorColumns = []string{"sector", "sectors"}
)

func findColumn(header []string, candidates []string) int {
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(h))
		for _, c := range candidates {
			if h == c {
				return i
			}
		}
	}
	return -1
}

// ReadCSV parses a catalog table. TIC, Teff, and logg columns are required;
// Tmag and Sector are optional and default to zero when absent. Rows with an
// empty Teff or logg cell are dropped (catalog exports routinely lack stellar
// parameters for some stars); unparseable non-empty fields are rejected with
// a row-numbered error.
func ReadCSV(r io.Reader) ([]Star, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read catalog header: %w", err)
	}

	ticIdx := findColumn(header, ticColumns)
	teffIdx := findColumn(header, teffColumns)
	loggIdx := findColumn(header, loggColumns)
	tmagIdx := findColumn(header, tmagColumns)
	sectorIdx := findColumn(header, sectorColumns)
	if ticIdx < 0 || teffIdx < 0 || loggIdx < 0 {
		return nil, fmt.Errorf("catalog missing required columns (have %v)", header)
	}

	var stars []Star
	row := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read catalog row %d: %w", row, err)
		}
		row++

		tic, err := strconv.ParseInt(strings.TrimSpace(rec[ticIdx]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("catalog row %d: bad TIC %q", row, rec[ticIdx])
		}
		teffStr := strings.TrimSpace(rec[teffIdx])
		loggStr := strings.TrimSpace(rec[loggIdx])
		if teffStr == "" || loggStr == "" {
			continue // no stellar parameters, cannot place this star
		}
		teff, err := strconv.ParseFloat(teffStr, 64)
		if err != nil {
			return nil, fmt.Errorf("catalog row %d: bad Teff %q", row, teffStr)
		}
		logg, err := strconv.ParseFloat(loggStr, 64)
		if err != nil {
			return nil, fmt.Errorf("catalog row %d: bad logg %q", row, loggStr)
		}

		s := Star{TICID: tic, Teff: teff, Logg: logg}
		if tmagIdx >= 0 {
			if v, err := strconv.ParseFloat(strings.TrimSpace(rec[tmagIdx]), 64); err == nil {
				s.Tmag = v
			}
		}
		if sectorIdx >= 0 {
			if v, err := strconv.Atoi(strings.TrimSpace(rec[sectorIdx])); err == nil {
				s.Sector = v
			}
		}
		stars = append(stars, s)
	}
	// A header-only file is a legitimate empty sample, e.g. when the cuts
	// matched nothing; the caller reports the empty batch.
	return stars, nil
}

// ReadCSVFile reads a catalog from disk.
func ReadCSVFile(path string) ([]Star, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog %s: %w", path, err)
	}
	defer f.Close()
	return ReadCSV(f)
}

// WriteCSV writes the selected sample in the canonical column order so a
// sample file round-trips through ReadCSV.
func WriteCSV(w io.Writer, stars []Star) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"TIC_ID", "Teff", "logg", "Tmag", "Sector"}); err != nil {
		return err
	}
	for _, s := range stars {
		rec := []string{
			strconv.FormatInt(s.TICID, 10),
			strconv.FormatFloat(s.Teff, 'f', 1, 64),
			strconv.FormatFloat(s.Logg, 'f', 3, 64),
			strconv.FormatFloat(s.Tmag, 'f', 3, 64),
			strconv.Itoa(s.Sector),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSVFile writes the sample to disk.
func WriteCSVFile(path string, stars []Star) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create sample %s: %w", path, err)
	}
	defer f.Close()
	return WriteCSV(f, stars)
}

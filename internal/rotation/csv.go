package rotation

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

var resultColumns = []string{
	"TIC_ID", "Teff", "logg", "Tmag",
	"LS_Period", "LS_Power", "LS_FAP",
	"ACF_Period", "Final_Period", "Flag", "Variability",
}

// WriteResultsCSV writes the per-star results table. A failed ACF is written
// as an empty cell, not a zero period.
func WriteResultsCSV(w io.Writer, results []Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(resultColumns); err != nil {
		return err
	}
	for _, r := range results {
		acfCell := ""
		if r.ACFPeriodDays > 0 {
			acfCell = strconv.FormatFloat(r.ACFPeriodDays, 'f', 4, 64)
		}
		rec := []string{
			strconv.FormatInt(r.TICID, 10),
			strconv.FormatFloat(r.Teff, 'f', 1, 64),
			strconv.FormatFloat(r.Logg, 'f', 3, 64),
			strconv.FormatFloat(r.Tmag, 'f', 3, 64),
			strconv.FormatFloat(r.LSPeriodDays, 'f', 4, 64),
			strconv.FormatFloat(r.LSPower, 'f', 4, 64),
			strconv.FormatFloat(r.LSFAP, 'f', 5, 64),
			acfCell,
			strconv.FormatFloat(r.FinalPeriod, 'f', 4, 64),
			r.Flag.String(),
			strconv.FormatFloat(r.Variability, 'f', 6, 64),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteResultsCSVFile writes the results table to disk.
func WriteResultsCSVFile(path string, results []Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create results %s: %w", path, err)
	}
	defer f.Close()
	return WriteResultsCSV(f, results)
}

// ReadResultsCSV parses a results table written by WriteResultsCSV. Used by
// the inspection and comparison tools.
func ReadResultsCSV(r io.Reader) ([]Result, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read results header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.TrimSpace(h)] = i
	}
	for _, want := range resultColumns {
		if _, ok := col[want]; !ok {
			return nil, fmt.Errorf("results table missing column %q", want)
		}
	}

	parse := func(rec []string, name string) (float64, error) {
		cell := strings.TrimSpace(rec[col[name]])
		if cell == "" {
			return 0, nil
		}
		return strconv.ParseFloat(cell, 64)
	}

	var results []Result
	row := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read results row %d: %w", row, err)
		}
		row++

		tic, err := strconv.ParseInt(strings.TrimSpace(rec[col["TIC_ID"]]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("results row %d: bad TIC %q", row, rec[col["TIC_ID"]])
		}
		flag, err := ParseFlag(strings.TrimSpace(rec[col["Flag"]]))
		if err != nil {
			return nil, fmt.Errorf("results row %d: %w", row, err)
		}

		res := Result{TICID: tic, Flag: flag}
		fields := []struct {
			name string
			dst  *float64
		}{
			{"Teff", &res.Teff},
			{"logg", &res.Logg},
			{"Tmag", &res.Tmag},
			{"LS_Period", &res.LSPeriodDays},
			{"LS_Power", &res.LSPower},
			{"LS_FAP", &res.LSFAP},
			{"ACF_Period", &res.ACFPeriodDays},
			{"Final_Period", &res.FinalPeriod},
			{"Variability", &res.Variability},
		}
		for _, f := range fields {
			v, err := parse(rec, f.name)
			if err != nil {
				return nil, fmt.Errorf("results row %d: bad %s: %w", row, f.name, err)
			}
			*f.dst = v
		}
		results = append(results, res)
	}
	return results, nil
}

// ReadResultsCSVFile reads a results table from disk.
func ReadResultsCSVFile(path string) ([]Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open results %s: %w", path, err)
	}
	defer f.Close()
	return ReadResultsCSV(f)
}

// Package report writes the ranking results as flat files.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/etnz/momentum"
)

// Header is the column layout of ranking files.
var Header = []string{"ticker", "mom_12_1", "rank", "pct_rank"}

// Output file names of the decile tails.
const (
	TopFile    = "top_10pct.csv"
	BottomFile = "bottom_10pct.csv"
)

// formatFloat writes the shortest representation that reads back exactly.
func formatFloat(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

// WriteCSV writes rows with the ranking Header.
func WriteCSV(w io.Writer, rows []momentum.Ranked) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{r.Ticker, formatFloat(r.Mom121), strconv.Itoa(r.Rank), formatFloat(r.PctRank)}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV reads rows written by WriteCSV. Columns are located by name, so
// extra columns and a different order are tolerated.
func ReadCSV(r io.Reader) ([]momentum.Ranked, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("cannot read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	col := make(map[string]int, len(Header))
	for _, name := range Header {
		i := slices.IndexFunc(header, func(h string) bool { return strings.EqualFold(strings.TrimSpace(h), name) })
		if i < 0 {
			return nil, fmt.Errorf("missing column %q in header %v", name, header)
		}
		col[name] = i
	}

	var rows []momentum.Ranked
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}
		var row momentum.Ranked
		row.Ticker = record[col["ticker"]]
		row.LastMonth, row.LastClose = math.NaN(), math.NaN()
		if row.Mom121, err = strconv.ParseFloat(record[col["mom_12_1"]], 64); err != nil {
			return nil, fmt.Errorf("line %d: invalid mom_12_1: %w", line, err)
		}
		if row.Rank, err = strconv.Atoi(record[col["rank"]]); err != nil {
			return nil, fmt.Errorf("line %d: invalid rank: %w", line, err)
		}
		if row.PctRank, err = strconv.ParseFloat(record[col["pct_rank"]], 64); err != nil {
			return nil, fmt.Errorf("line %d: invalid pct_rank: %w", line, err)
		}
		rows = append(rows, row)
	}
}

// ReadCSVFile reads a ranking file.
func ReadCSVFile(name string) ([]momentum.Ranked, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	rows, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return rows, nil
}

// WriteCSVFile writes rows to a file, replacing it.
func WriteCSVFile(name string, rows []momentum.Ranked) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := WriteCSV(f, rows); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", name, err)
	}
	return f.Close()
}

// WriteDeciles writes the top and bottom tails into dir, created if
// missing. It returns the written paths.
func WriteDeciles(dir string, top, bottom []momentum.Ranked) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create output dir: %w", err)
	}
	var paths []string
	for _, f := range []struct {
		name string
		rows []momentum.Ranked
	}{{TopFile, top}, {BottomFile, bottom}} {
		path := filepath.Join(dir, f.name)
		if err := WriteCSVFile(path, f.rows); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

package momentum

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"unicode"

	"go.uber.org/zap"
)

// headerNames are the column names recognized as the ticker column.
var headerNames = []string{"ticker", "tickers", "symbol", "symbols"}

// ReadTickers reads raw tickers from a CSV stream.
//
// If the first row names a ticker column (see headerNames), that column is
// used. Otherwise the file has no header and the first column holds the
// tickers. A first row that reads like column labels is still taken as data,
// with a warning.
func ReadTickers(r io.Reader, logger *zap.Logger) ([]string, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	col := 0
	var raws []string
	for line := 0; ; line++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("cannot read tickers: %w", err)
		}
		if line == 0 {
			if len(record) > 0 {
				record[0] = strings.TrimPrefix(record[0], "\ufeff")
			}
			if i := headerColumn(record); i >= 0 {
				col = i
				continue
			}
			if len(record) > 0 && looksLikeLabel(record[0]) {
				logger.Warn("first row read as tickers, name the column one of "+strings.Join(headerNames, ", ")+" if it is a header",
					zap.Strings("row", record))
			}
		}
		if col < len(record) {
			raws = append(raws, record[col])
		}
	}
	return raws, nil
}

// headerColumn returns the index of the ticker column in a header row, or -1
// if the row is not a header.
func headerColumn(record []string) int {
	for i, cell := range record {
		cell = strings.ToLower(strings.TrimSpace(cell))
		if slices.Contains(headerNames, cell) {
			return i
		}
	}
	return -1
}

// looksLikeLabel reports whether cell reads like a column name rather than a
// ticker: tickers are written in upper case without spaces.
func looksLikeLabel(cell string) bool {
	return strings.IndexFunc(strings.TrimSpace(cell), func(r rune) bool {
		return unicode.IsLower(r) || unicode.IsSpace(r)
	}) >= 0
}

// ReadTickersFile is like ReadTickers for a named file.
func ReadTickersFile(name string, logger *zap.Logger) ([]string, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadTickers(f, logger)
}

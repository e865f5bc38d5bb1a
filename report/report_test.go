package report

import (
	"bytes"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/etnz/momentum"
	"github.com/etnz/momentum/date"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ranked() []momentum.Ranked {
	signals := []momentum.Signal{
		{Ticker: "AAPL", Mom121: 0.5, LastMonth: 0.01, LastClose: 242.75},
		{Ticker: "BBD-B.TO", Mom121: 1.0 / 3, LastMonth: -0.02, LastClose: 42.1},
		{Ticker: "MSFT", Mom121: -0.2, LastMonth: math.NaN(), LastClose: 410},
	}
	return momentum.Rank(signals)
}

func TestCSVRoundTrip(t *testing.T) {
	rows := ranked()
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, rows))
	assert.True(t, strings.HasPrefix(buf.String(), "ticker,mom_12_1,rank,pct_rank\n"), "header line: %q", buf.String())

	got, err := ReadCSV(&buf)
	require.NoError(t, err)
	require.Len(t, got, len(rows))
	for i := range rows {
		assert.Equal(t, rows[i].Ticker, got[i].Ticker)
		assert.Equal(t, rows[i].Rank, got[i].Rank)
		assert.InDelta(t, rows[i].Mom121, got[i].Mom121, 1e-9)
		assert.InDelta(t, rows[i].PctRank, got[i].PctRank, 1e-9)
	}
}

func TestReadCSV_ColumnOrder(t *testing.T) {
	in := "rank,ticker,extra,pct_rank,mom_12_1\n1,AAPL,x,0.5,0.25\n"
	got, err := ReadCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "AAPL", got[0].Ticker)
	assert.Equal(t, 0.25, got[0].Mom121)
}

func TestReadCSV_ByteOrderMark(t *testing.T) {
	in := "\ufeffticker,mom_12_1,rank,pct_rank\r\nAAPL,0.5,1,0.5\r\nMSFT,-0.2,2,1\r\n"
	got, err := ReadCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "AAPL", got[0].Ticker)
	assert.Equal(t, 2, got[1].Rank)
}

func TestReadCSV_Invalid(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("ticker,rank\nAAPL,1\n"))
	assert.ErrorContains(t, err, "mom_12_1")

	_, err = ReadCSV(strings.NewReader("ticker,mom_12_1,rank,pct_rank\nAAPL,abc,1,0.5\n"))
	assert.ErrorContains(t, err, "line 2")
}

func TestWriteDeciles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	rows := ranked()
	paths, err := WriteDeciles(dir, rows[:1], rows[2:])
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, TopFile), filepath.Join(dir, BottomFile)}, paths)

	got, err := ReadCSVFile(filepath.Join(dir, BottomFile))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "MSFT", got[0].Ticker)

	// empty tails still produce a header only file.
	_, err = WriteDeciles(dir, nil, nil)
	require.NoError(t, err)
	content, err := os.ReadFile(filepath.Join(dir, TopFile))
	require.NoError(t, err)
	assert.Equal(t, "ticker,mom_12_1,rank,pct_rank\n", string(content))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "12.34%", Percent(0.1234))
	assert.Equal(t, "-5.00%", Percent(-0.05))
	assert.Equal(t, "n/a", Percent(math.NaN()))
	assert.Equal(t, "$242.75", Price("AAPL", 242.75))
	assert.Equal(t, "n/a", Price("AAPL", math.NaN()))
	assert.Equal(t, "CAD", Currency("BBD-B.TO"))
	assert.Equal(t, "USD", Currency("BRK-A"))
}

func TestWriteSummary(t *testing.T) {
	rows := ranked()
	res := &momentum.Result{
		Provider: "fake",
		Universe: []string{"AAPL", "BBD-B.TO", "MSFT", "NEW"},
		Window:   date.Lookback(date.New(2025, 6, 20), 558),
		AsOf:     date.New(2025, 6, 30),
		Excluded: []string{"NEW"},
		Ranked:   rows,
		Top:      rows[:1],
		Bottom:   rows[2:],
	}
	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, NewSummary(res)))
	assert.Contains(t, buf.String(), "\n  \"provider\": \"fake\"", "indented output")

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	_, err := uuid.Parse(got["run_id"].(string))
	assert.NoError(t, err)
	assert.Equal(t, "2025-06-30", got["as_of"])
	assert.Equal(t, float64(4), got["universe"])
	top := got["top"].([]any)
	require.Len(t, top, 1)
	assert.Equal(t, "50.00%", top[0].(map[string]any)["mom_12_1"])
	assert.Equal(t, "$242.75", top[0].(map[string]any)["last_close"])
}

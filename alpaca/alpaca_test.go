package alpaca

import (
	"context"
	"testing"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
	"github.com/etnz/momentum/date"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBars struct {
	req     marketdata.GetBarsRequest
	symbols []string
	bars    map[string][]marketdata.Bar
}

func (f *fakeBars) GetMultiBars(symbols []string, req marketdata.GetBarsRequest) (map[string][]marketdata.Bar, error) {
	f.symbols, f.req = symbols, req
	return f.bars, nil
}

func TestSymbol(t *testing.T) {
	tests := []struct {
		ticker string
		want   string
		ok     bool
	}{
		{"AAPL", "AAPL", true},
		{"BRK-A", "BRK.A", true},
		{"BBD-B.TO", "", false},
		{"ABC.V", "", false},
	}
	for _, tt := range tests {
		got, ok := Symbol(tt.ticker)
		assert.Equal(t, tt.want, got, "Symbol(%q)", tt.ticker)
		assert.Equal(t, tt.ok, ok, "Symbol(%q)", tt.ticker)
	}
}

func TestProviderFetch(t *testing.T) {
	ny := time.FixedZone("EST", -5*3600)
	fake := &fakeBars{bars: map[string][]marketdata.Bar{
		"BRK.A": {
			{Timestamp: time.Date(2025, 1, 2, 0, 0, 0, 0, ny), Close: 680000},
			{Timestamp: time.Date(2025, 1, 3, 0, 0, 0, 0, ny), Close: 682000},
		},
		"AAPL": nil,
	}}
	p := New("", "", "", nil)
	p.client = fake

	r := date.Range{From: date.New(2025, 1, 1), To: date.New(2025, 1, 31)}
	got, err := p.Fetch(context.Background(), []string{"AAPL", "BRK-A", "BBD-B.TO"}, r)
	require.NoError(t, err)

	assert.Equal(t, []string{"AAPL", "BRK.A"}, fake.symbols)
	assert.Equal(t, marketdata.All, fake.req.Adjustment)
	assert.Equal(t, marketdata.OneDay, fake.req.TimeFrame)
	assert.NotContains(t, got, "AAPL", "empty series are omitted")
	require.Contains(t, got, "BRK-A")

	on, v := got["BRK-A"].Latest()
	assert.Equal(t, date.New(2025, 1, 3), on)
	assert.Equal(t, 682000.0, v)
}

func TestProviderFetch_NoUSTicker(t *testing.T) {
	fake := &fakeBars{}
	p := New("", "", "", nil)
	p.client = fake
	got, err := p.Fetch(context.Background(), []string{"ABC.V"}, date.Range{})
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Nil(t, fake.symbols, "no request for an empty symbol list")
}

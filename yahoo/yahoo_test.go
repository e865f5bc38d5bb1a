package yahoo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/etnz/momentum/date"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2025-01-02 and 2025-01-03 14:30 UTC, the NYSE open.
const aaplChart = `{"chart":{"result":[{
  "meta":{"symbol":"AAPL","gmtoffset":-18000},
  "timestamp":[1735828200,1735914600,1736173800],
  "indicators":{"quote":[{"close":[243.85,243.36,null]}],"adjclose":[{"adjclose":[242.75,242.26,null]}]}
}],"error":null}}`

const notFound = `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`

func TestProviderFetch(t *testing.T) {
	var agents []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		agents = append(agents, r.Header.Get("User-Agent"))
		switch r.URL.Path {
		case "/AAPL":
			w.Write([]byte(aaplChart))
		case "/GONE":
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(notFound))
		default:
			w.Write([]byte(notFound))
		}
	}))
	defer srv.Close()

	p := New(srv.Client(), nil)
	p.BaseURL = srv.URL + "/"
	got, err := p.Fetch(context.Background(), []string{"AAPL", "GONE", "NONE"}, date.Range{From: date.New(2025, 1, 1), To: date.New(2025, 1, 31)})
	require.NoError(t, err)
	require.Len(t, got, 1)

	h := got["AAPL"]
	require.NotNil(t, h)
	assert.Equal(t, 2, h.Len(), "null closes are skipped")
	v, ok := h.Get(date.New(2025, 1, 2))
	assert.True(t, ok)
	assert.InDelta(t, 242.75, v, 1e-9)

	for _, a := range agents {
		assert.Equal(t, userAgent, a)
	}
}

func TestParseChart_Error(t *testing.T) {
	_, err := parseChart(map[string]any{"chart": map[string]any{
		"result": nil,
		"error":  map[string]any{"description": "No data found"},
	}})
	assert.ErrorContains(t, err, "No data found")
}

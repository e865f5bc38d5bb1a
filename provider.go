package momentum

import (
	"context"

	"github.com/etnz/momentum/date"
)

// Provider retrieves adjusted daily closing prices from a market data source.
//
// Fetch returns one history per ticker it could retrieve. Tickers the source
// does not know are omitted from the map rather than failing the whole call;
// an error means the source itself is unusable.
type Provider interface {
	Name() string
	Fetch(ctx context.Context, tickers []string, r date.Range) (map[string]*date.History[float64], error)
}

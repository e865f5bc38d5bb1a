// Package momentum computes the 12-minus-1 month momentum factor over a
// universe of equities and ranks it cross-sectionally.
//
// The pipeline is strictly linear:
//   - Ticker sanitization: raw symbols are normalized to a canonical,
//     exchange-qualified form or rejected.
//   - Price loading: adjusted daily closes are retrieved from a [Provider]
//     over a lookback window.
//   - Momentum: daily prices are resampled to month ends, and the compounded
//     return over the trailing window, excluding the most recent month, is
//     computed for every ticker with enough history.
//   - Ranking: tickers are ranked by momentum and sliced into top and bottom
//     deciles.
//
// The package also hosts the sleeve analysis used to compare equal-weight
// sub-portfolios (value vs momentum) and their sector attribution.
//
// Everything is recomputed on each run: there is no persistent state apart
// from output files and a short-lived HTTP response cache.
package momentum

package momentum

import "errors"

var (
	// ErrNoTickers is returned when no ticker survives sanitization.
	ErrNoTickers = errors.New("no valid tickers after sanitization")
	// ErrNoPriceData is returned when the provider yields no usable price column.
	ErrNoPriceData = errors.New("no price data available")
	// ErrInsufficientHistory is returned when no ticker has enough monthly history.
	ErrInsufficientHistory = errors.New("no ticker has enough monthly history")
)

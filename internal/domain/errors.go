package domain

import "errors"

// Failures are classified by these sentinels so the cycle can decide
// what is fatal and what only skips one asset. Wrap them with %w.
var (
	ErrConfig          = errors.New("config error")
	ErrDataUnavailable = errors.New("data unavailable")
	ErrTransport       = errors.New("transport error")
	ErrDelivery        = errors.New("delivery error")
)

package models

import (
	"errors"
	"fmt"
)

// Error kinds the presentation layer must tell apart: "location not found"
// and "forecast unavailable" render as different messages, and a missing
// pattern model only hides the pattern panel.
var (
	ErrLocationNotFound = errors.New("location not found")
	ErrModelUnavailable = errors.New("pattern model unavailable")
)

// MalformedForecastError reports a provider payload with no usable entries.
// Individually bad entries are skipped and counted instead; this error only
// fires when nothing valid remains.
type MalformedForecastError struct {
	Reason  string
	Skipped int
}

func (e *MalformedForecastError) Error() string {
	if e.Skipped > 0 {
		return fmt.Sprintf("malformed forecast payload: %s (%d entries skipped)", e.Reason, e.Skipped)
	}
	return "malformed forecast payload: " + e.Reason
}

// IsMalformedForecast reports whether err wraps a MalformedForecastError.
func IsMalformedForecast(err error) bool {
	var target *MalformedForecastError
	return errors.As(err, &target)
}

package service

import "time"

// ReadingFilter selects readings by inclusive timestamp window.
type ReadingFilter struct {
	From time.Time // inclusive; zero means no lower bound
	To   time.Time // inclusive; zero means "now"
}

// LogFilter supports history filtering by time range and type.
type LogFilter struct {
	From time.Time // inclusive; zero means no lower bound
	To   time.Time // inclusive; zero means no upper bound
	Type string    // "", "READING", "TRANSPORT_ERROR", "STORE_ERROR"
}

package models

import "time"

// URL is a single shortened URL record. Records are immutable after
// creation except for the Clicks counter.
type URL struct {
	// ShortID is the unique identifier the full URL is registered under.
	ShortID string
	// FullURL is the original absolute URL the short identifier resolves to.
	FullURL string
	// Clicks is the number of successful redirects for this record.
	Clicks int64
	// CreatedAt is set once when the record is inserted.
	CreatedAt time.Time
}

package entities

import "time"

// DrugRow is one well-formed import row, ready for submission to the ledger.
// Line is the 1-based row number in the original file, kept for correlation
// in the user-facing report.
type DrugRow struct {
	Line      int       `json:"line"`
	Name      string    `json:"name"`
	Quantity  int64     `json:"quantity"`
	ExpiresAt time.Time `json:"expires_at"`
}

// RejectedRow tags a malformed or refused row with a human-readable reason.
type RejectedRow struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// RowReport partitions an import file. A malformed row never blocks
// classification of the others.
type RowReport struct {
	WellFormed []DrugRow
	Malformed  []RejectedRow
}

package entities

import "time"

type EntryType string

const (
	EntryTypeAdded     EntryType = "drug.added"
	EntryTypeDispensed EntryType = "drug.dispensed"
)

// AuditEntry records exactly one committed mutation. Entries are append-only,
// immutable once written, and totally ordered by Sequence. Added entries carry
// the full creation payload (Name, ExpiresAt) so that replaying the log from
// empty state reconstructs the drug table without consulting it.
type AuditEntry struct {
	Sequence      uint64    `json:"sequence"`
	EventID       string    `json:"event_id"`
	Type          EntryType `json:"type"`
	DrugID        uint64    `json:"drug_id"`
	QuantityDelta int64     `json:"quantity_delta"`
	Actor         string    `json:"actor"`
	Name          string    `json:"name,omitempty"`
	ExpiresAt     time.Time `json:"expires_at,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

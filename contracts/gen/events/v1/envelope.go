package v1

import (
	"encoding/json"
	"time"
)

// Envelope is the canonical, versioned audit event envelope exposed for
// external verification of the ledger. This package is generated-contract-only
// and must stay backward compatible.
type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	OccurredAt    time.Time       `json:"occurred_at"`
	SourceService string          `json:"source_service"`
	EntityType    string          `json:"entity_type"`
	EntityID      string          `json:"entity_id"`
	Sequence      uint64          `json:"sequence"`
	SchemaVersion int             `json:"schema_version"`
	Data          json.RawMessage `json:"data"`
}

package entities

import "time"

// BatchState is the derived lifecycle position of a drug batch. It is never
// stored; always recompute from quantity and the injected clock.
type BatchState string

const (
	BatchStateActive             BatchState = "active"
	BatchStatePartiallyDispensed BatchState = "partially_dispensed"
	BatchStateDepleted           BatchState = "depleted"
	BatchStateExpired            BatchState = "expired"
)

// Drug is one inventory batch. DrugID is assigned by the registry as a
// strictly increasing sequence starting at 1; Name, ExpiresAt, AddedBy and
// CreatedAt are immutable after creation; Quantity only ever decreases.
type Drug struct {
	DrugID           uint64    `json:"drug_id"`
	Name             string    `json:"name"`
	Quantity         int64     `json:"quantity"`
	OriginalQuantity int64     `json:"original_quantity"`
	ExpiresAt        time.Time `json:"expires_at"`
	AddedBy          string    `json:"added_by"`
	CreatedAt        time.Time `json:"created_at"`
}

// IsExpired reports whether the batch is ineligible for dispensing at now.
// Expiry exactly at now already counts as expired.
func (d Drug) IsExpired(now time.Time) bool {
	return !d.ExpiresAt.After(now)
}

// CanSupply reports whether amount could be dispensed from the remaining
// quantity, ignoring expiry.
func (d Drug) CanSupply(amount int64) bool {
	return amount > 0 && amount <= d.Quantity
}

// State derives the batch state at now. Expiry takes precedence over any
// quantity-derived state.
func (d Drug) State(now time.Time) BatchState {
	if d.IsExpired(now) {
		return BatchStateExpired
	}
	switch {
	case d.Quantity == 0:
		return BatchStateDepleted
	case d.Quantity < d.OriginalQuantity:
		return BatchStatePartiallyDispensed
	default:
		return BatchStateActive
	}
}

package projection

import (
	"fmt"

	"medledger/contexts/pharmacy-supply/inventory-ledger/domain/entities"
)

// Replay folds an audit log, ordered by sequence, into the drug table it
// describes. The log is the source of truth; the materialized table must
// always equal the result of replaying from empty state.
func Replay(entries []entities.AuditEntry) (map[uint64]entities.Drug, error) {
	drugs := make(map[uint64]entities.Drug, len(entries))
	var lastSequence uint64

	for _, entry := range entries {
		if entry.Sequence <= lastSequence {
			return nil, fmt.Errorf("audit log out of order at sequence %d", entry.Sequence)
		}
		lastSequence = entry.Sequence

		switch entry.Type {
		case entities.EntryTypeAdded:
			if _, exists := drugs[entry.DrugID]; exists {
				return nil, fmt.Errorf("duplicate added entry for drug %d at sequence %d", entry.DrugID, entry.Sequence)
			}
			if entry.QuantityDelta <= 0 {
				return nil, fmt.Errorf("non-positive creation quantity for drug %d at sequence %d", entry.DrugID, entry.Sequence)
			}
			drugs[entry.DrugID] = entities.Drug{
				DrugID:           entry.DrugID,
				Name:             entry.Name,
				Quantity:         entry.QuantityDelta,
				OriginalQuantity: entry.QuantityDelta,
				ExpiresAt:        entry.ExpiresAt,
				AddedBy:          entry.Actor,
				CreatedAt:        entry.OccurredAt,
			}
		case entities.EntryTypeDispensed:
			drug, exists := drugs[entry.DrugID]
			if !exists {
				return nil, fmt.Errorf("dispensed entry for unknown drug %d at sequence %d", entry.DrugID, entry.Sequence)
			}
			if !drug.CanSupply(entry.QuantityDelta) {
				return nil, fmt.Errorf("dispensed delta %d exceeds stock of drug %d at sequence %d", entry.QuantityDelta, entry.DrugID, entry.Sequence)
			}
			drug.Quantity -= entry.QuantityDelta
			drugs[entry.DrugID] = drug
		default:
			return nil, fmt.Errorf("unknown entry type %q at sequence %d", entry.Type, entry.Sequence)
		}
	}
	return drugs, nil
}
